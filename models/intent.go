package models

// IntentType identifies what the customer wants from a single message.
type IntentType string

const (
	IntentBook             IntentType = "book"
	IntentCancel           IntentType = "cancel"
	IntentReschedule       IntentType = "reschedule"
	IntentViewAppointments IntentType = "view_appointments"
	IntentServices         IntentType = "services"
	IntentHours            IntentType = "hours"
	IntentHelp             IntentType = "help"
	IntentGreeting         IntentType = "greeting"
	IntentConfirmation     IntentType = "confirmation"
	IntentUnknown          IntentType = "unknown"
)

// ParsedIntent is the per-message result of intent classification and
// entity extraction. It is ephemeral: built, merged into the stored
// conversation context, and discarded within one turn.
type ParsedIntent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`

	Category *CategoryMatch `json:"category,omitempty"`
	Date     *DateMatch     `json:"date,omitempty"`
	Time     *TimeMatch     `json:"time,omitempty"`
	Stylist  *StylistMatch  `json:"stylist,omitempty"`

	// AmbiguousCategories is non-empty only when two or more categories
	// tie within the specificity margin.
	AmbiguousCategories []ServiceCategory `json:"ambiguousCategories,omitempty"`

	// HasNegation means a disowning phrase was present; the intent has
	// already been downgraded to IntentUnknown.
	HasNegation bool `json:"hasNegation"`

	// MultipleDates means the message contained two inline date mentions
	// (e.g. "from the 12th to the 14th"); the dialogue engine escalates
	// these instead of guessing which date was meant.
	MultipleDates bool `json:"multipleDates"`
}

// CategoryMatch is a resolved service category with the length of the
// keyword that matched it (longer keyword = more specific match).
type CategoryMatch struct {
	Category ServiceCategory `json:"category"`
	MatchLen int             `json:"matchLen"`
}

// DateMatch carries the raw matched text, the resolved calendar date and
// a human-readable form for echoing back to the customer.
type DateMatch struct {
	Raw     string `json:"raw"`
	Date    string `json:"date"`    // "2006-01-02"
	Display string `json:"display"` // e.g. "Friday, Mar 14"
}

// TimeMatch is a resolved time of day. Either Time is set (exact, 24h
// "15:04") or Range is set (coarse period such as "morning"), never both.
type TimeMatch struct {
	Time    string     `json:"time,omitempty"`
	Display string     `json:"display,omitempty"` // e.g. "2:00 PM"
	Range   *TimeRange `json:"range,omitempty"`
}

// TimeRange is a coarse period of the day.
type TimeRange struct {
	Label string `json:"label"` // "morning", "afternoon", "evening"
	From  string `json:"from"`  // inclusive, "15:04"
	To    string `json:"to"`    // exclusive, "15:04"
}

// StylistMatch resolves a stylist preference. AnyStylist marks an explicit
// "no preference"; a nil *StylistMatch upstream means unspecified, which
// the dialogue engine may still prompt for.
type StylistMatch struct {
	AnyStylist bool     `json:"anyStylist"`
	Stylist    *Stylist `json:"stylist,omitempty"`
}
