package availability

import "fmt"

// Validation error codes.
const (
	CodePastDate     = "past_date"
	CodeOutsideHours = "outside_hours"
)

// Conflict error codes.
const (
	CodeSlotTaken            = "slot_taken"
	CodeInsufficientCapacity = "insufficient_capacity"
)

// ValidationError rejects a candidate before availability is even
// consulted: the date is in the past or the time falls outside business
// hours. SuggestedTime carries the nearest bookable boundary.
type ValidationError struct {
	Code          string
	Message       string
	SuggestedTime string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DateSuggestion is an alternative date with its first open start times.
type DateSuggestion struct {
	Date    string   `json:"date"`
	Display string   `json:"display"`
	Slots   []string `json:"slots"`
}

// ConflictError rejects a candidate that clashes with existing bookings
// or blocks. Alternatives lists other start times on the same date,
// nearest to the request first; AltDates lists forward dates with
// openings when the whole day is full.
type ConflictError struct {
	Code         string
	Message      string
	Alternatives []string
	AltDates     []DateSuggestion
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
