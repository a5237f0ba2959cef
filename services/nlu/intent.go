package nlu

import (
	"regexp"
	"strings"

	"glowdesk/models"
)

// Confidence tiers for keyword classification.
const (
	confidenceStrong   = 0.9 // keyword longer than 6 characters
	confidenceWeak     = 0.7
	confidenceNone     = 0.3
	confidenceNegation = 0.2
)

// intentKeywords maps each intent to its match vocabulary. Matching is
// case-insensitive; the longest matching keyword across all intents wins,
// so "make an appointment" beats a bare "appointment" elsewhere.
var intentKeywords = map[models.IntentType][]string{
	models.IntentBook: {
		"book", "booking", "appointment", "make an appointment",
		"book an appointment", "schedule", "reserve", "come in",
		"fit me in", "squeeze me in",
	},
	models.IntentCancel: {
		"cancel my appointment", "cancel my booking", "cancel",
	},
	models.IntentReschedule: {
		"reschedule", "move my appointment", "change my appointment",
		"change the time", "push back my appointment", "different time",
	},
	models.IntentViewAppointments: {
		"my appointments", "my bookings", "upcoming appointments",
		"when is my appointment", "what do i have booked", "view my appointment",
	},
	models.IntentServices: {
		"services", "price list", "prices", "pricing", "how much",
		"what do you offer", "menu",
	},
	models.IntentHours: {
		"hours", "opening hours", "when are you open", "when do you close",
		"open today",
	},
	models.IntentHelp: {
		"help", "what can you do", "how does this work",
	},
	models.IntentGreeting: {
		"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	},
	models.IntentConfirmation: {
		"yes", "yep", "yeah", "yup", "confirm", "sure", "ok", "okay",
		"sounds good", "that works", "correct", "go ahead",
	},
}

// classifierOrder fixes the scan order so equal-length matches resolve
// the same way on every run.
var classifierOrder = []models.IntentType{
	models.IntentBook,
	models.IntentCancel,
	models.IntentReschedule,
	models.IntentViewAppointments,
	models.IntentServices,
	models.IntentHours,
	models.IntentHelp,
	models.IntentGreeting,
	models.IntentConfirmation,
}

// negationPhrases disown whatever else the message matched. Negation
// always wins so the dialogue engine never acts on a retracted intent.
var negationPhrases = []string{
	"don't want", "dont want", "do not want", "never mind", "nevermind",
	"cancel that", "forget it", "forget that", "not anymore",
	"changed my mind", "no thanks", "no thank you", "actually no",
	"scratch that",
}

// wordBoundaryCache holds compiled per-keyword patterns for single-word
// keywords, which would over-match as raw substrings ("hi" inside "this").
var wordBoundaryCache = map[string]*regexp.Regexp{}

func init() {
	for _, keywords := range intentKeywords {
		for _, kw := range keywords {
			if !strings.Contains(kw, " ") {
				wordBoundaryCache[kw] = regexp.MustCompile(`(^|[^a-z])` + regexp.QuoteMeta(kw) + `([^a-z]|$)`)
			}
		}
	}
}

func keywordMatches(lower, kw string) bool {
	if re, ok := wordBoundaryCache[kw]; ok {
		return re.MatchString(lower)
	}
	return strings.Contains(lower, kw)
}

// HasNegation reports whether the message contains a disowning phrase.
func HasNegation(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range negationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// declineWords are bare refusals. They only mean "no" when they are the
// whole message; "no color, just a cut" is a correction, not a decline.
var declineWords = map[string]bool{
	"no": true, "nope": true, "nah": true, "no way": true,
}

// IsDecline reports whether the message is a standalone refusal. The
// dialogue engine treats it like a negation at a yes/no question.
func IsDecline(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimRight(t, ".!,")
	return declineWords[t]
}

// ClassifyIntent scans the keyword tables and returns the winning intent
// with a confidence score. A negation phrase anywhere in the message
// forces IntentUnknown regardless of other matches.
func ClassifyIntent(text string) models.ParsedIntent {
	lower := strings.ToLower(text)

	if HasNegation(lower) {
		return models.ParsedIntent{
			Type:        models.IntentUnknown,
			Confidence:  confidenceNegation,
			HasNegation: true,
		}
	}

	var (
		bestIntent models.IntentType
		bestLen    int
	)
	for _, intent := range classifierOrder {
		for _, kw := range intentKeywords[intent] {
			if len(kw) > bestLen && keywordMatches(lower, kw) {
				bestIntent = intent
				bestLen = len(kw)
			}
		}
	}

	if bestLen == 0 {
		return models.ParsedIntent{Type: models.IntentUnknown, Confidence: confidenceNone}
	}

	confidence := confidenceWeak
	if bestLen > 6 {
		confidence = confidenceStrong
	}
	return models.ParsedIntent{Type: bestIntent, Confidence: confidence}
}
