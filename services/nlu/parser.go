package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"glowdesk/models"
)

// Parser bundles the classifier and extractors with their tunables so the
// dialogue engine can parse a whole message in one call.
type Parser struct {
	AssumePMMaxHour   int // 0 disables the bare-hour PM heuristic
	SpecificityMargin int
	Now               func() time.Time
}

// Parse classifies the message and extracts every entity it can. The
// result is ephemeral; the dialogue engine merges it into the stored
// conversation context.
func (p *Parser) Parse(text string, categories []models.ServiceCategory, roster []models.Stylist) models.ParsedIntent {
	intent := ClassifyIntent(text)
	if intent.HasNegation {
		return intent
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	match, ambiguous := MatchCategory(text, categories, p.SpecificityMargin)
	intent.Category = match
	intent.AmbiguousCategories = ambiguous

	intent.Date = ParseDate(text, now)
	intent.Time = ParseTime(text, p.AssumePMMaxHour)
	intent.Stylist = MatchStylist(text, roster)
	intent.MultipleDates = HasMultipleDates(text)

	return intent
}

var ordinalWords = []struct {
	word string
	n    int
}{
	{"first", 1}, {"second", 2}, {"third", 3}, {"fourth", 4}, {"fifth", 5},
	{"last", -1},
}

var reOrdinalDigit = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\b`)

// ParseOrdinal reads a selection like "first", "2" or "2nd" as a 1-based
// index, clamped to max. "last" maps to max. It returns 0 when the
// message holds no usable selection.
func ParseOrdinal(text string, max int) int {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, o := range ordinalWords {
		if strings.Contains(lower, o.word) {
			if o.n == -1 {
				return max
			}
			if o.n <= max {
				return o.n
			}
			return 0
		}
	}

	if m := reOrdinalDigit.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= max {
			return n
		}
	}
	return 0
}

var reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ParseEmail extracts the first email address in the message, if any.
func ParseEmail(text string) string {
	return reEmail.FindString(text)
}

// IsBackRequest reports whether the customer asked to undo the last step.
func IsBackRequest(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	switch lower {
	case "back", "go back", "undo", "previous", "previous step":
		return true
	}
	return false
}
