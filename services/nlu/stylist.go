package nlu

import (
	"strings"

	"glowdesk/models"
)

// anyStylistPhrases mark an explicit "no preference", which is distinct
// from not mentioning a stylist at all.
var anyStylistPhrases = []string{
	"any stylist", "anyone", "any one", "no preference", "whoever",
	"doesn't matter", "doesnt matter", "don't care", "dont care",
}

// MatchStylist resolves a stylist preference against the roster. It
// returns nil when the message neither names a stylist nor declines to —
// the dialogue engine may still prompt in that case. A single-stylist
// roster is auto-assigned so the question is skipped entirely.
func MatchStylist(text string, roster []models.Stylist) *models.StylistMatch {
	lower := strings.ToLower(text)

	for _, phrase := range anyStylistPhrases {
		if strings.Contains(lower, phrase) {
			return &models.StylistMatch{AnyStylist: true}
		}
	}

	for i := range roster {
		name := strings.ToLower(roster[i].Name)
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) {
			return &models.StylistMatch{Stylist: &roster[i]}
		}
		if first := strings.Fields(name); len(first) > 0 && wordPresent(lower, first[0]) {
			return &models.StylistMatch{Stylist: &roster[i]}
		}
	}

	if len(roster) == 1 {
		return &models.StylistMatch{Stylist: &roster[0]}
	}

	return nil
}

func wordPresent(lower, word string) bool {
	idx := strings.Index(lower, word)
	for idx >= 0 {
		beforeOK := idx == 0 || !isLetter(lower[idx-1])
		end := idx + len(word)
		afterOK := end >= len(lower) || !isLetter(lower[end])
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(lower[idx+1:], word)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
