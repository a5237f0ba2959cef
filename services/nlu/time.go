package nlu

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"glowdesk/models"
)

// DefaultAssumePMMaxHour treats a bare hour 1..7 with no AM/PM marker as
// PM: salon traffic skews afternoon and evening. Tunable via
// ASSUME_PM_MAX_HOUR; 0 disables the heuristic.
const DefaultAssumePMMaxHour = 7

// Coarse day periods returned when the customer names one instead of an
// exact time.
var dayPeriods = map[string]models.TimeRange{
	"morning":   {Label: "morning", From: "09:00", To: "12:00"},
	"afternoon": {Label: "afternoon", From: "12:00", To: "17:00"},
	"evening":   {Label: "evening", From: "17:00", To: "19:00"},
}

var (
	reAtTime   = regexp.MustCompile(`\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	reAmPmTime = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	re24hTime  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// ParseTime extracts a time of day. The match order is chosen so that a
// day-of-month number never misfires as a time: "2 jan" has no "at"
// prefix, no am/pm suffix and no colon, so none of the patterns apply.
func ParseTime(text string, assumePMMaxHour int) *models.TimeMatch {
	lower := strings.ToLower(text)

	for _, name := range []string{"morning", "afternoon", "evening"} {
		if strings.Contains(lower, name) {
			p := dayPeriods[name]
			return &models.TimeMatch{Range: &p, Display: name}
		}
	}

	if m := reAtTime.FindStringSubmatch(lower); m != nil {
		return resolveClockTime(m[1], m[2], m[3], assumePMMaxHour)
	}
	if m := reAmPmTime.FindStringSubmatch(lower); m != nil {
		return resolveClockTime(m[1], m[2], m[3], assumePMMaxHour)
	}
	if m := re24hTime.FindStringSubmatch(lower); m != nil {
		return resolveClockTime(m[1], m[2], "", assumePMMaxHour)
	}

	return nil
}

func resolveClockTime(hourStr, minStr, meridiem string, assumePMMaxHour int) *models.TimeMatch {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 23 {
		return nil
	}
	minute := 0
	if minStr != "" {
		minute, err = strconv.Atoi(minStr)
		if err != nil || minute > 59 {
			return nil
		}
	}

	switch meridiem {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	default:
		if assumePMMaxHour < 0 {
			assumePMMaxHour = DefaultAssumePMMaxHour
		}
		if hour >= 1 && hour <= assumePMMaxHour {
			hour += 12
		}
	}

	return &models.TimeMatch{
		Time:    fmt.Sprintf("%02d:%02d", hour, minute),
		Display: DisplayTime(hour, minute),
	}
}

// DisplayTime renders a 24h clock time in 12-hour form, e.g. "2:30 PM".
func DisplayTime(hour, minute int) string {
	suffix := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		display = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}
