package nlu

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"glowdesk/models"
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

const weekdayAlt = `sunday|sun|monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat`

var (
	reWeekday  = regexp.MustCompile(`\b(next\s+)?(` + weekdayAlt + `)\b`)
	reInUnits  = regexp.MustCompile(`\bin\s+(\d+)\s+(day|week)s?\b`)
	reMonthDay = regexp.MustCompile(`\b(` + monthAlt + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)
	reDayMonth = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthAlt + `)(?:,?\s*(\d{4}))?\b`)

	// ISO form produced by quick-reply tokens, e.g. "2026-03-14".
	reISODate = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

	// Bare ordinal day, e.g. "the 12th" — only counted for ambiguity
	// detection, never resolved to a date on its own.
	reBareOrdinal = regexp.MustCompile(`\bthe\s+(\d{1,2})(?:st|nd|rd|th)\b`)
)

const displayDateLayout = "Monday, Jan 2"

// ParseDate resolves a date phrase relative to now, in priority order:
// today/tomorrow, weekday names ("next X" forcing the following week),
// "in N days/weeks", then explicit month-day or day-month forms. A
// yearless date that already passed this year rolls forward a year.
func ParseDate(text string, now time.Time) *models.DateMatch {
	lower := strings.ToLower(text)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if m := reISODate.FindStringSubmatch(lower); m != nil {
		if d, err := time.ParseInLocation("2006-01-02", m[0], now.Location()); err == nil {
			return newDateMatch(m[0], d)
		}
	}

	if strings.Contains(lower, "today") {
		return newDateMatch("today", today)
	}
	if strings.Contains(lower, "tomorrow") || strings.Contains(lower, "tmrw") {
		return newDateMatch("tomorrow", today.AddDate(0, 0, 1))
	}

	if m := reWeekday.FindStringSubmatch(lower); m != nil {
		target := weekdaysByName[m[2]]
		delta := (int(target) - int(today.Weekday()) + 7) % 7
		if m[1] != "" {
			// "next X" always means the following week.
			delta += 7
		} else if delta == 0 {
			delta = 7
		}
		return newDateMatch(strings.TrimSpace(m[0]), today.AddDate(0, 0, delta))
	}

	if m := reInUnits.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		days := n
		if m[2] == "week" {
			days = n * 7
		}
		return newDateMatch(m[0], today.AddDate(0, 0, days))
	}

	if m := reMonthDay.FindStringSubmatch(lower); m != nil {
		return explicitDate(m[0], m[1], m[2], m[3], today)
	}
	if m := reDayMonth.FindStringSubmatch(lower); m != nil {
		return explicitDate(m[0], m[2], m[1], m[3], today)
	}

	return nil
}

// HasMultipleDates reports whether the message carries two or more inline
// date mentions (e.g. "from the 12th to the 14th"). The engine escalates
// such messages instead of guessing which date was meant. Overlapping
// pattern hits are merged first: "the 14th of march" is one mention even
// though both the day-month and bare-ordinal patterns claim a piece of it.
func HasMultipleDates(text string) bool {
	lower := strings.ToLower(text)

	var spans [][]int
	for _, re := range []*regexp.Regexp{reISODate, reMonthDay, reDayMonth, reBareOrdinal} {
		spans = append(spans, re.FindAllStringIndex(lower, -1)...)
	}
	count := countMergedSpans(spans)
	if strings.Contains(lower, "today") {
		count++
	}
	if strings.Contains(lower, "tomorrow") {
		count++
	}
	return count >= 2
}

func countMergedSpans(spans [][]int) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	count := 1
	end := spans[0][1]
	for _, s := range spans[1:] {
		if s[0] >= end {
			count++
		}
		if s[1] > end {
			end = s[1]
		}
	}
	return count
}

func explicitDate(raw, monthName, dayStr, yearStr string, today time.Time) *models.DateMatch {
	month, ok := monthsByName[monthName]
	if !ok {
		return nil
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return nil
	}

	year := today.Year()
	explicitYear := false
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
			explicitYear = true
		}
	}

	resolved := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if !explicitYear && resolved.Before(today) {
		resolved = resolved.AddDate(1, 0, 0)
	}
	return newDateMatch(strings.TrimSpace(raw), resolved)
}

func newDateMatch(raw string, date time.Time) *models.DateMatch {
	return &models.DateMatch{
		Raw:     raw,
		Date:    date.Format("2006-01-02"),
		Display: date.Format(displayDateLayout),
	}
}
