package availability

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// How far the engine searches and how much it offers when a candidate
// slot is rejected.
const (
	maxNearbySameDay  = 5 // nearest alternative starts on the same date
	maxAltStartTimes  = 3 // alternative starts with full duration runway
	maxAltDates       = 3 // forward dates offered when a day is full
	forwardSearchDays = 7
	slotsPerAltDate   = 3
)

// Request is a candidate booking to validate.
type Request struct {
	Date            string // "2006-01-02"
	Time            string // "15:04"
	StylistID       string
	DurationMinutes int
}

// Validate runs the full pipeline for a candidate slot: past-date check,
// business-hours check, single-slot availability, then consecutive
// capacity for the service's whole duration. Only a candidate that passes
// all four may be offered for confirmation.
func (e *Engine) Validate(ctx context.Context, req Request) error {
	day, err := time.ParseInLocation(dateLayout, req.Date, e.location())
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", req.Date, err)
	}
	reqMinute, err := clockToMinutes(req.Time)
	if err != nil {
		return err
	}

	// 1. Past-date check, salon-local.
	if req.Date < e.Today() {
		return &ValidationError{
			Code:    CodePastDate,
			Message: fmt.Sprintf("%s has already passed", day.Format("Monday, Jan 2")),
		}
	}

	// 2. Business-hours check.
	open, close, closed := e.hoursFor(ctx, day)
	if closed {
		return &ValidationError{
			Code:    CodeOutsideHours,
			Message: fmt.Sprintf("we're closed on %s", day.Format("Monday, Jan 2")),
		}
	}
	if reqMinute < open {
		return &ValidationError{
			Code:          CodeOutsideHours,
			Message:       fmt.Sprintf("we open at %s", minutesToClock(open)),
			SuggestedTime: minutesToClock(open),
		}
	}
	lastStart := close - e.interval()
	if reqMinute >= close {
		return &ValidationError{
			Code:          CodeOutsideHours,
			Message:       fmt.Sprintf("we close at %s; the last start time is %s", minutesToClock(close), minutesToClock(lastStart)),
			SuggestedTime: minutesToClock(lastStart),
		}
	}

	slots, err := e.Slots(ctx, req.Date, req.StylistID)
	if err != nil {
		return err
	}
	free := make(map[int]bool, len(slots))
	for _, s := range slots {
		if m, err := clockToMinutes(s); err == nil {
			free[m] = true
		}
	}

	// 3. Single-slot availability.
	if !free[reqMinute] {
		if len(slots) > 0 {
			return &ConflictError{
				Code:         CodeSlotTaken,
				Message:      fmt.Sprintf("%s on %s is already taken", req.Time, req.Date),
				Alternatives: nearestSlots(slots, reqMinute, maxNearbySameDay),
			}
		}
		altDates, err := e.forwardDates(ctx, req.Date, req.StylistID)
		if err != nil {
			return err
		}
		return &ConflictError{
			Code:     CodeSlotTaken,
			Message:  fmt.Sprintf("nothing is open on %s", req.Date),
			AltDates: altDates,
		}
	}

	// 4. Consecutive-capacity check across the service's full duration.
	step := e.interval()
	needed := (req.DurationMinutes + step - 1) / step
	if needed < 1 {
		needed = 1
	}
	if hasRun(free, reqMinute, needed, step) {
		return nil
	}

	var starts []int
	for _, s := range slots {
		m, err := clockToMinutes(s)
		if err != nil {
			continue
		}
		if m+needed*step <= close && hasRun(free, m, needed, step) {
			starts = append(starts, m)
		}
	}
	if len(starts) == 0 {
		return &ConflictError{
			Code: CodeInsufficientCapacity,
			Message: fmt.Sprintf("no opening on %s is long enough for %d minutes",
				req.Date, req.DurationMinutes),
		}
	}

	sortByProximity(starts, reqMinute)
	if len(starts) > maxAltStartTimes {
		starts = starts[:maxAltStartTimes]
	}
	alts := make([]string, 0, len(starts))
	for _, m := range starts {
		alts = append(alts, minutesToClock(m))
	}
	return &ConflictError{
		Code: CodeInsufficientCapacity,
		Message: fmt.Sprintf("%s is free but the following slots can't fit %d minutes",
			req.Time, req.DurationMinutes),
		Alternatives: alts,
	}
}

// hasRun reports whether `needed` consecutive grid slots starting at
// `start` are all free.
func hasRun(free map[int]bool, start, needed, step int) bool {
	for i := 0; i < needed; i++ {
		if !free[start+i*step] {
			return false
		}
	}
	return true
}

// nearestSlots picks up to n slots sorted by absolute distance from the
// requested minute, earlier time breaking ties.
func nearestSlots(slots []string, reqMinute, n int) []string {
	minutes := make([]int, 0, len(slots))
	for _, s := range slots {
		if m, err := clockToMinutes(s); err == nil {
			minutes = append(minutes, m)
		}
	}
	sortByProximity(minutes, reqMinute)
	if len(minutes) > n {
		minutes = minutes[:n]
	}
	out := make([]string, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, minutesToClock(m))
	}
	return out
}

func sortByProximity(minutes []int, reqMinute int) {
	sort.Slice(minutes, func(i, j int) bool {
		di, dj := abs(minutes[i]-reqMinute), abs(minutes[j]-reqMinute)
		if di != dj {
			return di < dj
		}
		return minutes[i] < minutes[j]
	})
}

// forwardDates searches up to a week ahead for the first dates with any
// openings and returns each with its first few slots.
func (e *Engine) forwardDates(ctx context.Context, fromDate, stylistID string) ([]DateSuggestion, error) {
	day, err := time.ParseInLocation(dateLayout, fromDate, e.location())
	if err != nil {
		return nil, err
	}

	var out []DateSuggestion
	for i := 1; i <= forwardSearchDays && len(out) < maxAltDates; i++ {
		d := day.AddDate(0, 0, i)
		dateStr := d.Format(dateLayout)
		slots, err := e.Slots(ctx, dateStr, stylistID)
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}
		if len(slots) > slotsPerAltDate {
			slots = slots[:slotsPerAltDate]
		}
		out = append(out, DateSuggestion{
			Date:    dateStr,
			Display: d.Format("Monday, Jan 2"),
			Slots:   slots,
		})
	}
	return out, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
