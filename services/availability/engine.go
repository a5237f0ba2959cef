package availability

import (
	"context"
	"fmt"
	"time"

	"glowdesk/database/repository"
	appointmentRepo "glowdesk/database/repository/appointment"
	catalogRepo "glowdesk/database/repository/catalog"
	"glowdesk/utils"

	"go.uber.org/zap"
)

// Engine turns business hours, existing appointments and admin-blocked
// slots into a validated, duration-aware list of free start times on the
// salon's fixed scheduling grid.
type Engine struct {
	Appointments appointmentRepo.AppointmentRepository
	Blocked      repository.BlockedRepository
	Catalog      catalogRepo.CatalogRepository

	// Fallback hours when no weekly schedule is stored.
	OpenMinute  int
	CloseMinute int

	SlotInterval int // grid granularity in minutes
	Location     *time.Location
	Now          func() time.Time
}

const dateLayout = "2006-01-02"

func (e *Engine) interval() int {
	if e.SlotInterval <= 0 {
		return 30
	}
	return e.SlotInterval
}

func (e *Engine) location() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return e.Location
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().In(e.location())
	}
	return time.Now().In(e.location())
}

// Today returns the current date in the salon's timezone.
func (e *Engine) Today() string {
	return e.now().Format(dateLayout)
}

// hoursFor resolves the open window for a date, preferring stored weekly
// hours over the configured fallback.
func (e *Engine) hoursFor(ctx context.Context, day time.Time) (open, close int, closed bool) {
	open, close = e.OpenMinute, e.CloseMinute
	if e.Catalog == nil {
		return open, close, close <= open
	}
	hours, err := e.Catalog.GetBusinessHours(ctx)
	if err != nil {
		utils.GetLogger().Warn("falling back to configured hours",
			zap.String("date", day.Format(dateLayout)), zap.Error(err))
		return open, close, close <= open
	}
	for _, h := range hours {
		if h.Weekday == day.Weekday() {
			if h.Closed {
				return 0, 0, true
			}
			return h.OpenMinute, h.CloseMinute, false
		}
	}
	return open, close, close <= open
}

// Slots returns the free start times ("15:04", sorted) for a date. A
// stylist id narrows bookings and blocks to that stylist; when empty,
// every booking and block counts against the grid. Slots at or before
// the current salon-local time are dropped when the date is today.
func (e *Engine) Slots(ctx context.Context, date string, stylistID string) ([]string, error) {
	day, err := time.ParseInLocation(dateLayout, date, e.location())
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	open, close, closed := e.hoursFor(ctx, day)
	if closed {
		return nil, nil
	}

	step := e.interval()
	taken := make(map[int]bool)

	appts, err := e.Appointments.GetByDate(date, stylistID)
	if err != nil {
		return nil, fmt.Errorf("fetching appointments for %s: %w", date, err)
	}
	for _, a := range appts {
		start, err := clockToMinutes(a.Time)
		if err != nil {
			utils.GetLogger().Warn("skipping appointment with bad time",
				zap.String("id", a.ID), zap.String("time", a.Time))
			continue
		}
		for _, m := range occupiedSlots(start, a.DurationMinutes, step) {
			taken[m] = true
		}
	}

	blocks, err := e.Blocked.GetByDate(date)
	if err != nil {
		return nil, fmt.Errorf("fetching blocked slots for %s: %w", date, err)
	}
	for _, b := range blocks {
		if b.StylistID != "" && stylistID != "" && b.StylistID != stylistID {
			continue
		}
		if m, err := clockToMinutes(b.Time); err == nil {
			taken[m] = true
		}
	}

	now := e.now()
	isToday := date == now.Format(dateLayout)
	nowMinute := now.Hour()*60 + now.Minute()

	var free []string
	for m := open; m+step <= close; m += step {
		if taken[m] {
			continue
		}
		if isToday && m <= nowMinute {
			continue
		}
		free = append(free, minutesToClock(m))
	}
	return free, nil
}

// occupiedSlots lists the grid slots a booking covers: ceil(duration/step)
// consecutive slots from its start.
func occupiedSlots(start, duration, step int) []int {
	n := (duration + step - 1) / step
	if n < 1 {
		n = 1
	}
	slots := make([]int, 0, n)
	for i := 0; i < n; i++ {
		slots = append(slots, start+i*step)
	}
	return slots
}

func clockToMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
