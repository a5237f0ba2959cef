package availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"glowdesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday, March 2 2026, 10:05 salon-local.
var testNow = time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)

type fakeAppointments struct {
	appts []models.Appointment
	err   error
}

func (f *fakeAppointments) Create(a *models.Appointment) error {
	f.appts = append(f.appts, *a)
	return nil
}

func (f *fakeAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			return &f.appts[i], nil
		}
	}
	return nil, fmt.Errorf("appointment %s not found", id)
}

func (f *fakeAppointments) Update(id string, a *models.Appointment) error {
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i] = *a
			return nil
		}
	}
	return fmt.Errorf("appointment %s not found", id)
}

func (f *fakeAppointments) SetStatus(id string, status string) error {
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("appointment %s not found", id)
}

func (f *fakeAppointments) GetByDate(date string, stylistID string) ([]models.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Date != date || a.Status != models.AppointmentConfirmed {
			continue
		}
		if stylistID != "" && a.StylistID != stylistID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointments) GetUpcomingByEmail(email string, fromDate string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.CustomerEmail == email && a.Date >= fromDate && a.Status == models.AppointmentConfirmed {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeBlocked struct {
	blocks []models.BlockedSlot
}

func (f *fakeBlocked) GetByDate(date string) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	for _, b := range f.blocks {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBlocked) Create(b *models.BlockedSlot) error {
	f.blocks = append(f.blocks, *b)
	return nil
}

func (f *fakeBlocked) Delete(id string) error { return nil }

type fakeCatalog struct {
	categories []models.ServiceCategory
	stylists   []models.Stylist
	hours      []models.BusinessHours
}

func (f *fakeCatalog) GetCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return f.categories, nil
}

func (f *fakeCatalog) GetCategoryByID(ctx context.Context, id string) (*models.ServiceCategory, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %s not found", id)
}

func (f *fakeCatalog) GetStylists(ctx context.Context) ([]models.Stylist, error) {
	return f.stylists, nil
}

func (f *fakeCatalog) GetBusinessHours(ctx context.Context) ([]models.BusinessHours, error) {
	return f.hours, nil
}

func confirmed(id, date, clock string, duration int, stylistID string) models.Appointment {
	return models.Appointment{
		ID: id, Date: date, Time: clock,
		DurationMinutes: duration, StylistID: stylistID,
		Status: models.AppointmentConfirmed,
	}
}

// 9:00–19:00 at 30-minute granularity, fixed clock.
func testEngine(appts *fakeAppointments, blocked *fakeBlocked) *Engine {
	return &Engine{
		Appointments: appts,
		Blocked:      blocked,
		Catalog:      &fakeCatalog{},
		OpenMinute:   540,
		CloseMinute:  1140,
		SlotInterval: 30,
		Location:     time.UTC,
		Now:          func() time.Time { return testNow },
	}
}

func TestSlotsFullGrid(t *testing.T) {
	e := testEngine(&fakeAppointments{}, &fakeBlocked{})

	slots, err := e.Slots(context.Background(), "2026-03-06", "")
	require.NoError(t, err)
	require.Len(t, slots, 20)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "18:30", slots[len(slots)-1])
}

func TestSlotsBookingOccupiesWholeDuration(t *testing.T) {
	appts := &fakeAppointments{appts: []models.Appointment{
		// 70 minutes rounds up to three 30-minute slots.
		confirmed("a1", "2026-03-06", "10:00", 70, ""),
	}}
	e := testEngine(appts, &fakeBlocked{})

	slots, err := e.Slots(context.Background(), "2026-03-06", "")
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "10:30")
	assert.NotContains(t, slots, "11:00")
	assert.Contains(t, slots, "11:30")
	assert.Contains(t, slots, "09:30")
}

func TestSlotsBlockedSlotRemoved(t *testing.T) {
	blocked := &fakeBlocked{blocks: []models.BlockedSlot{
		{ID: "b1", Date: "2026-03-06", Time: "12:00", Reason: "staff meeting"},
	}}
	e := testEngine(&fakeAppointments{}, blocked)

	slots, err := e.Slots(context.Background(), "2026-03-06", "")
	require.NoError(t, err)
	assert.NotContains(t, slots, "12:00")
	assert.Contains(t, slots, "12:30")
}

func TestSlotsStylistScoping(t *testing.T) {
	appts := &fakeAppointments{appts: []models.Appointment{
		confirmed("a1", "2026-03-06", "10:00", 30, "sty-maya"),
	}}
	blocked := &fakeBlocked{blocks: []models.BlockedSlot{
		{ID: "b1", Date: "2026-03-06", Time: "15:00", StylistID: "sty-maya"},
	}}
	e := testEngine(appts, blocked)

	// Maya's own grid loses both.
	slots, err := e.Slots(context.Background(), "2026-03-06", "sty-maya")
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "15:00")

	// Jordan keeps the appointment slot but a stylist-specific block
	// doesn't bind him.
	slots, err = e.Slots(context.Background(), "2026-03-06", "sty-jordan")
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
	assert.Contains(t, slots, "15:00")
}

func TestSlotsTodayDropsPastTimes(t *testing.T) {
	e := testEngine(&fakeAppointments{}, &fakeBlocked{})

	// The clock reads 10:05, so 10:00 and earlier are gone.
	slots, err := e.Slots(context.Background(), "2026-03-02", "")
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:30", slots[0])
	assert.NotContains(t, slots, "09:00")
	assert.NotContains(t, slots, "10:00")
}

func TestSlotsStoredWeeklyHoursPreferred(t *testing.T) {
	e := testEngine(&fakeAppointments{}, &fakeBlocked{})
	e.Catalog = &fakeCatalog{hours: []models.BusinessHours{
		{Weekday: time.Friday, OpenMinute: 600, CloseMinute: 720},
		{Weekday: time.Sunday, Closed: true},
	}}

	// Friday 2026-03-06: 10:00–12:00 only.
	slots, err := e.Slots(context.Background(), "2026-03-06", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, slots)

	// Sunday 2026-03-08: closed.
	slots, err = e.Slots(context.Background(), "2026-03-08", "")
	require.NoError(t, err)
	assert.Empty(t, slots)
}
