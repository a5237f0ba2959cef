package dialog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"glowdesk/models"
	"glowdesk/services/availability"
	"glowdesk/services/booking"
	"glowdesk/services/nlu"
	"glowdesk/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday, March 2 2026, 10:05 salon-local.
var testNow = time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)

// --- test doubles ---

type memStore struct {
	contexts map[string]models.BookingContext
}

func newMemStore() *memStore {
	return &memStore{contexts: make(map[string]models.BookingContext)}
}

func (m *memStore) Get(ctx context.Context, key string) (*models.BookingContext, error) {
	bc, ok := m.contexts[key]
	if !ok {
		return nil, nil
	}
	copy := bc
	return &copy, nil
}

func (m *memStore) Save(ctx context.Context, key string, bc *models.BookingContext) error {
	m.contexts[key] = *bc
	return nil
}

func (m *memStore) Clear(ctx context.Context, key string) error {
	delete(m.contexts, key)
	return nil
}

var _ session.Store = (*memStore)(nil)

type fakeExecutor struct {
	created     []booking.CreateRequest
	cancelled   []string
	rescheduled []string
	upcoming    []models.Appointment
}

func (f *fakeExecutor) Create(ctx context.Context, req booking.CreateRequest) (*models.Appointment, error) {
	f.created = append(f.created, req)
	return &models.Appointment{
		ID:            "appt-new",
		CustomerEmail: req.CustomerEmail,
		CategoryName:  req.CategoryName,
		StylistName:   req.StylistName,
		Date:          req.Date,
		Time:          req.Time,
		Status:        models.AppointmentConfirmed,
	}, nil
}

func (f *fakeExecutor) Cancel(ctx context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeExecutor) Reschedule(ctx context.Context, id, newDate, newTime string) (*models.Appointment, error) {
	f.rescheduled = append(f.rescheduled, id)
	return &models.Appointment{
		ID: id, CategoryName: "Haircut", Date: newDate, Time: newTime,
		Status: models.AppointmentConfirmed,
	}, nil
}

func (f *fakeExecutor) FindByIdentity(ctx context.Context, email string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.upcoming {
		if a.CustomerEmail == email {
			out = append(out, a)
		}
	}
	return out, nil
}

var _ booking.Executor = (*fakeExecutor)(nil)

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

type fakeAppointments struct{ appts []models.Appointment }

func (f *fakeAppointments) Create(a *models.Appointment) error { return nil }
func (f *fakeAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return nil, fmt.Errorf("not found")
}
func (f *fakeAppointments) Update(id string, a *models.Appointment) error  { return nil }
func (f *fakeAppointments) SetStatus(id string, status string) error       { return nil }
func (f *fakeAppointments) GetByDate(date, stylistID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}
func (f *fakeAppointments) GetUpcomingByEmail(email, fromDate string) ([]models.Appointment, error) {
	return nil, nil
}

type fakeBlocked struct{}

func (fakeBlocked) GetByDate(date string) ([]models.BlockedSlot, error) { return nil, nil }
func (fakeBlocked) Create(b *models.BlockedSlot) error                  { return nil }
func (fakeBlocked) Delete(id string) error                              { return nil }

func testCategories() []models.ServiceCategory {
	return []models.ServiceCategory{
		{
			ID: "cat-haircut", Slug: "haircut", Name: "Haircut",
			Keywords:        []string{"haircut", "cut", "trim"},
			DurationMinutes: 45, PriceNote: "from $40",
		},
		{
			ID: "cat-keratin", Slug: "keratin-treatment", Name: "Keratin Treatment",
			Keywords:        []string{"keratin treatment", "keratin", "treatment"},
			DurationMinutes: 90, PriceNote: "from $120",
		},
		{
			ID: "cat-scalp", Slug: "scalp-treatment", Name: "Scalp Treatment",
			Keywords:        []string{"scalp treatment", "scalp", "treatment"},
			DurationMinutes: 60, PriceNote: "from $70",
		},
	}
}

type fixture struct {
	engine   *Engine
	store    *memStore
	executor *fakeExecutor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	executor := &fakeExecutor{}
	catalog := &fakeCatalog{
		categories: testCategories(),
		stylists:   []models.Stylist{{ID: "sty-maya", Name: "Maya Chen"}},
	}
	avail := &availability.Engine{
		Appointments: &fakeAppointments{},
		Blocked:      fakeBlocked{},
		Catalog:      catalog,
		OpenMinute:   540,
		CloseMinute:  1140,
		SlotInterval: 30,
		Location:     time.UTC,
		Now:          func() time.Time { return testNow },
	}
	engine := &Engine{
		Parser: &nlu.Parser{
			AssumePMMaxHour:   nlu.DefaultAssumePMMaxHour,
			SpecificityMargin: nlu.DefaultSpecificityMargin,
			Now:               func() time.Time { return testNow },
		},
		Sessions:     store,
		Availability: avail,
		Executor:     executor,
		Catalog:      catalog,
		Now:          func() time.Time { return testNow },
	}
	return &fixture{engine: engine, store: store, executor: executor}
}

func (f *fixture) turn(t *testing.T, text string) Outcome {
	t.Helper()
	out, err := f.engine.HandleTurn(context.Background(), "conv-1", text)
	require.NoError(t, err)
	return out
}

func (f *fixture) stored(t *testing.T) *models.BookingContext {
	t.Helper()
	bc, err := f.store.Get(context.Background(), "conv-1")
	require.NoError(t, err)
	return bc
}

// --- tests ---

func TestOneShotBookingGoesToConfirmation(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "Book a haircut for tomorrow at 2pm")
	require.False(t, out.Escalated())
	assert.Contains(t, out.Reply.Text, "Haircut")
	assert.Contains(t, out.Reply.Text, "2:00 PM")
	assert.Contains(t, out.Reply.Text, `Reply "yes"`)

	bc := f.stored(t)
	require.NotNil(t, bc)
	assert.Equal(t, models.AwaitConfirmation, bc.AwaitingInput)
	assert.Equal(t, "2026-03-03", bc.Date)
	assert.Equal(t, "14:00", bc.Time)
	// Single-stylist roster is auto-assigned without a question.
	assert.Equal(t, "sty-maya", bc.StylistID)
}

func TestConfirmedBookingAsksEmailThenCreates(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "Book a haircut for tomorrow at 2pm")
	out := f.turn(t, "yes")
	assert.Contains(t, out.Reply.Text, "email")
	assert.Equal(t, models.AwaitEmail, f.stored(t).AwaitingInput)
	assert.Empty(t, f.executor.created, "nothing written before identity is known")

	out = f.turn(t, "dana@example.com")
	assert.Contains(t, out.Reply.Text, "booked")

	require.Len(t, f.executor.created, 1)
	req := f.executor.created[0]
	assert.Equal(t, "cat-haircut", req.CategoryID)
	assert.Equal(t, "2026-03-03", req.Date)
	assert.Equal(t, "14:00", req.Time)
	assert.Equal(t, "dana@example.com", req.CustomerEmail)
	assert.Equal(t, "sty-maya", req.StylistID)

	assert.Nil(t, f.stored(t), "context cleared after a completed booking")
}

func TestStepwiseBookingAsksInOrder(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "I'd like to book something")
	assert.Contains(t, out.Reply.Text, "What service")
	assert.Equal(t, models.AwaitCategory, f.stored(t).AwaitingInput)

	out = f.turn(t, "a haircut")
	assert.Contains(t, out.Reply.Text, "What day")
	assert.Equal(t, models.AwaitDate, f.stored(t).AwaitingInput)

	out = f.turn(t, "friday")
	assert.Contains(t, out.Reply.Text, "What time")
	assert.Equal(t, models.AwaitTime, f.stored(t).AwaitingInput)
	assert.NotEmpty(t, out.Reply.Buttons, "open slots offered as quick replies")

	out = f.turn(t, "at 2")
	assert.Contains(t, out.Reply.Text, `Reply "yes"`)
	bc := f.stored(t)
	assert.Equal(t, models.AwaitConfirmation, bc.AwaitingInput)
	assert.Equal(t, "2026-03-06", bc.Date)
	assert.Equal(t, "14:00", bc.Time, "bare 2 read as 2 PM")
}

func TestAmbiguousCategoryPreservesDateAndTime(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "book a treatment for tomorrow at 2pm")
	assert.Contains(t, out.Reply.Text, "Keratin Treatment")
	assert.Contains(t, out.Reply.Text, "Scalp Treatment")

	bc := f.stored(t)
	require.NotNil(t, bc)
	assert.Equal(t, models.AwaitCategory, bc.AwaitingInput)
	assert.Empty(t, bc.CategoryID)
	assert.Equal(t, "2026-03-03", bc.Date, "parsed date survives the disambiguation")
	assert.Equal(t, "14:00", bc.Time, "parsed time survives the disambiguation")

	out = f.turn(t, "the keratin treatment")
	assert.Contains(t, out.Reply.Text, "Keratin Treatment")
	assert.Contains(t, out.Reply.Text, `Reply "yes"`)
	assert.Equal(t, models.AwaitConfirmation, f.stored(t).AwaitingInput)
}

func TestUnrecognizedServiceKeepsDateAndTime(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "I'd like to book something")

	out := f.turn(t, "a glitter perm tomorrow at 2pm")
	assert.Contains(t, out.Reply.Text, "didn't recognize")

	bc := f.stored(t)
	require.NotNil(t, bc)
	assert.Equal(t, "2026-03-03", bc.Date)
	assert.Equal(t, "14:00", bc.Time)

	out = f.turn(t, "haircut")
	assert.Contains(t, out.Reply.Text, `Reply "yes"`)
	assert.Equal(t, models.AwaitConfirmation, f.stored(t).AwaitingInput)
}

func TestPeriodOfDayListsSlotsInRange(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "book a haircut tomorrow afternoon")
	assert.Contains(t, out.Reply.Text, "afternoon")
	assert.Equal(t, models.AwaitTime, f.stored(t).AwaitingInput)
	require.NotEmpty(t, out.Reply.Buttons)
	for _, b := range out.Reply.Buttons {
		assert.GreaterOrEqual(t, b.Token, "time:12:00")
		assert.Less(t, b.Token, "time:17:00")
	}
}

func TestCancelWithSingleUpcomingSkipsSelection(t *testing.T) {
	f := newFixture(t)
	f.executor.upcoming = []models.Appointment{{
		ID: "appt-9", CustomerEmail: "dana@example.com",
		CategoryID: "cat-haircut", CategoryName: "Haircut",
		Date: "2026-03-10", Time: "11:00", DurationMinutes: 45,
		Status: models.AppointmentConfirmed,
	}}
	require.NoError(t, f.store.Save(context.Background(), "conv-1",
		&models.BookingContext{CustomerEmail: "dana@example.com"}))

	out := f.turn(t, "cancel my appointment")
	assert.Contains(t, out.Reply.Text, "Cancel your")
	assert.Contains(t, out.Reply.Text, "Haircut")
	bc := f.stored(t)
	assert.Equal(t, models.AwaitConfirmation, bc.AwaitingInput)
	assert.Empty(t, bc.Candidates, "no selection list for a single booking")

	out = f.turn(t, "yes")
	assert.Contains(t, out.Reply.Text, "cancelled")
	assert.Equal(t, []string{"appt-9"}, f.executor.cancelled)
	assert.Nil(t, f.stored(t))
}

func TestCancelAsksEmailWhenUnknown(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "cancel my appointment")
	assert.Contains(t, out.Reply.Text, "email")
	assert.Equal(t, models.AwaitEmail, f.stored(t).AwaitingInput)
}

func TestCancelWithSeveralUpcomingAsksWhich(t *testing.T) {
	f := newFixture(t)
	f.executor.upcoming = []models.Appointment{
		{ID: "appt-1", CustomerEmail: "dana@example.com", CategoryName: "Haircut",
			Date: "2026-03-10", Time: "11:00", Status: models.AppointmentConfirmed},
		{ID: "appt-2", CustomerEmail: "dana@example.com", CategoryName: "Scalp Treatment",
			Date: "2026-03-12", Time: "15:00", Status: models.AppointmentConfirmed},
	}
	require.NoError(t, f.store.Save(context.Background(), "conv-1",
		&models.BookingContext{CustomerEmail: "dana@example.com"}))

	out := f.turn(t, "cancel my appointment")
	assert.Contains(t, out.Reply.Text, "Which one")
	assert.Equal(t, models.AwaitAppointmentSelect, f.stored(t).AwaitingInput)
	require.Len(t, f.stored(t).Candidates, 2)

	out = f.turn(t, "the first one")
	assert.Contains(t, out.Reply.Text, "Cancel your")
	assert.Contains(t, out.Reply.Text, "Haircut")

	f.turn(t, "yes")
	assert.Equal(t, []string{"appt-1"}, f.executor.cancelled)
}

func TestRescheduleReusesServiceAndAsksDate(t *testing.T) {
	f := newFixture(t)
	f.executor.upcoming = []models.Appointment{{
		ID: "appt-9", CustomerEmail: "dana@example.com",
		CategoryID: "cat-haircut", CategoryName: "Haircut",
		Date: "2026-03-10", Time: "11:00", DurationMinutes: 45,
		Status: models.AppointmentConfirmed,
	}}
	require.NoError(t, f.store.Save(context.Background(), "conv-1",
		&models.BookingContext{CustomerEmail: "dana@example.com"}))

	out := f.turn(t, "I need to reschedule")
	assert.Contains(t, out.Reply.Text, "what day")
	bc := f.stored(t)
	assert.Equal(t, models.AwaitDate, bc.AwaitingInput)
	assert.Equal(t, "appt-9", bc.AppointmentID)
	assert.Equal(t, "Haircut", bc.CategoryName)
	assert.Empty(t, bc.Date)
	assert.Empty(t, bc.Time)

	f.turn(t, "friday")
	out = f.turn(t, "at 3pm")
	assert.Contains(t, out.Reply.Text, "Move your")

	out = f.turn(t, "yes")
	assert.Contains(t, out.Reply.Text, "moved")
	assert.Equal(t, []string{"appt-9"}, f.executor.rescheduled)
	assert.Nil(t, f.stored(t))
}

func TestRescheduleWithTwoInlineDatesEscalates(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "reschedule my appointment from the 12th to the 14th")
	require.True(t, out.Escalated())
	assert.Equal(t, "multiple_dates", out.Escalate.Reason)
	assert.Contains(t, out.Escalate.Message, "12th")
	assert.Nil(t, out.Reply)
}

func TestViewAppointmentsListsThem(t *testing.T) {
	f := newFixture(t)
	f.executor.upcoming = []models.Appointment{
		{ID: "appt-1", CustomerEmail: "dana@example.com", CategoryName: "Haircut",
			Date: "2026-03-10", Time: "11:00", Status: models.AppointmentConfirmed},
	}
	require.NoError(t, f.store.Save(context.Background(), "conv-1",
		&models.BookingContext{CustomerEmail: "dana@example.com"}))

	out := f.turn(t, "my appointments")
	assert.Contains(t, out.Reply.Text, "Haircut")
	assert.Contains(t, out.Reply.Text, "11:00 AM")
}

func TestNegationDropsPendingFlow(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "book a haircut for tomorrow at 2pm")
	require.NotNil(t, f.stored(t))

	out := f.turn(t, "actually never mind")
	assert.Contains(t, out.Reply.Text, "dropped")
	assert.Nil(t, f.stored(t))
}

func TestBareNoAtConfirmationAbandons(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "Book a haircut for tomorrow at 2pm")
	require.Contains(t, out.Reply.Text, "confirm")

	out = f.turn(t, "no")
	require.False(t, out.Escalated())
	assert.Contains(t, out.Reply.Text, "dropped")
	assert.Nil(t, f.stored(t))
	assert.Empty(t, f.executor.created)
}

func TestBackRestoresPreviousQuestion(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "I'd like to book something")
	f.turn(t, "a haircut")
	require.Equal(t, models.AwaitDate, f.stored(t).AwaitingInput)

	out := f.turn(t, "back")
	assert.Contains(t, out.Reply.Text, "What service")
	assert.Equal(t, models.AwaitCategory, f.stored(t).AwaitingInput)
}

func TestUnknownMessageGetsHelp(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "what's the meaning of life")
	require.False(t, out.Escalated())
	assert.Contains(t, out.Reply.Text, "Book an appointment")
}

func TestGreetingOnFreshConversation(t *testing.T) {
	f := newFixture(t)

	out := f.turn(t, "hello")
	assert.Contains(t, out.Reply.Text, "Welcome")
}

func TestQuickReplyTokensUnderstood(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "I'd like to book something")
	out := f.turn(t, "category:haircut")
	assert.Contains(t, out.Reply.Text, "What day")

	out = f.turn(t, "date:2026-03-06")
	assert.Contains(t, out.Reply.Text, "What time")

	out = f.turn(t, "time:14:00")
	assert.Contains(t, out.Reply.Text, `Reply "yes"`)
	assert.Equal(t, "14:00", f.stored(t).Time)
}

func TestRejectedSlotReopensTimeQuestion(t *testing.T) {
	f := newFixture(t)
	appts := f.engine.Availability.Appointments.(*fakeAppointments)
	appts.appts = []models.Appointment{{
		ID: "a1", Date: "2026-03-06", Time: "14:00", DurationMinutes: 30,
		Status: models.AppointmentConfirmed,
	}}

	out := f.turn(t, "book a haircut friday at 2pm")
	assert.Contains(t, out.Reply.Text, "taken")
	require.NotEmpty(t, out.Reply.Buttons)
	bc := f.stored(t)
	assert.Equal(t, models.AwaitTime, bc.AwaitingInput)
	assert.Empty(t, bc.Time)
	assert.Equal(t, "2026-03-06", bc.Date, "date is kept; only the time is re-asked")
}
