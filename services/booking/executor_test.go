package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"glowdesk/models"
	"glowdesk/services/availability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday, March 2 2026, 10:05 salon-local.
var testNow = time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)

type fakeRepo struct {
	appts []models.Appointment
}

func (f *fakeRepo) Create(a *models.Appointment) error {
	f.appts = append(f.appts, *a)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			copy := f.appts[i]
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("appointment %s not found", id)
}

func (f *fakeRepo) Update(id string, a *models.Appointment) error {
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i] = *a
			return nil
		}
	}
	return fmt.Errorf("appointment %s not found", id)
}

func (f *fakeRepo) SetStatus(id string, status string) error {
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("appointment %s not found", id)
}

func (f *fakeRepo) GetByDate(date string, stylistID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.Date == date && a.Status == models.AppointmentConfirmed {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetUpcomingByEmail(email string, fromDate string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.CustomerEmail == email && a.Date >= fromDate && a.Status == models.AppointmentConfirmed {
			out = append(out, a)
		}
	}
	return out, nil
}

type noBlocks struct{}

func (noBlocks) GetByDate(date string) ([]models.BlockedSlot, error) { return nil, nil }
func (noBlocks) Create(b *models.BlockedSlot) error                  { return nil }
func (noBlocks) Delete(id string) error                              { return nil }

func testExecutor(repo *fakeRepo) *DefaultExecutor {
	return &DefaultExecutor{
		Repo: repo,
		Availability: &availability.Engine{
			Appointments: repo,
			Blocked:      noBlocks{},
			OpenMinute:   540,
			CloseMinute:  1140,
			SlotInterval: 30,
			Location:     time.UTC,
			Now:          func() time.Time { return testNow },
		},
		Location: time.UTC,
	}
}

func TestCreatePersistsConfirmedAppointment(t *testing.T) {
	repo := &fakeRepo{}
	x := testExecutor(repo)

	appt, err := x.Create(context.Background(), CreateRequest{
		CustomerEmail:   "dana@example.com",
		CategoryID:      "cat-haircut",
		CategoryName:    "Haircut",
		Date:            "2026-03-06",
		Time:            "14:00",
		DurationMinutes: 45,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)

	require.Len(t, repo.appts, 1)
	assert.Equal(t, "dana@example.com", repo.appts[0].CustomerEmail)
}

func TestCreateRevalidatesAtExecutionTime(t *testing.T) {
	repo := &fakeRepo{appts: []models.Appointment{{
		ID: "appt-1", Date: "2026-03-06", Time: "14:00",
		DurationMinutes: 30, Status: models.AppointmentConfirmed,
	}}}
	x := testExecutor(repo)

	// The slot was free when confirmation was offered but is taken now.
	_, err := x.Create(context.Background(), CreateRequest{
		Date: "2026-03-06", Time: "14:00", DurationMinutes: 30,
	})
	var cerr *availability.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, repo.appts, 1, "nothing persisted for a rejected slot")
}

func TestCancelSetsStatus(t *testing.T) {
	repo := &fakeRepo{appts: []models.Appointment{{
		ID: "appt-1", Date: "2026-03-06", Time: "14:00",
		Status: models.AppointmentConfirmed,
	}}}
	x := testExecutor(repo)

	require.NoError(t, x.Cancel(context.Background(), "appt-1"))
	assert.Equal(t, models.AppointmentCancelled, repo.appts[0].Status)
}

func TestCancelUnknownAppointment(t *testing.T) {
	x := testExecutor(&fakeRepo{})

	err := x.Cancel(context.Background(), "no-such")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRescheduleValidatesWithAppointmentDuration(t *testing.T) {
	repo := &fakeRepo{appts: []models.Appointment{
		{ID: "appt-1", Date: "2026-03-06", Time: "10:00",
			DurationMinutes: 90, Status: models.AppointmentConfirmed},
		{ID: "appt-2", Date: "2026-03-10", Time: "15:00",
			DurationMinutes: 30, Status: models.AppointmentConfirmed},
	}}
	x := testExecutor(repo)

	// 14:30 collides with appt-2's slot at 15:00 two slots in.
	_, err := x.Reschedule(context.Background(), "appt-1", "2026-03-10", "14:30")
	var cerr *availability.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, availability.CodeInsufficientCapacity, cerr.Code)

	appt, err := x.Reschedule(context.Background(), "appt-1", "2026-03-10", "16:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", appt.Date)
	assert.Equal(t, "16:00", appt.Time)
	assert.Equal(t, "2026-03-10", repo.appts[0].Date)
}

func TestFindByIdentityUsesToday(t *testing.T) {
	repo := &fakeRepo{appts: []models.Appointment{
		{ID: "past", CustomerEmail: "dana@example.com", Date: "2026-02-20",
			Time: "11:00", Status: models.AppointmentConfirmed},
		{ID: "future", CustomerEmail: "dana@example.com", Date: "2026-03-10",
			Time: "11:00", Status: models.AppointmentConfirmed},
	}}
	x := testExecutor(repo)

	appts, err := x.FindByIdentity(context.Background(), "dana@example.com")
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "future", appts[0].ID)
}
