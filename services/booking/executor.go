package booking

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "glowdesk/database/repository/appointment"
	"glowdesk/models"
	"glowdesk/services/availability"
	"glowdesk/services/tasks"
	"glowdesk/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DefaultExecutor implements Executor against the appointment repository.
// Reminders are enqueued best-effort; a queue failure never fails the
// booking itself.
type DefaultExecutor struct {
	Repo         appointmentRepo.AppointmentRepository
	Availability *availability.Engine
	Reminders    *asynq.Client // nil disables reminder scheduling
	ReminderLead time.Duration
	Location     *time.Location
}

// Create validates the slot one final time and persists the appointment.
func (x *DefaultExecutor) Create(ctx context.Context, req CreateRequest) (*models.Appointment, error) {
	if err := x.Availability.Validate(ctx, availability.Request{
		Date:            req.Date,
		Time:            req.Time,
		StylistID:       req.StylistID,
		DurationMinutes: req.DurationMinutes,
	}); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ID:              uuid.New().String(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CategoryID:      req.CategoryID,
		CategoryName:    req.CategoryName,
		StylistID:       req.StylistID,
		StylistName:     req.StylistName,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		Status:          models.AppointmentConfirmed,
		CreatedAt:       time.Now(),
	}
	if err := x.Repo.Create(appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	x.scheduleReminder(appt)
	return appt, nil
}

// Cancel marks an appointment cancelled.
func (x *DefaultExecutor) Cancel(ctx context.Context, id string) error {
	if _, err := x.Repo.GetByID(ctx, id); err != nil {
		return NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}
	if err := x.Repo.SetStatus(id, models.AppointmentCancelled); err != nil {
		return fmt.Errorf("failed to cancel appointment %s: %w", id, err)
	}
	return nil
}

// Reschedule validates the new slot against the appointment's duration
// and moves it.
func (x *DefaultExecutor) Reschedule(ctx context.Context, id, newDate, newTime string) (*models.Appointment, error) {
	appt, err := x.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}

	if err := x.Availability.Validate(ctx, availability.Request{
		Date:            newDate,
		Time:            newTime,
		StylistID:       appt.StylistID,
		DurationMinutes: appt.DurationMinutes,
	}); err != nil {
		return nil, err
	}

	appt.Date = newDate
	appt.Time = newTime
	if err := x.Repo.Update(id, appt); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment %s: %w", id, err)
	}

	x.scheduleReminder(appt)
	return appt, nil
}

// FindByIdentity returns the customer's upcoming confirmed appointments.
func (x *DefaultExecutor) FindByIdentity(ctx context.Context, email string) ([]models.Appointment, error) {
	return x.Repo.GetUpcomingByEmail(email, x.Availability.Today())
}

func (x *DefaultExecutor) scheduleReminder(appt *models.Appointment) {
	if x.Reminders == nil {
		return
	}
	logger := utils.GetLogger()

	loc := x.Location
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", appt.Date+" "+appt.Time, loc)
	if err != nil {
		logger.Warn("skipping reminder for unparseable start",
			zap.String("appointmentID", appt.ID), zap.Error(err))
		return
	}
	fireAt := start.Add(-x.ReminderLead)
	if fireAt.Before(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		CustomerEmail: appt.CustomerEmail,
		CategoryName:  appt.CategoryName,
		Date:          appt.Date,
		Time:          appt.Time,
	}
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		logger.Warn("failed to build reminder task", zap.String("appointmentID", appt.ID), zap.Error(err))
		return
	}
	if _, err := x.Reminders.Enqueue(task, opts...); err != nil {
		logger.Warn("failed to enqueue reminder", zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}
