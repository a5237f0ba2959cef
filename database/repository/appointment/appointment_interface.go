package appointmentRepo

import (
	"context"

	"glowdesk/models"
)

// AppointmentRepository defines persistence for salon appointments.
type AppointmentRepository interface {
	Create(appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Update(id string, appt *models.Appointment) error
	SetStatus(id string, status string) error
	// GetByDate returns confirmed appointments on a date; stylistID narrows
	// the result when non-empty.
	GetByDate(date string, stylistID string) ([]models.Appointment, error)
	// GetUpcomingByEmail returns confirmed appointments for an identity on
	// or after fromDate, soonest first.
	GetUpcomingByEmail(email string, fromDate string) ([]models.Appointment, error)
}
