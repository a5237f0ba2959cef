package booking

import (
	"context"

	"glowdesk/models"
)

// CreateRequest carries everything needed to execute a booking.
type CreateRequest struct {
	CustomerName    string
	CustomerEmail   string
	CategoryID      string
	CategoryName    string
	StylistID       string
	StylistName     string
	Date            string // "2006-01-02"
	Time            string // "15:04"
	DurationMinutes int
}

// Executor finalizes bookings on behalf of the dialogue engine. Create
// and Reschedule re-validate availability at execution time; a conflict
// or validation error is returned as-is for the engine to surface.
type Executor interface {
	Create(ctx context.Context, req CreateRequest) (*models.Appointment, error)
	Cancel(ctx context.Context, id string) error
	Reschedule(ctx context.Context, id, newDate, newTime string) (*models.Appointment, error)
	FindByIdentity(ctx context.Context, email string) ([]models.Appointment, error)
}
