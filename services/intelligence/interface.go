package intelligence

import (
	"context"

	"glowdesk/models"
)

// Assistant answers the messages the deterministic engine escalates:
// multi-date reschedules, out-of-vocabulary requests and anything else
// the rules refuse to guess at.
type Assistant interface {
	Respond(ctx context.Context, message string, bc *models.BookingContext) (string, error)
}

// Disabled is the Assistant used when no model is configured. It returns
// a fixed hand-off message so escalated turns still get an answer.
type Disabled struct{}

func (Disabled) Respond(ctx context.Context, message string, bc *models.BookingContext) (string, error) {
	return "I couldn't quite work that one out. Could you rephrase it, or give us a call and we'll sort it out?", nil
}
