package session

import (
	"context"
	"time"

	"glowdesk/models"
)

// PushStep snapshots the current context under the given step and writes
// it back through the normal save path.
func PushStep(ctx context.Context, store Store, key string, step models.AwaitingInput, now time.Time) error {
	bc, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if bc == nil {
		bc = &models.BookingContext{}
	}
	bc.PushStep(step, now)
	return store.Save(ctx, key, bc)
}

// PopStep restores the most recent snapshot, persists it, and returns the
// restored context. ok is false when there was nothing to undo.
func PopStep(ctx context.Context, store Store, key string) (*models.BookingContext, bool, error) {
	bc, err := store.Get(ctx, key)
	if err != nil || bc == nil {
		return nil, false, err
	}
	if !bc.PopStep() {
		return bc, false, nil
	}
	if err := store.Save(ctx, key, bc); err != nil {
		return nil, false, err
	}
	return bc, true, nil
}

// ClearStepHistory drops the undo stack without touching other fields.
func ClearStepHistory(ctx context.Context, store Store, key string) error {
	bc, err := store.Get(ctx, key)
	if err != nil || bc == nil {
		return err
	}
	bc.ClearStepHistory()
	return store.Save(ctx, key, bc)
}
