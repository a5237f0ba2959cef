package dialog

import (
	"context"
	"errors"
	"fmt"

	"glowdesk/models"
	"glowdesk/services/availability"
	"glowdesk/services/booking"
	"glowdesk/utils"

	"go.uber.org/zap"
)

const defaultDurationMinutes = 30

// bookingTurn runs the slot-filling cascade: merge this turn's entities
// into the context (new values win), then ask for the first missing piece
// or validate and offer confirmation.
func (e *Engine) bookingTurn(ctx context.Context, key string, bc *models.BookingContext, fresh bool, intent models.ParsedIntent, roster []models.Stylist) (Outcome, error) {
	now := e.now()

	// Merge: entities parsed this turn override stored ones.
	if intent.Category != nil {
		cat := intent.Category.Category
		if cat.ID != bc.CategoryID {
			bc.CategoryID = cat.ID
			bc.CategoryName = cat.Name
			bc.PriceNote = cat.PriceNote
			bc.DurationMinutes = cat.DurationMinutes
		}
	}
	if intent.Date != nil {
		bc.Date = intent.Date.Date
	}
	var pendingRange *models.TimeRange
	if intent.Time != nil {
		if intent.Time.Time != "" {
			bc.Time = intent.Time.Time
		} else {
			pendingRange = intent.Time.Range
		}
	}
	if intent.Stylist != nil {
		if intent.Stylist.AnyStylist {
			bc.AnyStylist = true
			bc.StylistID = ""
			bc.StylistName = ""
		} else if intent.Stylist.Stylist != nil {
			bc.StylistID = intent.Stylist.Stylist.ID
			bc.StylistName = intent.Stylist.Stylist.Name
			bc.AnyStylist = false
		}
	}

	// Ambiguous category: ask to disambiguate, keeping the date/time/
	// stylist merged above so they aren't lost once the category lands.
	if bc.CategoryID == "" && len(intent.AmbiguousCategories) > 0 {
		bc.PushStep(bc.AwaitingInput, now)
		bc.AwaitingInput = models.AwaitCategory
		if err := e.save(ctx, key, bc); err != nil {
			return replyOutcome(apologyReply()), nil
		}
		return replyOutcome(ambiguousCategoryReply(bc, intent.AmbiguousCategories)), nil
	}

	categories, err := e.Catalog.GetCategories(ctx)
	if err != nil {
		categories = nil
	}

	if bc.CategoryID == "" {
		if bc.AwaitingInput == models.AwaitCategory {
			// A date or time merged this turn still counts even though
			// the service didn't land; keep it for the next message.
			if err := e.save(ctx, key, bc); err != nil {
				return replyOutcome(apologyReply()), nil
			}
			reply := askCategoryReply(bc, categories)
			reply.Text = "I didn't recognize that service. " + reply.Text
			return replyOutcome(reply), nil
		}
		if intent.Type == models.IntentBook {
			bc.PushStep(bc.AwaitingInput, now)
			bc.AwaitingInput = models.AwaitCategory
			if err := e.save(ctx, key, bc); err != nil {
				return replyOutcome(apologyReply()), nil
			}
			return replyOutcome(askCategoryReply(bc, categories)), nil
		}
		// Unknown input with no active question: canonical help.
		return replyOutcome(helpReply(contextSummary(bc, fresh))), nil
	}

	if bc.Date == "" {
		if bc.AwaitingInput == models.AwaitDate && intent.Date == nil {
			reply := askDateReply(bc)
			reply.Text = "I didn't catch a date there. " + reply.Text
			return replyOutcome(reply), nil
		}
		bc.PushStep(bc.AwaitingInput, now)
		bc.AwaitingInput = models.AwaitDate
		if err := e.save(ctx, key, bc); err != nil {
			return replyOutcome(apologyReply()), nil
		}
		return replyOutcome(askDateReply(bc)), nil
	}

	if bc.Time == "" {
		return e.askForTime(ctx, key, bc, intent, pendingRange)
	}

	// Stylist is implicit: a single-stylist roster was auto-assigned by
	// the matcher, and "no preference" is accepted silently. Only a
	// multi-stylist roster with nothing recorded earns one question.
	if len(roster) > 1 && bc.StylistID == "" && !bc.AnyStylist {
		if bc.AwaitingInput == models.AwaitStylist {
			// Asked once and got no preference back; don't loop.
			bc.AnyStylist = true
		} else {
			bc.PushStep(bc.AwaitingInput, now)
			bc.AwaitingInput = models.AwaitStylist
			if err := e.save(ctx, key, bc); err != nil {
				return replyOutcome(apologyReply()), nil
			}
			return replyOutcome(askStylistReply(bc, roster)), nil
		}
	}

	return e.validateAndConfirm(ctx, key, bc)
}

// askForTime asks for a time, listing that day's openings (or the
// openings inside a named period like "afternoon").
func (e *Engine) askForTime(ctx context.Context, key string, bc *models.BookingContext, intent models.ParsedIntent, pendingRange *models.TimeRange) (Outcome, error) {
	slots, err := e.Availability.Slots(ctx, bc.Date, bc.StylistID)
	if err != nil {
		utils.GetLogger().Error("failed to load availability", zap.String("date", bc.Date), zap.Error(err))
		return replyOutcome(apologyReply()), nil
	}

	alreadyAsking := bc.AwaitingInput == models.AwaitTime
	if !alreadyAsking {
		bc.PushStep(bc.AwaitingInput, e.now())
	}
	bc.AwaitingInput = models.AwaitTime
	if err := e.save(ctx, key, bc); err != nil {
		return replyOutcome(apologyReply()), nil
	}

	if pendingRange != nil {
		inRange := filterRange(slots, pendingRange)
		return replyOutcome(askTimeInRangeReply(bc, pendingRange.Label, inRange)), nil
	}

	if len(slots) > 6 {
		slots = slots[:6]
	}
	reply := askTimeReply(bc, displayDate(bc.Date))
	reply.Buttons = timeButtons(slots)
	if alreadyAsking && intent.Time == nil {
		reply.Text = "I didn't catch a time there. " + reply.Text
	}
	return replyOutcome(reply), nil
}

func filterRange(slots []string, r *models.TimeRange) []string {
	var out []string
	for _, s := range slots {
		if s >= r.From && s < r.To {
			out = append(out, s)
		}
	}
	return out
}

// validateAndConfirm runs the full validation pipeline and only offers a
// confirmation prompt for a candidate that passed every check.
func (e *Engine) validateAndConfirm(ctx context.Context, key string, bc *models.BookingContext) (Outcome, error) {
	duration := bc.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	err := e.Availability.Validate(ctx, availability.Request{
		Date:            bc.Date,
		Time:            bc.Time,
		StylistID:       bc.StylistID,
		DurationMinutes: duration,
	})
	if err != nil {
		return e.handleSlotError(ctx, key, bc, err)
	}

	bc.PushStep(bc.AwaitingInput, e.now())
	if err := bc.SetAwaiting(models.AwaitConfirmation); err != nil {
		utils.GetLogger().Error("confirmation without category", zap.String("key", key), zap.Error(err))
		return replyOutcome(apologyReply()), nil
	}
	if err := e.save(ctx, key, bc); err != nil {
		return replyOutcome(apologyReply()), nil
	}

	if bc.PendingAction == models.ActionReschedule {
		return replyOutcome(confirmRescheduleReply(bc, displayDate(bc.Date))), nil
	}
	return replyOutcome(confirmBookingReply(bc, displayDate(bc.Date))), nil
}

// handleSlotError maps a validation or conflict error to an actionable
// reply and re-opens the matching question.
func (e *Engine) handleSlotError(ctx context.Context, key string, bc *models.BookingContext, err error) (Outcome, error) {
	var verr *availability.ValidationError
	if errors.As(err, &verr) {
		if verr.Code == availability.CodePastDate {
			bc.Date = ""
			bc.AwaitingInput = models.AwaitDate
		} else {
			bc.Time = ""
			bc.AwaitingInput = models.AwaitTime
		}
		if saveErr := e.save(ctx, key, bc); saveErr != nil {
			return replyOutcome(apologyReply()), nil
		}
		return replyOutcome(validationReply(bc, verr)), nil
	}

	var cerr *availability.ConflictError
	if errors.As(err, &cerr) {
		reply := conflictReply(bc, cerr)
		if len(cerr.Alternatives) > 0 {
			bc.Time = ""
			bc.AwaitingInput = models.AwaitTime
		} else {
			bc.Date = ""
			bc.Time = ""
			bc.AwaitingInput = models.AwaitDate
		}
		reply.Context = bc
		if saveErr := e.save(ctx, key, bc); saveErr != nil {
			return replyOutcome(apologyReply()), nil
		}
		return replyOutcome(reply), nil
	}

	utils.GetLogger().Error("availability check failed", zap.String("key", key), zap.Error(err))
	return replyOutcome(apologyReply()), nil
}

// executeConfirmed runs the action a "yes" confirms: cancel, reschedule
// or a new booking.
func (e *Engine) executeConfirmed(ctx context.Context, key string, bc *models.BookingContext) (Outcome, error) {
	switch bc.PendingAction {
	case models.ActionCancel:
		return e.executeCancel(ctx, key, bc)
	case models.ActionReschedule:
		return e.executeReschedule(ctx, key, bc)
	default:
		return e.executeBooking(ctx, key, bc)
	}
}

func (e *Engine) executeBooking(ctx context.Context, key string, bc *models.BookingContext) (Outcome, error) {
	// An anonymous customer is identified before the booking is written.
	if bc.CustomerEmail == "" {
		bc.PushStep(bc.AwaitingInput, e.now())
		bc.AwaitingInput = models.AwaitEmail
		if err := e.save(ctx, key, bc); err != nil {
			return replyOutcome(apologyReply()), nil
		}
		reply := askEmailReply(bc)
		reply.Text = "Almost done! What's your email address, so we can confirm the booking?"
		return replyOutcome(reply), nil
	}

	appt, err := e.Executor.Create(ctx, createRequest(bc))
	if err != nil {
		return e.executionError(ctx, key, bc, err)
	}

	if clearErr := e.Sessions.Clear(ctx, key); clearErr != nil {
		utils.GetLogger().Warn("failed to clear context after booking", zap.String("key", key), zap.Error(clearErr))
	}
	var stylist string
	if appt.StylistName != "" {
		stylist = " with " + appt.StylistName
	}
	return replyOutcome(&models.ChatReply{
		Text: fmt.Sprintf("You're booked! %s%s on %s at %s. We'll send a reminder to %s. See you then!",
			appt.CategoryName, stylist, displayDate(appt.Date), displayClock(appt.Time), appt.CustomerEmail),
	}), nil
}

func (e *Engine) executeCancel(ctx context.Context, key string, bc *models.BookingContext) (Outcome, error) {
	if err := e.Executor.Cancel(ctx, bc.AppointmentID); err != nil {
		return e.executionError(ctx, key, bc, err)
	}
	if clearErr := e.Sessions.Clear(ctx, key); clearErr != nil {
		utils.GetLogger().Warn("failed to clear context after cancel", zap.String("key", key), zap.Error(clearErr))
	}
	return replyOutcome(&models.ChatReply{
		Text: fmt.Sprintf("Done — your %s on %s is cancelled. Hope to see you another time!",
			bc.CategoryName, displayDate(bc.Date)),
	}), nil
}

func (e *Engine) executeReschedule(ctx context.Context, key string, bc *models.BookingContext) (Outcome, error) {
	appt, err := e.Executor.Reschedule(ctx, bc.AppointmentID, bc.Date, bc.Time)
	if err != nil {
		return e.executionError(ctx, key, bc, err)
	}
	if clearErr := e.Sessions.Clear(ctx, key); clearErr != nil {
		utils.GetLogger().Warn("failed to clear context after reschedule", zap.String("key", key), zap.Error(clearErr))
	}
	return replyOutcome(&models.ChatReply{
		Text: fmt.Sprintf("All set — your %s is moved to %s at %s.",
			appt.CategoryName, displayDate(appt.Date), displayClock(appt.Time)),
	}), nil
}

// executionError surfaces typed validation/conflict errors as new
// questions; anything else re-shows the confirmation with an apology.
func (e *Engine) executionError(ctx context.Context, key string, bc *models.BookingContext, err error) (Outcome, error) {
	var verr *availability.ValidationError
	var cerr *availability.ConflictError
	if errors.As(err, &verr) || errors.As(err, &cerr) {
		return e.handleSlotError(ctx, key, bc, err)
	}

	utils.GetLogger().Error("booking execution failed", zap.String("key", key), zap.Error(err))
	reply := confirmBookingReply(bc, displayDate(bc.Date))
	reply.Text = "That didn't go through on our side — sorry. " + reply.Text
	return replyOutcome(reply), nil
}

func createRequest(bc *models.BookingContext) booking.CreateRequest {
	duration := bc.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	return booking.CreateRequest{
		CustomerName:    bc.CustomerName,
		CustomerEmail:   bc.CustomerEmail,
		CategoryID:      bc.CategoryID,
		CategoryName:    bc.CategoryName,
		StylistID:       bc.StylistID,
		StylistName:     bc.StylistName,
		Date:            bc.Date,
		Time:            bc.Time,
		DurationMinutes: duration,
	}
}

func (e *Engine) save(ctx context.Context, key string, bc *models.BookingContext) error {
	if err := e.Sessions.Save(ctx, key, bc); err != nil {
		utils.GetLogger().Error("failed to persist context", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
