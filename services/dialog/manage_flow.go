package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"glowdesk/models"
	"glowdesk/services/nlu"
	"glowdesk/utils"

	"go.uber.org/zap"
)

// manageTurn opens a cancel/reschedule/view sub-flow. The customer is
// identified by email before any appointment is listed or touched.
func (e *Engine) manageTurn(ctx context.Context, key string, bc *models.BookingContext, action models.PendingAction) (Outcome, error) {
	bc.PendingAction = action

	if err := requireIdentity(bc, action); err != nil {
		var need *IdentityRequiredError
		if errors.As(err, &need) {
			bc.PushStep(bc.AwaitingInput, e.now())
			bc.AwaitingInput = models.AwaitEmail
			if saveErr := e.save(ctx, key, bc); saveErr != nil {
				return replyOutcome(apologyReply()), nil
			}
			return replyOutcome(askEmailReply(bc)), nil
		}
		return replyOutcome(apologyReply()), nil
	}

	return e.manageList(ctx, key, bc)
}

func requireIdentity(bc *models.BookingContext, action models.PendingAction) error {
	if bc.CustomerEmail == "" {
		return &IdentityRequiredError{Action: string(action)}
	}
	return nil
}

// manageList looks up the customer's upcoming appointments and either
// acts on the only one, asks which one, or lists them for a view.
func (e *Engine) manageList(ctx context.Context, key string, bc *models.BookingContext) (Outcome, error) {
	appts, err := e.Executor.FindByIdentity(ctx, bc.CustomerEmail)
	if err != nil {
		utils.GetLogger().Error("failed to look up appointments",
			zap.String("email", bc.CustomerEmail), zap.Error(err))
		return replyOutcome(apologyReply()), nil
	}

	if len(appts) == 0 {
		bc.PendingAction = models.ActionNone
		bc.AwaitingInput = models.AwaitNone
		bc.Candidates = nil
		if saveErr := e.save(ctx, key, bc); saveErr != nil {
			return replyOutcome(apologyReply()), nil
		}
		return replyOutcome(&models.ChatReply{
			Text:    fmt.Sprintf("I couldn't find any upcoming appointments for %s. Would you like to book one?", bc.CustomerEmail),
			Context: bc,
		}), nil
	}

	if bc.PendingAction == models.ActionView {
		return e.viewList(ctx, key, bc, appts)
	}

	if len(appts) == 1 {
		return e.targetAppointment(ctx, key, bc, appts[0])
	}

	bc.Candidates = appointmentRefs(appts)
	bc.AwaitingInput = models.AwaitAppointmentSelect
	if saveErr := e.save(ctx, key, bc); saveErr != nil {
		return replyOutcome(apologyReply()), nil
	}
	return replyOutcome(selectAppointmentReply(bc, actionVerb(bc.PendingAction))), nil
}

func (e *Engine) viewList(ctx context.Context, key string, bc *models.BookingContext, appts []models.Appointment) (Outcome, error) {
	var sb strings.Builder
	sb.WriteString("Here are your upcoming appointments:\n")
	for i, a := range appts {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, appointmentDisplay(a)))
	}
	sb.WriteString("Say \"cancel\" or \"reschedule\" if you'd like to change one.")

	bc.PendingAction = models.ActionNone
	bc.AwaitingInput = models.AwaitNone
	bc.Candidates = nil
	if saveErr := e.save(ctx, key, bc); saveErr != nil {
		return replyOutcome(apologyReply()), nil
	}
	return replyOutcome(&models.ChatReply{Text: sb.String(), Context: bc}), nil
}

// targetAppointment locks the chosen appointment into the context and
// advances the sub-flow: cancels go straight to confirmation, reschedules
// re-enter the date question with the service carried over.
func (e *Engine) targetAppointment(ctx context.Context, key string, bc *models.BookingContext, appt models.Appointment) (Outcome, error) {
	bc.AppointmentID = appt.ID
	bc.CategoryID = appt.CategoryID
	bc.CategoryName = appt.CategoryName
	bc.DurationMinutes = appt.DurationMinutes
	bc.StylistID = appt.StylistID
	bc.StylistName = appt.StylistName
	bc.Candidates = nil

	switch bc.PendingAction {
	case models.ActionCancel:
		bc.Date = appt.Date
		bc.Time = appt.Time
		bc.PushStep(bc.AwaitingInput, e.now())
		if err := bc.SetAwaiting(models.AwaitConfirmation); err != nil {
			utils.GetLogger().Error("confirmation without category", zap.String("key", key), zap.Error(err))
			return replyOutcome(apologyReply()), nil
		}
		if saveErr := e.save(ctx, key, bc); saveErr != nil {
			return replyOutcome(apologyReply()), nil
		}
		return replyOutcome(confirmCancelReply(bc, appointmentDisplay(appt))), nil

	case models.ActionReschedule:
		current := appointmentDisplay(appt)
		bc.Date = ""
		bc.Time = ""
		bc.PushStep(bc.AwaitingInput, e.now())
		bc.AwaitingInput = models.AwaitDate
		if saveErr := e.save(ctx, key, bc); saveErr != nil {
			return replyOutcome(apologyReply()), nil
		}
		return replyOutcome(&models.ChatReply{
			Text:    fmt.Sprintf("Your %s — what day should I move it to?", current),
			Context: bc,
		}), nil

	default:
		return replyOutcome(helpReply(bc)), nil
	}
}

// handleSelectTurn resolves a "1" / "first" answer against the candidate
// list shown by manageList.
func (e *Engine) handleSelectTurn(ctx context.Context, key string, bc *models.BookingContext, text string) (Outcome, error) {
	idx := nlu.ParseOrdinal(text, len(bc.Candidates))
	if idx == 0 {
		amb := &AmbiguousMatchError{What: "appointment", Choices: candidateDisplays(bc.Candidates)}
		utils.GetLogger().Debug("unresolved appointment selection",
			zap.String("key", key), zap.String("text", text), zap.Error(amb))
		reply := selectAppointmentReply(bc, actionVerb(bc.PendingAction))
		reply.Text = "I didn't catch which one you meant. " + reply.Text
		return replyOutcome(reply), nil
	}

	chosen := bc.Candidates[idx-1]
	appts, err := e.Executor.FindByIdentity(ctx, bc.CustomerEmail)
	if err != nil {
		utils.GetLogger().Error("failed to look up appointments",
			zap.String("email", bc.CustomerEmail), zap.Error(err))
		return replyOutcome(apologyReply()), nil
	}
	for _, a := range appts {
		if a.ID == chosen.ID {
			return e.targetAppointment(ctx, key, bc, a)
		}
	}

	// Picked one that was cancelled or moved since the list was shown.
	bc.Candidates = nil
	bc.AwaitingInput = models.AwaitNone
	if saveErr := e.save(ctx, key, bc); saveErr != nil {
		return replyOutcome(apologyReply()), nil
	}
	return replyOutcome(&models.ChatReply{
		Text:    "That appointment is no longer on the books. Anything else I can help with?",
		Context: bc,
	}), nil
}

// handleEmailTurn consumes the answer to the email question and resumes
// whatever needed the identity: a manage sub-flow or a booking write.
func (e *Engine) handleEmailTurn(ctx context.Context, key string, bc *models.BookingContext, text string, intent models.ParsedIntent) (Outcome, error) {
	email := nlu.ParseEmail(text)
	if email == "" {
		// The customer may have changed their mind instead of answering.
		switch intent.Type {
		case models.IntentBook, models.IntentServices, models.IntentHours, models.IntentHelp:
			bc.AwaitingInput = models.AwaitNone
			bc.PendingAction = models.ActionNone
			if saveErr := e.save(ctx, key, bc); saveErr != nil {
				return replyOutcome(apologyReply()), nil
			}
			return e.HandleTurn(ctx, key, text)
		}
		reply := askEmailReply(bc)
		reply.Text = "That doesn't look like an email address. " + reply.Text
		return replyOutcome(reply), nil
	}

	bc.CustomerEmail = email
	bc.AwaitingInput = models.AwaitNone

	switch bc.PendingAction {
	case models.ActionCancel, models.ActionReschedule, models.ActionView:
		if saveErr := e.save(ctx, key, bc); saveErr != nil {
			return replyOutcome(apologyReply()), nil
		}
		return e.manageList(ctx, key, bc)
	default:
		// Email was the last thing missing from a confirmed booking.
		return e.executeBooking(ctx, key, bc)
	}
}

func appointmentRefs(appts []models.Appointment) []models.AppointmentRef {
	refs := make([]models.AppointmentRef, 0, len(appts))
	for _, a := range appts {
		refs = append(refs, models.AppointmentRef{ID: a.ID, Display: appointmentDisplay(a)})
	}
	return refs
}

func candidateDisplays(refs []models.AppointmentRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Display)
	}
	return out
}

func appointmentDisplay(a models.Appointment) string {
	var stylist string
	if a.StylistName != "" {
		stylist = " with " + a.StylistName
	}
	return fmt.Sprintf("%s%s on %s at %s", a.CategoryName, stylist, displayDate(a.Date), displayClock(a.Time))
}

func actionVerb(action models.PendingAction) string {
	switch action {
	case models.ActionCancel:
		return "cancel"
	case models.ActionReschedule:
		return "reschedule"
	default:
		return "change"
	}
}
