package dialog

import (
	"context"
	"strings"
	"time"

	catalogRepo "glowdesk/database/repository/catalog"
	"glowdesk/models"
	"glowdesk/services/availability"
	"glowdesk/services/booking"
	"glowdesk/services/nlu"
	"glowdesk/services/session"
	"glowdesk/utils"

	"go.uber.org/zap"
)

// Engine is the deterministic dialogue state machine. It parses each
// message, merges the extracted entities into the stored conversation
// context (new values win), runs the rule for the current awaiting state,
// validates candidate slots, persists the context and produces a reply —
// or an explicit escalation when the message is beyond its vocabulary.
type Engine struct {
	Parser       *nlu.Parser
	Sessions     session.Store
	Availability *availability.Engine
	Executor     booking.Executor
	Catalog      catalogRepo.CatalogRepository
	Now          func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// HandleTurn processes one inbound message for a conversation key.
// Collaborator failures degrade to an apology reply; they are logged and
// never crash the turn.
func (e *Engine) HandleTurn(ctx context.Context, key, text string) (Outcome, error) {
	logger := utils.GetLogger()

	bc, err := e.Sessions.Get(ctx, key)
	if err != nil {
		logger.Error("failed to load conversation context", zap.String("key", key), zap.Error(err))
		return replyOutcome(apologyReply()), nil
	}
	fresh := bc == nil
	if fresh {
		bc = &models.BookingContext{}
	}

	categories, err := e.Catalog.GetCategories(ctx)
	if err != nil {
		logger.Error("failed to load categories", zap.Error(err))
		return replyOutcome(apologyReply()), nil
	}
	roster, err := e.Catalog.GetStylists(ctx)
	if err != nil {
		logger.Warn("failed to load stylist roster", zap.Error(err))
		roster = nil
	}

	// Quick-reply tokens bypass free-text parsing.
	text = translateToken(text, bc, categories, roster)

	if nlu.IsBackRequest(text) {
		return e.handleBack(ctx, key, bc, categories)
	}

	intent := e.Parser.Parse(text, categories, roster)

	// Two inline dates on a reschedule cannot be resolved
	// deterministically; hand the message to the LLM collaborator.
	if intent.MultipleDates &&
		(intent.Type == models.IntentReschedule || bc.PendingAction == models.ActionReschedule) {
		return escalateOutcome("multiple_dates", text), nil
	}

	if intent.HasNegation {
		return e.handleNegation(ctx, key, bc, fresh)
	}

	// The pending question decides how this message is read first.
	switch bc.AwaitingInput {
	case models.AwaitEmail:
		return e.handleEmailTurn(ctx, key, bc, text, intent)
	case models.AwaitAppointmentSelect:
		return e.handleSelectTurn(ctx, key, bc, text)
	case models.AwaitConfirmation:
		if intent.Type == models.IntentConfirmation {
			return e.executeConfirmed(ctx, key, bc)
		}
		// A bare "no" at the yes/no prompt is a decline, not a
		// correction; drop the pending action like any negation.
		if nlu.IsDecline(text) {
			return e.handleNegation(ctx, key, bc, fresh)
		}
		// Anything else may be a correction ("make it 3pm instead");
		// fall through so the merge re-validates.
	}

	// Stateless informational branches: no context mutation.
	switch intent.Type {
	case models.IntentGreeting:
		if bc.AwaitingInput == models.AwaitNone {
			return replyOutcome(greetingReply()), nil
		}
	case models.IntentServices:
		return replyOutcome(servicesReply(categories)), nil
	case models.IntentHours:
		return e.hoursTurn(ctx, bc)
	case models.IntentHelp:
		return replyOutcome(helpReply(contextSummary(bc, fresh))), nil
	case models.IntentCancel:
		return e.manageTurn(ctx, key, bc, models.ActionCancel)
	case models.IntentReschedule:
		return e.manageTurn(ctx, key, bc, models.ActionReschedule)
	case models.IntentViewAppointments:
		return e.manageTurn(ctx, key, bc, models.ActionView)
	}

	return e.bookingTurn(ctx, key, bc, fresh, intent, roster)
}

// handleBack pops the last step snapshot and re-asks its question.
func (e *Engine) handleBack(ctx context.Context, key string, bc *models.BookingContext, categories []models.ServiceCategory) (Outcome, error) {
	restored, ok, err := session.PopStep(ctx, e.Sessions, key)
	if err != nil {
		utils.GetLogger().Error("failed to pop step", zap.String("key", key), zap.Error(err))
		return replyOutcome(apologyReply()), nil
	}
	if !ok {
		return replyOutcome(helpReply(contextSummary(bc, false))), nil
	}
	return replyOutcome(e.reaskFor(ctx, restored, categories)), nil
}

// reaskFor repeats the question matching a context's awaiting state.
func (e *Engine) reaskFor(ctx context.Context, bc *models.BookingContext, categories []models.ServiceCategory) *models.ChatReply {
	switch bc.AwaitingInput {
	case models.AwaitCategory:
		return askCategoryReply(bc, categories)
	case models.AwaitDate:
		return askDateReply(bc)
	case models.AwaitTime:
		return askTimeReply(bc, displayDate(bc.Date))
	case models.AwaitStylist:
		roster, err := e.Catalog.GetStylists(ctx)
		if err != nil {
			roster = nil
		}
		return askStylistReply(bc, roster)
	case models.AwaitEmail:
		return askEmailReply(bc)
	case models.AwaitConfirmation:
		return confirmBookingReply(bc, displayDate(bc.Date))
	default:
		return helpReply(contextSummary(bc, false))
	}
}

// handleNegation aborts whatever was pending.
func (e *Engine) handleNegation(ctx context.Context, key string, bc *models.BookingContext, fresh bool) (Outcome, error) {
	if fresh && bc.AwaitingInput == models.AwaitNone {
		return replyOutcome(helpReply(nil)), nil
	}
	if err := e.Sessions.Clear(ctx, key); err != nil {
		utils.GetLogger().Warn("failed to clear context", zap.String("key", key), zap.Error(err))
	}
	return replyOutcome(&models.ChatReply{
		Text: "No problem, I've dropped that. Let me know if you'd like to book something else.",
	}), nil
}

func (e *Engine) hoursTurn(ctx context.Context, bc *models.BookingContext) (Outcome, error) {
	hours, err := e.Catalog.GetBusinessHours(ctx)
	if err != nil {
		utils.GetLogger().Warn("failed to load business hours", zap.Error(err))
		hours = nil
	}
	return replyOutcome(hoursReply(hours, e.Availability.OpenMinute, e.Availability.CloseMinute)), nil
}

// contextSummary hides an empty context from the reply payload.
func contextSummary(bc *models.BookingContext, fresh bool) *models.BookingContext {
	if fresh {
		return nil
	}
	return bc
}

func displayDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Monday, Jan 2")
}

// translateToken rewrites quick-reply callback tokens into phrases the
// free-text parsers already understand.
func translateToken(text string, bc *models.BookingContext, categories []models.ServiceCategory, roster []models.Stylist) string {
	trimmed := strings.TrimSpace(text)
	prefix, value, found := strings.Cut(trimmed, ":")
	if !found {
		return text
	}
	switch prefix {
	case "confirm":
		if value == "yes" {
			return "yes"
		}
		return "never mind"
	case "time":
		return "at " + value
	case "date":
		return value
	case "category":
		for _, c := range categories {
			if c.Slug == value {
				return c.Name
			}
		}
	case "stylist":
		if value == "any" {
			return "anyone"
		}
		for _, s := range roster {
			if s.ID == value {
				return s.Name
			}
		}
	case "select":
		for i, ref := range bc.Candidates {
			if ref.ID == value {
				return string(rune('1' + i))
			}
		}
	}
	return text
}
