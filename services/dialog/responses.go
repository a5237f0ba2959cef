package dialog

import (
	"fmt"
	"strings"

	"glowdesk/models"
	"glowdesk/services/availability"
	"glowdesk/services/nlu"
)

const apologyText = "Sorry, something went wrong on our side. Please try again in a moment, or give us a call."

const helpText = "Here's what I can help with:\n" +
	"• Book an appointment — e.g. \"book a haircut tomorrow at 2pm\"\n" +
	"• See your upcoming appointments — \"my appointments\"\n" +
	"• Cancel or reschedule — \"cancel my appointment\"\n" +
	"• Our services and prices — \"services\"\n" +
	"You can also reply \"back\" to return to the previous step."

func greetingReply() *models.ChatReply {
	return &models.ChatReply{
		Text: "Hi! Welcome to Glowdesk. I can book, reschedule or cancel salon appointments for you. What would you like to do?",
	}
}

func helpReply(bc *models.BookingContext) *models.ChatReply {
	return &models.ChatReply{Text: helpText, Context: bc}
}

func apologyReply() *models.ChatReply {
	return &models.ChatReply{Text: apologyText}
}

func servicesReply(categories []models.ServiceCategory) *models.ChatReply {
	if len(categories) == 0 {
		return &models.ChatReply{Text: "Our service list isn't available right now. Please try again shortly."}
	}
	var sb strings.Builder
	sb.WriteString("Here's what we offer:\n")
	for _, c := range categories {
		sb.WriteString("• " + c.Name)
		if c.PriceNote != "" {
			sb.WriteString(" — " + c.PriceNote)
		}
		sb.WriteString(fmt.Sprintf(" (about %d min)\n", c.DurationMinutes))
	}
	sb.WriteString("Which one can I book for you?")
	return &models.ChatReply{Text: sb.String(), Buttons: categoryButtons(categories)}
}

func hoursReply(hours []models.BusinessHours, fallbackOpen, fallbackClose int) *models.ChatReply {
	if len(hours) == 0 {
		return &models.ChatReply{Text: fmt.Sprintf("We're open daily from %s to %s.",
			clockLabel(fallbackOpen), clockLabel(fallbackClose))}
	}
	var sb strings.Builder
	sb.WriteString("Our hours:\n")
	for _, h := range hours {
		if h.Closed {
			sb.WriteString(fmt.Sprintf("• %s: closed\n", h.Weekday))
			continue
		}
		sb.WriteString(fmt.Sprintf("• %s: %s – %s\n", h.Weekday, clockLabel(h.OpenMinute), clockLabel(h.CloseMinute)))
	}
	return &models.ChatReply{Text: sb.String()}
}

func askCategoryReply(bc *models.BookingContext, categories []models.ServiceCategory) *models.ChatReply {
	return &models.ChatReply{
		Text:    "What service would you like to book?",
		Buttons: categoryButtons(categories),
		Context: bc,
	}
}

func ambiguousCategoryReply(bc *models.BookingContext, candidates []models.ServiceCategory) *models.ChatReply {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	return &models.ChatReply{
		Text:    fmt.Sprintf("I found a few services that could match: %s. Which one did you mean?", strings.Join(names, ", ")),
		Buttons: categoryButtons(candidates),
		Context: bc,
	}
}

func askDateReply(bc *models.BookingContext) *models.ChatReply {
	return &models.ChatReply{
		Text:    fmt.Sprintf("Great — %s it is. What day works for you? You can say things like \"tomorrow\", \"next friday\" or \"March 14\".", bc.CategoryName),
		Context: bc,
	}
}

func askTimeReply(bc *models.BookingContext, dateDisplay string) *models.ChatReply {
	return &models.ChatReply{
		Text:    fmt.Sprintf("What time on %s?", dateDisplay),
		Context: bc,
	}
}

func askTimeInRangeReply(bc *models.BookingContext, rangeLabel string, slots []string) *models.ChatReply {
	if len(slots) == 0 {
		return &models.ChatReply{
			Text:    fmt.Sprintf("Nothing is open in the %s on %s. Would another day work?", rangeLabel, bc.Date),
			Context: bc,
		}
	}
	return &models.ChatReply{
		Text:    fmt.Sprintf("In the %s we have: %s. Which time would you like?", rangeLabel, strings.Join(displayTimes(slots), ", ")),
		Buttons: timeButtons(slots),
		Context: bc,
	}
}

func askStylistReply(bc *models.BookingContext, roster []models.Stylist) *models.ChatReply {
	buttons := make([]models.Button, 0, len(roster)+1)
	names := make([]string, 0, len(roster))
	for _, s := range roster {
		buttons = append(buttons, models.Button{Label: s.Name, Token: "stylist:" + s.ID})
		names = append(names, s.Name)
	}
	buttons = append(buttons, models.Button{Label: "No preference", Token: "stylist:any"})
	return &models.ChatReply{
		Text:    fmt.Sprintf("Do you have a stylist preference? We have %s — or say \"anyone\".", strings.Join(names, ", ")),
		Buttons: buttons,
		Context: bc,
	}
}

func askEmailReply(bc *models.BookingContext) *models.ChatReply {
	return &models.ChatReply{
		Text:    "What's the email address on your booking, so I can look you up?",
		Context: bc,
	}
}

func confirmBookingReply(bc *models.BookingContext, dateDisplay string) *models.ChatReply {
	var stylist string
	if bc.StylistName != "" {
		stylist = " with " + bc.StylistName
	}
	var price string
	if bc.PriceNote != "" {
		price = fmt.Sprintf(" (%s)", bc.PriceNote)
	}
	text := fmt.Sprintf("Here's your booking: %s%s on %s at %s%s. Reply \"yes\" to confirm.",
		bc.CategoryName, stylist, dateDisplay, displayClock(bc.Time), price)
	return &models.ChatReply{
		Text: text,
		Buttons: []models.Button{
			{Label: "Yes, confirm", Token: "confirm:yes"},
			{Label: "No, cancel", Token: "confirm:no"},
		},
		Context: bc,
	}
}

func confirmRescheduleReply(bc *models.BookingContext, dateDisplay string) *models.ChatReply {
	text := fmt.Sprintf("Move your %s to %s at %s? Reply \"yes\" to confirm.",
		bc.CategoryName, dateDisplay, displayClock(bc.Time))
	return &models.ChatReply{
		Text: text,
		Buttons: []models.Button{
			{Label: "Yes, move it", Token: "confirm:yes"},
			{Label: "No, keep it", Token: "confirm:no"},
		},
		Context: bc,
	}
}

func confirmCancelReply(bc *models.BookingContext, display string) *models.ChatReply {
	return &models.ChatReply{
		Text: fmt.Sprintf("Cancel your %s? Reply \"yes\" to confirm.", display),
		Buttons: []models.Button{
			{Label: "Yes, cancel it", Token: "confirm:yes"},
			{Label: "No, keep it", Token: "confirm:no"},
		},
		Context: bc,
	}
}

func selectAppointmentReply(bc *models.BookingContext, verb string) *models.ChatReply {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You have %d upcoming appointments. Which one would you like to %s?\n", len(bc.Candidates), verb))
	buttons := make([]models.Button, 0, len(bc.Candidates))
	for i, ref := range bc.Candidates {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, ref.Display))
		buttons = append(buttons, models.Button{
			Label: fmt.Sprintf("%d", i+1),
			Token: "select:" + ref.ID,
		})
	}
	sb.WriteString("Reply with a number, e.g. \"1\" or \"first\".")
	return &models.ChatReply{Text: sb.String(), Buttons: buttons, Context: bc}
}

// conflictReply renders a rejected slot with its alternatives and decides
// what the engine should ask for next.
func conflictReply(bc *models.BookingContext, conflict *availability.ConflictError) *models.ChatReply {
	switch {
	case len(conflict.Alternatives) > 0 && conflict.Code == availability.CodeInsufficientCapacity:
		return &models.ChatReply{
			Text: fmt.Sprintf("%s doesn't leave enough time for your %s. These start times do: %s. Which works?",
				displayClock(bc.Time), bc.CategoryName, strings.Join(displayTimes(conflict.Alternatives), ", ")),
			Buttons: timeButtons(conflict.Alternatives),
			Context: bc,
		}
	case len(conflict.Alternatives) > 0:
		return &models.ChatReply{
			Text: fmt.Sprintf("That time is taken. The closest openings are %s. Which works?",
				strings.Join(displayTimes(conflict.Alternatives), ", ")),
			Buttons: timeButtons(conflict.Alternatives),
			Context: bc,
		}
	case len(conflict.AltDates) > 0:
		var sb strings.Builder
		sb.WriteString("That day is fully booked. The next openings are:\n")
		buttons := make([]models.Button, 0, len(conflict.AltDates))
		for _, d := range conflict.AltDates {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", d.Display, strings.Join(displayTimes(d.Slots), ", ")))
			buttons = append(buttons, models.Button{Label: d.Display, Token: "date:" + d.Date})
		}
		sb.WriteString("Which day works?")
		return &models.ChatReply{Text: sb.String(), Buttons: buttons, Context: bc}
	default:
		return &models.ChatReply{
			Text:    "That day doesn't have an opening long enough for this service. Would a different day work?",
			Context: bc,
		}
	}
}

func validationReply(bc *models.BookingContext, verr *availability.ValidationError) *models.ChatReply {
	switch verr.Code {
	case availability.CodePastDate:
		return &models.ChatReply{
			Text:    fmt.Sprintf("%s. What day would you like instead?", capitalize(verr.Message)),
			Context: bc,
		}
	default:
		text := capitalize(verr.Message) + "."
		if verr.SuggestedTime != "" {
			text += fmt.Sprintf(" Would %s work?", displayClock(verr.SuggestedTime))
		} else {
			text += " What day would you like instead?"
		}
		return &models.ChatReply{Text: text, Context: bc}
	}
}

func categoryButtons(categories []models.ServiceCategory) []models.Button {
	buttons := make([]models.Button, 0, len(categories))
	for _, c := range categories {
		buttons = append(buttons, models.Button{Label: c.Name, Token: "category:" + c.Slug})
	}
	return buttons
}

func timeButtons(slots []string) []models.Button {
	buttons := make([]models.Button, 0, len(slots))
	for _, s := range slots {
		buttons = append(buttons, models.Button{Label: displayClock(s), Token: "time:" + s})
	}
	return buttons
}

func displayTimes(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, displayClock(s))
	}
	return out
}

// displayClock renders "15:04" as "3:04 PM"; bad input is shown as-is.
func displayClock(clock string) string {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return clock
	}
	return nlu.DisplayTime(h, m)
}

func clockLabel(minute int) string {
	return nlu.DisplayTime(minute/60, minute%60)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
