package intelligence

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"glowdesk/models"
)

const systemPrompt = "You are the assistant for a hair salon's booking chat. " +
	"The rule-based engine could not handle the customer's message. " +
	"Answer briefly and helpfully. If the customer seems to want to book, " +
	"cancel or reschedule, ask one clarifying question that would let them " +
	"restate the request simply (one service, one date, one time)."

// GeminiAssistant answers escalated messages with a Gemini model.
type GeminiAssistant struct {
	model *genai.GenerativeModel
}

func NewGeminiAssistant(ctx context.Context, apiKey string) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiAssistant{model: model}, nil
}

func (g *GeminiAssistant) Respond(ctx context.Context, message string, bc *models.BookingContext) (string, error) {
	prompt := systemPrompt + "\n\n" + contextPrompt(bc) + "Customer: " + message

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// contextPrompt summarizes the stored conversation state so the model
// can answer in context.
func contextPrompt(bc *models.BookingContext) string {
	if bc == nil {
		return ""
	}
	var facts []string
	if bc.CategoryName != "" {
		facts = append(facts, "service: "+bc.CategoryName)
	}
	if bc.Date != "" {
		facts = append(facts, "date: "+bc.Date)
	}
	if bc.Time != "" {
		facts = append(facts, "time: "+bc.Time)
	}
	if bc.StylistName != "" {
		facts = append(facts, "stylist: "+bc.StylistName)
	}
	if bc.PendingAction != models.ActionNone {
		facts = append(facts, "pending action: "+string(bc.PendingAction))
	}
	if len(facts) == 0 {
		return ""
	}
	return "Known booking details so far: " + strings.Join(facts, ", ") + ".\n"
}
