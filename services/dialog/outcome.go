package dialog

import "glowdesk/models"

// Escalation marks a turn the deterministic engine recognizes as beyond
// its vocabulary. The caller hands the original message to the LLM
// collaborator instead of guessing.
type Escalation struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Outcome is the result of one turn: exactly one of Reply or Escalate is
// set. Escalation is a first-class variant rather than a nil reply so the
// hand-off is explicit and testable.
type Outcome struct {
	Reply    *models.ChatReply
	Escalate *Escalation
}

// Escalated reports whether the turn was handed to the LLM collaborator.
func (o Outcome) Escalated() bool {
	return o.Escalate != nil
}

func replyOutcome(reply *models.ChatReply) Outcome {
	return Outcome{Reply: reply}
}

func escalateOutcome(reason, message string) Outcome {
	return Outcome{Escalate: &Escalation{Reason: reason, Message: message}}
}
