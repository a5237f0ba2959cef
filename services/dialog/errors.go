package dialog

import "fmt"

// IdentityRequiredError means the requested action needs an email the
// conversation has not supplied yet. It never escapes HandleTurn: the
// engine maps it to the email question.
type IdentityRequiredError struct {
	Action string
}

func (e *IdentityRequiredError) Error() string {
	return fmt.Sprintf("identityRequired: %s needs a customer email", e.Action)
}

// AmbiguousMatchError means a category or appointment selection is still
// unresolved; the engine asks the customer to pick.
type AmbiguousMatchError struct {
	What    string
	Choices []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguousMatch: %s has %d candidates", e.What, len(e.Choices))
}
