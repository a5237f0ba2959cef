package models

import (
	"fmt"
	"time"
)

// AwaitingInput names the single outstanding question the dialogue engine
// has posed; the next message is interpreted in that context.
type AwaitingInput string

const (
	AwaitNone              AwaitingInput = ""
	AwaitCategory          AwaitingInput = "category"
	AwaitDate              AwaitingInput = "date"
	AwaitTime              AwaitingInput = "time"
	AwaitStylist           AwaitingInput = "stylist"
	AwaitConfirmation      AwaitingInput = "confirmation"
	AwaitEmail             AwaitingInput = "email"
	AwaitAppointmentSelect AwaitingInput = "appointment_select"
)

// PendingAction is the sub-flow a cancel/reschedule/view request opened.
type PendingAction string

const (
	ActionNone       PendingAction = ""
	ActionCancel     PendingAction = "cancel"
	ActionReschedule PendingAction = "reschedule"
	ActionView       PendingAction = "view"
)

// MaxStepHistory bounds the undo stack kept inside a context.
const MaxStepHistory = 10

// StepFrame is an immutable snapshot taken before a dialogue step, used
// for "back" navigation. Snapshot is stored with its own history stripped.
type StepFrame struct {
	Step     AwaitingInput  `json:"step"`
	Snapshot BookingContext `json:"snapshot"`
	At       time.Time      `json:"at"`
}

// AppointmentRef is a compact appointment reference kept inside a
// context while the customer picks one from a list.
type AppointmentRef struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// BookingContext is the durable, per-conversation slot-filling state.
// It is stored as JSON under the conversation key and merged on every turn.
type BookingContext struct {
	CategoryID      string `json:"categoryId,omitempty"`
	CategoryName    string `json:"categoryName,omitempty"`
	PriceNote       string `json:"priceNote,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`

	Date string `json:"date,omitempty"` // "2006-01-02"
	Time string `json:"time,omitempty"` // "15:04"

	StylistID   string `json:"stylistId,omitempty"`
	StylistName string `json:"stylistName,omitempty"`
	AnyStylist  bool   `json:"anyStylist,omitempty"`

	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`

	AwaitingInput AwaitingInput `json:"awaitingInput,omitempty"`
	PendingAction PendingAction `json:"pendingAction,omitempty"`
	AppointmentID string        `json:"appointmentId,omitempty"`

	// Candidates is the numbered list shown while awaiting an
	// appointment selection for cancel/reschedule.
	Candidates []AppointmentRef `json:"candidates,omitempty"`

	StepHistory []StepFrame `json:"stepHistory,omitempty"`

	ExpiresAt time.Time `json:"expiresAt"`
}

// SetAwaiting moves the context to a new outstanding question, enforcing
// that a context with no resolved category never awaits confirmation.
func (c *BookingContext) SetAwaiting(a AwaitingInput) error {
	if a == AwaitConfirmation && c.CategoryID == "" && c.CategoryName == "" {
		return fmt.Errorf("context cannot await confirmation without a category")
	}
	c.AwaitingInput = a
	return nil
}

// Expired reports whether the context has passed its expiry timestamp.
func (c *BookingContext) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// snapshot returns a copy of the context with the history stack stripped,
// so frames never nest recursively.
func (c *BookingContext) snapshot() BookingContext {
	cp := *c
	cp.StepHistory = nil
	return cp
}

// PushStep records the current state before a step transition. The stack
// is bounded; the oldest frame is dropped when full.
func (c *BookingContext) PushStep(step AwaitingInput, now time.Time) {
	frame := StepFrame{Step: step, Snapshot: c.snapshot(), At: now}
	c.StepHistory = append(c.StepHistory, frame)
	if len(c.StepHistory) > MaxStepHistory {
		c.StepHistory = c.StepHistory[len(c.StepHistory)-MaxStepHistory:]
	}
}

// PopStep restores the most recent snapshot exactly as it was pushed,
// never merging it with the current state. It returns false when there is
// nothing to pop.
func (c *BookingContext) PopStep() bool {
	if len(c.StepHistory) == 0 {
		return false
	}
	frame := c.StepHistory[len(c.StepHistory)-1]
	rest := c.StepHistory[:len(c.StepHistory)-1]
	restored := frame.Snapshot
	restored.StepHistory = rest
	restored.ExpiresAt = c.ExpiresAt
	*c = restored
	return true
}

// ClearStepHistory drops the undo stack.
func (c *BookingContext) ClearStepHistory() {
	c.StepHistory = nil
}
