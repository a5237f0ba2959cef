package models

// Button is a quick-reply option for channels that support them.
type Button struct {
	Label string `json:"label"`
	Token string `json:"token"` // callback payload the channel echoes back
}

// ChatReply is what the dialogue engine hands back to the channel adapter
// for one turn.
type ChatReply struct {
	Text    string          `json:"text"`
	Buttons []Button        `json:"buttons,omitempty"`
	Context *BookingContext `json:"context,omitempty"` // updated context summary, nil once cleared
}
