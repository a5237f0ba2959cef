package models

import "time"

// BlockedSlot is an admin-blocked scheduling slot.
type BlockedSlot struct {
	ID        string    `bson:"block_id" json:"block_id"`                       // Unique identifier for the block
	Date      string    `bson:"date" json:"date"`                               // Date (e.g. "2025-02-25")
	Time      string    `bson:"time" json:"time"`                               // Slot start, "15:04"
	StylistID string    `bson:"stylist_id,omitempty" json:"stylist_id,omitempty"` // Empty blocks the slot for every stylist
	Reason    string    `bson:"reason" json:"reason"`                           // e.g. "staff meeting", "maintenance"
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
