package models

// Stylist is a bookable staff member.
type Stylist struct {
	ID          string   `bson:"id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Specialties []string `bson:"specialties,omitempty" json:"specialties,omitempty"`
}
