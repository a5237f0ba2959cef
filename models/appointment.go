package models

import "time"

// Appointment statuses.
const (
	AppointmentConfirmed = "Confirmed"
	AppointmentCancelled = "Cancelled"
)

// Appointment represents a confirmed salon booking record.
type Appointment struct {
	ID              string    `bson:"id" json:"id"`                                   // Unique appointment identifier (UUID)
	CustomerName    string    `bson:"customer_name,omitempty" json:"customerName,omitempty"`
	CustomerEmail   string    `bson:"customer_email" json:"customerEmail"`            // Identity used to find a customer's bookings
	CategoryID      string    `bson:"category_id" json:"categoryId"`                  // Booked service category
	CategoryName    string    `bson:"category_name" json:"categoryName"`
	StylistID       string    `bson:"stylist_id,omitempty" json:"stylistId,omitempty"`
	StylistName     string    `bson:"stylist_name,omitempty" json:"stylistName,omitempty"`
	Date            string    `bson:"date" json:"date"`                               // "2006-01-02"
	Time            string    `bson:"time" json:"time"`                               // Start time, "15:04"
	DurationMinutes int       `bson:"duration_minutes" json:"durationMinutes"`        // Estimated service duration
	Status          string    `bson:"status" json:"status"`                           // "Confirmed", "Cancelled"
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}
