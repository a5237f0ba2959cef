package models

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	CustomerEmail string `json:"customerEmail"`
	CategoryName  string `json:"categoryName"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
