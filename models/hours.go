package models

import "time"

// BusinessHours is the open window for one weekday, in minutes from
// midnight salon-local time.
type BusinessHours struct {
	Weekday     time.Weekday `bson:"weekday" json:"weekday"`
	OpenMinute  int          `bson:"open_minute" json:"openMinute"`   // e.g. 540 for 9:00 AM
	CloseMinute int          `bson:"close_minute" json:"closeMinute"` // e.g. 1140 for 7:00 PM
	Closed      bool         `bson:"closed" json:"closed"`
}
