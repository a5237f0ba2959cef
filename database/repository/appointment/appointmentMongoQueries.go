package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"glowdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByDate returns confirmed appointments on the given date, optionally
// narrowed to a single stylist.
func (repo *MongoAppointmentRepo) GetByDate(date string, stylistID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"date": date, "status": models.AppointmentConfirmed}
	if stylistID != "" {
		filter["stylist_id"] = stylistID
	}

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error querying appointments for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments for %s: %w", date, err)
	}
	return appts, nil
}

// GetUpcomingByEmail returns a customer's confirmed appointments on or
// after fromDate, soonest first.
func (repo *MongoAppointmentRepo) GetUpcomingByEmail(email string, fromDate string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"customer_email": email,
		"status":         models.AppointmentConfirmed,
		"date":           bson.M{"$gte": fromDate},
	}
	sort := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := repo.coll.Find(ctx, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments for %s: %w", email, err)
	}
	return appts, nil
}
