package appointmentRepo

import (
	"context"
	"log"
	"time"

	"glowdesk/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a repository bound to the appointments
// collection and ensures its indexes.
func NewMongoAppointmentRepo() *MongoAppointmentRepo {
	coll := database.MongoClient.Database("glowdesk").Collection("appointments")
	repo := &MongoAppointmentRepo{coll: coll}
	repo.ensureIndexes()
	return repo
}

func (repo *MongoAppointmentRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "customer_email", Value: 1}, {Key: "date", Value: 1}}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("failed to create appointment indexes: %v", err)
	}
}
