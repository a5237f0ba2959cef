// database/repository/blocked.go
package repository

import (
	"context"
	"fmt"
	"time"

	"glowdesk/database"
	"glowdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BlockedRepository defines methods to interact with admin-blocked slots.
type BlockedRepository interface {
	GetByDate(date string) ([]models.BlockedSlot, error)
	Create(block *models.BlockedSlot) error
	Delete(id string) error
}

// MongoBlockedRepo implements BlockedRepository using MongoDB.
type MongoBlockedRepo struct {
	coll *mongo.Collection
}

// NewMongoBlockedRepo returns a repository bound to the blocked_slots collection.
func NewMongoBlockedRepo() *MongoBlockedRepo {
	return &MongoBlockedRepo{
		coll: database.MongoClient.Database("glowdesk").Collection("blocked_slots"),
	}
}

func (repo *MongoBlockedRepo) GetByDate(date string) ([]models.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("error querying blocked slots for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var blocks []models.BlockedSlot
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding blocked slots for %s: %w", date, err)
	}
	return blocks, nil
}

func (repo *MongoBlockedRepo) Create(block *models.BlockedSlot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("error creating blocked slot: %w", err)
	}
	return nil
}

func (repo *MongoBlockedRepo) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repo.coll.DeleteOne(ctx, bson.M{"block_id": id}); err != nil {
		return fmt.Errorf("error deleting blocked slot %s: %w", id, err)
	}
	return nil
}
