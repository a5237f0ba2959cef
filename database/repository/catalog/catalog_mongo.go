package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"glowdesk/database"
	"glowdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	categoryColl *mongo.Collection
	stylistColl  *mongo.Collection
	hoursColl    *mongo.Collection
}

// NewMongoCatalogRepo returns a repository bound to the catalog collections.
func NewMongoCatalogRepo() *MongoCatalogRepo {
	db := database.MongoClient.Database("glowdesk")
	return &MongoCatalogRepo{
		categoryColl: db.Collection("service_categories"),
		stylistColl:  db.Collection("stylists"),
		hoursColl:    db.Collection("business_hours"),
	}
}

// GetCategories returns every bookable service category.
func (repo *MongoCatalogRepo) GetCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.categoryColl.Find(ctxWithTimeout, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error querying service categories: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var categories []models.ServiceCategory
	if err := cursor.All(ctxWithTimeout, &categories); err != nil {
		return nil, fmt.Errorf("error decoding service categories: %w", err)
	}
	return categories, nil
}

// GetCategoryByID retrieves one service category.
func (repo *MongoCatalogRepo) GetCategoryByID(ctx context.Context, id string) (*models.ServiceCategory, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var category models.ServiceCategory
	err := repo.categoryColl.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&category)
	if err != nil {
		return nil, fmt.Errorf("service category not found: %w", err)
	}
	return &category, nil
}

// GetStylists returns the stylist roster.
func (repo *MongoCatalogRepo) GetStylists(ctx context.Context) ([]models.Stylist, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.stylistColl.Find(ctxWithTimeout, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error querying stylists: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var stylists []models.Stylist
	if err := cursor.All(ctxWithTimeout, &stylists); err != nil {
		return nil, fmt.Errorf("error decoding stylists: %w", err)
	}
	return stylists, nil
}

// GetBusinessHours returns the stored weekly hours; an empty result means
// the caller should fall back to the configured defaults.
func (repo *MongoCatalogRepo) GetBusinessHours(ctx context.Context) ([]models.BusinessHours, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.hoursColl.Find(ctxWithTimeout, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error querying business hours: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var hours []models.BusinessHours
	if err := cursor.All(ctxWithTimeout, &hours); err != nil {
		return nil, fmt.Errorf("error decoding business hours: %w", err)
	}
	return hours, nil
}
