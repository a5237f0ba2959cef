package catalogRepo

import (
	"context"

	"glowdesk/models"
)

// CatalogRepository exposes the salon's bookable catalog: service
// categories, the stylist roster and weekly business hours.
type CatalogRepository interface {
	GetCategories(ctx context.Context) ([]models.ServiceCategory, error)
	GetCategoryByID(ctx context.Context, id string) (*models.ServiceCategory, error)
	GetStylists(ctx context.Context) ([]models.Stylist, error)
	GetBusinessHours(ctx context.Context) ([]models.BusinessHours, error)
}
