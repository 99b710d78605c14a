package restaurants

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

// Repository exposes persistence helpers for the restaurant catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	List(ctx context.Context, params listRestaurantsParams) ([]models.Restaurant, *pagination.Cursor, error)
	FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID uuid.UUID, category string) ([]models.MenuItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listRestaurantsParams struct {
	Limit   int
	Cursor  *pagination.Cursor
	Cuisine string
	Search  string
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listRestaurantsParams) ([]models.Restaurant, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if params.Cuisine != "" {
		query = query.Where("cuisine_type = ?", params.Cuisine)
	}
	if params.Search != "" {
		needle := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", needle, needle)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var restaurants []models.Restaurant
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&restaurants).Error; err != nil {
		return nil, nil, err
	}

	if len(restaurants) > normalized {
		next := restaurants[normalized]
		restaurants = restaurants[:normalized]
		return restaurants, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return restaurants, nil, nil
}

func (r *repositoryImpl) FindMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) ListMenuItems(ctx context.Context, restaurantID uuid.UUID, category string) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).Where("restaurant_id = ? AND is_available = ?", restaurantID, true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
