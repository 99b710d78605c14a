package restaurants

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

// Service serves the customer-facing restaurant catalog.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ListMenu(ctx context.Context, restaurantID uuid.UUID, category string) ([]models.MenuItem, error)
}

type service struct {
	repo Repository
}

// NewService wires catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "restaurants repository required")
	}
	return &service{repo: repo}, nil
}

// ListParams configures pagination and filtering for restaurant browsing.
type ListParams struct {
	Limit   int
	Cursor  string
	Cuisine string
	Search  string
}

// ListResult wraps returned restaurants and the cursor for the next page.
type ListResult struct {
	Items  []models.Restaurant `json:"items"`
	Cursor string              `json:"cursor"`
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listRestaurantsParams{
		Limit:   params.Limit,
		Cuisine: params.Cuisine,
		Search:  params.Search,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}

	item, err := s.repo.FindMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return item, nil
}

func (s *service) ListMenu(ctx context.Context, restaurantID uuid.UUID, category string) ([]models.MenuItem, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	// 404 for unknown restaurants instead of an empty menu.
	if _, err := s.GetByID(ctx, restaurantID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListMenuItems(ctx, restaurantID, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	return items, nil
}
