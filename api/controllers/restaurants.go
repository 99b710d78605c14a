package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/api/responses"
	"github.com/ordermesa/preorder-backend/api/validators"
	restaurantsvc "github.com/ordermesa/preorder-backend/internal/restaurants"
	"github.com/ordermesa/preorder-backend/pkg/db/models"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/logger"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

// RestaurantsList returns a cursor-paginated page of restaurants.
func RestaurantsList(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), restaurantsvc.ListParams{
			Limit:   limit,
			Cursor:  strings.TrimSpace(r.URL.Query().Get("cursor")),
			Cuisine: strings.TrimSpace(r.URL.Query().Get("cuisine")),
			Search:  strings.TrimSpace(r.URL.Query().Get("q")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]restaurantResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, newRestaurantResponse(&result.Items[i]))
		}
		responses.WriteSuccess(w, restaurantListResponse{Items: items, Cursor: result.Cursor})
	}
}

// RestaurantsGet returns a single restaurant by id.
func RestaurantsGet(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantID"), "restaurant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newRestaurantResponse(restaurant))
	}
}

// RestaurantsMenu returns a restaurant's menu, optionally filtered by category.
func RestaurantsMenu(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "restaurantID"), "restaurant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListMenu(r.Context(), id, strings.TrimSpace(r.URL.Query().Get("category")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu := make([]menuItemResponse, 0, len(items))
		for i := range items {
			menu = append(menu, newMenuItemResponse(&items[i]))
		}
		responses.WriteSuccess(w, menuListResponse{Items: menu})
	}
}

type restaurantListResponse struct {
	Items  []restaurantResponse `json:"items"`
	Cursor string               `json:"cursor,omitempty"`
}

type restaurantResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CuisineType *string   `json:"cuisine_type,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Rating      float64   `json:"rating"`
	OpenHours   *string   `json:"open_hours,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type menuListResponse struct {
	Items []menuItemResponse `json:"items"`
}

type menuItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	RestaurantID uuid.UUID       `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     *string         `json:"category,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	IsAvailable  bool            `json:"is_available"`
}

func newRestaurantResponse(restaurant *models.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:          restaurant.ID,
		Name:        restaurant.Name,
		Description: restaurant.Description,
		CuisineType: restaurant.CuisineType,
		Address:     restaurant.Address,
		Phone:       restaurant.Phone,
		ImageURL:    restaurant.ImageURL,
		Rating:      restaurant.Rating,
		OpenHours:   restaurant.OpenHours,
		CreatedAt:   restaurant.CreatedAt,
	}
}

func newMenuItemResponse(item *models.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		Category:     item.Category,
		ImageURL:     item.ImageURL,
		IsAvailable:  item.IsAvailable,
	}
}
