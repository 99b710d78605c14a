package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/api/middleware"
	"github.com/ordermesa/preorder-backend/api/responses"
	"github.com/ordermesa/preorder-backend/api/validators"
	ordersvc "github.com/ordermesa/preorder-backend/internal/orders"
	"github.com/ordermesa/preorder-backend/pkg/db/models"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/logger"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

// OrdersList returns the customer's order history, newest first.
func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), ordersvc.ListParams{
			CustomerID: middleware.CustomerIDFromContext(r.Context()),
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orderResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, newOrderResponse(&result.Items[i]))
		}
		responses.WriteSuccess(w, orderListResponse{Items: items, Cursor: result.Cursor})
	}
}

// OrdersGet returns a single order with its line items.
func OrdersGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), middleware.CustomerIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type orderListResponse struct {
	Items  []orderResponse `json:"items"`
	Cursor string          `json:"cursor,omitempty"`
}

type orderResponse struct {
	ID            uuid.UUID           `json:"id"`
	RestaurantID  uuid.UUID           `json:"restaurant_id"`
	OrderType     string              `json:"order_type"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	ReferenceCode string              `json:"reference_code"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

type orderItemResponse struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		})
	}

	return orderResponse{
		ID:            order.ID,
		RestaurantID:  order.RestaurantID,
		OrderType:     string(order.OrderType),
		PaymentMethod: string(order.PaymentMethod),
		Status:        string(order.Status),
		ReferenceCode: order.ReferenceCode,
		TotalAmount:   order.TotalAmount,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}
