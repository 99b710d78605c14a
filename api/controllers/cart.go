package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ordermesa/preorder-backend/api/middleware"
	"github.com/ordermesa/preorder-backend/api/responses"
	"github.com/ordermesa/preorder-backend/api/validators"
	cartsvc "github.com/ordermesa/preorder-backend/internal/cart"
	"github.com/ordermesa/preorder-backend/pkg/enums"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/logger"
)

// CartGet returns the customer's current cart snapshot.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snap, err := svc.Snapshot(r.Context(), middleware.CustomerIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartAddItem merges a menu item into the cart. Adding from a different
// restaurant than the current cart's returns a conflict with both venues
// so the client can offer to start over.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// Quantity is optional and defaults to a single portion.
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}

		snap, err := svc.AddItem(r.Context(), middleware.CustomerIDFromContext(r.Context()), payload.MenuItemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartReplace empties the cart and starts over with a single item. This is
// the "Start new basket" path after a cross-restaurant conflict.
func CartReplace(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload replaceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.ReplaceWith(r.Context(), middleware.CustomerIDFromContext(r.Context()), payload.MenuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartRemoveItem deletes one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		menuItemID, err := validators.ParsePathUUID(chi.URLParam(r, "menuItemID"), "menu_item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.RemoveItem(r.Context(), middleware.CustomerIDFromContext(r.Context()), menuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartUpdateQuantity sets the quantity of an existing line. Zero or
// negative removes the line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		menuItemID, err := validators.ParsePathUUID(chi.URLParam(r, "menuItemID"), "menu_item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.UpdateQuantity(r.Context(), middleware.CustomerIDFromContext(r.Context()), menuItemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartSetOrderType switches the cart between dine-in and take-away.
func CartSetOrderType(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload setOrderTypeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderType, err := enums.ParseOrderType(payload.OrderType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
			return
		}

		snap, err := svc.SetOrderType(r.Context(), middleware.CustomerIDFromContext(r.Context()), orderType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// CartClear empties the cart entirely.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context(), middleware.CustomerIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

type addCartItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"omitempty,min=1"`
}

type replaceCartRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type setOrderTypeRequest struct {
	OrderType string `json:"order_type" validate:"required"`
}
