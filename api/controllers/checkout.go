package controllers

import (
	"net/http"

	"github.com/ordermesa/preorder-backend/api/middleware"
	"github.com/ordermesa/preorder-backend/api/responses"
	"github.com/ordermesa/preorder-backend/api/validators"
	checkoutsvc "github.com/ordermesa/preorder-backend/internal/checkout"
	"github.com/ordermesa/preorder-backend/pkg/enums"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/logger"
)

// Checkout submits the customer's cart as a paid order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		receipt, err := svc.Execute(r.Context(), middleware.CustomerIDFromContext(r.Context()), checkoutsvc.Input{
			PaymentMethod: method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}
