package controllers

import (
	"net/http"

	"github.com/ordermesa/preorder-backend/api/middleware"
	"github.com/ordermesa/preorder-backend/api/responses"
	loyaltysvc "github.com/ordermesa/preorder-backend/internal/loyalty"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/logger"
)

// LoyaltySummary returns the customer's rewards standing.
func LoyaltySummary(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loyalty service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context(), middleware.CustomerIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
