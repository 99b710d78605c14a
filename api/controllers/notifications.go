package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ordermesa/preorder-backend/api/middleware"
	"github.com/ordermesa/preorder-backend/api/responses"
	"github.com/ordermesa/preorder-backend/api/validators"
	notificationsvc "github.com/ordermesa/preorder-backend/internal/notifications"
	"github.com/ordermesa/preorder-backend/pkg/db/models"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/logger"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

// NotificationsList returns the customer's notifications, newest first.
func NotificationsList(svc notificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unreadOnly, err := validators.ParseQueryBool(r, "unread_only", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), notificationsvc.ListParams{
			CustomerID: middleware.CustomerIDFromContext(r.Context()),
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
			UnreadOnly: unreadOnly,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]notificationResponse, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, newNotificationResponse(&result.Items[i]))
		}
		responses.WriteSuccess(w, notificationListResponse{Items: items, Cursor: result.Cursor})
	}
}

// NotificationsMarkRead marks one notification as read.
func NotificationsMarkRead(svc notificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		notificationID, err := validators.ParsePathUUID(chi.URLParam(r, "notificationID"), "notification_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), middleware.CustomerIDFromContext(r.Context()), notificationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

// NotificationsMarkAllRead marks every unread notification as read.
func NotificationsMarkAllRead(svc notificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		updated, err := svc.MarkAllRead(r.Context(), middleware.CustomerIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}

// NotificationsUnreadCount returns the badge count for the app tab bar.
func NotificationsUnreadCount(svc notificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		count, err := svc.UnreadCount(r.Context(), middleware.CustomerIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"unread": count})
	}
}

type notificationListResponse struct {
	Items  []notificationResponse `json:"items"`
	Cursor string                 `json:"cursor,omitempty"`
}

type notificationResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	RestaurantName *string    `json:"restaurant_name,omitempty"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Status         string     `json:"status"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func newNotificationResponse(notification *models.Notification) notificationResponse {
	return notificationResponse{
		ID:             notification.ID,
		OrderID:        notification.OrderID,
		RestaurantName: notification.RestaurantName,
		Title:          notification.Title,
		Message:        notification.Message,
		Status:         string(notification.Status),
		ReadAt:         notification.ReadAt,
		CreatedAt:      notification.CreatedAt,
	}
}
