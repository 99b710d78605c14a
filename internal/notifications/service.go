package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

// Service defines notification creation and read-tracking operations.
type Service interface {
	NotifyOrderPlaced(ctx context.Context, params OrderPlacedParams) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, customerID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, customerID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

// OrderPlacedParams describes the confirmation recorded after checkout.
type OrderPlacedParams struct {
	CustomerID     uuid.UUID
	OrderID        uuid.UUID
	RestaurantName string
	ReferenceCode  string
	TotalAmount    decimal.Decimal
}

// ListParams configures pagination for notifications.
type ListParams struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NotifyOrderPlaced records the in-app confirmation for a freshly paid order.
func (s *service) NotifyOrderPlaced(ctx context.Context, params OrderPlacedParams) error {
	if params.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if params.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	orderID := params.OrderID
	notification := &models.Notification{
		CustomerID: params.CustomerID,
		OrderID:    &orderID,
		Title:      "Order confirmed",
		Message:    fmt.Sprintf("Your order %s has been paid. Total: %s MMK.", params.ReferenceCode, params.TotalAmount.StringFixed(0)),
	}
	if params.RestaurantName != "" {
		name := params.RestaurantName
		notification.RestaurantName = &name
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	query := listNotificationsParams{
		CustomerID: params.CustomerID,
		Limit:      params.Limit,
		UnreadOnly: params.UnreadOnly,
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
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

func (s *service) MarkRead(ctx context.Context, customerID, notificationID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, customerID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if customerID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	count, err := s.repo.MarkAllRead(ctx, customerID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) UnreadCount(ctx context.Context, customerID uuid.UUID) (int64, error) {
	if customerID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	count, err := s.repo.CountUnread(ctx, customerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}
