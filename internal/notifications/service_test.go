package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

type stubRepo struct {
	created    *models.Notification
	rows       []models.Notification
	next       *pagination.Cursor
	markResult notificationMarkResult
	marked     int64
	unread     int64
	err        error

	gotList listNotificationsParams
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, notification *models.Notification) error {
	s.created = notification
	return s.err
}

func (s *stubRepo) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	s.gotList = params
	return s.rows, s.next, s.err
}

func (s *stubRepo) MarkRead(ctx context.Context, customerID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	return s.markResult, s.err
}

func (s *stubRepo) MarkAllRead(ctx context.Context, customerID uuid.UUID, now time.Time) (int64, error) {
	return s.marked, s.err
}

func (s *stubRepo) CountUnread(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return s.unread, s.err
}

func TestNotifyOrderPlacedBuildsMessage(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	customerID := uuid.New()
	orderID := uuid.New()
	err = svc.NotifyOrderPlaced(context.Background(), OrderPlacedParams{
		CustomerID:     customerID,
		OrderID:        orderID,
		RestaurantName: "Thai Garden",
		ReferenceCode:  "ORDER-1-ABC123",
		TotalAmount:    decimal.NewFromInt(17000),
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected notification to be created")
	}
	if repo.created.CustomerID != customerID {
		t.Fatalf("wrong customer %s", repo.created.CustomerID)
	}
	if repo.created.OrderID == nil || *repo.created.OrderID != orderID {
		t.Fatal("expected order id on notification")
	}
	if repo.created.RestaurantName == nil || *repo.created.RestaurantName != "Thai Garden" {
		t.Fatal("expected restaurant name on notification")
	}
	if !strings.Contains(repo.created.Message, "ORDER-1-ABC123") || !strings.Contains(repo.created.Message, "17000 MMK") {
		t.Fatalf("unexpected message %q", repo.created.Message)
	}
}

func TestNotifyOrderPlacedRequiresIDs(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubRepo{})

	err := svc.NotifyOrderPlaced(context.Background(), OrderPlacedParams{OrderID: uuid.New()})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}

	err = svc.NotifyOrderPlaced(context.Background(), OrderPlacedParams{CustomerID: uuid.New()})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestListEncodesNextCursor(t *testing.T) {
	t.Parallel()

	next := &pagination.Cursor{CreatedAt: time.Now().UTC().Truncate(time.Second), ID: uuid.New()}
	repo := &stubRepo{
		rows: []models.Notification{{ID: uuid.New(), Title: "Order confirmed"}},
		next: next,
	}
	svc, _ := NewService(repo)

	customerID := uuid.New()
	result, err := svc.List(context.Background(), ListParams{CustomerID: customerID, Limit: 20, UnreadOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 row got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected encoded cursor")
	}
	if !repo.gotList.UnreadOnly || repo.gotList.CustomerID != customerID {
		t.Fatalf("unexpected repo params %+v", repo.gotList)
	}

	decoded, err := pagination.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if decoded.ID != next.ID {
		t.Fatalf("cursor round trip mismatch: %s vs %s", decoded.ID, next.ID)
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubRepo{})
	_, err := svc.List(context.Background(), ListParams{CustomerID: uuid.New(), Cursor: "not-a-cursor"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestMarkReadUnknownNotification(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubRepo{markResult: notificationMarkResult{Found: false}})
	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestMarkReadAlreadyReadIsIdempotent(t *testing.T) {
	t.Parallel()

	// Found but not updated means a second read of the same notification.
	svc, _ := NewService(&stubRepo{markResult: notificationMarkResult{Found: true, Updated: false}})
	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected nil error got %v", err)
	}
}

func TestMarkAllReadPropagatesRepoFailure(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubRepo{err: errors.New("db down")})
	_, err := svc.MarkAllRead(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error got %v", err)
	}
}

func TestUnreadCount(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubRepo{unread: 3})
	count, err := svc.UnreadCount(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 got %d", count)
	}
}
