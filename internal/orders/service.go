package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	"github.com/ordermesa/preorder-backend/pkg/enums"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service persists orders and serves order history.
type Service interface {
	Submit(ctx context.Context, params SubmitParams) (*models.Order, error)
	Get(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires orders dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// LineInput snapshots one cart line for the order record.
type LineInput struct {
	MenuItemID uuid.UUID
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// SubmitParams carries everything needed to persist a paid order.
type SubmitParams struct {
	CustomerID    uuid.UUID
	RestaurantID  uuid.UUID
	OrderType     enums.OrderType
	PaymentMethod enums.PaymentMethod
	ReferenceCode string
	Lines         []LineInput
}

// ListParams configures pagination for order history.
type ListParams struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     string
}

// ListResult wraps returned orders and the cursor for the next page.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}

// Submit writes the order and its line items atomically. Orders land in
// status paid; the kitchen flow moves them along later.
func (s *service) Submit(ctx context.Context, params SubmitParams) (*models.Order, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if params.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	if !params.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order type %q", params.OrderType))
	}
	if !params.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", params.PaymentMethod))
	}
	if params.ReferenceCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference code required")
	}
	if len(params.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(params.Lines))
	for _, line := range params.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			ID:         uuid.New(),
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		})
	}

	order := &models.Order{
		ID:            uuid.New(),
		CustomerID:    params.CustomerID,
		RestaurantID:  params.RestaurantID,
		OrderType:     params.OrderType,
		PaymentMethod: params.PaymentMethod,
		Status:        enums.OrderStatusPaid,
		ReferenceCode: params.ReferenceCode,
		TotalAmount:   total,
		Items:         items,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderFailed, err, "persist order")
	}
	return order, nil
}

// Get loads a single order, scoped to the owning customer.
func (s *service) Get(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.CustomerID != customerID {
		// Hide other customers' orders rather than admitting they exist.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	query := listOrdersParams{
		CustomerID: params.CustomerID,
		Limit:      params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListByCustomer(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
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
