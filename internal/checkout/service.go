package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/internal/cart"
	"github.com/ordermesa/preorder-backend/internal/notifications"
	"github.com/ordermesa/preorder-backend/internal/orders"
	"github.com/ordermesa/preorder-backend/internal/payments"
	"github.com/ordermesa/preorder-backend/pkg/config"
	"github.com/ordermesa/preorder-backend/pkg/db/models"
	"github.com/ordermesa/preorder-backend/pkg/enums"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
	"github.com/ordermesa/preorder-backend/pkg/logger"
	"github.com/ordermesa/preorder-backend/pkg/metrics"
)

type cartController interface {
	BeginCheckout(ctx context.Context, customerID uuid.UUID) (*cart.Snapshot, error)
	CompleteCheckout(ctx context.Context, customerID uuid.UUID)
	EndCheckout(ctx context.Context, customerID uuid.UUID)
}

type orderSubmitter interface {
	Submit(ctx context.Context, params orders.SubmitParams) (*models.Order, error)
}

type notifier interface {
	NotifyOrderPlaced(ctx context.Context, params notifications.OrderPlacedParams) error
}

// Service runs the checkout pipeline: freeze the cart, charge the wallet,
// persist the order, record the confirmation, then release the cart.
type Service interface {
	Execute(ctx context.Context, customerID uuid.UUID, input Input) (*Receipt, error)
}

// Input is the customer's contribution to checkout. Everything else comes
// from the frozen cart snapshot.
type Input struct {
	PaymentMethod enums.PaymentMethod
}

// Receipt summarizes a successful checkout for the confirmation screen.
type Receipt struct {
	OrderID        uuid.UUID           `json:"order_id"`
	ReferenceCode  string              `json:"reference_code"`
	RestaurantName string              `json:"restaurant_name"`
	OrderType      enums.OrderType     `json:"order_type"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	PlacedAt       time.Time           `json:"placed_at"`
}

type service struct {
	carts    cartController
	gateway  payments.Gateway
	orders   orderSubmitter
	notify   notifier
	logg     *logger.Logger
	checkout *metrics.CheckoutMetrics

	submitTimeout time.Duration
	now           func() time.Time
	newReference  func(time.Time) string
}

// NewService wires the checkout pipeline.
func NewService(
	carts cartController,
	gateway payments.Gateway,
	submitter orderSubmitter,
	notify notifier,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
	cfg config.CheckoutConfig,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart controller required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := cfg.SubmitTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &service{
		carts:         carts,
		gateway:       gateway,
		orders:        submitter,
		notify:        notify,
		logg:          logg,
		checkout:      checkoutMetrics,
		submitTimeout: timeout,
		now:           time.Now,
		newReference:  NewReferenceCode,
	}, nil
}

// Execute runs a single checkout attempt. A failed attempt leaves the cart
// untouched so the customer can retry; only success empties it.
func (s *service) Execute(ctx context.Context, customerID uuid.UUID, input Input) (*Receipt, error) {
	s.checkout.IncAttempt()

	if customerID == uuid.Nil {
		return nil, s.fail(pkgerrors.New(pkgerrors.CodeUnauthorized, "customer id is required"))
	}
	if !input.PaymentMethod.IsValid() {
		return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod)))
	}

	snap, err := s.carts.BeginCheckout(ctx, customerID)
	if err != nil {
		return nil, s.fail(err)
	}

	receipt, err := s.run(ctx, customerID, input, snap)
	if err != nil {
		s.carts.EndCheckout(ctx, customerID)
		return nil, s.fail(err)
	}

	s.carts.CompleteCheckout(ctx, customerID)
	s.checkout.IncOutcome("success")
	return receipt, nil
}

func (s *service) run(ctx context.Context, customerID uuid.UUID, input Input, snap *cart.Snapshot) (*Receipt, error) {
	if snap.IsEmpty() || snap.RestaurantID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	ctx = s.logg.WithCustomerID(ctx, customerID.String())
	ctx = s.logg.WithRestaurantID(ctx, snap.RestaurantID.String())

	paymentStart := s.now()
	auth, err := s.gateway.Authorize(ctx, payments.Request{
		CustomerID: customerID,
		Method:     input.PaymentMethod,
		Amount:     snap.Subtotal,
	})
	s.checkout.ObservePaymentDuration(s.now().Sub(paymentStart))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "payment gateway timed out")
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentFailed, err, "authorize payment")
	}

	reference := s.newReference(s.now())
	lines := make([]orders.LineInput, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		lines = append(lines, orders.LineInput{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		})
	}

	order, err := s.orders.Submit(ctx, orders.SubmitParams{
		CustomerID:    customerID,
		RestaurantID:  *snap.RestaurantID,
		OrderType:     snap.OrderType,
		PaymentMethod: input.PaymentMethod,
		ReferenceCode: reference,
		Lines:         lines,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "order submission timed out")
		}
		return nil, err
	}

	// The order is paid and durable at this point. A lost confirmation
	// notification must not fail the checkout, and a submit that ate the
	// whole timeout budget must not starve it either.
	notifyCtx := context.WithoutCancel(ctx)
	if err := s.notify.NotifyOrderPlaced(notifyCtx, notifications.OrderPlacedParams{
		CustomerID:     customerID,
		OrderID:        order.ID,
		RestaurantName: snap.RestaurantName,
		ReferenceCode:  order.ReferenceCode,
		TotalAmount:    order.TotalAmount,
	}); err != nil {
		s.checkout.IncNotifyFailure()
		s.logg.Warn(s.logg.WithOrderID(notifyCtx, order.ID.String()), fmt.Sprintf("order confirmation notification failed: %v", err))
	}

	return &Receipt{
		OrderID:        order.ID,
		ReferenceCode:  order.ReferenceCode,
		RestaurantName: snap.RestaurantName,
		OrderType:      order.OrderType,
		PaymentMethod:  order.PaymentMethod,
		TotalAmount:    order.TotalAmount,
		PlacedAt:       auth.ProcessedAt,
	}, nil
}

func (s *service) fail(err error) error {
	s.checkout.IncOutcome(outcomeLabel(err))
	return err
}

func outcomeLabel(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "internal"
	}
	switch typed.Code() {
	case pkgerrors.CodeEmptyCart:
		return "empty_cart"
	case pkgerrors.CodeStateConflict:
		return "state_conflict"
	case pkgerrors.CodePaymentFailed:
		return "payment_failed"
	case pkgerrors.CodeTimeout:
		return "timeout"
	case pkgerrors.CodeOrderFailed:
		return "order_failed"
	case pkgerrors.CodeValidation:
		return "validation"
	case pkgerrors.CodeUnauthorized:
		return "unauthorized"
	default:
		return string(typed.Code())
	}
}
