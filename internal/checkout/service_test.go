package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
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
)

type cartStub struct {
	snapshot  *cart.Snapshot
	beginErr  error
	begins    int
	completes int
	ends      int
}

func (c *cartStub) BeginCheckout(ctx context.Context, customerID uuid.UUID) (*cart.Snapshot, error) {
	c.begins++
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	return c.snapshot, nil
}

func (c *cartStub) CompleteCheckout(ctx context.Context, customerID uuid.UUID) { c.completes++ }

func (c *cartStub) EndCheckout(ctx context.Context, customerID uuid.UUID) { c.ends++ }

type gatewayStub struct {
	err   error
	calls int
	last  payments.Request
}

func (g *gatewayStub) Authorize(ctx context.Context, req payments.Request) (*payments.Authorization, error) {
	g.calls++
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	return &payments.Authorization{
		TransactionID: uuid.NewString(),
		Method:        req.Method,
		Amount:        req.Amount,
		ProcessedAt:   time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC),
	}, nil
}

type ordersStub struct {
	err   error
	calls int
	last  orders.SubmitParams
}

func (o *ordersStub) Submit(ctx context.Context, params orders.SubmitParams) (*models.Order, error) {
	o.calls++
	o.last = params
	if o.err != nil {
		return nil, o.err
	}
	total := decimal.Zero
	for _, line := range params.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return &models.Order{
		ID:            uuid.New(),
		CustomerID:    params.CustomerID,
		RestaurantID:  params.RestaurantID,
		OrderType:     params.OrderType,
		PaymentMethod: params.PaymentMethod,
		Status:        enums.OrderStatusPaid,
		ReferenceCode: params.ReferenceCode,
		TotalAmount:   total,
	}, nil
}

type notifyStub struct {
	err         error
	calls       int
	last        notifications.OrderPlacedParams
	sawDeadline bool
	ctxErr      error
}

func (n *notifyStub) NotifyOrderPlaced(ctx context.Context, params notifications.OrderPlacedParams) error {
	n.calls++
	n.last = params
	_, n.sawDeadline = ctx.Deadline()
	n.ctxErr = ctx.Err()
	if n.err != nil {
		return n.err
	}
	return nil
}

type env struct {
	carts   *cartStub
	gateway *gatewayStub
	orders  *ordersStub
	notify  *notifyStub
	svc     Service
}

func filledSnapshot() *cart.Snapshot {
	restaurantID := uuid.New()
	return &cart.Snapshot{
		RestaurantID:   &restaurantID,
		RestaurantName: "Thai Garden",
		OrderType:      enums.OrderTypeTakeAway,
		Lines: []cart.Line{
			{MenuItemID: uuid.New(), Name: "Pad Thai", UnitPrice: decimal.RequireFromString("8500"), Quantity: 2},
		},
		ItemCount: 2,
		Subtotal:  decimal.RequireFromString("17000"),
	}
}

func newEnv(t *testing.T, snapshot *cart.Snapshot) *env {
	t.Helper()

	e := &env{
		carts:   &cartStub{snapshot: snapshot},
		gateway: &gatewayStub{},
		orders:  &ordersStub{},
		notify:  &notifyStub{},
	}
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})

	svc, err := NewService(e.carts, e.gateway, e.orders, e.notify, logg, nil, config.CheckoutConfig{SubmitTimeout: time.Second})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	e.svc = svc
	return e
}

func TestExecuteHappyPath(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())
	customerID := uuid.New()

	receipt, err := e.svc.Execute(context.Background(), customerID, Input{PaymentMethod: enums.PaymentMethodKBZPay})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if e.gateway.calls != 1 {
		t.Fatalf("expected one gateway call, got %d", e.gateway.calls)
	}
	if !e.gateway.last.Amount.Equal(decimal.RequireFromString("17000")) {
		t.Fatalf("gateway charged %s, want 17000", e.gateway.last.Amount)
	}
	if e.orders.calls != 1 {
		t.Fatalf("expected one submit call, got %d", e.orders.calls)
	}
	if e.orders.last.OrderType != enums.OrderTypeTakeAway {
		t.Fatalf("order type not taken from cart, got %s", e.orders.last.OrderType)
	}
	if e.notify.calls != 1 {
		t.Fatalf("expected one notification, got %d", e.notify.calls)
	}
	if e.notify.last.RestaurantName != "Thai Garden" {
		t.Fatalf("notification restaurant mismatch: %q", e.notify.last.RestaurantName)
	}
	if e.carts.completes != 1 || e.carts.ends != 0 {
		t.Fatalf("expected cart completed once, got completes=%d ends=%d", e.carts.completes, e.carts.ends)
	}

	if receipt.ReferenceCode == "" || !referenceRe.MatchString(receipt.ReferenceCode) {
		t.Fatalf("bad reference code %q", receipt.ReferenceCode)
	}
	if !receipt.TotalAmount.Equal(decimal.RequireFromString("17000")) {
		t.Fatalf("receipt total %s, want 17000", receipt.TotalAmount)
	}
	if receipt.RestaurantName != "Thai Garden" {
		t.Fatalf("receipt restaurant %q", receipt.RestaurantName)
	}
}

func TestNotifyOutlivesSubmitDeadline(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())

	_, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethodOKDollar})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if e.notify.calls != 1 {
		t.Fatalf("expected one notification, got %d", e.notify.calls)
	}
	// The submit timeout bounds payment and order creation only; the
	// confirmation write must not inherit it.
	if e.notify.sawDeadline {
		t.Fatal("notification context carried the submit deadline")
	}
	if e.notify.ctxErr != nil {
		t.Fatalf("notification context already done: %v", e.notify.ctxErr)
	}
}

func TestExecuteEmptyCartShortCircuits(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)
	e.carts.beginErr = pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")

	_, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethodMPU})
	if !pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if e.gateway.calls != 0 {
		t.Fatal("gateway must not be called for an empty cart")
	}
	if e.orders.calls != 0 {
		t.Fatal("orders must not be called for an empty cart")
	}
}

func TestExecutePaymentFailureKeepsCart(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())
	e.gateway.err = pkgerrors.New(pkgerrors.CodePaymentFailed, "payment was declined")

	_, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethodAYAPay})
	if !pkgerrors.HasCode(err, pkgerrors.CodePaymentFailed) {
		t.Fatalf("expected payment failure, got %v", err)
	}
	if e.orders.calls != 0 {
		t.Fatal("no order may be written after a declined payment")
	}
	if e.carts.ends != 1 || e.carts.completes != 0 {
		t.Fatalf("cart must be released but not cleared, got ends=%d completes=%d", e.carts.ends, e.carts.completes)
	}
}

func TestExecuteOrderFailureKeepsCart(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())
	e.orders.err = pkgerrors.Wrap(pkgerrors.CodeOrderFailed, errors.New("connection refused"), "persist order")

	_, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethodOKDollar})
	if !pkgerrors.HasCode(err, pkgerrors.CodeOrderFailed) {
		t.Fatalf("expected order failure, got %v", err)
	}
	if e.notify.calls != 0 {
		t.Fatal("no notification after failed order persistence")
	}
	if e.carts.ends != 1 || e.carts.completes != 0 {
		t.Fatalf("cart must survive a failed submission, got ends=%d completes=%d", e.carts.ends, e.carts.completes)
	}
}

func TestExecuteNotifyFailureStillSucceeds(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())
	e.notify.err = errors.New("notifications table unavailable")

	receipt, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethodKBZPay})
	if err != nil {
		t.Fatalf("notification failure must not fail checkout, got %v", err)
	}
	if receipt == nil || receipt.OrderID == uuid.Nil {
		t.Fatal("expected a receipt despite notify failure")
	}
	if e.carts.completes != 1 {
		t.Fatal("cart should be cleared on success")
	}
}

func TestExecuteGatewayTimeout(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())
	e.gateway.err = context.DeadlineExceeded

	_, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethodKBZPay})
	if !pkgerrors.HasCode(err, pkgerrors.CodeTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if e.carts.ends != 1 {
		t.Fatal("cart must be released after a timeout")
	}
}

func TestExecuteConcurrentSubmissionRejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())
	e.carts.beginErr = pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already in progress")

	_, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethodKBZPay})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if e.gateway.calls != 0 {
		t.Fatal("no payment may start while another checkout is in flight")
	}
}

func TestExecuteValidatesPaymentMethod(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())

	_, err := e.svc.Execute(context.Background(), uuid.New(), Input{PaymentMethod: enums.PaymentMethod("cash")})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if e.carts.begins != 0 {
		t.Fatal("cart must not be frozen for an invalid request")
	}
}

func TestExecuteUnauthenticated(t *testing.T) {
	t.Parallel()

	e := newEnv(t, filledSnapshot())

	_, err := e.svc.Execute(context.Background(), uuid.Nil, Input{PaymentMethod: enums.PaymentMethodKBZPay})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
