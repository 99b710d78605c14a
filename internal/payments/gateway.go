package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/pkg/enums"
)

// Request carries everything the gateway needs to authorize a charge.
type Request struct {
	CustomerID uuid.UUID
	Method     enums.PaymentMethod
	Amount     decimal.Decimal
}

// Authorization is the gateway's answer for an approved charge.
type Authorization struct {
	TransactionID string
	Method        enums.PaymentMethod
	Amount        decimal.Decimal
	ProcessedAt   time.Time
}

// Gateway authorizes charges against a mobile wallet provider.
type Gateway interface {
	Authorize(ctx context.Context, req Request) (*Authorization, error)
}
