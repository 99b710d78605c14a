package loyalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
)

// Badge tiers by completed order count.
const (
	BadgeNewbie  = "Newbie"
	BadgeRegular = "Regular"
	BadgeFoodie  = "Foodie"
	BadgeVIP     = "VIP"
)

// One point per 1000 MMK spent.
var pointsDivisor = decimal.NewFromInt(1000)

// Service computes the customer's loyalty standing from order history.
type Service interface {
	Summary(ctx context.Context, customerID uuid.UUID) (*Summary, error)
}

// Summary is the rewards card shown on the profile screen.
type Summary struct {
	CustomerID           uuid.UUID       `json:"customer_id"`
	TotalPoints          int64           `json:"total_points"`
	TotalCompletedOrders int64           `json:"total_completed_orders"`
	TotalSpent           decimal.Decimal `json:"total_spent"`
	CurrentBadge         string          `json:"current_badge"`
}

type service struct {
	repo Repository
}

// NewService wires loyalty dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "loyalty repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Summary(ctx context.Context, customerID uuid.UUID) (*Summary, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	totals, err := s.repo.OrderTotals(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate order history")
	}

	return &Summary{
		CustomerID:           customerID,
		TotalPoints:          totals.Spent.Div(pointsDivisor).IntPart(),
		TotalCompletedOrders: totals.Orders,
		TotalSpent:           totals.Spent,
		CurrentBadge:         badgeFor(totals.Orders),
	}, nil
}

func badgeFor(completed int64) string {
	switch {
	case completed >= 30:
		return BadgeVIP
	case completed >= 15:
		return BadgeFoodie
	case completed >= 5:
		return BadgeRegular
	default:
		return BadgeNewbie
	}
}
