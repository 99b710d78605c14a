package payments

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ordermesa/preorder-backend/pkg/config"
	pkgerrors "github.com/ordermesa/preorder-backend/pkg/errors"
)

// Simulator stands in for the wallet providers. It waits the configured
// processor delay and approves a configurable fraction of charges.
type Simulator struct {
	successRate float64
	delay       time.Duration
	roll        func() float64
	now         func() time.Time
}

// NewSimulator builds a simulator from the payments config.
func NewSimulator(cfg config.PaymentsConfig) *Simulator {
	return &Simulator{
		successRate: cfg.SuccessRate,
		delay:       cfg.Delay,
		roll:        rand.Float64,
		now:         time.Now,
	}
}

// Authorize waits out the simulated processor latency and returns a verdict.
// Context cancellation aborts the wait.
func (s *Simulator) Authorize(ctx context.Context, req Request) (*Authorization, error) {
	if !req.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", req.Method))
	}
	// Zero is a legal total: a cart of promotional free items still
	// settles through the normal flow.
	if req.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.roll() >= s.successRate {
		return nil, pkgerrors.New(pkgerrors.CodePaymentFailed, "payment was declined")
	}

	return &Authorization{
		TransactionID: uuid.NewString(),
		Method:        req.Method,
		Amount:        req.Amount,
		ProcessedAt:   s.now().UTC(),
	}, nil
}
