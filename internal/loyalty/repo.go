package loyalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
	"github.com/ordermesa/preorder-backend/pkg/enums"
)

// Repository aggregates a customer's paid order history. The summary is
// read-only, so unlike the order repository there is no transactional
// variant.
type Repository interface {
	OrderTotals(ctx context.Context, customerID uuid.UUID) (orderTotals, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a loyalty repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type orderTotals struct {
	Orders int64           `gorm:"column:orders"`
	Spent  decimal.Decimal `gorm:"column:spent"`
}

// OrderTotals counts every settled order. Orders are created paid and
// progress toward completed, so only cancellations are excluded.
func (r *repositoryImpl) OrderTotals(ctx context.Context, customerID uuid.UUID) (orderTotals, error) {
	var totals orderTotals
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS spent").
		Where("customer_id = ? AND status <> ?", customerID, enums.OrderStatusCancelled).
		Scan(&totals).Error
	return totals, err
}
