package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ordermesa/preorder-backend/pkg/enums"
)

// Order is the durable record produced by a successful checkout.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	RestaurantID  uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	OrderType     enums.OrderType     `gorm:"column:order_type;type:text;not null;default:'dine_in'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'paid'"`
	ReferenceCode string              `gorm:"column:reference_code;type:text;not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one cart line at checkout time. Name and unit price
// are copied from the menu item so later menu edits do not rewrite history.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null"`
	Name       string          `gorm:"column:name;type:text;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
