package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ordermesa/preorder-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to customers.
type Notification struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID     uuid.UUID                `gorm:"column:customer_id;type:uuid;not null;index"`
	OrderID        *uuid.UUID               `gorm:"column:order_id;type:uuid"`
	RestaurantName *string                  `gorm:"column:restaurant_name;type:text"`
	Title          string                   `gorm:"column:title;type:text;not null"`
	Message        string                   `gorm:"column:message;type:text;not null"`
	Status         enums.NotificationStatus `gorm:"column:status;type:text;not null;default:'unread'"`
	ReadAt         *time.Time               `gorm:"column:read_at"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the table distinct from any future staff-facing notifications.
func (Notification) TableName() string {
	return "customer_notifications"
}
