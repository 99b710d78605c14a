package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a single orderable dish on a restaurant menu.
type MenuItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         string          `gorm:"column:name;type:text;not null"`
	Description  *string         `gorm:"column:description;type:text"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Category     *string         `gorm:"column:category;type:text"`
	ImageURL     *string         `gorm:"column:image_url;type:text"`
	IsAvailable  bool            `gorm:"column:is_available;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
