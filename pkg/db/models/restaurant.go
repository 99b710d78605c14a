package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is a venue customers can pre-order from.
type Restaurant struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     *uuid.UUID `gorm:"column:owner_id;type:uuid"`
	Name        string     `gorm:"column:name;type:text;not null"`
	Description *string    `gorm:"column:description;type:text"`
	CuisineType *string    `gorm:"column:cuisine_type;type:text"`
	Address     *string    `gorm:"column:address;type:text"`
	Phone       *string    `gorm:"column:phone;type:text"`
	ImageURL    *string    `gorm:"column:image_url;type:text"`
	Rating      float64    `gorm:"column:rating;not null;default:0"`
	OpenHours   *string    `gorm:"column:open_hours;type:text"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
