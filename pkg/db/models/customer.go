package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the account profile a pre-order belongs to.
type Customer struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;type:text;not null"`
	FirstName    *string   `gorm:"column:first_name;type:text"`
	LastName     *string   `gorm:"column:last_name;type:text"`
	Phone        *string   `gorm:"column:phone;type:text"`
	AvatarURL    *string   `gorm:"column:avatar_url;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
