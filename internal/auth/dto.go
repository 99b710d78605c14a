package auth

import (
	"github.com/google/uuid"

	"github.com/ordermesa/preorder-backend/pkg/db/models"
)

// RegisterRequest carries the signup payload.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

// LoginRequest carries the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates an expired access token using its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CustomerSummary is the profile shape returned to clients.
type CustomerSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// TokenPair bundles a signed access token with its refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is returned by register and login.
type LoginResponse struct {
	Tokens   TokenPair       `json:"tokens"`
	Customer CustomerSummary `json:"customer"`
}

func summarize(customer *models.Customer) CustomerSummary {
	summary := CustomerSummary{
		ID:    customer.ID,
		Email: customer.Email,
	}
	if customer.FirstName != nil {
		summary.FirstName = *customer.FirstName
	}
	if customer.LastName != nil {
		summary.LastName = *customer.LastName
	}
	if customer.Phone != nil {
		summary.Phone = *customer.Phone
	}
	if customer.AvatarURL != nil {
		summary.AvatarURL = *customer.AvatarURL
	}
	return summary
}
