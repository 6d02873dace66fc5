package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserAuth is the credential record. The password hash never leaves the server.
type UserAuth struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	ProfileID    uuid.UUID `json:"profile_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims are the custom claims embedded in the identity token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
