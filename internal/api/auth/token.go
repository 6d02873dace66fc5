package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rfcosta/notekeep/config"
	"github.com/rfcosta/notekeep/internal/types"
)

// IssueToken mints a signed, time-bound identity token for the given subject.
// Verification is stateless; expiry is the only way a token stops working.
func IssueToken(userID string, cfg config.JWTConfig) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
}
