package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/oakline/storefront-backend/pkg/enums"
)

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	UserID string
	Email  string
	Name   string
	Role   enums.UserRole
	JTI    string
}

// SessionTokenClaims represents the typed JWT installed into the session.
type SessionTokenClaims struct {
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
