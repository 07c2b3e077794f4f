package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	CustomerID uuid.UUID
	BusinessID *uuid.UUID
	JTI        string
}

// AccessTokenClaims represents the typed JWT presented by clients. A
// customer token carries only CustomerID; seller-side tokens also carry the
// business they manage.
type AccessTokenClaims struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	BusinessID *uuid.UUID `json:"business_id,omitempty"`
	jwt.RegisteredClaims
}
