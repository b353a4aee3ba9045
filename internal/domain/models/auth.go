package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims we care about in a verified access token.
// The subject claim is the pre-authenticated user id every engine
// operation takes.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
