package auth

import (
	"github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models"
)

// TokenVerifier validates a bearer token and extracts its claims
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.AccessClaims, error)
	Close() error
}
