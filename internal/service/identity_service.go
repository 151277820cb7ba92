package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/config"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

// IdentityService verifies access tokens issued by the platform's identity
// provider. Token issuance and session management live outside this service.
type IdentityService struct {
	secret []byte
}

// NewIdentityService constructs the identity service.
func NewIdentityService(cfg config.JWTConfig) *IdentityService {
	return &IdentityService{secret: []byte(cfg.Secret)}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *IdentityService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}
