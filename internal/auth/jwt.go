package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	securetokenJWKSURL      = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	securetokenIssuerFormat = "https://securetoken.google.com/%s"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingClaims = errors.New("missing required claims")
)

type JWTVerifier struct {
	jwks      *keyfunc.JWKS
	projectID string
	mu        sync.RWMutex
}

func NewJWTVerifier(projectID string) (*JWTVerifier, error) {
	jwks, err := keyfunc.Get(securetokenJWKSURL, keyfunc.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	return &JWTVerifier{
		jwks:      jwks,
		projectID: projectID,
	}, nil
}

func (v *JWTVerifier) VerifyToken(tokenString string) (*Identity, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	token, err := jwt.Parse(tokenString, v.jwks.Keyfunc,
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(fmt.Sprintf(securetokenIssuerFormat, v.projectID)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMissingClaims
	}

	uid, ok := claims["sub"].(string)
	if !ok || uid == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrMissingClaims)
	}

	identity := &Identity{UID: uid}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if verified, ok := claims["email_verified"].(bool); ok {
		identity.EmailVerified = verified
	}

	return identity, nil
}
