package auth

import "context"

// Identity is what the external provider asserts about the caller. Only UID,
// Email and DisplayName are consumed downstream.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`
}

type contextKey string

const IdentityContextKey contextKey = "identity"

func GetIdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	return identity, ok
}
