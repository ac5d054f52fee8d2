package httpapi

import (
	"context"

	"github.com/dmitrijs2005/penguindb/internal/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// withClaims attaches verified token claims to the request context.
func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFrom extracts the verified claims attached by the auth middleware.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}
