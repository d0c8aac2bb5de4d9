package ctxkeys

import (
	"context"

	"github.com/tonythefreedom/noble-back/internal/model"
	"github.com/tonythefreedom/noble-back/internal/service"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey   contextKey = "user"
	ClaimsKey contextKey = "claims"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func Claims(ctx context.Context) *service.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*service.Claims)
	return claims
}

func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}
