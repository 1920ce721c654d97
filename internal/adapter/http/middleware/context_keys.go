package middleware

import (
	"context"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
)

// ContextKey is the type of keys this package stores in a request context.
type ContextKey string

const (
	// UserIDCtxKey holds the authenticated user id.
	UserIDCtxKey = ContextKey("user_id")
	// UserRoleCtxKey holds the authenticated user's role.
	UserRoleCtxKey = ContextKey("user_role")
	// UserEmailCtxKey holds the email claim, when the token carries one.
	UserEmailCtxKey = ContextKey("user_email")
)

// ActorFromContext returns the caller set by JWTAuth or OptionalJWTAuth.
// Anonymous requests yield the zero Actor.
func ActorFromContext(ctx context.Context) domain.Actor {
	id, _ := ctx.Value(UserIDCtxKey).(string)
	role, _ := ctx.Value(UserRoleCtxKey).(string)
	email, _ := ctx.Value(UserEmailCtxKey).(string)
	return domain.Actor{UserID: id, Email: email, Role: domain.Role(role)}
}

func withClaims(ctx context.Context, c *Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, c.UserID)
	ctx = context.WithValue(ctx, UserRoleCtxKey, c.Role)
	if c.Email != "" {
		ctx = context.WithValue(ctx, UserEmailCtxKey, c.Email)
	}
	return ctx
}
