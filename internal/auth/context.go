package auth

import "context"

type ctxKey string

const ContextUserKey ctxKey = "user"

// UserFromContext retrieves the authenticated user placed into context by the
// auth middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

// ContextWithUser stores the authenticated user in context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
