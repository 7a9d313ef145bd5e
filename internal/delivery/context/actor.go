package context

import "context"

const (
	// KeyUserID is the key for storing the authenticated user's ID in context.
	KeyUserID ContextKey = "user_id"

	// KeyRoleID is the key for storing the authenticated user's role ID in context.
	KeyRoleID ContextKey = "role_id"
)

// WithActor returns a new context carrying the authenticated caller's
// identity, as verified from the access token.
func WithActor(ctx context.Context, userID, roleID int64) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, userID)

	return context.WithValue(ctx, KeyRoleID, roleID)
}

// GetActor extracts the authenticated caller from context. The boolean is
// false for anonymous requests.
func GetActor(ctx context.Context) (userID, roleID int64, ok bool) {
	userID, uok := ctx.Value(KeyUserID).(int64)
	roleID, rok := ctx.Value(KeyRoleID).(int64)
	if !uok || !rok {
		return 0, 0, false
	}

	return userID, roleID, true
}
