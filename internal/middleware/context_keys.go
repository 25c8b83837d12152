package middleware

import "context"

// actorIDKey is the key used to store the acting user's ID in the context.
const actorIDKey = contextKey("actorID")

// WithActorID stores the acting user's ID in ctx.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// GetActorIDFromCtx retrieves the acting user's ID from the context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromCtx(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorIDKey).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}
