package live

import "context"

type originKey struct{}

// WithOrigin records which live client issued the current request.
func WithOrigin(ctx context.Context, clientID string) context.Context {
	if clientID == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, clientID)
}

// OriginFromContext returns the live client id stored by WithOrigin, or "".
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(originKey{}).(string); ok {
		return id
	}
	return ""
}
