package middleware

import "context"

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxEmail     contextKey = "email"
	ctxSessionID contextKey = "cart_session_id"
	ctxRequestID contextKey = "request_id"
)

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRequestID)
}

func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUserID)
}

// EmailFromContext returns the account email from a verified token, if any.
func EmailFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxEmail)
}

func SessionIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxSessionID)
}

// IsAuthenticated reports whether a verified token was presented.
func IsAuthenticated(ctx context.Context) bool {
	return UserIDFromContext(ctx) != ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

func WithEmail(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxEmail, email)
}

// WithSessionID injects the cart session for downstream handlers.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
