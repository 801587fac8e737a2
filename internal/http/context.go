package http

import "context"

type contextKey string

const (
	requestIDContextKey   contextKey = "sitesensei/request-id"
	authSubjectContextKey contextKey = "sitesensei/auth-subject"
)

// RequestIDFromContext extracts the request identifier from the context when available.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDContextKey).(string); ok {
		return value
	}
	return ""
}

// SubjectFromContext extracts the verified bearer subject from the context.
// Empty means the request carried no valid token.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(authSubjectContextKey).(string); ok {
		return value
	}
	return ""
}
