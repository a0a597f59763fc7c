package logging

import "context"

type ctxKey struct{}

// RequestIDKey is the attribute under which loggers report the request id
// carried by the context.
const RequestIDKey = "request_id"

// ContextWithRequestID returns a copy of ctx carrying id; every record
// logged with it gets a request_id attribute.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the id set by ContextWithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func contextArgs(ctx context.Context, args []any) []any {
	if id := RequestIDFromContext(ctx); id != "" {
		return append([]any{RequestIDKey, id}, args...)
	}
	return args
}
