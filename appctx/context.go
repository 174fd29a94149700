package appctx

import "context"

// ContextKey is the shared type for all context keys in this codebase.
// It lives in its own package so workflow and cmd can share it without a cycle.
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	// ContextKeyCorrelationId ties a checkout to its log entries and published message.
	ContextKeyCorrelationId = ContextKey("CorrelationId")
	ContextKeyTerminalId    = ContextKey("TerminalId")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

func CorrelationId(ctx context.Context) (string, bool) {
	return GetString(ctx, ContextKeyCorrelationId)
}

func WithCorrelationId(ctx context.Context, id string) context.Context {
	return Set(ctx, ContextKeyCorrelationId, id)
}

func TerminalId(ctx context.Context) (string, bool) {
	return GetString(ctx, ContextKeyTerminalId)
}

func WithTerminalId(ctx context.Context, id string) context.Context {
	return Set(ctx, ContextKeyTerminalId, id)
}
