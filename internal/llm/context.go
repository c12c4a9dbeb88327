package llm

import "context"

type plainTextKey struct{}

// WithPlainText marks a completion as free text, so providers skip JSON response mode.
func WithPlainText(ctx context.Context) context.Context {
	return context.WithValue(ctx, plainTextKey{}, true)
}

// PlainTextFromContext reports whether WithPlainText was applied.
func PlainTextFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(plainTextKey{}).(bool)
	return v
}
