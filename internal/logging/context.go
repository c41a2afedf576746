package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for pairing run identifiers.
	FieldRunID = "run_id"
	// FieldPolicy is the standardized structured logging key for the active pairing policy.
	FieldPolicy = "policy"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	runIDKey contextKey = iota
	policyKey
)

// WithRunID stores the pairing run identifier on ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, strings.TrimSpace(id))
}

// RunIDFromContext returns the run identifier stored on ctx.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithPolicy stores the active pairing policy on ctx.
func WithPolicy(ctx context.Context, policy string) context.Context {
	return context.WithValue(ctx, policyKey, strings.TrimSpace(policy))
}

// PolicyFromContext returns the pairing policy stored on ctx.
func PolicyFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	policy, ok := ctx.Value(policyKey).(string)
	return policy, ok && policy != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if policy, ok := PolicyFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPolicy, policy))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
