package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// The identity middleware fills the tenant fields once per HTTP request so that
// every log line below it carries the caller's scope.
type LogFields struct {
	OrganizationID *int64
	ClientID       *int64
	ProfileID      *int64
	RequestID      *int64  // ClientHub request (work item), not the HTTP request
	Role           *string // admin, member or client
	Component      string  // e.g. "clienthub.service.request"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, incoming LogFields) LogFields {
	result := existing

	if incoming.OrganizationID != nil {
		result.OrganizationID = incoming.OrganizationID
	}
	if incoming.ClientID != nil {
		result.ClientID = incoming.ClientID
	}
	if incoming.ProfileID != nil {
		result.ProfileID = incoming.ProfileID
	}
	if incoming.RequestID != nil {
		result.RequestID = incoming.RequestID
	}
	if incoming.Role != nil {
		result.Role = incoming.Role
	}
	if incoming.Component != "" {
		result.Component = incoming.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{RequestID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
