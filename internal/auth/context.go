package auth

import "context"

// --- Context Helper Functions ---

// WithAdvisorID returns a copy of ctx carrying the authenticated advisor id.
func WithAdvisorID(ctx context.Context, advisorID string) context.Context {
	return context.WithValue(ctx, AdvisorIDKey, advisorID)
}

// GetAdvisorIDFromContext retrieves the advisor id set by the auth middleware.
// Returns the ID and true if found, otherwise "" and false.
func GetAdvisorIDFromContext(ctx context.Context) (string, bool) {
	advisorID, ok := ctx.Value(AdvisorIDKey).(string)
	return advisorID, ok && advisorID != ""
}
