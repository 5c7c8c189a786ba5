package httputil

import (
	"context"
)

// ProjectIDHeader carries the external id of the project a request acts for.
const ProjectIDHeader = "X-Project-Id"

// projectIDKey is a context key type for storing the request's project id.
type projectIDKey struct{}

// WithProjectID stores the project id in the context.
func WithProjectID(ctx context.Context, projectID string) context.Context {
	return context.WithValue(ctx, projectIDKey{}, projectID)
}

// GetProjectID retrieves the project id from the context.
// Returns ("", false) if the project middleware did not run.
func GetProjectID(ctx context.Context) (string, bool) {
	projectID, ok := ctx.Value(projectIDKey{}).(string)
	return projectID, ok && projectID != ""
}
