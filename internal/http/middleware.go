package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/chadlung/barbican/internal/errors"
	"github.com/chadlung/barbican/internal/httputil"
	customValidation "github.com/chadlung/barbican/internal/validation"
)

// CustomLoggerMiddleware logs every request through slog with its request id.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if projectID, ok := httputil.GetProjectID(c.Request.Context()); ok {
			attrs = append(attrs, slog.String("project_id", projectID))
		}

		logger.InfoContext(c.Request.Context(), "http request", attrs...)
	}
}

// ProjectMiddleware resolves the project a request acts for from the
// X-Project-Id header and stores it in the request context.
//
// Returns:
//   - 400 Bad Request: header missing or not a valid project id
func ProjectMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.GetHeader(httputil.ProjectIDHeader)
		if projectID == "" {
			httputil.HandleBadRequestGin(c, errMissingProject, logger)
			c.Abort()
			return
		}
		if err := customValidation.ProjectID.Validate(projectID); err != nil {
			httputil.HandleBadRequestGin(c, errInvalidProject, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(httputil.WithProjectID(c.Request.Context(), projectID))
		c.Next()
	}
}

var (
	errMissingProject = apperrors.New(httputil.ProjectIDHeader + " header is required")
	errInvalidProject = apperrors.New(httputil.ProjectIDHeader + " header is not a valid project id")
)
