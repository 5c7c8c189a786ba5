// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"encoding/base64"
	"mime"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	apperrors "github.com/chadlung/barbican/internal/errors"
)

// projectIDRegex matches external project identifiers as issued by identity services.
var projectIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.\-]{0,254}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Base64 validates that a string is standard base64 encoded data.
var Base64 = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// ContentType validates a media type such as "text/plain" or "application/octet-stream".
var ContentType = validation.NewStringRuleWithError(
	func(s string) bool {
		mediaType, _, err := mime.ParseMediaType(s)
		return err == nil && strings.Contains(mediaType, "/")
	},
	validation.NewError("validation_content_type", "must be a valid media type"),
)

// KnownAlgorithm validates that an algorithm belongs to a supported generation family.
var KnownAlgorithm = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := cryptoDomain.DetermineGenerationType(s)
		return err == nil
	},
	validation.NewError("validation_algorithm", "must be a supported algorithm"),
)

// ProjectID validates an external project identifier.
var ProjectID = validation.NewStringRuleWithError(
	projectIDRegex.MatchString,
	validation.NewError("validation_project_id", "must be a valid project id"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
