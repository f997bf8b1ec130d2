package console

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// Text codes surfaced alongside structured errors so UI layers can branch
// without string matching.
const (
	TextCodeNoCredential       = "NO_CREDENTIAL_ISSUED"
	TextCodeSessionExpired     = "SESSION_EXPIRED"
	TextCodeProfileUnavailable = "PROFILE_UNAVAILABLE"
)

// ErrNoCredentialIssued is returned when login succeeds at the transport
// level but the response carries no usable token field.
var ErrNoCredentialIssued = errors.New("login succeeded but no credential was issued", errors.CategoryAuth).
	WithTextCode(TextCodeNoCredential).
	WithCode(errors.CodeUnauthorized)

// ErrSessionExpired wraps any 401 response. By the time the caller sees it
// the durable session snapshot has already been cleared by the transport.
var ErrSessionExpired = errors.New("session credential was rejected by the backend", errors.CategoryAuth).
	WithTextCode(TextCodeSessionExpired).
	WithCode(errors.CodeUnauthorized)

// ErrProfileUnavailable is returned when the profile lookup fails after a
// valid credential was issued.
var ErrProfileUnavailable = errors.New("unable to load the authenticated profile", errors.CategoryOperation).
	WithTextCode(TextCodeProfileUnavailable)

// IsAuthorizationFailure reports whether err is a 401-class rejection.
func IsAuthorizationFailure(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrSessionExpired) {
		return true
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Code == errors.CodeUnauthorized
	}

	return false
}

// logRichError reports an error through logger, expanding structured
// category and metadata when available.
func logRichError(logger Logger, message string, err error) {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		logger.Warn(
			"%s: %s category=%s metadata=%s",
			message,
			richErr.Message,
			richErr.Category,
			print.MaybePrettyJSON(richErr.Metadata),
		)
		return
	}
	logger.Warn("%s: %v", message, err)
}

// statusError maps a non-2xx backend response to a structured error. The
// backend reports failures as {"detail": ...}.
func statusError(status int, detail string) *errors.Error {
	if detail == "" {
		detail = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		clone := ErrSessionExpired.Clone()
		if clone == nil {
			return ErrSessionExpired
		}
		clone.Source = ErrSessionExpired
		return clone.WithMetadata(map[string]any{"detail": detail})
	case http.StatusForbidden:
		return errors.New(detail, errors.CategoryAuthz).
			WithCode(errors.CodeForbidden)
	case http.StatusNotFound:
		return errors.New(detail, errors.CategoryNotFound).
			WithCode(errors.CodeNotFound)
	case http.StatusConflict:
		return errors.New(detail, errors.CategoryConflict).
			WithCode(errors.CodeConflict)
	case http.StatusUnprocessableEntity:
		return errors.New(detail, errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	case http.StatusBadRequest:
		return errors.New(detail, errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	default:
		return errors.New(detail, errors.CategoryInternal).
			WithCode(errors.CodeInternal).
			WithMetadata(map[string]any{"status": status})
	}
}
