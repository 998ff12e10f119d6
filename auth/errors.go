package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Token decode failures. The HTTP boundary collapses all three into one
// generic 401 so a caller cannot probe token internals; the distinction is
// kept for operator logs and tests.
var (
	ErrTokenMalformed = errors.New("Missing or malformed authentication token", errors.CategoryAuth).
				WithTextCode("TOKEN_MALFORMED").
				WithCode(errors.CodeUnauthorized)

	ErrInvalidSignature = errors.New("Authentication token signature is invalid", errors.CategoryAuth).
				WithTextCode("TOKEN_SIGNATURE_INVALID").
				WithCode(errors.CodeUnauthorized)

	ErrTokenExpired = errors.New("Authentication token expired", errors.CategoryAuth).
			WithTextCode("TOKEN_EXPIRED").
			WithCode(errors.CodeUnauthorized)
)

// ErrInvalidCredentials carries the same message whether the username did not
// exist or the password did not match.
var ErrInvalidCredentials = errors.New("Invalid username or password", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrAuthenticationRequired is what the guards return for requests with no
// usable bearer token.
var ErrAuthenticationRequired = errors.New("Authentication required", errors.CategoryAuth).
	WithTextCode("AUTHENTICATION_REQUIRED").
	WithCode(errors.CodeUnauthorized)

// ErrInsufficientRole is only ever returned for a caller that already proved
// identity, so it is safe to distinguish with a 403.
var ErrInsufficientRole = errors.New("Admin access required", errors.CategoryAuthz).
	WithTextCode("INSUFFICIENT_ROLE").
	WithCode(errors.CodeForbidden)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
