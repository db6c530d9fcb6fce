package auth

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	textCodeTicketExpired      = "TICKET_EXPIRED"
	textCodeInvalidSignature   = "INVALID_SIGNATURE"
	textCodeCodeMismatch       = "CODE_MISMATCH"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeDeliveryFailed     = "DELIVERY_FAILED"
)

// ErrInvalidData rejects malformed request payloads before any token or
// store work happens.
var ErrInvalidData = goerrors.New("Invalid data", goerrors.CategoryValidation).
	WithTextCode("INVALID_DATA").
	WithCode(goerrors.CodeBadRequest)

// ErrDuplicateAccount is returned when the email already belongs to an
// account, either at the advisory register-time check or at insert time.
var ErrDuplicateAccount = goerrors.New("Email already exist", goerrors.CategoryConflict).
	WithTextCode(textCodeDuplicateAccount).
	WithCode(goerrors.CodeBadRequest)

// ErrTicketExpired is returned for activation tickets presented past their
// embedded ten-minute expiry.
var ErrTicketExpired = goerrors.New("Activation token has expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTicketExpired).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidSignature is returned when a token fails signature verification.
// Any tampered byte lands here, never on a different error kind.
var ErrInvalidSignature = goerrors.New("Invalid activation token", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidSignature).
	WithCode(goerrors.CodeBadRequest)

// ErrCodeMismatch is returned when a structurally valid ticket is presented
// with the wrong confirmation code.
var ErrCodeMismatch = goerrors.New("Invalid activation code", goerrors.CategoryAuth).
	WithTextCode(textCodeCodeMismatch).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidCredentials collapses "no such user" and "wrong password" into a
// single response so login cannot be used to enumerate accounts.
var ErrInvalidCredentials = goerrors.New("Invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeBadRequest)

// ErrDeliveryFailed is returned when the activation email cannot be sent;
// registration is aborted rather than silently succeeding.
var ErrDeliveryFailed = goerrors.New("Could not send activation email", goerrors.CategoryOperation).
	WithTextCode(textCodeDeliveryFailed).
	WithCode(goerrors.CodeBadRequest)

// ErrTokenExpired is returned for session tokens presented past the expiry
// embedded in their claims.
var ErrTokenExpired = goerrors.New("Session token has expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound is the store-level miss. The orchestrator folds it into
// ErrInvalidCredentials before it ever reaches a login response.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrMismatchedHashAndPassword is the hasher-level mismatch, covering both
// wrong passwords and malformed digests.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// ErrNoEmptyString rejects empty input to the hasher.
var ErrNoEmptyString = errors.New("empty string not allowed")

// IsStorageError reports whether err is an infrastructure fault that should
// surface as a 500 rather than a 400 domain failure.
func IsStorageError(err error) bool {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == goerrors.CategoryInternal
	}
	return false
}

// IsUniqueViolation matches duplicate-key failures across the drivers the
// store runs on (sqlite and postgres wordings).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
