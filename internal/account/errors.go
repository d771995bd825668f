package account

import "errors"

var (
	ErrValidation         = errors.New("account: invalid input")
	ErrDuplicateEmail     = errors.New("account: email already registered")
	ErrNotFound           = errors.New("account: not found")
	ErrAlreadyVerified    = errors.New("account: email already verified")
	ErrNotVerified        = errors.New("account: email not verified")
	ErrInvalidCredentials = errors.New("account: invalid credentials")
	ErrWeakPassword       = errors.New("account: password must be at least 6 characters")

	// ErrInvalidToken covers absent, mismatched, consumed and expired
	// verification/reset tokens. One message for all of them so a caller
	// cannot tell which case it hit.
	ErrInvalidToken = errors.New("account: invalid or expired token")
)
