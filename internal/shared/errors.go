package shared

import "errors"

var (
	// ErrNoCredential indicates the session holds no bearer token.
	ErrNoCredential = errors.New("no credential")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
