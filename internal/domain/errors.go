package domain

import "errors"

// Issuance errors
var (
	// ErrMisconfigured means one of the LiveKit URL, API key or API secret is absent.
	ErrMisconfigured = errors.New("server misconfigured")
	// ErrSigningFailure means the access token could not be signed.
	ErrSigningFailure = errors.New("token signing failed")
	// ErrMalformedRequest means the request body could not be decoded.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrInvalidToken means a presented token failed to parse or verify.
	ErrInvalidToken = errors.New("invalid access token")
)

// DomainError wraps a domain error with additional context
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(err error, message string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
	}
}

// Kind names the taxonomy bucket of err for log lines. It never reaches clients.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMisconfigured):
		return "misconfigured"
	case errors.Is(err, ErrSigningFailure):
		return "signing_failure"
	case errors.Is(err, ErrMalformedRequest):
		return "malformed_request"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "internal"
	}
}
