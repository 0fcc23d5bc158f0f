package gerr

import "errors"

// Each layer exposes a closed set of error kinds. Callers classify with
// errors.Is and never inspect error strings.
var (
	// validation
	ErrInvalidEmail = errors.New("invalid subscriber email")
	ErrInvalidName  = errors.New("invalid subscriber name")

	// store
	ErrTokenNotFound      = errors.New("subscription token not found")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrRowInvariant       = errors.New("statement affected more than one row")

	// mail dispatch
	ErrDispatchTimeout   = errors.New("mail dispatch timed out")
	ErrDispatchTransport = errors.New("mail dispatch transport failure")
	ErrDispatchRejected  = errors.New("mail provider rejected the request")
)

// IsValidation reports whether err was caused by malformed client input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrInvalidName)
}

// IsClient reports whether err maps to a client error at the HTTP
// boundary. Everything else is surfaced as a server failure.
func IsClient(err error) bool {
	return IsValidation(err) || errors.Is(err, ErrTokenNotFound)
}
