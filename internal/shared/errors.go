package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrSessionExpired     = fmt.Errorf("login session has expired")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMealNotFound       = fmt.Errorf("meal not found")
	ErrDuplicateFavorite  = fmt.Errorf("meal already in favorites")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidFilter   = fmt.Errorf("unrecognized filter type")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ErrorKind buckets errors into the outcomes a caller can act on.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindUnauthenticated
	KindSessionExpired
	KindConflict
	KindNotFound
	KindInvalid
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindSessionExpired:
		return "session_expired"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalid:
		return "invalid"
	case KindTransport:
		return "transport"
	default:
		return ""
	}
}

// Classify maps err onto an [ErrorKind]. Anything not otherwise recognized is [KindTransport].
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotAuthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrSessionExpired):
		return KindSessionExpired
	case errors.Is(err, ErrDuplicateFavorite):
		return KindConflict
	case errors.Is(err, ErrMealNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrMissingArgument),
		errors.Is(err, ErrInvalidCredentials):
		return KindInvalid
	default:
		return KindTransport
	}
}

// IsSoft reports whether err describes a condition the caller should treat as a
// non-fatal outcome (already favorited, nothing found).
func IsSoft(err error) bool {
	k := Classify(err)
	return k == KindConflict || k == KindNotFound
}
