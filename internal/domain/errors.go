package domain

import "errors"

// Error kinds. Concrete errors wrap one of these so callers can use errors.Is.
var (
	ErrFetch           = errors.New("fetch error")
	ErrConfig          = errors.New("config error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotification    = errors.New("notification error")
	ErrCacheIO         = errors.New("cache io error")
)

// FetchError reports any failure obtaining or validating the launch listing.
type FetchError struct {
	Cause string
	Err   error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return "fetch launches: " + e.Cause + ": " + e.Err.Error()
	}
	return "fetch launches: " + e.Cause
}

func (e *FetchError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFetch, e.Err}
	}
	return []error{ErrFetch}
}
