package apub

import "fmt"

// InvalidAddressError reports an address that is not an absolute http(s) URL
// with a host.
type InvalidAddressError struct {
	Address string
	Reason  string
}

func (e InvalidAddressError) Error() string {
	if e.Address == "" && e.Reason == "" {
		return "invalid address"
	}
	return fmt.Sprintf("invalid address %q: %s", e.Address, e.Reason)
}

// Is enables errors.Is matching on InvalidAddressError.
func (e InvalidAddressError) Is(target error) bool {
	switch target.(type) {
	case InvalidAddressError, *InvalidAddressError:
		return true
	}
	return false
}

// ValidationError reports a payload that is well formed but breaks the schema.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e ValidationError) Error() string {
	msg := "validation failed"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ValidationError) Unwrap() error { return e.Err }

// Is enables errors.Is matching on ValidationError.
func (e ValidationError) Is(target error) bool {
	switch target.(type) {
	case ValidationError, *ValidationError:
		return true
	}
	return false
}

// DecodeError reports a payload that is not structured data at all.
type DecodeError struct {
	Err error
}

func (e DecodeError) Error() string {
	if e.Err == nil {
		return "decode failed"
	}
	return "decode failed: " + e.Err.Error()
}

func (e DecodeError) Unwrap() error { return e.Err }

// Is enables errors.Is matching on DecodeError.
func (e DecodeError) Is(target error) bool {
	switch target.(type) {
	case DecodeError, *DecodeError:
		return true
	}
	return false
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	switch target.(type) {
	case NotFoundError, *NotFoundError:
		return true
	}
	return false
}

// FetchError is returned by Fetcher implementations when a remote document
// could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e FetchError) Error() string {
	msg := "fetch failed"
	if e.URL != "" {
		msg += " " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": unexpected status code: %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e FetchError) Unwrap() error { return e.Err }

// Is enables errors.Is matching on FetchError.
func (e FetchError) Is(target error) bool {
	switch target.(type) {
	case FetchError, *FetchError:
		return true
	}
	return false
}

var (
	ErrInvalidAddress   = InvalidAddressError{}
	ErrValidationFailed = ValidationError{}
	ErrDecodeFailed     = DecodeError{}
	ErrNotFound         = NotFoundError{}
	ErrFetchFailed      = FetchError{}
)
