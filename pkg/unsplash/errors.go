package unsplash

import (
	"errors"
	"fmt"
)

// Fetch failure kinds. Match with errors.Is against a *FetchError.
var (
	ErrNetwork   = errors.New("network failure")
	ErrEmptyBody = errors.New("empty response body")
	ErrFileWrite = errors.New("file write failure")
)

// FetchError reports why a download did not produce an asset.
type FetchError struct {
	Kind error  // one of ErrNetwork, ErrEmptyBody, ErrFileWrite
	URL  string // request URL
	Err  error  // underlying cause, may be nil
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %v: %v", e.URL, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newFetchError(kind error, url string, cause error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: cause}
}
