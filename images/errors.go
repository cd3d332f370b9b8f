package images

import (
	"errors"
	"fmt"
)

var (
	// ErrPageUnavailable means a page handle could not be obtained.
	ErrPageUnavailable = errors.New("page unavailable")
	// ErrPageDictionaryUnavailable means a page has no page dictionary.
	ErrPageDictionaryUnavailable = errors.New("page dictionary unavailable")
	// ErrResourcesUnavailable means a page has no usable /Resources.
	ErrResourcesUnavailable = errors.New("page resources unavailable")
	// ErrStreamDecodeFailed means an image's filter chain could not be
	// applied.
	ErrStreamDecodeFailed = errors.New("image stream could not be decoded")
)

// PageError reports a page that could not be scanned. It ends extraction.
// errors.Is matches Err, the sentinel describing the failure.
type PageError struct {
	Index int    // 0-based page index
	Label string // page label, if the page was obtained
	Err   error
	Cause error // underlying error, may be nil
}

func (e *PageError) Error() string {
	msg := fmt.Sprintf("page %d", e.Index+1)
	if e.Label != "" {
		msg = fmt.Sprintf("page %q", e.Label)
	}
	msg += ": " + e.Err.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *PageError) Is(target error) bool { return target == e.Err }

func (e *PageError) Unwrap() error { return e.Cause }

// ImageError reports an image that was skipped.
type ImageError struct {
	Page  string // page label
	Name  string // XObject name
	Err   error
	Cause error
}

func (e *ImageError) Error() string {
	msg := fmt.Sprintf("image %s", e.Name)
	if e.Page != "" {
		msg += fmt.Sprintf(" on page %q", e.Page)
	}
	msg += ": " + e.Err.Error()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ImageError) Is(target error) bool { return target == e.Err }

func (e *ImageError) Unwrap() error { return e.Cause }
