package images

import (
	"errors"
	"io"
	"log/slog"

	"github.com/shubhrat1234/pdftoimage/pages"
)

// Sink receives each image as it is found, with the label of its page.
type Sink func(page string, rec *Record)

// Option configures Extract and ExtractPage.
type Option func(*extractor)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(e *extractor) {
		e.logger = logger
	}
}

// WithErrorHandler sets the function called for every image that is
// skipped. Returning nil continues extraction; returning an error stops it
// and Extract returns that error. The default handler logs the error at
// warning level and continues.
func WithErrorHandler(handler func(*ImageError) error) Option {
	return func(e *extractor) {
		e.onError = handler
	}
}

// WithPageRange limits Extract to pages first through last, counting from
// 0. A range reaching past the last page fails with ErrPageUnavailable
// before any image is delivered.
func WithPageRange(first, last int) Option {
	return func(e *extractor) {
		e.first, e.last = first, last
	}
}

// WithSortedNames delivers the images of each page sorted by XObject name
// instead of in dictionary order, making the output of repeated runs
// identical.
func WithSortedNames() Option {
	return func(e *extractor) {
		e.sorted = true
	}
}

type extractor struct {
	logger  *slog.Logger
	onError func(*ImageError) error
	first   int
	last    int // negative for the final page
	sorted  bool
}

func newExtractor(opts []Option) *extractor {
	e := &extractor{last: -1}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.onError == nil {
		e.onError = e.logSkipped
	}
	return e
}

func (e *extractor) logSkipped(err *ImageError) error {
	e.logger.Warn("skipping image", "page", err.Page, "image", err.Name, "error", err)
	return nil
}

// Extract scans the pages of doc in order and passes every image found to
// sink. It returns the first page-level error, or the error returned by the
// error handler.
func Extract(doc Document, sink Sink, opts ...Option) error {
	e := newExtractor(opts)
	for page, err := range pageRange(doc, e.first, e.last) {
		if err != nil {
			return err
		}
		if err := e.page(page, sink); err != nil {
			return err
		}
	}
	return nil
}

// ExtractPage passes every image on page to sink. WithPageRange has no
// effect here.
func ExtractPage(page *pages.Page, sink Sink, opts ...Option) error {
	return newExtractor(opts).page(page, sink)
}

func (e *extractor) page(page *pages.Page, sink Sink) error {
	if page != nil {
		e.logger.Debug("scanning page", "page", page.Label(), "index", page.Index())
	}

	for x, err := range xobjects(page, e.sorted) {
		if err != nil {
			return err
		}

		if x.Err != nil {
			ie := &ImageError{Page: page.Label(), Name: x.Name, Err: ErrStreamDecodeFailed, Cause: x.Err}
			if err := e.onError(ie); err != nil {
				return err
			}
			continue
		}

		rec, err := Classify(x.Name, x.Ref)
		if err != nil {
			var ie *ImageError
			if !errors.As(err, &ie) {
				ie = &ImageError{Name: x.Name, Err: ErrStreamDecodeFailed, Cause: err}
			}
			ie.Page = page.Label()
			if err := e.onError(ie); err != nil {
				return err
			}
			continue
		}
		if rec == nil {
			continue
		}
		sink(page.Label(), rec)
	}
	return nil
}
