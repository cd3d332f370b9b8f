package images

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/shubhrat1234/pdftoimage/core"
	"github.com/shubhrat1234/pdftoimage/pages"
)

// Document is a paged document. *reader.Reader implements it.
type Document interface {
	PageCount() (int, error)
	GetPage(index int) (*pages.Page, error)
}

// XObject is one entry of a page's /XObject dictionary. Err is set when the
// entry refers to an object that exists but could not be loaded; Ref is
// null then.
type XObject struct {
	Name string
	Ref  Ref
	Err  error
}

// Pages yields every page of doc in order. A page that cannot be obtained
// ends the sequence with a *PageError wrapping ErrPageUnavailable.
func Pages(doc Document) iter.Seq2[*pages.Page, error] {
	return pageRange(doc, 0, -1)
}

// pageRange yields pages first through last, or through the final page when
// last is negative. A range that names a page outside the document fails
// before any page is yielded. A range with first past last is empty, as is
// the whole-document range 0, -1 over a document without pages.
func pageRange(doc Document, first, last int) iter.Seq2[*pages.Page, error] {
	return func(yield func(*pages.Page, error) bool) {
		n, err := doc.PageCount()
		if err != nil {
			yield(nil, &PageError{Index: first, Err: ErrPageUnavailable, Cause: err})
			return
		}

		end := last
		if last < 0 {
			end = n - 1
		}
		outside := false
		switch {
		case first == 0 && last < 0:
			// the whole document, which may have no pages
		case first < 0:
			outside = true
		case first >= n:
			// an open range or a non-empty one starting past the end
			outside = last < 0 || first <= last
		case end >= n:
			outside = true
		}
		if outside {
			bad := n
			if first < 0 || first >= n {
				bad = first
			}
			yield(nil, &PageError{
				Index: bad,
				Err:   ErrPageUnavailable,
				Cause: fmt.Errorf("document has %d pages", n),
			})
			return
		}

		for i := first; i <= end; i++ {
			page, err := doc.GetPage(i)
			if err == nil && page == nil {
				err = errors.New("no page returned")
			}
			if err != nil {
				yield(nil, &PageError{Index: i, Err: ErrPageUnavailable, Cause: err})
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}

// XObjects yields the entries of page's /XObject resource dictionary in map
// order. A page without an /XObject dictionary yields nothing. A page
// without a page dictionary or usable resources yields a single *PageError.
func XObjects(page *pages.Page) iter.Seq2[XObject, error] {
	return xobjects(page, false)
}

func xobjects(page *pages.Page, sorted bool) iter.Seq2[XObject, error] {
	return func(yield func(XObject, error) bool) {
		if page == nil || page.Dict() == nil {
			pe := &PageError{Err: ErrPageDictionaryUnavailable}
			if page != nil {
				pe.Index, pe.Label = page.Index(), page.Label()
			}
			yield(XObject{}, pe)
			return
		}

		resources, err := page.Resources()
		if err != nil {
			yield(XObject{}, &PageError{
				Index: page.Index(),
				Label: page.Label(),
				Err:   ErrResourcesUnavailable,
				Cause: err,
			})
			return
		}

		dict := NewRef(resources, page).Get("XObject")
		if dict.Kind() != KindDict {
			return
		}

		names := dict.Keys()
		if sorted {
			names = slices.Values(slices.Sorted(names))
		}
		for name := range names {
			ref, err := dict.Lookup(name)
			// dangling references and free entries read as null
			if errors.Is(err, core.ErrObjectNotFound) {
				err = nil
			}
			if !yield(XObject{Name: name, Ref: ref, Err: err}, nil) {
				return
			}
		}
	}
}
