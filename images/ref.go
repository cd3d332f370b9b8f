package images

import (
	"errors"
	"fmt"
	"iter"
	"maps"

	"github.com/shubhrat1234/pdftoimage/core"
	"github.com/shubhrat1234/pdftoimage/pages"
)

// Kind classifies the object behind a Ref.
type Kind int

const (
	KindNull Kind = iota
	KindDict
	KindArray
	KindName
	KindStream
	KindScalar // booleans, numbers and strings
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindDict:
		return "dictionary"
	case KindArray:
		return "array"
	case KindName:
		return "name"
	case KindStream:
		return "stream"
	case KindScalar:
		return "scalar"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Ref is one node of a document's object graph. Indirect references are
// followed when a Ref is made, and the accessors never fail: asking for
// something the object is not yields the zero value.
type Ref struct {
	obj      core.Object
	resolver pages.ObjectResolver
}

// NewRef wraps obj. Children reached through the Ref are resolved with
// resolver, which may be nil for graphs without indirect references. A
// reference that cannot be resolved reads as null.
func NewRef(obj core.Object, resolver pages.ObjectResolver) Ref {
	ref, _ := resolveRef(obj, resolver)
	return ref
}

// resolveRef is NewRef, reporting why a reference could not be followed.
// The returned Ref is null in that case.
func resolveRef(obj core.Object, resolver pages.ObjectResolver) (Ref, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		if resolver == nil {
			return Ref{}, fmt.Errorf("cannot resolve %s without a resolver", ref)
		}
		resolved, err := resolver.Resolve(obj)
		if err != nil {
			return Ref{resolver: resolver}, err
		}
		obj = resolved
	}
	return Ref{obj: obj, resolver: resolver}, nil
}

// Object returns the underlying object, nil for null.
func (r Ref) Object() core.Object {
	if _, ok := r.obj.(core.Null); ok {
		return nil
	}
	return r.obj
}

// Kind reports what the object is.
func (r Ref) Kind() Kind {
	switch r.obj.(type) {
	case nil, core.Null, core.IndirectRef:
		return KindNull
	case core.Dict:
		return KindDict
	case core.Array:
		return KindArray
	case core.Name:
		return KindName
	case *core.Stream:
		return KindStream
	}
	return KindScalar
}

func (r Ref) dict() core.Dict {
	switch v := r.obj.(type) {
	case core.Dict:
		return v
	case *core.Stream:
		return v.Dict
	}
	return nil
}

// Get returns the value of key in a dictionary or a stream dictionary.
func (r Ref) Get(key string) Ref {
	return NewRef(r.dict().Get(key), r.resolver)
}

// Lookup is Get, but reports the error when the value is an indirect
// reference that cannot be resolved.
func (r Ref) Lookup(key string) (Ref, error) {
	return resolveRef(r.dict().Get(key), r.resolver)
}

// Keys yields the keys of a dictionary in map order.
func (r Ref) Keys() iter.Seq[string] {
	return maps.Keys(r.dict())
}

// Len returns the number of array elements or dictionary entries.
func (r Ref) Len() int {
	if arr, ok := r.obj.(core.Array); ok {
		return len(arr)
	}
	return len(r.dict())
}

// Index returns array element i.
func (r Ref) Index(i int) Ref {
	arr, _ := r.obj.(core.Array)
	return NewRef(arr.Get(i), r.resolver)
}

// Name returns the name without its slash.
func (r Ref) Name() (string, bool) {
	n, ok := r.obj.(core.Name)
	return string(n), ok
}

// Int returns an integer value.
func (r Ref) Int() (int, bool) {
	n, ok := r.obj.(core.Int)
	return int(n), ok
}

// Bool returns a boolean value.
func (r Ref) Bool() (bool, bool) {
	b, ok := r.obj.(core.Bool)
	return bool(b), ok
}

// Stream returns the stream, or nil.
func (r Ref) Stream() *core.Stream {
	s, _ := r.obj.(*core.Stream)
	return s
}

// Names reads a name-or-array-of-names entry such as /Filter or
// /ColorSpace. A single name gives a one-element slice; array elements that
// are not names are skipped; anything else gives nil.
func (r Ref) Names() []string {
	if name, ok := r.Name(); ok {
		return []string{name}
	}
	if r.Kind() != KindArray {
		return nil
	}

	var names []string
	for i := range r.Len() {
		if name, ok := r.Index(i).Name(); ok {
			names = append(names, name)
		}
	}
	return names
}

var errNotStream = errors.New("object is not a stream")

// Decode applies the stream's filters up to a terminal DCTDecode or
// JPXDecode and reports which format the returned data is in.
func (r Ref) Decode() ([]byte, Format, error) {
	s := r.Stream()
	if s == nil {
		return nil, FormatRaw, errNotStream
	}
	data, format, err := s.DecodeData()
	if err != nil {
		return nil, FormatRaw, err
	}
	return data, formatOf(format), nil
}
