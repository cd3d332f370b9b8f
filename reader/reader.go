package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/shubhrat1234/pdftoimage/core"
	"github.com/shubhrat1234/pdftoimage/pages"
	"github.com/shubhrat1234/pdftoimage/resolver"
)

var (
	// ErrEncrypted is returned for documents protected by a security
	// handler. Their strings and streams cannot be read without decryption.
	ErrEncrypted = errors.New("encrypted documents are not supported")
	// ErrObjectNotFound is returned for object numbers that have no in-use
	// cross-reference entry.
	ErrObjectNotFound = core.ErrObjectNotFound
)

// PDFVersion is the version declared in the file header.
type PDFVersion struct {
	Major int
	Minor int
}

func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// headerWindow is how far into the file the %PDF- marker may appear; some
// producers put junk in front of it.
const headerWindow = 1024

var headerPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// Reader gives random access to the objects and pages of a PDF file. It is
// not safe for concurrent use.
type Reader struct {
	ra      io.ReaderAt
	closer  io.Closer
	size    int64
	version PDFVersion
	xref    *core.XRefTable
	trailer core.Dict

	objects  map[int]core.Object
	objStms  map[int]*core.ObjectStream
	loading  map[int]bool // objects being parsed, for indirect /Length loops
	resolver *resolver.Resolver
	pageTree *pages.PageTree
}

var _ pages.ObjectResolver = (*Reader)(nil)

// Open opens the named file. The Reader owns the file and Close closes it.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	r, err := NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header and cross-reference data of a PDF of the
// given size.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	r := &Reader{
		ra:      ra,
		size:    size,
		objects: make(map[int]core.Object),
		objStms: make(map[int]*core.ObjectStream),
		loading: make(map[int]bool),
	}
	r.resolver = resolver.New(r)

	version, err := r.parseHeader()
	if err != nil {
		return nil, err
	}
	r.version = version

	xref, err := core.NewXRefParser(ra, size).ParseAll()
	if err != nil {
		return nil, fmt.Errorf("loading cross-reference data: %w", err)
	}
	r.xref = xref
	r.trailer = xref.Trailer

	if r.trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}
	return r, nil
}

// Close releases the file opened by Open. It is a no-op for readers
// created with NewReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) parseHeader() (PDFVersion, error) {
	buf := make([]byte, min(headerWindow, r.size))
	n, err := r.ra.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return PDFVersion{}, fmt.Errorf("reading header: %w", err)
	}

	m := headerPattern.FindSubmatch(buf[:n])
	if m == nil {
		return PDFVersion{}, fmt.Errorf("not a PDF file: no %%PDF- header")
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Version returns the header version.
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the merged trailer dictionary.
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// XRefTable returns the merged cross-reference table.
func (r *Reader) XRefTable() *core.XRefTable {
	return r.xref
}

// FileSize returns the size given when the reader was created.
func (r *Reader) FileSize() int64 {
	return r.size
}

// NumObjects returns the trailer's /Size.
func (r *Reader) NumObjects() int {
	size, _ := r.trailer.GetInt("Size")
	return int(size)
}

// GetObject loads object objNum, from its file offset or from the object
// stream that holds it. Loaded objects are cached.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objects[objNum]; ok {
		return obj, nil
	}

	entry, ok := r.xref.Get(objNum)
	if !ok || !entry.InUse {
		return nil, fmt.Errorf("%w: %d", ErrObjectNotFound, objNum)
	}
	if r.loading[objNum] {
		return nil, fmt.Errorf("object %d refers to itself while loading", objNum)
	}
	r.loading[objNum] = true
	defer delete(r.loading, objNum)

	var obj core.Object
	var err error
	if entry.Compressed {
		obj, err = r.loadCompressed(objNum, entry)
	} else {
		obj, err = r.loadAt(objNum, entry.Offset)
	}
	if err != nil {
		return nil, err
	}

	if s, ok := obj.(*core.Stream); ok {
		if err := r.resolveFilterEntries(s); err != nil {
			return nil, fmt.Errorf("object %d: %w", objNum, err)
		}
	}

	r.objects[objNum] = obj
	return obj, nil
}

func (r *Reader) loadAt(objNum int, offset int64) (core.Object, error) {
	if offset < 0 || offset >= r.size {
		return nil, fmt.Errorf("object %d: offset %d outside file", objNum, offset)
	}

	// a fresh section per object keeps nested loads, such as an indirect
	// /Length, from disturbing this parse
	p := core.NewParser(io.NewSectionReader(r.ra, offset, r.size-offset))
	p.SetReferenceResolver(r)
	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", objNum, err)
	}
	if ind.Ref.Number != objNum {
		return nil, fmt.Errorf("object %d: offset %d holds object %d", objNum, offset, ind.Ref.Number)
	}
	return ind.Object, nil
}

func (r *Reader) loadCompressed(objNum int, entry *core.XRefEntry) (core.Object, error) {
	stm, ok := r.objStms[entry.StreamNum]
	if !ok {
		obj, err := r.GetObject(entry.StreamNum)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.StreamNum, err)
		}
		stream, isStream := obj.(*core.Stream)
		if !isStream {
			return nil, fmt.Errorf("object stream %d is %s", entry.StreamNum, obj.Type())
		}
		if stm, err = core.NewObjectStream(stream); err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.StreamNum, err)
		}
		r.objStms[entry.StreamNum] = stm
	}

	obj, num, err := stm.GetObjectByIndex(entry.StreamIndex)
	if err == nil && num == objNum {
		return obj, nil
	}
	// the index in the cross-reference entry is only a hint
	obj, _, err = stm.GetObjectByNumber(objNum)
	if err != nil {
		return nil, fmt.Errorf("object %d in stream %d: %w", objNum, entry.StreamNum, err)
	}
	return obj, nil
}

// resolveFilterEntries replaces indirect /Filter and /DecodeParms values so
// the stream can be decoded without a resolver.
func (r *Reader) resolveFilterEntries(s *core.Stream) error {
	for _, key := range []string{"Filter", "DecodeParms"} {
		v := s.Dict.Get(key)
		if v == nil {
			continue
		}
		resolved, err := r.resolver.ResolveDeep(v)
		if err != nil {
			return fmt.Errorf("resolving /%s: %w", key, err)
		}
		s.Dict.Set(key, resolved)
	}
	return nil
}

// ResolveReference loads the object ref points at.
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve follows obj through any chain of indirect references.
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	return r.resolver.Resolve(obj)
}

// ResolveDeep returns a copy of obj with every nested reference replaced.
func (r *Reader) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolver.ResolveDeep(obj)
}

// GetCatalog returns the document catalog.
func (r *Reader) GetCatalog() (core.Dict, error) {
	root := r.trailer.Get("Root")
	if root == nil {
		return nil, fmt.Errorf("trailer has no /Root")
	}
	obj, err := r.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("resolving catalog: %w", err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is %s, not a dictionary", obj.Type())
	}
	return catalog, nil
}

// GetInfo returns the document information dictionary, or nil when the
// document has none.
func (r *Reader) GetInfo() (core.Dict, error) {
	info := r.trailer.Get("Info")
	if info == nil {
		return nil, nil
	}
	obj, err := r.Resolve(info)
	if err != nil {
		return nil, fmt.Errorf("resolving /Info: %w", err)
	}
	dict, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("/Info is %s, not a dictionary", obj.Type())
	}
	return dict, nil
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() (int, error) {
	if err := r.ensurePageTree(); err != nil {
		return 0, err
	}
	return r.pageTree.Count()
}

// GetPage returns the page at index, counting from 0.
func (r *Reader) GetPage(index int) (*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.GetPage(index)
}

func (r *Reader) ensurePageTree() error {
	if r.pageTree != nil {
		return nil
	}

	dict, err := r.GetCatalog()
	if err != nil {
		return err
	}
	catalog := pages.NewCatalog(dict, r)
	root, err := catalog.Pages()
	if err != nil {
		return err
	}

	r.pageTree = pages.NewPageTree(root, r, pages.WithPageLabels(catalog.PageLabels()))
	return nil
}
