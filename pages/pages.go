package pages

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shubhrat1234/pdftoimage/core"
)

// ObjectResolver turns indirect references into the objects they name.
// Direct objects are returned unchanged.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// ErrNoResources is returned by Page.Resources when neither the page nor
// any ancestor has a /Resources dictionary.
var ErrNoResources = errors.New("page has no resource dictionary")

// maxTreeDepth bounds page tree nesting. Real files rarely exceed a handful
// of levels; the bound stops malformed trees that nest without a cycle.
const maxTreeDepth = 256

// Catalog is the document catalog, the root of the object graph.
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog wraps a catalog dictionary.
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{dict: dict, resolver: resolver}
}

// Pages returns the root node of the page tree.
func (c *Catalog) Pages() (core.Dict, error) {
	obj, err := c.resolver.Resolve(c.dict.Get("Pages"))
	if err != nil {
		return nil, fmt.Errorf("resolving /Pages: %w", err)
	}
	root, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog /Pages is %s, not a dictionary", objectType(obj))
	}
	return root, nil
}

// PageLabels returns the /PageLabels number tree, or nil when the document
// does not define labels.
func (c *Catalog) PageLabels() core.Object {
	return c.dict.Get("PageLabels")
}

// PageTree is the flattened page tree of a document.
type PageTree struct {
	root     core.Dict
	resolver ObjectResolver
	labels   core.Object
	pages    []*Page
}

// TreeOption configures a PageTree.
type TreeOption func(*PageTree)

// WithPageLabels supplies the catalog's /PageLabels number tree. A label
// tree that cannot be read leaves every page with its page number as label.
func WithPageLabels(numberTree core.Object) TreeOption {
	return func(t *PageTree) {
		t.labels = numberTree
	}
}

// NewPageTree returns the tree rooted at root. Nothing is read until the
// first page is requested.
func NewPageTree(root core.Dict, resolver ObjectResolver, opts ...TreeOption) *PageTree {
	t := &PageTree{root: root, resolver: resolver}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Count returns the number of leaf pages actually present in the tree.
func (t *PageTree) Count() (int, error) {
	if err := t.load(); err != nil {
		return 0, err
	}
	return len(t.pages), nil
}

// GetPage returns the page at index, counting from 0.
func (t *PageTree) GetPage(index int) (*Page, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(t.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(t.pages))
	}
	return t.pages[index], nil
}

// Pages returns every page in document order.
func (t *PageTree) Pages() ([]*Page, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	return t.pages, nil
}

func (t *PageTree) load() error {
	if t.pages != nil {
		return nil
	}

	w := &treeWalker{resolver: t.resolver, visited: make(map[core.IndirectRef]bool)}
	if err := w.walk(t.root, nil); err != nil {
		return fmt.Errorf("walking page tree: %w", err)
	}

	// an unreadable label tree leaves the page numbers as labels
	ranges, _ := readLabelRanges(t.labels, t.resolver)
	for i, p := range w.pages {
		p.index = i
		p.label = labelFor(ranges, i)
	}

	t.pages = w.pages
	if t.pages == nil {
		t.pages = []*Page{}
	}
	return nil
}

type treeWalker struct {
	resolver ObjectResolver
	visited  map[core.IndirectRef]bool
	pages    []*Page
}

// walk visits node depth first. ancestors holds the intermediate nodes
// above node, nearest first.
func (w *treeWalker) walk(node core.Dict, ancestors []core.Dict) error {
	if len(ancestors) > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}

	typ, _ := node.GetName("Type")
	if typ == "Page" || (typ != "Pages" && !node.Has("Kids")) {
		w.pages = append(w.pages, NewPage(node, ancestors, w.resolver))
		return nil
	}

	kidsObj, err := w.resolver.Resolve(node.Get("Kids"))
	if err != nil {
		return fmt.Errorf("resolving /Kids: %w", err)
	}
	kids, ok := kidsObj.(core.Array)
	if !ok {
		return fmt.Errorf("/Kids is %s, not an array", objectType(kidsObj))
	}

	// the chain for the children starts with this node
	chain := make([]core.Dict, 0, len(ancestors)+1)
	chain = append(chain, node)
	chain = append(chain, ancestors...)

	for i, kid := range kids {
		if ref, isRef := kid.(core.IndirectRef); isRef {
			if w.visited[ref] {
				return fmt.Errorf("page tree node %s is reachable twice", ref)
			}
			w.visited[ref] = true
		}
		resolved, err := w.resolver.Resolve(kid)
		if err != nil {
			return fmt.Errorf("resolving kid %d: %w", i, err)
		}
		dict, ok := resolved.(core.Dict)
		if !ok {
			return fmt.Errorf("kid %d is %s, not a dictionary", i, objectType(resolved))
		}
		if err := w.walk(dict, chain); err != nil {
			return err
		}
	}
	return nil
}

// Page is a read-only view of one page dictionary and the page tree nodes
// above it.
type Page struct {
	dict      core.Dict
	ancestors []core.Dict
	index     int
	label     string
	resolver  ObjectResolver
}

// NewPage wraps a page dictionary. ancestors lists the intermediate page
// tree nodes above it, nearest first. A page created outside a PageTree has
// index 0 and label "1". resolver may be nil for a page whose objects are
// all direct.
func NewPage(dict core.Dict, ancestors []core.Dict, resolver ObjectResolver) *Page {
	return &Page{dict: dict, ancestors: ancestors, label: "1", resolver: resolver}
}

// Index returns the page's position in the document, counting from 0.
func (p *Page) Index() int {
	return p.index
}

// Label returns the page label, which is the 1-based page number unless the
// document defines page labels.
func (p *Page) Label() string {
	return p.label
}

// Dict returns the page dictionary itself. It may be nil.
func (p *Page) Dict() core.Dict {
	return p.dict
}

// Inherited returns the value of key from the page dictionary or, failing
// that, from the nearest ancestor that defines it. The value is returned
// unresolved; it is nil when no node defines key.
func (p *Page) Inherited(key string) core.Object {
	if v := p.dict.Get(key); v != nil {
		return v
	}
	for _, node := range p.ancestors {
		if v := node.Get(key); v != nil {
			return v
		}
	}
	return nil
}

// Resolve follows obj if it is an indirect reference. A page without a
// resolver can only return direct objects.
func (p *Page) Resolve(obj core.Object) (core.Object, error) {
	if p.resolver == nil {
		if ref, ok := obj.(core.IndirectRef); ok {
			return nil, fmt.Errorf("cannot resolve %s: page has no resolver", ref)
		}
		return obj, nil
	}
	return p.resolver.Resolve(obj)
}

// Resources returns the page's resource dictionary, inherited if needed.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.Inherited("Resources")
	if obj == nil {
		return nil, ErrNoResources
	}
	resolved, err := p.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("resolving /Resources: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("/Resources is %s, not a dictionary", objectType(resolved))
	}
	return dict, nil
}

func (p *Page) String() string {
	return "page " + p.label + " (index " + strconv.Itoa(p.index) + ")"
}

func objectType(obj core.Object) string {
	if obj == nil {
		return "missing"
	}
	return obj.Type().String()
}
