// Package pdftest assembles small PDF files for tests. It tracks the offset
// of every object it writes so the cross-reference data it emits is exact.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"sort"
	"strings"
)

// entry is what a cross-reference section records for one object.
type entry struct {
	offset     int64
	compressed bool
	stream     int
	index      int
}

// Builder writes a PDF file front to back.
type Builder struct {
	buf      bytes.Buffer
	pending  map[int]entry // written since the last cross-reference section
	maxNum   int
	lastXRef int64
	sections int
}

// New starts a file with a PDF header.
func New() *Builder {
	b := &Builder{pending: make(map[int]entry), lastXRef: -1}
	b.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	return b
}

func (b *Builder) record(num int, e entry) {
	b.pending[num] = e
	b.maxNum = max(b.maxNum, num)
}

// Object writes "num 0 obj body endobj".
func (b *Builder) Object(num int, body string) *Builder {
	b.record(num, entry{offset: int64(b.buf.Len())})
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	return b
}

// Stream writes a stream object. dict holds the dictionary entries without
// the surrounding brackets; /Length is added.
func (b *Builder) Stream(num int, dict string, data []byte) *Builder {
	b.record(num, entry{offset: int64(b.buf.Len())})
	fmt.Fprintf(&b.buf, "%d 0 obj\n<<%s /Length %d>>\nstream\n", num, dict, len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
	return b
}

// ObjectStream packs objects (number to body) into object stream num. The
// packed objects are recorded as compressed entries.
func (b *Builder) ObjectStream(num int, objects map[int]string) *Builder {
	nums := make([]int, 0, len(objects))
	for n := range objects {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	var header, body strings.Builder
	for i, n := range nums {
		fmt.Fprintf(&header, "%d %d ", n, body.Len())
		body.WriteString(objects[n])
		body.WriteString("\n")
		b.record(n, entry{compressed: true, stream: num, index: i})
	}

	dict := fmt.Sprintf("/Type /ObjStm /N %d /First %d /Filter /FlateDecode", len(nums), header.Len())
	return b.Stream(num, dict, Deflate([]byte(header.String()+body.String())))
}

// Raw appends bytes verbatim.
func (b *Builder) Raw(s string) *Builder {
	b.buf.WriteString(s)
	return b
}

// Offset returns the current length of the file.
func (b *Builder) Offset() int64 {
	return int64(b.buf.Len())
}

func (b *Builder) sectionNums() []int {
	nums := make([]int, 0, len(b.pending)+1)
	for n := range b.pending {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

func (b *Builder) finishSection(start int64) {
	fmt.Fprintf(&b.buf, "startxref\n%d\n%%%%EOF\n", start)
	b.lastXRef = start
	b.pending = make(map[int]entry)
	b.sections++
}

func (b *Builder) trailerExtras(trailer string) string {
	extra := fmt.Sprintf(" /Size %d", b.maxNum+1)
	if b.lastXRef >= 0 {
		extra += fmt.Sprintf(" /Prev %d", b.lastXRef)
	}
	return trailer + extra
}

// XRefTable writes a classic cross-reference table covering every object
// written since the previous section, followed by a trailer with trailer's
// entries plus /Size and, for updates, /Prev.
func (b *Builder) XRefTable(trailer string) *Builder {
	start := b.Offset()
	b.buf.WriteString("xref\n")
	if b.sections == 0 {
		b.buf.WriteString("0 1\n0000000000 65535 f\r\n")
	}
	for _, n := range b.sectionNums() {
		e := b.pending[n]
		if e.compressed {
			continue
		}
		fmt.Fprintf(&b.buf, "%d 1\n%010d 00000 n\r\n", n, e.offset)
	}
	fmt.Fprintf(&b.buf, "trailer\n<<%s>>\n", b.trailerExtras(trailer))
	b.finishSection(start)
	return b
}

// XRefStream writes cross-reference stream object num with /W [1 4 2],
// covering every object written since the previous section.
func (b *Builder) XRefStream(num int, trailer string) *Builder {
	start := b.Offset()
	b.record(num, entry{offset: start})

	var rows bytes.Buffer
	var index strings.Builder
	if b.sections == 0 {
		index.WriteString("0 1 ")
		rows.Write([]byte{0, 0, 0, 0, 0, 0xff, 0xff})
	}
	for _, n := range b.sectionNums() {
		e := b.pending[n]
		fmt.Fprintf(&index, "%d 1 ", n)
		if e.compressed {
			rows.Write([]byte{2, byte(e.stream >> 24), byte(e.stream >> 16), byte(e.stream >> 8), byte(e.stream), byte(e.index >> 8), byte(e.index)})
		} else {
			rows.Write([]byte{1, byte(e.offset >> 24), byte(e.offset >> 16), byte(e.offset >> 8), byte(e.offset), 0, 0})
		}
	}

	dict := fmt.Sprintf("/Type /XRef /W [1 4 2] /Index [%s]%s", strings.TrimSpace(index.String()), b.trailerExtras(trailer))
	b.Stream(num, dict, rows.Bytes())
	b.finishSection(start)
	return b
}

// Bytes returns the file written so far.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Deflate compresses data with zlib.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// Page describes one page for Document: its resource dictionary source,
// or "" for a page without /Resources.
type Page struct {
	Resources string
}

// Document starts a file with a one-level page tree: catalog 1, page tree 2
// and the pages numbered from 3. catalogExtra is appended to the catalog
// dictionary. Callers add the objects the pages refer to and finish with
// XRefTable(" /Root 1 0 R").
func Document(pages []Page, catalogExtra string) *Builder {
	b := New()
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	b.Object(1, fmt.Sprintf("<</Type /Catalog /Pages 2 0 R%s>>", catalogExtra))
	b.Object(2, fmt.Sprintf("<</Type /Pages /Kids [%s] /Count %d>>", strings.Join(kids, " "), len(pages)))
	for i, p := range pages {
		res := ""
		if p.Resources != "" {
			res = " /Resources " + p.Resources
		}
		b.Object(3+i, fmt.Sprintf("<</Type /Page /Parent 2 0 R /MediaBox [0 0 612 792]%s>>", res))
	}
	return b
}
