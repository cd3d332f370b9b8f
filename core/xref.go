package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrObjectNotFound is returned for object numbers without an in-use
// cross-reference entry. Such references read as null.
var ErrObjectNotFound = errors.New("object not found")

// XRefEntry locates one object. In-use objects are either stored at a byte
// offset in the file or, when Compressed is set, inside an object stream.
type XRefEntry struct {
	Offset      int64 // byte offset of "num gen obj"
	Generation  int
	InUse       bool
	Compressed  bool
	StreamNum   int // object number of the containing object stream
	StreamIndex int // index of the object inside that stream
}

// XRefTable maps object numbers to their entries and carries the trailer.
type XRefTable struct {
	Entries map[int]*XRefEntry
	Trailer Dict
}

// NewXRefTable returns an empty table.
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]*XRefEntry),
		Trailer: make(Dict),
	}
}

// Get returns the entry for objNum.
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Set adds or replaces the entry for objNum.
func (x *XRefTable) Set(objNum int, entry *XRefEntry) {
	x.Entries[objNum] = entry
}

// Size returns the number of entries.
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// mergeOlder copies in the entries and trailer keys of an earlier section
// that this table does not already define.
func (x *XRefTable) mergeOlder(older *XRefTable) {
	for num, entry := range older.Entries {
		if _, ok := x.Entries[num]; !ok {
			x.Entries[num] = entry
		}
	}
	for key, value := range older.Trailer {
		if !x.Trailer.Has(key) {
			x.Trailer[key] = value
		}
	}
}

// XRefParser reads cross-reference data, both classic tables and
// cross-reference streams.
type XRefParser struct {
	r    io.ReaderAt
	size int64
}

// NewXRefParser returns a parser for a file of the given size.
func NewXRefParser(r io.ReaderAt, size int64) *XRefParser {
	return &XRefParser{r: r, size: size}
}

// startxrefWindow is how far from the end of the file the startxref keyword
// is searched for.
const startxrefWindow = 1024

// FindXRef returns the offset recorded after the last startxref keyword.
func (x *XRefParser) FindXRef() (int64, error) {
	n := min(int64(startxrefWindow), x.size)
	tail := make([]byte, n)
	read, err := x.r.ReadAt(tail, x.size-n)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("reading file tail: %w", err)
	}
	tail = tail[:read]

	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found")
	}

	fields := bytes.Fields(tail[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("startxref without offset")
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid startxref offset %q: %w", fields[0], err)
	}
	if offset < 0 || offset >= x.size {
		return 0, fmt.Errorf("startxref offset %d outside file of %d bytes", offset, x.size)
	}
	return offset, nil
}

// ParseAll loads the complete cross-reference data: the newest section and
// every earlier section reachable through /Prev and /XRefStm. Entries from
// newer sections take precedence.
func (x *XRefParser) ParseAll() (*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, err
	}

	var table *XRefTable
	seen := make(map[int64]bool)
	for {
		if seen[offset] {
			return nil, fmt.Errorf("cross-reference sections loop at offset %d", offset)
		}
		seen[offset] = true

		section, err := x.ParseXRef(offset)
		if err != nil {
			return nil, fmt.Errorf("cross-reference section at %d: %w", offset, err)
		}

		// a hybrid file keeps its compressed objects in a separate stream
		if stm, ok := section.Trailer.GetInt("XRefStm"); ok && !seen[int64(stm)] {
			seen[int64(stm)] = true
			hidden, err := x.ParseXRef(int64(stm))
			if err != nil {
				return nil, fmt.Errorf("cross-reference stream at %d: %w", stm, err)
			}
			section.mergeOlder(&XRefTable{Entries: hidden.Entries})
		}

		if table == nil {
			table = section
		} else {
			table.mergeOlder(section)
		}

		prev, ok := section.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}

	delete(table.Trailer, "Prev")
	delete(table.Trailer, "XRefStm")
	return table, nil
}

// ParseXRef parses the single section at offset, which is either an xref
// table with its trailer or a cross-reference stream object.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= x.size {
		return nil, fmt.Errorf("offset %d outside file of %d bytes", offset, x.size)
	}
	p := NewParser(io.NewSectionReader(x.r, offset, x.size-offset))

	tok, err := p.peekToken(0)
	if err != nil {
		return nil, err
	}
	switch {
	case isKeyword(tok, "xref"):
		p.nextToken()
		return parseXRefTable(p)
	case tok.Type == TokenInteger:
		return parseXRefStream(p)
	}
	return nil, fmt.Errorf("expected xref or a cross-reference stream, got %q", tok.Value)
}

// parseXRefTable reads the subsections following the xref keyword and then
// the trailer dictionary.
func parseXRefTable(p *Parser) (*XRefTable, error) {
	table := NewXRefTable()
	for {
		tok, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		if isKeyword(tok, "trailer") {
			break
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("expected subsection header or trailer, got %q", tok.Value)
		}
		first, _ := strconv.Atoi(string(tok.Value))

		tok, err = p.nextToken()
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(string(tok.Value))
		if tok.Type != TokenInteger || err != nil || count < 0 {
			return nil, fmt.Errorf("invalid subsection count %q", tok.Value)
		}

		for i := 0; i < count; i++ {
			entry, err := parseXRefEntry(p)
			if err != nil {
				return nil, fmt.Errorf("entry %d of subsection %d: %w", i, first, err)
			}
			table.Set(first+i, entry)
		}
	}

	trailer, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	dict, ok := trailer.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is %s, not a dictionary", trailer.Type())
	}
	table.Trailer = dict
	return table, nil
}

// parseXRefEntry reads "offset generation n|f".
func parseXRefEntry(p *Parser) (*XRefEntry, error) {
	var fields [3]*Token
	for i := range fields {
		tok, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		fields[i] = tok
	}

	offset, err := strconv.ParseInt(string(fields[0].Value), 10, 64)
	if fields[0].Type != TokenInteger || err != nil {
		return nil, fmt.Errorf("invalid offset %q", fields[0].Value)
	}
	gen, err := strconv.Atoi(string(fields[1].Value))
	if fields[1].Type != TokenInteger || err != nil {
		return nil, fmt.Errorf("invalid generation %q", fields[1].Value)
	}

	entry := &XRefEntry{Offset: offset, Generation: gen}
	switch {
	case isKeyword(fields[2], "n"):
		entry.InUse = true
	case isKeyword(fields[2], "f"):
	default:
		return nil, fmt.Errorf("invalid entry type %q", fields[2].Value)
	}
	return entry, nil
}

// parseXRefStream reads a cross-reference stream object. Its dictionary
// doubles as the trailer.
func parseXRefStream(p *Parser) (*XRefTable, error) {
	obj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object %s is not a stream", obj.Ref)
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "XRef" {
		return nil, fmt.Errorf("object %s has /Type %s, not /XRef", obj.Ref, objectString(stream.Dict.Get("Type")))
	}

	widths, err := xrefWidths(stream.Dict)
	if err != nil {
		return nil, err
	}
	size, ok := stream.Dict.GetInt("Size")
	if !ok || size < 0 {
		return nil, fmt.Errorf("cross-reference stream without valid /Size")
	}
	index := Array{Int(0), size}
	if arr, ok := stream.Dict.GetArray("Index"); ok {
		index = arr
	}
	if index.Len()%2 != 0 {
		return nil, fmt.Errorf("/Index has odd length %d", index.Len())
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding cross-reference stream: %w", err)
	}

	rowLen := widths[0] + widths[1] + widths[2]
	table := NewXRefTable()
	for i := 0; i < index.Len(); i += 2 {
		first, ok1 := index.GetInt(i)
		count, ok2 := index.GetInt(i + 1)
		if !ok1 || !ok2 || first < 0 || count < 0 {
			return nil, fmt.Errorf("invalid /Index pair at %d", i)
		}
		for j := 0; j < int(count); j++ {
			if len(data) < rowLen {
				return nil, fmt.Errorf("cross-reference stream data ends at object %d", int(first)+j)
			}
			row := data[:rowLen]
			data = data[rowLen:]

			typ := int64(1)
			if widths[0] > 0 {
				typ = readField(row[:widths[0]])
			}
			f2 := readField(row[widths[0] : widths[0]+widths[1]])
			f3 := readField(row[widths[0]+widths[1]:])

			entry := &XRefEntry{}
			switch typ {
			case 0:
				entry.Offset, entry.Generation = f2, int(f3)
			case 1:
				entry.Offset, entry.Generation, entry.InUse = f2, int(f3), true
			case 2:
				entry.InUse, entry.Compressed = true, true
				entry.StreamNum, entry.StreamIndex = int(f2), int(f3)
			default:
				// unknown types are to be read as references to null
				continue
			}
			table.Set(int(first)+j, entry)
		}
	}

	trailer := make(Dict, len(stream.Dict))
	for key, value := range stream.Dict {
		switch key {
		case "Length", "Filter", "DecodeParms", "W", "Index", "Type":
			continue
		}
		trailer[key] = value
	}
	table.Trailer = trailer
	return table, nil
}

func xrefWidths(dict Dict) ([3]int, error) {
	var widths [3]int
	arr, ok := dict.GetArray("W")
	if !ok || arr.Len() != 3 {
		return widths, fmt.Errorf("cross-reference stream needs a three-element /W")
	}
	for i := range widths {
		w, ok := arr.GetInt(i)
		if !ok || w < 0 || w > 8 {
			return widths, fmt.Errorf("invalid /W element %s", objectString(arr.Get(i)))
		}
		widths[i] = int(w)
	}
	return widths, nil
}

// readField decodes a big-endian unsigned field.
func readField(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
