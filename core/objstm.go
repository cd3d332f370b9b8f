package core

import (
	"bytes"
	"fmt"
)

// ObjectStream gives access to the objects packed into a /Type /ObjStm
// stream. The stream is decoded on first use.
type ObjectStream struct {
	stream *Stream
	n      int
	first  int

	data    []byte
	entries []objStmEntry
	cache   map[int]Object // by index
}

type objStmEntry struct {
	num    int
	offset int // relative to first
}

// NewObjectStream validates the stream dictionary of an object stream.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("object stream is nil")
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "ObjStm" {
		return nil, fmt.Errorf("stream has /Type %s, not /ObjStm", objectString(stream.Dict.Get("Type")))
	}

	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N %s", objectString(stream.Dict.Get("N")))
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First %s", objectString(stream.Dict.Get("First")))
	}

	os := &ObjectStream{
		stream: stream,
		n:      int(n),
		first:  int(first),
		cache:  make(map[int]Object),
	}
	return os, nil
}

func (os *ObjectStream) load() error {
	if os.entries != nil {
		return nil
	}

	data, err := os.stream.Decode()
	if err != nil {
		return fmt.Errorf("decoding object stream: %w", err)
	}
	if os.first > len(data) {
		return fmt.Errorf("/First %d beyond decoded length %d", os.first, len(data))
	}

	p := NewParser(bytes.NewReader(data[:os.first]))
	// every header pair takes at least four bytes, whatever /N claims
	entries := make([]objStmEntry, 0, min(os.n, os.first/4+1))
	for i := 0; i < os.n; i++ {
		num, err1 := p.ParseObject()
		off, err2 := p.ParseObject()
		if err1 != nil || err2 != nil {
			return fmt.Errorf("object stream header ends after %d of %d pairs", i, os.n)
		}
		numInt, ok1 := num.(Int)
		offInt, ok2 := off.(Int)
		if !ok1 || !ok2 || offInt < 0 {
			return fmt.Errorf("object stream header pair %d is not two integers", i)
		}
		entries = append(entries, objStmEntry{num: int(numInt), offset: int(offInt)})
	}

	os.data = data
	os.entries = entries
	return nil
}

// GetObjectByIndex returns the object at position index together with its
// object number.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	if index < 0 || index >= len(os.entries) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.entries))
	}
	entry := os.entries[index]
	if obj, ok := os.cache[index]; ok {
		return obj, entry.num, nil
	}

	start := os.first + entry.offset
	if start >= len(os.data) {
		return nil, 0, fmt.Errorf("object %d starts at %d, beyond decoded length %d", entry.num, start, len(os.data))
	}

	// objects are not required to be stored in offset order, so parse up to
	// the end of the data rather than up to the next entry
	obj, err := NewParser(bytes.NewReader(os.data[start:])).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("object %d at index %d: %w", entry.num, index, err)
	}

	os.cache[index] = obj
	return obj, entry.num, nil
}

// GetObjectByNumber returns object objNum and its index in the stream.
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	for i, entry := range os.entries {
		if entry.num == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}
	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}
