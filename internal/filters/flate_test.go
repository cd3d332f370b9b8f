package filters

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFlateDecode(t *testing.T) {
	original := []byte("Hello, World! This is test data for FlateDecode.")

	decoded, err := FlateDecode(deflate(t, original), nil)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %q, want %q", decoded, original)
	}
}

func TestFlateDecodeWithPNGPredictor(t *testing.T) {
	// two rows of three gray samples, both Up-filtered
	predicted := []byte{
		2, 10, 20, 30,
		2, 1, 1, 1,
	}

	decoded, err := FlateDecode(deflate(t, predicted), Params{"Predictor": 12, "Columns": 3})
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	want := []byte{10, 20, 30, 11, 21, 31}
	if !bytes.Equal(decoded, want) {
		t.Errorf("got %v, want %v", decoded, want)
	}
}

func TestFlateDecodeTruncated(t *testing.T) {
	head := bytes.Repeat([]byte("recoverable "), 50)
	tail := bytes.Repeat([]byte("lost "), 50)

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(head)
	w.Flush()
	flushed := buf.Len()
	w.Write(tail)
	w.Close()
	compressed := buf.Bytes()

	cut := flushed + (len(compressed)-flushed)/2
	decoded, err := FlateDecode(compressed[:cut], nil)
	if err != nil {
		t.Fatalf("FlateDecode on truncated data failed: %v", err)
	}
	if !bytes.HasPrefix(decoded, head) {
		t.Errorf("expected the data before the cut to survive, got %d bytes", len(decoded))
	}
}

func TestFlateDecodeInvalid(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib at all"), nil); err == nil {
		t.Error("expected error for invalid zlib data")
	}
}
