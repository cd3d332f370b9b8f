package filters

import (
	"bytes"
	"testing"
)

func TestASCIIHexDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"simple", "48656C6C6F>", []byte("Hello")},
		{"lowercase", "48656c6c6f", []byte("Hello")},
		{"whitespace", "48 65\n6C\t6C 6F >", []byte("Hello")},
		{"odd digit", "414>", []byte{0x41, 0x40}},
		{"stops at marker", "41>42", []byte("A")},
		{"empty", ">", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCIIHexDecode([]byte(tt.input))
			if err != nil {
				t.Fatalf("ASCIIHexDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestASCIIHexDecodeInvalid(t *testing.T) {
	if _, err := ASCIIHexDecode([]byte("4G>")); err == nil {
		t.Error("expected error for invalid hex digit")
	}
}

func TestASCII85Decode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"full group", "87cUR~>", []byte("Hell")},
		{"partial group", "87cURDZ~>", []byte("Hello")},
		{"z shorthand", "z~>", []byte{0, 0, 0, 0}},
		{"whitespace", "87c\nUR DZ~>", []byte("Hello")},
		{"leading marker", "<~87cURDZ~>", []byte("Hello")},
		{"no end marker", "87cUR", []byte("Hell")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCII85Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("ASCII85Decode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestASCII85DecodeInvalid(t *testing.T) {
	if _, err := ASCII85Decode([]byte("87c{R~>")); err == nil {
		t.Error("expected error for character outside the base-85 alphabet")
	}
}
