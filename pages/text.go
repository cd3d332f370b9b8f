package pages

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/shubhrat1234/pdftoimage/core"
	"golang.org/x/text/encoding/unicode"
)

// pdfDocEncoding holds the PDFDocEncoding code points that differ from
// ISO Latin-1. Zero marks an undefined code.
var pdfDocEncoding = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1a: 'ˆ', 0x1b: '˙',
	0x1c: '˝', 0x1d: '˛', 0x1e: '˚', 0x1f: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8a: '−', 0x8b: '‰',
	0x8c: '„', 0x8d: '“', 0x8e: '”', 0x8f: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9a: 'ı', 0x9b: 'ł',
	0x9c: 'œ', 0x9d: 'š', 0x9e: 'ž', 0x9f: 0,
	0xa0: '€', 0xad: 0,
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// DecodeText converts a PDF text string to UTF-8. Strings starting with a
// UTF-16BE byte order mark are UTF-16, strings starting with the UTF-8 mark
// are UTF-8, and everything else is PDFDocEncoding.
func DecodeText(s core.String) string {
	b := []byte(s)
	switch {
	case bytes.HasPrefix(b, []byte{0xfe, 0xff}):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(b)
		if err == nil {
			return string(out)
		}
	case bytes.HasPrefix(b, utf8BOM) && utf8.Valid(b[len(utf8BOM):]):
		return string(b[len(utf8BOM):])
	}

	var sb strings.Builder
	for _, c := range b {
		r, special := pdfDocEncoding[c]
		switch {
		case !special:
			sb.WriteRune(rune(c))
		case r == 0:
			sb.WriteRune(utf8.RuneError)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
