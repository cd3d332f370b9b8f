package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// TokenType classifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, xref, trailer, ...
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R
)

// Token is one lexical unit of PDF syntax.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64 // byte offset from the start of the input
}

func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q@%d", t.Value, t.Pos)
}

// Lexer splits PDF syntax into tokens. It never interprets stream bodies;
// the parser reads those with ReadBytes.
type Lexer struct {
	reader *bufio.Reader
	pos    int64
}

// NewLexer returns a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// Position returns the offset of the next unread byte.
func (l *Lexer) Position() int64 {
	return l.pos
}

// NextToken skips whitespace and returns the next token. At end of input it
// returns a TokenEOF token and a nil error.
func (l *Lexer) NextToken() (*Token, error) {
	if err := l.skipWhitespace(); err != nil && err != io.EOF {
		return nil, err
	}

	b, err := l.peek()
	if err == io.EOF {
		return &Token{Type: TokenEOF, Pos: l.pos}, nil
	}
	if err != nil {
		return nil, err
	}

	start := l.pos
	switch b {
	case '%':
		return l.readComment()
	case '[':
		l.readByte()
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case ']':
		l.readByte()
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if next, err := l.reader.Peek(2); err == nil && next[1] == '<' {
			l.readByte()
			l.readByte()
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if next, err := l.reader.Peek(2); err == nil && next[1] == '>' {
			l.readByte()
			l.readByte()
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		return nil, fmt.Errorf("unexpected '>' at position %d", start)
	case '/':
		return l.readName()
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber()
	}
	if isRegular(b) {
		return l.readKeyword()
	}
	return nil, fmt.Errorf("unexpected character %q at position %d", b, start)
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	l.pos++
	return b, nil
}

func (l *Lexer) peek() (byte, error) {
	buf, err := l.reader.Peek(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (l *Lexer) skipWhitespace() error {
	for {
		b, err := l.peek()
		if err != nil {
			return err
		}
		if !isWhitespace(b) {
			return nil
		}
		l.readByte()
	}
}

// readComment consumes a comment up to and including its end-of-line marker.
func (l *Lexer) readComment() (*Token, error) {
	start := l.pos
	l.readByte() // %

	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		l.readByte()
		if b == '\n' {
			break
		}
		if b == '\r' {
			if next, err := l.peek(); err == nil && next == '\n' {
				l.readByte()
			}
			break
		}
		buf.WriteByte(b)
	}
	return &Token{Type: TokenComment, Value: buf.Bytes(), Pos: start}, nil
}

// readString reads a literal string with balanced parentheses and escapes.
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.readByte() // (

	var buf bytes.Buffer
	depth := 1
	for {
		b, err := l.readByte()
		if err != nil {
			return nil, fmt.Errorf("unterminated string starting at %d: %w", start, err)
		}
		switch b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
		case '\\':
			if err := l.readEscape(&buf); err != nil {
				return nil, err
			}
			continue
		case '\r':
			// an unescaped end-of-line in a string reads as a single LF
			if next, err := l.peek(); err == nil && next == '\n' {
				l.readByte()
			}
			b = '\n'
		}
		buf.WriteByte(b)
	}
}

func (l *Lexer) readEscape(buf *bytes.Buffer) error {
	b, err := l.readByte()
	if err != nil {
		return err
	}
	switch b {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\n':
		// line continuation
	case '\r':
		if next, err := l.peek(); err == nil && next == '\n' {
			l.readByte()
		}
	default:
		if !isOctalDigit(b) {
			buf.WriteByte(b)
			return nil
		}
		val := b - '0'
		for i := 0; i < 2; i++ {
			next, err := l.peek()
			if err != nil || !isOctalDigit(next) {
				break
			}
			l.readByte()
			val = val*8 + (next - '0')
		}
		buf.WriteByte(val)
	}
	return nil
}

// readHexString reads <...>, dropping whitespace between the digits.
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.readByte() // <

	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			return nil, fmt.Errorf("unterminated hex string starting at %d: %w", start, err)
		}
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit %q at position %d", b, l.pos-1)
		}
		buf.WriteByte(b)
	}
	return &Token{Type: TokenHexString, Value: buf.Bytes(), Pos: start}, nil
}

// readName reads /Name, expanding #xx escapes.
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.readByte() // /

	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !isRegular(b) {
			break
		}
		l.readByte()
		if b == '#' {
			if hex, err := l.reader.Peek(2); err == nil && isHexDigit(hex[0]) && isHexDigit(hex[1]) {
				val := hexValue(hex[0])<<4 | hexValue(hex[1])
				l.readByte()
				l.readByte()
				buf.WriteByte(val)
				continue
			}
		}
		buf.WriteByte(b)
	}
	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

// readNumber reads an integer or a real. A second '.' ends the number.
func (l *Lexer) readNumber() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	isReal := false
scan:
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch {
		case b == '.' && !isReal:
			isReal = true
		case isDigit(b):
		case (b == '-' || b == '+') && buf.Len() == 0:
		default:
			break scan
		}
		l.readByte()
		buf.WriteByte(b)
	}

	typ := TokenInteger
	if isReal {
		typ = TokenReal
	}
	return &Token{Type: typ, Value: buf.Bytes(), Pos: start}, nil
}

// readKeyword reads a bare word. A lone "R" becomes TokenIndirectRef.
func (l *Lexer) readKeyword() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !isRegular(b) {
			break
		}
		l.readByte()
		buf.WriteByte(b)
	}

	value := buf.Bytes()
	if len(value) == 1 && value[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: value, Pos: start}, nil
	}
	return &Token{Type: TokenKeyword, Value: value, Pos: start}, nil
}

// SkipStreamEOL consumes the end-of-line marker that must follow the stream
// keyword: LF or CR LF. A lone CR is tolerated.
func (l *Lexer) SkipStreamEOL() error {
	for {
		b, err := l.peek()
		if err != nil {
			return err
		}
		if b != ' ' && b != '\t' {
			break
		}
		l.readByte()
	}

	b, err := l.peek()
	if err != nil {
		return err
	}
	switch b {
	case '\n':
		l.readByte()
	case '\r':
		l.readByte()
		if next, err := l.peek(); err == nil && next == '\n' {
			l.readByte()
		}
	}
	return nil
}

// ReadBytes reads exactly n bytes of binary data. The buffer grows with the
// data actually read, so a bogus n from the file cannot exhaust memory.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	var buf bytes.Buffer
	read, err := io.CopyN(&buf, l.reader, int64(n))
	l.pos += read
	if err != nil {
		return buf.Bytes(), fmt.Errorf("expected %d bytes, got %d: %w", n, read, err)
	}
	return buf.Bytes(), nil
}

// ReadUntil reads raw bytes up to, but not including, the first occurrence
// of marker. The marker itself is left unread.
func (l *Lexer) ReadUntil(marker []byte) ([]byte, error) {
	var buf bytes.Buffer
	for {
		if next, err := l.reader.Peek(len(marker)); err == nil && bytes.Equal(next, marker) {
			return buf.Bytes(), nil
		}
		b, err := l.readByte()
		if err != nil {
			return buf.Bytes(), err
		}
		buf.WriteByte(b)
	}
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// isRegular reports whether b may appear inside a name or keyword.
func isRegular(b byte) bool {
	return !isWhitespace(b) && !isDelimiter(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case isDigit(b):
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
