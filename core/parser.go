package core

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver resolves indirect references. The parser uses it for
// streams whose /Length is itself an indirect object.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser builds PDF objects from the tokens of a Lexer.
type Parser struct {
	lexer    *Lexer
	pending  []*Token // lookahead, never extends past a "stream" keyword
	resolver ReferenceResolver
}

// NewParser returns a parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// SetReferenceResolver installs the resolver used for indirect stream
// lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// peekToken returns the token n positions ahead without consuming it.
// Comments are dropped. Nothing after a "stream" keyword is lexed, since
// binary data follows it; peeking there yields an EOF token.
func (p *Parser) peekToken(n int) (*Token, error) {
	for len(p.pending) <= n {
		if last := len(p.pending) - 1; last >= 0 && isKeyword(p.pending[last], "stream") {
			return &Token{Type: TokenEOF, Pos: p.lexer.Position()}, nil
		}
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenComment {
			continue
		}
		p.pending = append(p.pending, tok)
	}
	return p.pending[n], nil
}

func (p *Parser) nextToken() (*Token, error) {
	tok, err := p.peekToken(0)
	if err != nil {
		return nil, err
	}
	p.pending = p.pending[1:]
	return tok, nil
}

func isKeyword(tok *Token, keyword string) bool {
	return tok != nil && tok.Type == TokenKeyword && string(tok.Value) == keyword
}

// ParseObject parses the next direct object. It returns io.EOF when the
// input is exhausted.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.nextToken()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)

	case TokenInteger:
		return p.parseNumber(tok)

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real %q at position %d", tok.Value, tok.Pos)
		}
		return Real(val), nil

	case TokenString:
		return String(tok.Value), nil

	case TokenHexString:
		digits := tok.Value
		if len(digits)%2 != 0 {
			digits = append(digits, '0')
		}
		decoded := make([]byte, len(digits)/2)
		if _, err := hex.Decode(decoded, digits); err != nil {
			return nil, fmt.Errorf("invalid hex string at position %d: %w", tok.Pos, err)
		}
		return String(decoded), nil

	case TokenName:
		return Name(tok.Value), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()
	}

	return nil, fmt.Errorf("unexpected token %s at position %d", tok.Value, tok.Pos)
}

// parseNumber turns an integer token into an Int, or into an IndirectRef
// when it starts a "num gen R" triple.
func (p *Parser) parseNumber(tok *Token) (Object, error) {
	num, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		// "+", "-" or overflowing digits
		f, ferr := strconv.ParseFloat(string(tok.Value), 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Pos)
		}
		return Real(f), nil
	}

	gen, err := p.peekToken(0)
	if err != nil || gen.Type != TokenInteger {
		return Int(num), nil
	}
	r, err := p.peekToken(1)
	if err != nil || r.Type != TokenIndirectRef {
		return Int(num), nil
	}
	genNum, err := strconv.ParseInt(string(gen.Value), 10, 64)
	if err != nil {
		return Int(num), nil
	}

	p.pending = p.pending[2:]
	return IndirectRef{Number: int(num), Generation: int(genNum)}, nil
}

func (p *Parser) parseArray() (Array, error) {
	arr := Array{}
	for {
		tok, err := p.peekToken(0)
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			p.nextToken()
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected end of input in array")
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Dict, error) {
	dict := make(Dict)
	for {
		tok, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected end of input in dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("dictionary key at position %d is not a name: %q", tok.Pos, tok.Value)
		}

		key := string(tok.Value)
		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("dictionary value for /%s: %w", key, err)
		}
		// a null value is equivalent to an absent key
		if _, isNull := value.(Null); !isNull {
			dict[key] = value
		}
	}
}

// ParseIndirectObject parses "num gen obj ... endobj", including a stream
// body when the object is a stream. A missing endobj is tolerated.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	numTok, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	genTok, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	objTok, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if numTok.Type != TokenInteger || genTok.Type != TokenInteger || !isKeyword(objTok, "obj") {
		return nil, fmt.Errorf("expected \"num gen obj\" at position %d", numTok.Pos)
	}

	num, err := strconv.Atoi(string(numTok.Value))
	if err != nil {
		return nil, fmt.Errorf("invalid object number %q: %w", numTok.Value, err)
	}
	gen, err := strconv.Atoi(string(genTok.Value))
	if err != nil {
		return nil, fmt.Errorf("invalid generation number %q: %w", genTok.Value, err)
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}

	if tok, err := p.peekToken(0); err == nil && isKeyword(tok, "stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %d %d: stream keyword after %s", num, gen, obj.Type())
		}
		p.nextToken()
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
		}
		obj = stream
	}

	if tok, err := p.peekToken(0); err == nil && isKeyword(tok, "endobj") {
		p.nextToken()
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

// parseStream reads the body following the stream keyword. When /Length
// cannot be determined the body runs up to the endstream keyword.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	if err := p.lexer.SkipStreamEOL(); err != nil {
		return nil, fmt.Errorf("stream body: %w", err)
	}

	length, known := p.streamLength(dict)
	if !known {
		data, err := p.lexer.ReadUntil([]byte("endstream"))
		if err != nil {
			return nil, fmt.Errorf("stream without endstream: %w", err)
		}
		p.nextToken() // endstream
		return &Stream{Dict: dict, Data: trimEOL(data)}, nil
	}

	data, err := p.lexer.ReadBytes(length)
	if err != nil {
		return nil, fmt.Errorf("stream body: %w", err)
	}
	tok, err := p.nextToken()
	if err != nil {
		return nil, err
	}
	if !isKeyword(tok, "endstream") {
		return nil, fmt.Errorf("expected endstream at position %d, got %q", tok.Pos, tok.Value)
	}
	return &Stream{Dict: dict, Data: data}, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	var length Object = dict.Get("Length")
	if ref, ok := length.(IndirectRef); ok {
		if p.resolver == nil {
			return 0, false
		}
		resolved, err := p.resolver.ResolveReference(ref)
		if err != nil {
			return 0, false
		}
		length = resolved
	}
	n, ok := length.(Int)
	if !ok || n < 0 {
		return 0, false
	}
	return int(n), true
}

// trimEOL drops one trailing end-of-line marker, which belongs to the
// endstream keyword rather than the data.
func trimEOL(data []byte) []byte {
	if bytes.HasSuffix(data, []byte("\r\n")) {
		return data[:len(data)-2]
	}
	if bytes.HasSuffix(data, []byte("\n")) || bytes.HasSuffix(data, []byte("\r")) {
		return data[:len(data)-1]
	}
	return data
}
