package semtype

import (
	"strings"
	"unicode"

	"github.com/johnchase/qiime2/internal/errors"
)

// ErrSyntax is returned by Parse for malformed expressions.
var ErrSyntax = errors.New("invalid type expression")

// Parse reads a type-expression such as "IntSequence1 | Kennel[Dog]".
func Parse(s string) (Expression, error) {
	p := &parser{src: s}
	var exprs []Expression
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, t)
		p.skipSpace()
		if p.done() {
			break
		}
		if !p.consume('|') {
			return nil, p.errorf("expected '|' or end of expression")
		}
	}
	return Union(exprs...), nil
}

// MustParse is like Parse but panics on error. It is intended for
// package-level declarations.
func MustParse(s string) Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// ParseType reads a single concrete type. Unions are rejected.
func ParseType(s string) (Type, error) {
	e, err := Parse(s)
	if err != nil {
		return Type{}, err
	}
	members := e.Members()
	if len(members) != 1 {
		return Type{}, errors.Mark(errors.Newf("%q is a union of %d types, not a concrete type", s, len(members)), ErrSyntax)
	}
	return members[0], nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) consume(c byte) bool {
	p.skipSpace()
	if !p.done() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errorf(msg string) error {
	return errors.Mark(errors.Newf("%s at offset %d in %q", msg, p.pos, p.src), ErrSyntax)
}

func (p *parser) parseType() (Type, error) {
	p.skipSpace()
	start := p.pos
	for !p.done() {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.' {
			break
		}
		p.pos++
	}
	name := strings.TrimSpace(p.src[start:p.pos])
	if name == "" {
		return Type{}, p.errorf("expected type name")
	}
	t := Type{Name: name}
	if !p.consume('[') {
		return t, nil
	}
	for {
		f, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		t.Fields = append(t.Fields, f)
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return t, nil
		}
		return Type{}, p.errorf("expected ',' or ']'")
	}
}
