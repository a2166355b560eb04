// Package columnname implements the canonical escaped dotted-path syntax
// used by every expression and schema reference in the scan-planning
// core: fields separated by '.', each field either a bare identifier or
// a backtick-escaped arbitrary string.
package columnname

import (
	"strings"
	"unicode/utf8"

	coreerrors "github.com/malbeclabs/deltascan/utils/pkg/errors"
)

// ColumnName is an ordered sequence of field names. The empty sequence
// is distinct from the sequence containing a single empty field.
type ColumnName []string

// Equal reports whether c and other name the same path.
func (c ColumnName) Equal(other ColumnName) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Append returns a new ColumnName with field appended.
func (c ColumnName) Append(field string) ColumnName {
	out := make(ColumnName, len(c)+1)
	copy(out, c)
	out[len(c)] = field
	return out
}

// String prints c in canonical form: simple fields bare, everything
// else backtick-escaped with doubled embedded backticks.
func (c ColumnName) String() string {
	var b strings.Builder
	for i, field := range c {
		if i > 0 {
			b.WriteByte('.')
		}
		writeField(&b, field)
	}
	return b.String()
}

func writeField(b *strings.Builder, field string) {
	if isSimple(field) {
		b.WriteString(field)
		return
	}
	b.WriteByte('`')
	for _, r := range field {
		if r == '`' {
			b.WriteString("``")
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteByte('`')
}

// isSimple reports whether field can be printed without backtick
// escaping: non-empty, first char not a digit, every char alphanumeric
// or underscore.
func isSimple(field string) bool {
	if field == "" {
		return false
	}
	for i, r := range field {
		if i == 0 && r >= '0' && r <= '9' {
			return false
		}
		if !isSimpleChar(r) {
			return false
		}
	}
	return true
}

func isSimpleChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// Parse parses a single column name. "" parses as the empty sequence.
func Parse(s string) (ColumnName, error) {
	p := newParser(s)
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return nil, coreerrors.Malformed("unexpected character %q after column name at offset %d", p.cur(), p.pos)
	}
	return name, nil
}

// ParseList parses a comma-separated list of column names. "" yields an
// empty list; "," yields two empty names.
func ParseList(s string) ([]ColumnName, error) {
	if s == "" {
		return nil, nil
	}
	p := newParser(s)
	var names []ColumnName
	for {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		p.skipSpace()
		if p.atEnd() {
			return names, nil
		}
		if p.cur() != ',' {
			return nil, coreerrors.Malformed("unexpected character %q after column name at offset %d", p.cur(), p.pos)
		}
		p.advance()
	}
}

type parser struct {
	input string
	pos   int
}

func newParser(s string) *parser {
	return &parser{input: s}
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.input)
}

func (p *parser) cur() rune {
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r
}

func (p *parser) advance() {
	_, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
}

func (p *parser) skipSpace() {
	for !p.atEnd() && isSpace(p.cur()) {
		p.advance()
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// parseName parses one column name: a leading comma yields an empty
// name without consuming the comma (this gives ParseList's "," case its
// first empty name); fields are separated by '.' and terminate at
// end-of-input or ','.
func (p *parser) parseName() (ColumnName, error) {
	p.skipSpace()
	if !p.atEnd() && p.cur() == ',' {
		return ColumnName{}, nil
	}
	if p.atEnd() {
		return ColumnName{}, nil
	}

	var fields ColumnName
	for {
		p.skipSpace()
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)

		p.skipSpace()
		if p.atEnd() {
			return fields, nil
		}
		switch p.cur() {
		case '.':
			p.advance()
			continue
		case ',':
			return fields, nil
		default:
			return nil, coreerrors.Malformed("unexpected character %q after field at offset %d", p.cur(), p.pos)
		}
	}
}

func (p *parser) parseField() (string, error) {
	if !p.atEnd() && p.cur() == '`' {
		return p.parseEscapedField()
	}
	return p.parseSimpleField()
}

func (p *parser) parseEscapedField() (string, error) {
	p.advance() // consume opening backtick
	var b strings.Builder
	for {
		if p.atEnd() {
			return "", coreerrors.Malformed("unterminated backtick escape starting before offset %d", p.pos)
		}
		r := p.cur()
		if r == '`' {
			p.advance()
			if !p.atEnd() && p.cur() == '`' {
				b.WriteByte('`')
				p.advance()
				continue
			}
			return b.String(), nil
		}
		b.WriteRune(r)
		p.advance()
	}
}

func (p *parser) parseSimpleField() (string, error) {
	start := p.pos
	if !p.atEnd() && p.cur() >= '0' && p.cur() <= '9' {
		return "", coreerrors.Malformed("field must not start with a digit at offset %d", p.pos)
	}
	for !p.atEnd() && isSimpleChar(p.cur()) {
		p.advance()
	}
	return p.input[start:p.pos], nil
}
