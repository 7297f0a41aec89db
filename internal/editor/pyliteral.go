package editor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// pyParser reads the subset of Python literal syntax that repr() produces
// for dicts of strings, numbers, lists, tuples, booleans and None.
type pyParser struct {
	src []byte
	pos int
}

// parsePyLiteral decodes a single Python literal. Strings come back as Go
// strings, integers as int64, floats as float64, None as nil, and
// lists and tuples as []any. Dict keys must be strings.
func parsePyLiteral(src []byte) (any, error) {
	p := &pyParser{src: src}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q after value", p.src[p.pos])
	}
	return v, nil
}

func (p *pyParser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *pyParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *pyParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *pyParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}

	c := p.src[p.pos]
	switch {
	case c == '{':
		return p.dict()
	case c == '[':
		return p.sequence(']')
	case c == '(':
		return p.sequence(')')
	case c == '\'' || c == '"':
		return p.str(false, false)
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	}

	word := p.word()
	switch word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}

	// String prefixes: u, b, r and the rb/br pairs.
	if q := p.peek(); len(word) <= 2 && (q == '\'' || q == '"') {
		lower := strings.ToLower(word)
		switch lower {
		case "u", "b", "r", "rb", "br", "ur":
			return p.str(strings.Contains(lower, "r"), strings.Contains(lower, "b"))
		}
	}
	return nil, p.errorf("unexpected %q", word)
}

func (p *pyParser) word() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		p.pos++
	}
	if p.pos == start && p.pos < len(p.src) {
		return string(p.src[p.pos])
	}
	return string(p.src[start:p.pos])
}

func (p *pyParser) dict() (any, error) {
	p.pos++ // {
	out := map[string]any{}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}

		k, err := p.value()
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			return nil, p.errorf("dict key %v is not a string", k)
		}

		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[key] = v

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected ',' or '}' in dict")
		}
	}
}

func (p *pyParser) sequence(end byte) (any, error) {
	p.pos++ // [ or (
	out := []any{}
	for {
		p.skipSpace()
		if p.peek() == end {
			p.pos++
			return out, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case end:
		default:
			return nil, p.errorf("expected ',' or %q in sequence", end)
		}
	}
}

func (p *pyParser) number() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte("+-0123456789.eEjJ_", p.src[p.pos]) >= 0 {
		p.pos++
	}
	text := strings.ReplaceAll(string(p.src[start:p.pos]), "_", "")
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("bad number %q", text)
	}
	return f, nil
}

// str reads a quoted string starting at the opening quote. Bytes literals
// keep \xNN as a raw byte; str literals treat it as a code point.
func (p *pyParser) str(raw, bytesLit bool) (any, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return nil, p.errorf("newline in string")
		case c != '\\':
			b.WriteByte(c)
			p.pos++
			continue
		}

		// Backslash.
		if p.pos+1 >= len(p.src) {
			return nil, p.errorf("unterminated string")
		}
		esc := p.src[p.pos+1]
		if raw {
			// Raw strings keep the backslash; it still protects a quote.
			b.WriteByte('\\')
			b.WriteByte(esc)
			p.pos += 2
			continue
		}
		p.pos += 2

		switch esc {
		case '\\', '\'', '"':
			b.WriteByte(esc)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\n':
			// Line continuation.
		case 'x':
			n, err := p.hex(2)
			if err != nil {
				return nil, err
			}
			if bytesLit {
				b.WriteByte(byte(n))
			} else {
				b.WriteRune(rune(n))
			}
		case 'u', 'U':
			if bytesLit {
				b.WriteByte('\\')
				b.WriteByte(esc)
				continue
			}
			width := 4
			if esc == 'U' {
				width = 8
			}
			n, err := p.hex(width)
			if err != nil {
				return nil, err
			}
			if !utf8.ValidRune(rune(n)) {
				return nil, p.errorf("invalid code point %#x", n)
			}
			b.WriteRune(rune(n))
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n := int(esc - '0')
			for i := 0; i < 2 && p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '7'; i++ {
				n = n*8 + int(p.src[p.pos]-'0')
				p.pos++
			}
			if bytesLit {
				b.WriteByte(byte(n))
			} else {
				b.WriteRune(rune(n))
			}
		default:
			// Unknown escapes are kept as written.
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
}

func (p *pyParser) hex(width int) (int, error) {
	if p.pos+width > len(p.src) {
		return 0, p.errorf("truncated escape")
	}
	n, err := strconv.ParseUint(string(p.src[p.pos:p.pos+width]), 16, 32)
	if err != nil {
		return 0, p.errorf("bad escape %q", p.src[p.pos:p.pos+width])
	}
	p.pos += width
	return int(n), nil
}
