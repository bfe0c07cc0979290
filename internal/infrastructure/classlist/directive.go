package classlist

import (
	"math"
	"strconv"
	"strings"

	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// Directive keys, including the trailing colon as they appear in a line.
const (
	keyID         = "id:"
	keySuper      = "super:"
	keyInterfaces = "interfaces:"
	keySource     = "source:"
)

// Tags accepted on '@' lines.
const (
	TagLambdaProxy       = "@lambda-proxy"
	TagLambdaFormInvoker = "@lambda-form-invoker"
	minLambdaProxyArgs   = 2
	minLambdaInvokerArgs = 1
)

type token struct {
	text  string
	start int // byte index into RawLine.Text
}

func tokenize(text string) []token {
	var toks []token
	i := 0
	for i < len(text) {
		for i < len(text) && text[i] == ' ' {
			i++
		}
		if i == len(text) {
			break
		}
		start := i
		for i < len(text) && text[i] != ' ' {
			i++
		}
		toks = append(toks, token{text: text[start:i], start: start})
	}
	return toks
}

// IsAtDirective reports whether the line carries an '@' tag.
func IsAtDirective(line RawLine) bool {
	return strings.HasPrefix(line.Text, "@")
}

// ParseAtDirective parses an '@' line. Arguments are kept verbatim.
func ParseAtDirective(line RawLine) (*entities.AtDirective, error) {
	toks := tokenize(line.Text)
	tag := toks[0].text

	var minArgs int
	switch tag {
	case TagLambdaProxy:
		minArgs = minLambdaProxyArgs
	case TagLambdaFormInvoker:
		minArgs = minLambdaInvokerArgs
	default:
		fe := entities.NewFormatError(entities.ErrInvalidCommand, line.Number, line.Column(0))
		fe.Token = tag
		return nil, fe
	}

	if len(toks)-1 < minArgs {
		fe := entities.NewFormatError(entities.ErrTooFewItems, line.Number, line.Column(0))
		fe.Token = tag
		return nil, fe
	}

	args := make([]string, 0, len(toks)-1)
	for _, t := range toks[1:] {
		args = append(args, t.text)
	}
	return &entities.AtDirective{Tag: tag, Args: args, Line: line.Number}, nil
}

// ParseLine parses a class record. It checks only the shape of the line;
// id references are resolved by the registry.
func ParseLine(line RawLine) (*entities.ParsedLine, error) {
	p := &lineParser{line: line, toks: tokenize(line.Text)}
	if len(p.toks) == 0 {
		return nil, p.errorAt(entities.ErrIllegalClassName, 0)
	}
	return p.parse()
}

type lineParser struct {
	line RawLine
	toks []token
	pos  int
	out  *entities.ParsedLine
}

func (p *lineParser) errorAt(kind entities.ErrorKind, idx int) *entities.FormatError {
	return entities.NewFormatError(kind, p.line.Number, p.line.Column(idx))
}

func (p *lineParser) parse() (*entities.ParsedLine, error) {
	first := p.toks[0]
	name, err := values.NewClassName(first.text)
	if err != nil {
		fe := p.errorAt(entities.ErrIllegalClassName, first.start)
		fe.Token = first.text
		return nil, fe
	}

	p.out = &entities.ParsedLine{Name: name, Line: p.line.Number}
	p.out.Pos.Name = p.line.Column(first.start)
	p.out.Pos.End = p.line.Column(len(p.line.Text))
	p.pos = 1

	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		key, inline := splitKey(tok.text)

		var err error
		switch key {
		case keyID:
			err = p.parseID(tok, inline, &p.out.ID, &p.out.Pos.ID)
		case keySuper:
			err = p.parseID(tok, inline, &p.out.Super, &p.out.Pos.Super)
		case keyInterfaces:
			err = p.parseInterfaces(tok, inline)
		case keySource:
			err = p.parseSource(tok, inline)
		default:
			fe := p.errorAt(entities.ErrUnknownInput, tok.start)
			fe.Token = p.line.Text[tok.start:]
			err = fe
		}
		if err != nil {
			return nil, err
		}
	}
	return p.out, nil
}

// splitKey splits "id:7" into ("id:", "7"). Tokens that are not a known
// key are returned unchanged with an empty key.
func splitKey(text string) (string, string) {
	for _, k := range []string{keyID, keySuper, keyInterfaces, keySource} {
		if strings.HasPrefix(text, k) {
			return k, text[len(k):]
		}
	}
	return "", text
}

// value returns the argument of a key: the glued remainder when present,
// otherwise the next token. ok is false when the line ends first.
func (p *lineParser) value(tok token, inline string) (token, bool) {
	p.pos++
	if inline != "" {
		return token{text: inline, start: tok.start + len(tok.text) - len(inline)}, true
	}
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	v := p.toks[p.pos]
	p.pos++
	return v, true
}

func (p *lineParser) specifiedTwice(tok token, key string) error {
	fe := p.errorAt(entities.ErrOptionSpecifiedTwice, tok.start)
	fe.Token = key
	return fe
}

func (p *lineParser) parseID(tok token, inline string, dst *values.ClassID, col *int) error {
	key, _ := splitKey(tok.text)
	if dst.IsSpecified() {
		return p.specifiedTwice(tok, key)
	}

	v, ok := p.value(tok, inline)
	if !ok {
		return p.errorAt(entities.ErrExpectedInteger, len(p.line.Text))
	}
	id, err := p.parseUint(v)
	if err != nil {
		return err
	}
	*dst = id
	*col = p.line.Column(v.start)
	return nil
}

func (p *lineParser) parseInterfaces(tok token, inline string) error {
	if p.out.InterfacesSpecified {
		return p.specifiedTwice(tok, keyInterfaces)
	}
	p.out.InterfacesSpecified = true
	p.pos++

	var vals []token
	if inline != "" {
		vals = append(vals, token{text: inline, start: tok.start + len(keyInterfaces)})
	}
	for p.pos < len(p.toks) && looksNumeric(p.toks[p.pos].text) {
		vals = append(vals, p.toks[p.pos])
		p.pos++
	}

	for _, v := range vals {
		id, err := p.parseUint(v)
		if err != nil {
			return err
		}
		p.out.Interfaces = append(p.out.Interfaces, id)
		p.out.Pos.Interfaces = append(p.out.Pos.Interfaces, p.line.Column(v.start))
	}
	return nil
}

func (p *lineParser) parseSource(tok token, inline string) error {
	if p.out.HasSource {
		return p.specifiedTwice(tok, keySource)
	}
	v, ok := p.value(tok, inline)
	if !ok {
		fe := p.errorAt(entities.ErrUnknownInput, tok.start)
		fe.Token = tok.text
		return fe
	}
	p.out.Source = strings.TrimSpace(v.text)
	p.out.HasSource = true
	p.out.Pos.Source = p.line.Column(v.start)
	return nil
}

// looksNumeric reports whether a token is meant as an integer: an optional
// sign followed by a digit. Such tokens are then validated strictly.
func looksNumeric(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// parseUint accepts decimal integers in [0, MaxClassID].
func (p *lineParser) parseUint(v token) (values.ClassID, error) {
	text := v.text
	digits := text
	negative := false
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		negative = digits[0] == '-'
		digits = digits[1:]
	}

	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		fe := p.errorAt(entities.ErrExpectedInteger, v.start)
		fe.Token = text
		return values.ClassID{}, fe
	}

	n, err := strconv.ParseUint(digits, 10, 64)
	if negative && (err != nil || n > 0) {
		fe := p.errorAt(entities.ErrNegativeInteger, v.start)
		fe.Token = text
		fe.Value = math.MinInt64
		if err == nil && n <= math.MaxInt64 {
			fe.Value = -int64(n)
		}
		return values.ClassID{}, fe
	}
	if err != nil || n > values.MaxClassID {
		fe := p.errorAt(entities.ErrExpectedInteger, v.start)
		fe.Token = text
		fe.Detail = "value out of range"
		return values.ClassID{}, fe
	}
	return values.MustNewClassID(int64(n)), nil
}
