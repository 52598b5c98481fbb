// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package macro implements the grammar of $-references embedded in DoenetML text.
//
//	macro     := "$" path [attrs] | "$(" path ")" [attrs]
//	function  := "$$" path [attrs] | "$$(" path ")" [attrs]
//	path      := part ("." part)*
//	part      := ident index*
//	index     := "[" (integer | macro) "]"
//	attrs     := "{" (ident ["=" quoted])+ "}"
//
// Anything that does not complete one of these productions is kept as text.
// Function arguments are attached afterwards by Gobble.
package macro

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/token"
)

// Positioner maps a byte range of the parsed text to a source position.
type Positioner func(begin, end int) token.Position

// Shift returns a Positioner for a substring starting at offset.
func (p Positioner) Shift(offset int) Positioner {
	if p == nil {
		return nil
	}

	return func(begin, end int) token.Position {
		return p(begin+offset, end+offset)
	}
}

// HasMacro returns true if s may contain a macro.
func HasMacro(s string) bool {
	return strings.IndexByte(s, '$') >= 0
}

// Parse splits s into text, macro and function nodes. Functions are returned
// unresolved, see Gobble. at may be nil, then all positions are zero.
func Parse(s string, at Positioner) []dast.Node {
	if !HasMacro(s) {
		return []dast.Node{&dast.Text{Value: s, Position: position(at, 0, len(s))}}
	}

	toks := lex(s)
	if toks == nil {
		return []dast.Node{&dast.Text{Value: s, Position: position(at, 0, len(s))}}
	}

	p := &parser{src: s, toks: toks, at: at}

	return p.parse()
}

type parser struct {
	src  string
	toks []tok
	at   Positioner
}

func position(at Positioner, begin, end int) token.Position {
	if at == nil {
		return token.Position{}
	}

	return at(begin, end)
}

func (p *parser) pos(begin, end int) token.Position {
	return position(p.at, begin, end)
}

// get returns the token at i or a zero token beyond the end.
func (p *parser) get(i int) tok {
	if i < 0 || i >= len(p.toks) {
		return tok{typ: lexer.EOF, begin: len(p.src), end: len(p.src)}
	}

	return p.toks[i]
}

func (p *parser) parse() []dast.Node {
	var res []dast.Node

	textStart := 0

	for i := 0; i < len(p.toks); {
		if p.toks[i].typ != tokDollar {
			i++
			continue
		}

		n, next, ok := p.reference(i)
		if !ok {
			i++
			continue
		}

		begin := p.toks[i].begin
		if begin > textStart {
			res = append(res, p.text(textStart, begin))
		}

		res = append(res, n)
		textStart = p.get(next).begin
		i = next
	}

	if textStart < len(p.src) {
		res = append(res, p.text(textStart, len(p.src)))
	}

	return res
}

func (p *parser) text(begin, end int) *dast.Text {
	return &dast.Text{Value: p.src[begin:end], Position: p.pos(begin, end)}
}

// reference parses a function or macro at the '$' token i.
func (p *parser) reference(i int) (dast.Node, int, bool) {
	if p.get(i+1).typ == tokDollar {
		if f, next, ok := p.function(i); ok {
			return f, next, true
		}
	}

	m, next, ok := p.macro(i)
	if !ok {
		return nil, i, false
	}

	return m, next, true
}

func (p *parser) function(i int) (*dast.Function, int, bool) {
	path, attrs, next, ok := p.body(i + 2)
	if !ok {
		return nil, i, false
	}

	return &dast.Function{
		Path:       path,
		Attributes: attrs,
		Position:   p.pos(p.toks[i].begin, p.get(next-1).end),
	}, next, true
}

func (p *parser) macro(i int) (*dast.Macro, int, bool) {
	path, attrs, next, ok := p.body(i + 1)
	if !ok {
		return nil, i, false
	}

	return &dast.Macro{
		Path:       path,
		Attributes: attrs,
		Position:   p.pos(p.toks[i].begin, p.get(next-1).end),
	}, next, true
}

// body parses the path and the optional attribute block following the dollar signs.
func (p *parser) body(i int) ([]dast.PathPart, dast.Attributes, int, bool) {
	var (
		path []dast.PathPart
		next int
		ok   bool
	)

	if p.get(i).punct("(") {
		path, next, ok = p.path(i+1, true)
		if !ok || !p.get(next).punct(")") {
			return nil, nil, i, false
		}

		next++
	} else {
		path, next, ok = p.path(i, false)
		if !ok {
			return nil, nil, i, false
		}
	}

	if p.get(next).punct("{") {
		if attrs, end, ok := p.attributes(next); ok {
			return path, attrs, end, true
		}
	}

	return path, nil, next, true
}

// path parses part ("." part)*. A trailing dot is not consumed.
func (p *parser) path(i int, wrapped bool) ([]dast.PathPart, int, bool) {
	part, next, ok := p.part(i, wrapped)
	if !ok {
		return nil, i, false
	}

	path := []dast.PathPart{part}

	for p.get(next).punct(".") {
		part, end, ok := p.part(next+1, wrapped)
		if !ok {
			break
		}

		path = append(path, part)
		next = end
	}

	return path, next, true
}

// part parses a name followed by any number of indices.
func (p *parser) part(i int, wrapped bool) (dast.PathPart, int, bool) {
	if p.get(i).typ != tokIdent {
		return dast.PathPart{}, i, false
	}

	next := i + 1

	if wrapped {
		next = p.longName(i)
	}

	part := dast.PathPart{Name: p.src[p.toks[i].begin:p.get(next-1).end]}

	for p.get(next).punct("[") {
		idx, end, ok := p.index(next)
		if !ok {
			break
		}

		part.Index = append(part.Index, idx)
		next = end
	}

	part.Position = p.pos(p.toks[i].begin, p.get(next-1).end)

	return part, next, true
}

// longName returns the end of a name inside $(...), which may contain '-' and '/'
// but must not end with them.
func (p *parser) longName(i int) int {
	next := i + 1

	for {
		t := p.get(next)
		if t.typ == tokIdent || t.typ == tokInt || t.punct("-") || t.punct("/") {
			next++
			continue
		}

		break
	}

	for next > i+1 && (p.get(next-1).punct("-") || p.get(next-1).punct("/")) {
		next--
	}

	return next
}

// index parses "[" (integer | macro) "]".
func (p *parser) index(i int) (dast.Index, int, bool) {
	t := p.get(i + 1)

	var (
		value []dast.Node
		next  int
	)

	switch t.typ {
	case tokInt:
		value = []dast.Node{p.text(t.begin, t.end)}
		next = i + 2
	case tokDollar:
		m, end, ok := p.macro(i + 1)
		if !ok {
			return dast.Index{}, i, false
		}

		value = []dast.Node{m}
		next = end
	default:
		return dast.Index{}, i, false
	}

	if !p.get(next).punct("]") {
		return dast.Index{}, i, false
	}

	return dast.Index{
		Value:    value,
		Position: p.pos(p.toks[i].begin, p.get(next).end),
	}, next + 1, true
}

// attributes parses "{" (name ["=" quoted])+ "}". Names must be unique.
func (p *parser) attributes(i int) (dast.Attributes, int, bool) {
	var attrs dast.Attributes

	next := p.skipSpace(i + 1)

	for !p.get(next).punct("}") {
		name := p.get(next)
		if name.typ != tokIdent || attrs.Has(name.value) {
			return nil, i, false
		}

		attr := &dast.Attribute{Name: name.value}
		next = p.skipSpace(next + 1)

		if !p.get(next).punct("=") {
			attr.Children = []dast.Node{&dast.Text{Value: "true", Position: p.pos(name.begin, name.end)}}
			attr.Position = p.pos(name.begin, name.end)
			attrs = append(attrs, attr)

			continue
		}

		next = p.skipSpace(next + 1)

		open := p.get(next)
		if !open.punct(`"`) && !open.punct("'") {
			return nil, i, false
		}

		end := next + 1
		for end < len(p.toks) && !p.toks[end].is(tokPunct, open.value) {
			end++
		}

		if end >= len(p.toks) {
			return nil, i, false
		}

		valueBegin, valueEnd := open.end, p.toks[end].begin
		attr.Children = p.value(valueBegin, valueEnd)
		attr.Position = p.pos(name.begin, p.toks[end].end)
		attrs = append(attrs, attr)
		next = p.skipSpace(end + 1)
	}

	if len(attrs) == 0 {
		return nil, i, false
	}

	return attrs, next + 1, true
}

// value parses an attribute value, which may contain macros itself.
func (p *parser) value(begin, end int) []dast.Node {
	s := p.src[begin:end]
	if s == "" {
		return []dast.Node{&dast.Text{Value: "", Position: p.pos(begin, end)}}
	}

	return Gobble(Parse(s, p.at.Shift(begin)))
}

func (p *parser) skipSpace(i int) int {
	for p.get(i).typ == tokSpace {
		i++
	}

	return i
}
