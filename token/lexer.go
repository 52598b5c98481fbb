// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer can be used to get individual tokens.
// It keeps a Stack of open tags to decide how a close tag is emitted.
type Lexer struct {
	src   string
	index *LineIndex
	// pos is the byte offset of the next unread byte.
	pos   int
	stack Stack
}

// NewLexer creates a new instance, ready to start lexing.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:   src,
		index: NewLineIndex(src),
	}
}

// Index returns the line index of the lexed source.
func (l *Lexer) Index() *LineIndex {
	return l.index
}

// Stack returns the tags that are currently open.
func (l *Lexer) Stack() Stack {
	return l.stack
}

// Token returns the next token in the input.
// At the end of the input, Token returns nil, io.EOF. No other error is ever returned,
// malformed input is reported as *Invalid tokens or as malformed attributes.
func (l *Lexer) Token() (Token, error) {
	if l.pos >= len(l.src) {
		return nil, io.EOF
	}

	switch l.src[l.pos] {
	case '<':
		if tok := l.markup(); tok != nil {
			return tok, nil
		}
	case '&':
		if n := l.refLen(l.pos); n > 0 {
			return l.ref(n), nil
		}
	}

	return l.text(), nil
}

// markup lexes anything that starts with '<'. It returns nil if the '<' is plain text.
func (l *Lexer) markup() Token {
	rest := l.src[l.pos:]

	switch {
	case strings.HasPrefix(rest, "<!--"):
		return l.comment()
	case strings.HasPrefix(rest, "<![CDATA["):
		return l.cdata()
	case strings.HasPrefix(rest, "<!"):
		return l.doctype()
	case strings.HasPrefix(rest, "<?"):
		return l.instruction()
	case strings.HasPrefix(rest, "</"):
		if l.nameStartAt(l.pos + 2) {
			return l.closeTag()
		}

		return l.invalid(2, "Invalid DoenetML: a closing tag needs a name, like `</p>`")
	}

	if l.nameStartAt(l.pos + 1) {
		return l.startTag()
	}

	if l.textLessThan(l.pos) {
		return nil
	}

	return l.invalid(1, "Invalid DoenetML: unexpected `<`, use `&lt;` to write a less-than sign")
}

// textLessThan returns true if the '<' at i is harmless text: followed by whitespace, '=' or the end.
func (l *Lexer) textLessThan(i int) bool {
	if i+1 >= len(l.src) {
		return true
	}

	c := l.src[i+1]

	return c == '=' || isSpace(c)
}

// startsMarkup returns true if the '<' at i would not be lexed as text.
func (l *Lexer) startsMarkup(i int) bool {
	return !l.textLessThan(i)
}

// text reads character data up to the next markup or reference.
func (l *Lexer) text() *Text {
	start := l.pos
	i := l.pos

	for i < len(l.src) {
		c := l.src[i]
		if c == '<' && i > start && l.startsMarkup(i) {
			break
		}

		if c == '&' && i > start && l.refLen(i) > 0 {
			break
		}

		i++
	}

	l.pos = i

	return &Text{
		Position: l.index.Position(start, i),
		Value:    l.src[start:i],
	}
}

// refLen returns the length of the entity or character reference at i or 0.
func (l *Lexer) refLen(i int) int {
	return RefLen(l.src, i)
}

// RefLen returns the length of the entity or character reference starting at s[i],
// like "&amp;", "&#36;" or "&#x24;", or 0 if there is none.
func RefLen(s string, i int) int {
	if i+1 >= len(s) || s[i] != '&' {
		return 0
	}

	j := i + 1

	if s[j] == '#' {
		j++
		hex := false

		if j < len(s) && (s[j] == 'x' || s[j] == 'X') {
			hex = true
			j++
		}

		digits := j
		for j < len(s) && (isDigit(s[j]) || (hex && isHexLetter(s[j]))) {
			j++
		}

		if j == digits || j >= len(s) || s[j] != ';' {
			return 0
		}

		return j + 1 - i
	}

	if !isASCIILetter(s[j]) {
		return 0
	}

	for j < len(s) && (isASCIILetter(s[j]) || isDigit(s[j])) {
		j++
	}

	if j >= len(s) || s[j] != ';' {
		return 0
	}

	return j + 1 - i
}

// ref emits the reference of length n at the current position.
func (l *Lexer) ref(n int) Token {
	start := l.pos
	l.pos += n
	pos := l.index.Position(start, l.pos)
	raw := l.src[start:l.pos]

	if raw[1] == '#' {
		return &CharRef{Position: pos, Value: raw}
	}

	return &EntityRef{Position: pos, Value: raw}
}

// comment reads "<!-- ... -->".
func (l *Lexer) comment() Token {
	start := l.pos
	end := strings.Index(l.src[start+4:], "-->")

	if end < 0 {
		return l.invalid(len(l.src)-start, "Invalid DoenetML: the comment is never closed with `-->`")
	}

	l.pos = start + 4 + end + 3

	return &Comment{
		Position: l.index.Position(start, l.pos),
		Value:    l.src[start+4 : start+4+end],
	}
}

// cdata reads "<![CDATA[ ... ]]>".
func (l *Lexer) cdata() Token {
	start := l.pos
	body := start + len("<![CDATA[")
	end := strings.Index(l.src[body:], "]]>")

	if end < 0 {
		return l.invalid(len(l.src)-start, "Invalid DoenetML: the CDATA section is never closed with `]]>`")
	}

	l.pos = body + end + 3

	return &Cdata{
		Position: l.index.Position(start, l.pos),
		Value:    l.src[body : body+end],
	}
}

// doctype reads "<!...>".
func (l *Lexer) doctype() Token {
	start := l.pos
	end := strings.IndexByte(l.src[start+2:], '>')

	if end < 0 {
		return l.invalid(len(l.src)-start, "Invalid DoenetML: the declaration is never closed with `>`")
	}

	l.pos = start + 2 + end + 1

	return &Doctype{
		Position: l.index.Position(start, l.pos),
		Value:    l.src[start+2 : start+2+end],
	}
}

// instruction reads "<?name value?>".
func (l *Lexer) instruction() Token {
	start := l.pos
	end := strings.Index(l.src[start+2:], "?>")

	if end < 0 {
		return l.invalid(len(l.src)-start, "Invalid DoenetML: the processing instruction is never closed with `?>`")
	}

	bodyEnd := start + 2 + end
	i := start + 2
	nameEnd := l.nameEnd(i)
	name := l.src[i:nameEnd]

	valueStart := nameEnd
	for valueStart < bodyEnd && isSpace(l.src[valueStart]) {
		valueStart++
	}

	l.pos = bodyEnd + 2

	return &Instruction{
		Position: l.index.Position(start, l.pos),
		Name:     name,
		Value:    l.src[valueStart:bodyEnd],
		ValuePos: l.index.Position(valueStart, bodyEnd),
	}
}

// closeTag reads "</name>" and decides with the tag stack what it means.
func (l *Lexer) closeTag() Token {
	start := l.pos
	nameEnd := l.nameEnd(start + 2)
	name := l.src[start+2 : nameEnd]

	i := nameEnd
	for i < len(l.src) && isSpace(l.src[i]) {
		i++
	}

	if i < len(l.src) && l.src[i] == '>' {
		i++
	}

	pos := l.index.Position(start, i)

	switch l.stack.Find(name) {
	case 0:
		l.stack = l.stack.Pop()
		l.pos = i

		return &CloseTag{Position: pos, Name: name}
	case -1:
		l.pos = i
		expected, _ := l.stack.Top()

		return &MismatchedCloseTag{Position: pos, Name: name, Expected: expected}
	default:
		// an outer tag is closed, close the inner one first and look at this tag again
		top, _ := l.stack.Top()
		l.stack = l.stack.Pop()

		return &MissingCloseTag{Position: pos, Name: top}
	}
}

// startTag reads "<name attributes>" or "<name attributes/>".
func (l *Lexer) startTag() Token {
	start := l.pos
	nameEnd := l.nameEnd(start + 1)
	tag := &StartTag{
		Name:    l.src[start+1 : nameEnd],
		NamePos: l.index.Position(start+1, nameEnd),
	}

	l.pos = nameEnd

	for {
		l.skipSpace()

		if l.pos >= len(l.src) {
			tag.Unterminated = true
			break
		}

		c := l.src[l.pos]

		if c == '>' {
			l.pos++
			break
		}

		if c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
			tag.SelfClosing = true
			l.pos += 2

			break
		}

		if c == '<' {
			tag.Unterminated = true
			break
		}

		if l.nameStartAt(l.pos) {
			tag.Attributes = append(tag.Attributes, l.attribute())
			continue
		}

		tag.Attributes = append(tag.Attributes, l.garbage())
	}

	tag.Position = l.index.Position(start, l.pos)

	if !tag.SelfClosing && !tag.Unterminated {
		l.stack = l.stack.Push(tag.Name)
	}

	return tag
}

// attribute reads name, name=value or a malformed variant of it.
func (l *Lexer) attribute() *Attribute {
	start := l.pos
	nameEnd := l.nameEnd(start)
	attr := &Attribute{
		Name:    l.src[start:nameEnd],
		NamePos: l.index.Position(start, nameEnd),
	}

	l.pos = nameEnd
	l.skipSpace()

	if l.pos >= len(l.src) || l.src[l.pos] != '=' {
		l.pos = nameEnd
		attr.Kind = AttributeValueless
		attr.Value = "true"

		return l.finishAttribute(attr, start)
	}

	l.pos++ // '='
	l.skipSpace()

	if l.pos >= len(l.src) || l.src[l.pos] == '>' || l.src[l.pos] == '<' || strings.HasPrefix(l.src[l.pos:], "/>") {
		attr.Kind = AttributeMissingValue
		return l.finishAttribute(attr, start)
	}

	valueStart := l.pos
	c := l.src[l.pos]

	if c == '"' || c == '\'' {
		attr.Quote = rune(c)

		if end := l.quoteEnd(valueStart+1, c); end >= 0 {
			attr.Value = l.src[valueStart+1 : end]
			attr.ValuePos = l.index.Position(valueStart+1, end)
			l.pos = end + 1

			return l.finishAttribute(attr, start)
		}

		end := l.valueRunEnd(valueStart)
		attr.Kind = AttributeMissingCloseQuote
		attr.Value = l.src[valueStart+1 : end]
		attr.ValuePos = l.index.Position(valueStart+1, end)
		l.pos = end

		return l.finishAttribute(attr, start)
	}

	end := l.valueRunEnd(valueStart)
	value := l.src[valueStart:end]
	l.pos = end

	if last := value[len(value)-1]; last == '"' || last == '\'' {
		attr.Kind = AttributeMissingOpenQuote
		attr.Quote = rune(last)
		attr.Value = value[:len(value)-1]
		attr.ValuePos = l.index.Position(valueStart, end-1)

		return l.finishAttribute(attr, start)
	}

	attr.Value = value
	attr.ValuePos = l.index.Position(valueStart, end)

	return l.finishAttribute(attr, start)
}

func (l *Lexer) finishAttribute(attr *Attribute, start int) *Attribute {
	attr.Position = l.index.Position(start, l.pos)
	attr.Raw = l.src[start:l.pos]

	return attr
}

// garbage reads text inside a start tag that cannot be an attribute.
func (l *Lexer) garbage() *Attribute {
	start := l.pos
	end := l.valueRunEnd(start)

	if end == start {
		// a lone '/' or similar, always make progress
		_, size := utf8.DecodeRuneInString(l.src[start:])
		end = start + size
	}

	l.pos = end

	return l.finishAttribute(&Attribute{Kind: AttributeInvalid}, start)
}

// quoteEnd returns the index of the closing quote q, searching from i.
// A '<' ends the search, as it can never be part of a value.
func (l *Lexer) quoteEnd(i int, q byte) int {
	for ; i < len(l.src); i++ {
		switch l.src[i] {
		case q:
			return i
		case '<':
			return -1
		}
	}

	return -1
}

// valueRunEnd returns the end of an unquoted value starting at i.
func (l *Lexer) valueRunEnd(i int) int {
	for i < len(l.src) {
		c := l.src[i]
		if isSpace(c) || c == '>' || c == '<' || strings.HasPrefix(l.src[i:], "/>") {
			break
		}
		i++
	}

	return i
}

// invalid emits an Invalid token of length n with the given message.
func (l *Lexer) invalid(n int, msg string) *Invalid {
	start := l.pos
	l.pos += n

	return &Invalid{
		Position: l.index.Position(start, l.pos),
		Value:    l.src[start:l.pos],
		Message:  msg,
	}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

// nameStartAt returns true if a tag or attribute name starts at i.
func (l *Lexer) nameStartAt(i int) bool {
	if i >= len(l.src) {
		return false
	}

	r, _ := utf8.DecodeRuneInString(l.src[i:])

	return r == '_' || unicode.IsLetter(r)
}

// nameEnd returns the end of the name starting at i.
func (l *Lexer) nameEnd(i int) int {
	for i < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[i:])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-.:", r)) {
			break
		}
		i += size
	}

	return i
}

// String returns a short description of the lexer state, for debugging.
func (l *Lexer) String() string {
	return fmt.Sprintf("lexer at %s, open tags %v", l.index.Pos(l.pos), l.stack.Names())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
