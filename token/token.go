// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

// A Token is an interface for all possible token types.
type Token interface {
	TokenType() TokenType
	Pos() *Position
}

type TokenType string

const (
	TokenText               TokenType = "Text"
	TokenEntityRef          TokenType = "EntityRef"
	TokenCharRef            TokenType = "CharRef"
	TokenStartTag           TokenType = "StartTag"
	TokenCloseTag           TokenType = "CloseTag"
	TokenMissingCloseTag    TokenType = "MissingCloseTag"
	TokenMismatchedCloseTag TokenType = "MismatchedCloseTag"
	TokenComment            TokenType = "Comment"
	TokenCdata              TokenType = "Cdata"
	TokenInstruction        TokenType = "Instruction"
	TokenDoctype            TokenType = "Doctype"
	TokenInvalid            TokenType = "Invalid"
)

// Text is a run of raw character data, entity references excluded.
type Text struct {
	Position
	Value string
}

func (t *Text) TokenType() TokenType {
	return TokenText
}

// EntityRef is a named reference like "&amp;". Value holds the raw reference.
type EntityRef struct {
	Position
	Value string
}

func (t *EntityRef) TokenType() TokenType {
	return TokenEntityRef
}

// CharRef is a numeric reference like "&#36;" or "&#x24;". Value holds the raw reference.
type CharRef struct {
	Position
	Value string
}

func (t *CharRef) TokenType() TokenType {
	return TokenCharRef
}

// AttributeKind classifies how an attribute inside a start tag was written.
type AttributeKind int

const (
	// AttributeValid is name="value", name='value' or name=value.
	AttributeValid AttributeKind = iota
	// AttributeValueless is a bare name, its value is "true".
	AttributeValueless
	// AttributeMissingValue is a name followed by '=' and nothing else.
	AttributeMissingValue
	// AttributeMissingCloseQuote is a value that opens with a quote that is never closed.
	AttributeMissingCloseQuote
	// AttributeMissingOpenQuote is a value that ends with a quote that was never opened.
	AttributeMissingOpenQuote
	// AttributeInvalid is text inside a start tag that is not an attribute at all.
	AttributeInvalid
)

// Attribute is a single attribute of a StartTag.
type Attribute struct {
	Position
	Kind AttributeKind
	// Name is empty for AttributeInvalid.
	Name    string
	NamePos Position
	// Value is the raw value with quotes stripped.
	Value    string
	ValuePos Position
	// Quote is the quote character of a quoted value or the missing one of a malformed value.
	Quote rune
	// Raw is the complete source text of the attribute.
	Raw string
}

// IsError returns true if the attribute is malformed.
func (a *Attribute) IsError() bool {
	return a.Kind != AttributeValid && a.Kind != AttributeValueless
}

// StartTag is "<name attr...>" or the self closing "<name attr.../>".
type StartTag struct {
	Position
	Name       string
	NamePos    Position
	Attributes []*Attribute
	// SelfClosing is set for "/>".
	SelfClosing bool
	// Unterminated is set when the tag ends without '>' or "/>".
	Unterminated bool
}

func (t *StartTag) TokenType() TokenType {
	return TokenStartTag
}

// HasError returns true if the tag contains a malformed region.
func (t *StartTag) HasError() bool {
	if t.Unterminated {
		return true
	}

	for _, a := range t.Attributes {
		if a.IsError() {
			return true
		}
	}

	return false
}

// CloseTag is "</name>" matching the innermost open tag.
type CloseTag struct {
	Position
	Name string
}

func (t *CloseTag) TokenType() TokenType {
	return TokenCloseTag
}

// MissingCloseTag signals that the innermost open tag Name is closed implicitly,
// because the close tag at Position matches an outer tag. The lexer does not
// consume any input for this token.
type MissingCloseTag struct {
	Position
	Name string
}

func (t *MissingCloseTag) TokenType() TokenType {
	return TokenMissingCloseTag
}

// MismatchedCloseTag is a close tag that matches no open tag.
// Expected holds the innermost open tag or is empty if no tag is open.
type MismatchedCloseTag struct {
	Position
	Name     string
	Expected string
}

func (t *MismatchedCloseTag) TokenType() TokenType {
	return TokenMismatchedCloseTag
}

// Comment is "<!-- Value -->".
type Comment struct {
	Position
	Value string
}

func (t *Comment) TokenType() TokenType {
	return TokenComment
}

// Cdata is "<![CDATA[ Value ]]>".
type Cdata struct {
	Position
	Value string
}

func (t *Cdata) TokenType() TokenType {
	return TokenCdata
}

// Instruction is "<?Name Value?>".
type Instruction struct {
	Position
	Name     string
	Value    string
	ValuePos Position
}

func (t *Instruction) TokenType() TokenType {
	return TokenInstruction
}

// Doctype is "<!Value>", e.g. Value is "DOCTYPE html".
type Doctype struct {
	Position
	Value string
}

func (t *Doctype) TokenType() TokenType {
	return TokenDoctype
}

// Invalid is a region the lexer could not make sense of.
type Invalid struct {
	Position
	Value   string
	Message string
}

func (t *Invalid) TokenType() TokenType {
	return TokenInvalid
}
