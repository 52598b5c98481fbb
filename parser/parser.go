// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package parser builds a concrete syntax tree from the token stream of a DoenetML source.
// Parsing never fails: malformed regions stay in the tree as their own nodes.
package parser

import (
	"errors"
	"io"

	"github.com/Doenet/DoenetML-sub018/token"
)

// Parser is used to get a tree representation from DoenetML input.
type Parser struct {
	lexer *token.Lexer
	// tokenBuffer contains peeked tokens that need to be processed next.
	// When it is empty, we can call lexer.Token() to get the next token.
	tokenBuffer []token.Token
}

// NewParser creates a parser for src.
func NewParser(src string) *Parser {
	return &Parser{
		lexer: token.NewLexer(src),
	}
}

// Index returns the line index of the parsed source.
func (p *Parser) Index() *token.LineIndex {
	return p.lexer.Index()
}

// next returns the next token or (nil, io.EOF) if there are no more tokens.
func (p *Parser) next() (token.Token, error) {
	if len(p.tokenBuffer) > 0 {
		tok := p.tokenBuffer[0]
		p.tokenBuffer = p.tokenBuffer[1:]

		return tok, nil
	}

	return p.lexer.Token()
}

// peek lets you look at the next token without advancing the lexer.
func (p *Parser) peek() (token.Token, error) {
	if len(p.tokenBuffer) > 0 {
		return p.tokenBuffer[0], nil
	}

	tok, err := p.lexer.Token()
	if err != nil {
		return nil, err
	}

	p.tokenBuffer = append(p.tokenBuffer, tok)

	return tok, nil
}

// Parse returns the parsed tree. The root is always a KindDocument node.
func (p *Parser) Parse() *TreeNode {
	src := p.lexer.Index().Source()
	root := &TreeNode{
		Kind:  KindDocument,
		Range: p.lexer.Index().Position(0, len(src)),
	}

	for {
		tok, err := p.next()
		if errors.Is(err, io.EOF) {
			break
		}

		root.AddChildren(p.node(tok))
	}

	return root
}

// node builds the subtree starting with tok.
func (p *Parser) node(tok token.Token) *TreeNode {
	switch t := tok.(type) {
	case *token.StartTag:
		return p.element(t)
	case *token.Text:
		return leaf(KindText, t)
	case *token.EntityRef:
		return leaf(KindEntityRef, t)
	case *token.CharRef:
		return leaf(KindCharRef, t)
	case *token.Comment:
		return leaf(KindComment, t)
	case *token.Cdata:
		return leaf(KindCdata, t)
	case *token.Doctype:
		return leaf(KindDoctype, t)
	case *token.Instruction:
		return leaf(KindInstruction, t)
	case *token.MismatchedCloseTag:
		return leaf(KindMismatchedCloseTag, t)
	case *token.Invalid:
		return leaf(KindInvalid, t)
	default:
		// close tags are consumed by element, anything else here is out of sync with the lexer
		return leaf(KindInvalid, &token.Invalid{
			Position: *tok.Pos(),
			Message:  "Invalid DoenetML: unexpected " + string(tok.TokenType()),
		})
	}
}

func leaf(kind NodeKind, tok token.Token) *TreeNode {
	return &TreeNode{
		Kind:  kind,
		Token: tok,
		Range: *tok.Pos(),
	}
}

// element reads the content of an element until its close tag.
func (p *Parser) element(open *token.StartTag) *TreeNode {
	node := &TreeNode{
		Kind:  KindElement,
		Name:  open.Name,
		Open:  open,
		Range: open.Position,
	}

	switch {
	case open.SelfClosing:
		node.Close = CloseSelf
		return node
	case open.Unterminated:
		node.Close = CloseNone
		return node
	}

	for {
		tok, err := p.peek()
		if errors.Is(err, io.EOF) {
			node.Close = CloseEOF
			return node
		}

		switch t := tok.(type) {
		case *token.CloseTag:
			_, _ = p.next()
			node.Close = CloseTag
			node.CloseRange = t.Position
			node.Range.EndPos = t.EndPos

			return node
		case *token.MissingCloseTag:
			_, _ = p.next()
			node.Close = CloseImplicit
			node.CloseRange = t.Position

			return node
		}

		_, _ = p.next()
		child := p.node(tok)
		node.AddChildren(child)
		node.Range.EndPos = child.Range.EndPos
	}
}

// Parse parses src and returns the tree together with the line index of src.
func Parse(src string) (*TreeNode, *token.LineIndex) {
	p := NewParser(src)

	return p.Parse(), p.Index()
}
