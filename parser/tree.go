// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"strings"

	"github.com/Doenet/DoenetML-sub018/token"
)

// NodeKind is the kind of a concrete syntax tree node.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindElement
	KindText
	KindEntityRef
	KindCharRef
	KindComment
	KindCdata
	KindDoctype
	KindInstruction
	KindMismatchedCloseTag
	KindInvalid
)

func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindEntityRef:
		return "entity"
	case KindCharRef:
		return "charref"
	case KindComment:
		return "comment"
	case KindCdata:
		return "cdata"
	case KindDoctype:
		return "doctype"
	case KindInstruction:
		return "instruction"
	case KindMismatchedCloseTag:
		return "mismatched"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// CloseKind tells how an element was closed.
type CloseKind int

const (
	// CloseSelf is "<a/>".
	CloseSelf CloseKind = iota
	// CloseTag is a regular matching "</a>".
	CloseTag
	// CloseImplicit means a close tag of an ancestor closed the element.
	CloseImplicit
	// CloseEOF means the input ended while the element was open.
	CloseEOF
	// CloseNone means the start tag itself was never terminated, so the element has no content.
	CloseNone
)

func (c CloseKind) String() string {
	switch c {
	case CloseSelf:
		return "self"
	case CloseTag:
		return "tag"
	case CloseImplicit:
		return "implicit"
	case CloseEOF:
		return "eof"
	case CloseNone:
		return "none"
	default:
		return fmt.Sprintf("close(%d)", int(c))
	}
}

// TreeNode is a node in the concrete syntax tree.
// Leaf nodes keep the token they were built from in Token.
// Elements keep their start tag in Open.
type TreeNode struct {
	Kind NodeKind
	// Name is the tag name of an element.
	Name string
	// Open is the start tag of an element.
	Open *token.StartTag
	// Close tells how an element was closed. CloseRange is the span of the
	// closing tag, or of the tag that closed the element implicitly.
	Close      CloseKind
	CloseRange token.Position
	Children   []*TreeNode
	Token      token.Token
	// Range will span all tokens that were processed to build this node.
	Range token.Position
}

// AddChildren adds children to a node and can be used builder-style.
func (t *TreeNode) AddChildren(children ...*TreeNode) *TreeNode {
	t.Children = append(t.Children, children...)
	return t
}

// Text returns the raw text of a leaf node.
func (t *TreeNode) Text() string {
	switch tok := t.Token.(type) {
	case *token.Text:
		return tok.Value
	case *token.EntityRef:
		return tok.Value
	case *token.CharRef:
		return tok.Value
	case *token.Comment:
		return tok.Value
	case *token.Cdata:
		return tok.Value
	case *token.Doctype:
		return tok.Value
	case *token.Instruction:
		return tok.Value
	case *token.Invalid:
		return tok.Value
	case *token.MismatchedCloseTag:
		return tok.Name
	}

	return ""
}

// String renders the tree in a compact single line form, mostly for tests and debugging.
// Elements are written as name[close](children), leaves as kind:"text".
func (t *TreeNode) String() string {
	sb := &strings.Builder{}
	t.write(sb)

	return sb.String()
}

func (t *TreeNode) write(sb *strings.Builder) {
	switch t.Kind {
	case KindDocument:
		sb.WriteString("document")
	case KindElement:
		sb.WriteString(t.Name)

		if t.Close != CloseTag {
			sb.WriteString("[" + t.Close.String() + "]")
		}
	default:
		fmt.Fprintf(sb, "%s:%q", t.Kind, t.Text())
		return
	}

	if len(t.Children) == 0 {
		return
	}

	sb.WriteByte('(')

	for i, c := range t.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}

		c.write(sb)
	}

	sb.WriteByte(')')
}
