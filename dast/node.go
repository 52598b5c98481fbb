// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package dast contains the abstract tree of a DoenetML document.
//
// The tree is a closed set of node types implementing Node. Malformed input never
// produces a Go error, it produces *Error nodes that live in the tree next to the
// content they describe. Use Diagnostics to collect them.
package dast

import (
	"github.com/Doenet/DoenetML-sub018/token"
)

// Node is implemented by all tree nodes. The set of implementations is closed.
type Node interface {
	// Pos returns the source range of the node. Synthesized nodes have a zero range.
	Pos() *token.Position
	isNode()
}

// Root is the top of every tree.
type Root struct {
	Children []Node
	// Sources holds the raw text of every document that contributed to the tree.
	// Sources[0] is the main document, merged documents are appended.
	Sources  []string
	Position token.Position
}

// Element is a component like <p name="x">...</p>.
type Element struct {
	Name       string
	Attributes Attributes
	Children   []Node
	Position   token.Position
	// SourceDoc is an index into Root.Sources, nil for the main document.
	SourceDoc *int
}

type Text struct {
	Value     string
	Position  token.Position
	SourceDoc *int
}

type Comment struct {
	Value    string
	Position token.Position
}

type Cdata struct {
	Value    string
	Position token.Position
}

// Doctype holds the raw declaration without the angle brackets, e.g. "DOCTYPE html".
type Doctype struct {
	Value    string
	Position token.Position
}

// Instruction is <?Name Value?>. Value may contain macros.
type Instruction struct {
	Name     string
	Value    []Node
	Position token.Position
}

// Error is a diagnostic that takes the place of malformed content.
type Error struct {
	Message  string
	Position token.Position
	// Notes point at other places involved in the problem.
	Notes     []Note
	SourceDoc *int
}

// Note is a message attached to another range of the source, like the
// start tag of an element that was never closed.
type Note struct {
	Message  string
	Position token.Position
}

// Macro is a reference like $x.y[1]{a="b"}.
type Macro struct {
	Path       []PathPart
	Attributes Attributes
	Position   token.Position
	SourceDoc  *int
}

// Function is a reference like $$f(a, b).
// Input is nil as long as no argument list has been attached to it.
// An attached empty argument list, as in $$f(), is an empty non-nil slice.
type Function struct {
	Path       []PathPart
	Attributes Attributes
	Input      [][]Node
	Position   token.Position
	SourceDoc  *int
}

// PathPart is one dot separated segment of a macro path.
type PathPart struct {
	Name     string
	Index    []Index
	Position token.Position
}

// Index is a bracketed index of a PathPart, either a number or a nested macro.
type Index struct {
	Value    []Node
	Position token.Position
}

func (n *Root) Pos() *token.Position { return &n.Position }
func (n *Element) Pos() *token.Position { return &n.Position }
func (n *Text) Pos() *token.Position { return &n.Position }
func (n *Comment) Pos() *token.Position { return &n.Position }
func (n *Cdata) Pos() *token.Position { return &n.Position }
func (n *Doctype) Pos() *token.Position { return &n.Position }
func (n *Instruction) Pos() *token.Position { return &n.Position }
func (n *Error) Pos() *token.Position { return &n.Position }
func (n *Macro) Pos() *token.Position { return &n.Position }
func (n *Function) Pos() *token.Position { return &n.Position }

func (*Root) isNode() {}
func (*Element) isNode() {}
func (*Text) isNode() {}
func (*Comment) isNode() {}
func (*Cdata) isNode() {}
func (*Doctype) isNode() {}
func (*Instruction) isNode() {}
func (*Error) isNode() {}
func (*Macro) isNode() {}
func (*Function) isNode() {}

// NewElement creates a new element with the given name.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// AddChildren adds children to an element and can be used builder-style.
func (n *Element) AddChildren(children ...Node) *Element {
	n.Children = append(n.Children, children...)
	return n
}

// AddAttribute sets an attribute and can be used builder-style.
func (n *Element) AddAttribute(name string, children ...Node) *Element {
	n.Attributes.Set(name, children...)
	return n
}

// AddText sets an attribute with a plain text value and can be used builder-style.
func (n *Element) AddText(name, value string) *Element {
	n.Attributes.SetText(name, value)
	return n
}

func NewText(value string) *Text {
	return &Text{Value: value}
}

func NewError(msg string, pos token.Position) *Error {
	return &Error{Message: msg, Position: pos}
}

// NewMacro creates a macro with the given path names and no indices.
func NewMacro(names ...string) *Macro {
	m := &Macro{}
	for _, name := range names {
		m.Path = append(m.Path, PathPart{Name: name})
	}

	return m
}

// NewFunction creates an unresolved function with the given path names.
func NewFunction(names ...string) *Function {
	f := &Function{}
	for _, name := range names {
		f.Path = append(f.Path, PathPart{Name: name})
	}

	return f
}

// Children returns the child list of a node that has one.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Root:
		return n.Children
	case *Element:
		return n.Children
	}

	return nil
}

// SetChildren replaces the child list of a Root or Element. Other nodes are ignored.
func SetChildren(n Node, children []Node) {
	switch n := n.(type) {
	case *Root:
		n.Children = children
	case *Element:
		n.Children = children
	}
}
