// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package dast

// WalkFunc is called for every node reached by Walk. parent is nil for the node Walk started at.
// Returning false skips the children of n.
type WalkFunc func(n Node, parent Node) bool

// Walk visits n and the child lists of all Root and Element nodes below it
// depth-first in document order, including the arguments of functions.
// fn may modify the children of the node it is called with, Walk descends
// into the modified list.
func Walk(n Node, fn WalkFunc) {
	walk(n, nil, fn)
}

func walk(n, parent Node, fn WalkFunc) {
	if !fn(n, parent) {
		return
	}

	if f, ok := n.(*Function); ok {
		for _, arg := range f.Input {
			for _, c := range arg {
				walk(c, n, fn)
			}
		}

		return
	}

	children := Children(n)
	for i := 0; i < len(children); i++ {
		walk(children[i], n, fn)
	}
}

// ReplaceFunc returns the nodes that take the place of n in the child list of parent.
// Returning nil removes n, returning []Node{n} keeps it.
type ReplaceFunc func(n Node, parent Node) []Node

// Replace rewrites the child lists of all Root and Element nodes and the argument
// lists of all functions below n.
// The traversal is post-order: the children of a node are rewritten before the node
// itself is passed to fn. Nodes returned by fn are not visited again.
func Replace(n Node, fn ReplaceFunc) {
	if f, ok := n.(*Function); ok {
		for i, arg := range f.Input {
			f.Input[i] = replaceList(n, arg, fn)
		}

		return
	}

	if children := Children(n); children != nil {
		SetChildren(n, replaceList(n, children, fn))
	}
}

func replaceList(parent Node, nodes []Node, fn ReplaceFunc) []Node {
	result := make([]Node, 0, len(nodes))

	for _, c := range nodes {
		Replace(c, fn)
		result = append(result, fn(c, parent)...)
	}

	return result
}

// Elements calls fn for every element below n in document order.
func Elements(n Node, fn func(e *Element, parent Node)) {
	Walk(n, func(n, parent Node) bool {
		if e, ok := n.(*Element); ok {
			fn(e, parent)
		}

		return true
	})
}

// Inspect visits every node reachable from n, including attribute values, macro indices,
// macro attributes, function arguments and instruction values. Returning false skips
// everything below the node.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *Root:
		inspectList(n.Children, fn)
	case *Element:
		inspectAttributes(n.Attributes, fn)
		inspectList(n.Children, fn)
	case *Instruction:
		inspectList(n.Value, fn)
	case *Macro:
		inspectPath(n.Path, fn)
		inspectAttributes(n.Attributes, fn)
	case *Function:
		inspectPath(n.Path, fn)
		inspectAttributes(n.Attributes, fn)

		for _, arg := range n.Input {
			inspectList(arg, fn)
		}
	case *Text, *Comment, *Cdata, *Doctype, *Error:
	}
}

// InspectAttributes calls fn for every attribute reachable from n, including the
// attribute blocks of macros.
func InspectAttributes(n Node, fn func(*Attribute)) {
	Inspect(n, func(n Node) bool {
		switch n := n.(type) {
		case *Element:
			for _, a := range n.Attributes {
				fn(a)
			}
		case *Macro:
			for _, a := range n.Attributes {
				fn(a)
			}
		case *Function:
			for _, a := range n.Attributes {
				fn(a)
			}
		}

		return true
	})
}

func inspectList(nodes []Node, fn func(Node) bool) {
	for _, c := range nodes {
		Inspect(c, fn)
	}
}

func inspectAttributes(attrs Attributes, fn func(Node) bool) {
	for _, a := range attrs {
		inspectList(a.Children, fn)
	}
}

func inspectPath(path []PathPart, fn func(Node) bool) {
	for _, part := range path {
		for _, idx := range part.Index {
			inspectList(idx.Value, fn)
		}
	}
}
