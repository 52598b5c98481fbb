// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package dast

import (
	"strings"

	"github.com/Doenet/DoenetML-sub018/token"
)

// TextContent concatenates the values of nodes. The boolean is false if any node is not a *Text.
func TextContent(nodes []Node) (string, bool) {
	if len(nodes) == 1 {
		if t, ok := nodes[0].(*Text); ok {
			return t.Value, true
		}
	}

	sb := &strings.Builder{}

	for _, n := range nodes {
		t, ok := n.(*Text)
		if !ok {
			return "", false
		}

		sb.WriteString(t.Value)
	}

	return sb.String(), true
}

// IsBlank returns true for text nodes that contain nothing but whitespace.
func IsBlank(n Node) bool {
	t, ok := n.(*Text)

	return ok && strings.TrimSpace(t.Value) == ""
}

// AllBlank returns true if every node is blank text.
func AllBlank(nodes []Node) bool {
	for _, n := range nodes {
		if !IsBlank(n) {
			return false
		}
	}

	return true
}

// TrimBlank removes leading and trailing blank text nodes.
func TrimBlank(nodes []Node) []Node {
	start, end := 0, len(nodes)

	for start < end && IsBlank(nodes[start]) {
		start++
	}

	for end > start && IsBlank(nodes[end-1]) {
		end--
	}

	return nodes[start:end]
}

// WithoutBlank returns nodes without any blank text nodes.
func WithoutBlank(nodes []Node) []Node {
	var res []Node

	for _, n := range nodes {
		if !IsBlank(n) {
			res = append(res, n)
		}
	}

	return res
}

// MergeText joins adjacent text nodes and drops empty ones.
// A joined node spans from the first to the last fragment.
func MergeText(nodes []Node) []Node {
	res := make([]Node, 0, len(nodes))

	for _, n := range nodes {
		t, ok := n.(*Text)
		if !ok {
			res = append(res, n)
			continue
		}

		if t.Value == "" {
			continue
		}

		if len(res) > 0 {
			if prev, ok := res[len(res)-1].(*Text); ok {
				merged := &Text{
					Value:     prev.Value + t.Value,
					Position:  token.Position{BeginPos: prev.Position.BeginPos, EndPos: t.Position.EndPos},
					SourceDoc: prev.SourceDoc,
				}
				res[len(res)-1] = merged

				continue
			}
		}

		res = append(res, t)
	}

	return res
}

// StripPositions resets all positions below n, useful to compare trees by structure.
func StripPositions(n Node) {
	Inspect(n, func(n Node) bool {
		*n.Pos() = token.Position{}

		switch n := n.(type) {
		case *Macro:
			stripPath(n.Path)
		case *Function:
			stripPath(n.Path)
		case *Error:
			for i := range n.Notes {
				n.Notes[i].Position = token.Position{}
			}
		}

		return true
	})

	InspectAttributes(n, func(a *Attribute) {
		a.Position = token.Position{}
	})
}

func stripPath(path []PathPart) {
	for i := range path {
		path[i].Position = token.Position{}
		for j := range path[i].Index {
			path[i].Index[j].Position = token.Position{}
		}
	}
}

// StampSource marks every node and attribute below n as coming from the source
// document with index id. Nodes without a SourceDoc field are skipped.
func StampSource(n Node, id int) {
	Inspect(n, func(n Node) bool {
		switch n := n.(type) {
		case *Element:
			n.SourceDoc = &id
		case *Text:
			n.SourceDoc = &id
		case *Macro:
			n.SourceDoc = &id
		case *Function:
			n.SourceDoc = &id
		case *Error:
			n.SourceDoc = &id
		}

		return true
	})

	InspectAttributes(n, func(a *Attribute) {
		a.SourceDoc = &id
	})
}
