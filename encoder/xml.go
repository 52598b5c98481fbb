// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package encoder writes trees back as text, either as strict XML or as DoenetML.
package encoder

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/macro"
)

// Syntax selects how text and attribute values are escaped.
type Syntax int

const (
	// XML escapes every reserved character, the output is well-formed XML.
	XML Syntax = iota
	// DoenetML only escapes what the DoenetML lexer would otherwise read as markup.
	DoenetML
)

type Encoder struct {
	writer *bufio.Writer
	syntax Syntax
}

func NewEncoder(w io.Writer, syntax Syntax) *Encoder {
	return &Encoder{
		writer: bufio.NewWriter(w),
		syntax: syntax,
	}
}

// Encode writes n and everything below it. Error nodes are not written.
// Macros and functions are written so that parsing the output gives them back.
func (e *Encoder) Encode(n dast.Node) error {
	e.node(n)

	if err := e.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush encoded document: %w", err)
	}

	return nil
}

// ToXML returns n as strict XML.
func ToXML(n dast.Node) string {
	return encodeString(n, XML)
}

// ToDoenetML returns n as DoenetML.
func ToDoenetML(n dast.Node) string {
	return encodeString(n, DoenetML)
}

func encodeString(n dast.Node, syntax Syntax) string {
	var sb strings.Builder

	// a strings.Builder never fails to write
	_ = NewEncoder(&sb, syntax).Encode(n)

	return sb.String()
}

// writeString is a convenience method to write strings to the underlying writer.
// The bufio.Writer keeps the first error, which is reported by Encode.
func (e *Encoder) writeString(s string) {
	_, _ = e.writer.WriteString(s)
}

func (e *Encoder) node(n dast.Node) {
	switch n := n.(type) {
	case *dast.Root:
		e.list(n.Children)
	case *dast.Element:
		e.element(n)
	case *dast.Text, *dast.Macro, *dast.Function:
		e.list([]dast.Node{n})
	case *dast.Comment:
		e.writeString("<!--" + n.Value + "-->")
	case *dast.Cdata:
		e.writeString("<![CDATA[" + n.Value + "]]>")
	case *dast.Doctype:
		e.writeString("<!" + n.Value + ">")
	case *dast.Instruction:
		e.writeString("<?" + n.Name)

		if len(n.Value) > 0 {
			e.writeString(" " + macro.FormatList(n.Value, nil))
		}

		e.writeString("?>")
	case *dast.Error:
	}
}

func (e *Encoder) element(n *dast.Element) {
	var tag strings.Builder

	tag.WriteString("<")
	tag.WriteString(n.Name)

	for _, attr := range n.Attributes {
		value := e.value(attr.Children, true)

		// quotes left in the value belong to macro attributes
		quote := `"`
		if strings.Contains(value, `"`) {
			quote = "'"
		}

		tag.WriteString(fmt.Sprintf(` %s=%s%s%s`, attr.Name, quote, value, quote))
	}

	if len(n.Children) == 0 {
		tag.WriteString("/>")
		e.writeString(tag.String())

		return
	}

	tag.WriteString(">")
	e.writeString(tag.String())

	e.list(n.Children)

	e.writeString("</" + n.Name + ">")
}

// list writes a child list. Runs of text, macros and functions are written together,
// so that a macro followed by text stays unambiguous.
func (e *Encoder) list(nodes []dast.Node) {
	var run []dast.Node

	for _, n := range nodes {
		switch n.(type) {
		case *dast.Text, *dast.Macro, *dast.Function:
			run = append(run, n)
			continue
		}

		if len(run) > 0 {
			e.writeString(e.value(run, false))
			run = nil
		}

		e.node(n)
	}

	if len(run) > 0 {
		e.writeString(e.value(run, false))
	}
}

// value serializes character data with escaped text.
func (e *Encoder) value(nodes []dast.Node, attribute bool) string {
	return macro.FormatList(e.escapeNodes(nodes, attribute), func(n dast.Node) string {
		return encodeString(n, e.syntax)
	})
}

// escapeNodes returns a copy of nodes with escaped text, including the text of function arguments.
func (e *Encoder) escapeNodes(nodes []dast.Node, attribute bool) []dast.Node {
	res := make([]dast.Node, 0, len(nodes))

	for _, n := range nodes {
		switch n := n.(type) {
		case *dast.Text:
			res = append(res, &dast.Text{Value: e.escape(n.Value, attribute), Position: n.Position})
		case *dast.Function:
			if n.Input == nil {
				res = append(res, n)
				continue
			}

			f := *n
			f.Input = make([][]dast.Node, len(n.Input))

			for i, arg := range n.Input {
				f.Input[i] = e.escapeNodes(arg, attribute)
			}

			res = append(res, &f)
		default:
			res = append(res, n)
		}
	}

	return res
}

func (e *Encoder) escape(s string, attribute bool) string {
	if e.syntax == DoenetML {
		return escapeDoenetML(s, attribute)
	}

	return escapeXML(s, attribute)
}
