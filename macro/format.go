// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package macro

import (
	"strings"

	"github.com/Doenet/DoenetML-sub018/dast"
)

// String serializes a macro or function so that Parse gives it back.
// Text is returned verbatim, other nodes are dropped.
func String(n dast.Node) string {
	return Format(n, nil)
}

// Format is like String, but other serializes nodes that are neither text, macro nor function,
// e.g. elements inside function arguments.
func Format(n dast.Node, other func(dast.Node) string) string {
	sb := &strings.Builder{}
	f := formatter{sb: sb, other: other}
	f.node(n, nil)

	return sb.String()
}

// FormatList serializes a node list. A macro is wrapped in $(...) whenever the text
// following it would otherwise be read as part of its path.
func FormatList(nodes []dast.Node, other func(dast.Node) string) string {
	sb := &strings.Builder{}
	f := formatter{sb: sb, other: other}
	f.list(nodes)

	return sb.String()
}

type formatter struct {
	sb    *strings.Builder
	other func(dast.Node) string
}

func (f formatter) list(nodes []dast.Node) {
	for i, n := range nodes {
		var next dast.Node
		if i+1 < len(nodes) {
			next = nodes[i+1]
		}

		f.node(n, next)
	}
}

func (f formatter) node(n dast.Node, next dast.Node) {
	switch n := n.(type) {
	case *dast.Text:
		f.sb.WriteString(n.Value)
	case *dast.Macro:
		f.sb.WriteString("$")
		f.reference(n.Path, n.Attributes, continuesPath(next))
	case *dast.Function:
		f.sb.WriteString("$$")
		f.reference(n.Path, n.Attributes, n.Input == nil && continuesPath(next))

		if n.Input != nil {
			f.sb.WriteByte('(')

			for i, arg := range n.Input {
				if i > 0 {
					f.sb.WriteByte(',')
				}

				f.list(arg)
			}

			f.sb.WriteByte(')')
		}
	default:
		if f.other != nil {
			f.sb.WriteString(f.other(n))
		}
	}
}

func (f formatter) reference(path []dast.PathPart, attrs dast.Attributes, ambiguous bool) {
	wrap := len(path) > 1 || (ambiguous && len(attrs) == 0)

	for _, part := range path {
		if strings.ContainsAny(part.Name, "-/") {
			wrap = true
		}
	}

	if wrap {
		f.sb.WriteByte('(')
	}

	for i, part := range path {
		if i > 0 {
			f.sb.WriteByte('.')
		}

		f.sb.WriteString(part.Name)

		for _, idx := range part.Index {
			f.sb.WriteByte('[')
			f.list(idx.Value)
			f.sb.WriteByte(']')
		}
	}

	if wrap {
		f.sb.WriteByte(')')
	}

	if len(attrs) == 0 {
		return
	}

	f.sb.WriteByte('{')

	for i, a := range attrs {
		if i > 0 {
			f.sb.WriteByte(' ')
		}

		f.sb.WriteString(a.Name)
		f.sb.WriteByte('=')

		value := FormatList(a.Children, f.other)
		quote := `"`

		if strings.Contains(value, `"`) {
			quote = "'"
		}

		f.sb.WriteString(quote + value + quote)
	}

	f.sb.WriteByte('}')
}

// continuesPath returns true if next starts with a character that would extend an unwrapped path.
func continuesPath(next dast.Node) bool {
	t, ok := next.(*dast.Text)
	if !ok || t.Value == "" {
		return false
	}

	v := t.Value

	switch v[0] {
	case '[', '{':
		return true
	case '.':
		return len(v) > 1 && isIdentStart(v[1])
	}

	return isIdentStart(v[0]) || (v[0] >= '0' && v[0] <= '9')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
