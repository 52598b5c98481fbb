// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrDetail is a message attached to a range of the source.
type ErrDetail struct {
	Node    Node
	Message string
}

func NewErrDetail(node Node, msg string) ErrDetail {
	return ErrDetail{
		Node:    node,
		Message: msg,
	}
}

// PosError represents a very specific positional error with a lot of explaining noise. Use Explain.
// The first detail is the error itself, further details point at related places.
type PosError struct {
	Details []ErrDetail
}

// NewPosError creates a new PosError with the given root cause and optional details.
func NewPosError(node Node, msg string, details ...ErrDetail) *PosError {
	tmp := append([]ErrDetail{}, ErrDetail{
		Node:    node,
		Message: msg,
	})
	tmp = append(tmp, details...)

	return &PosError{
		Details: tmp,
	}
}

func (p *PosError) firstDetail() ErrDetail {
	if len(p.Details) > 0 {
		return p.Details[0]
	}

	return ErrDetail{}
}

func (p *PosError) Error() string {
	msg := p.firstDetail().Message
	if n := p.firstDetail().Node; n != nil {
		msg = n.Begin().String() + ": " + msg
	}

	return msg
}

// Explain returns a multi-line text suited to be printed into the console.
// The source lines are taken from index.
func (p *PosError) Explain(index *LineIndex) string {
	// grab the required indent for the line numbers
	indent := 0

	for _, detail := range p.Details {
		if detail.Node == nil {
			continue
		}

		l := len(strconv.Itoa(detail.Node.Begin().Line))
		if l > indent {
			indent = l
		}
	}

	sb := &strings.Builder{}

	for i, detail := range p.Details {
		if detail.Node == nil {
			sb.WriteString(detail.Message)
			sb.WriteString("\n")

			continue
		}

		begin, end := detail.Node.Begin(), detail.Node.End()
		line := index.Line(begin.Line)

		if i == 0 {
			sb.WriteString(begin.String())
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |\n", ""))
		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"d |", begin.Line))
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(fmt.Sprintf("%"+strconv.Itoa(indent)+"s |", ""))

		if begin.Col > 1 {
			sb.WriteString(strings.Repeat(" ", begin.Col-1))
		}

		if end.Line != begin.Line || end.Col-begin.Col <= 1 {
			sb.WriteString("^~~~ ")
		} else {
			sb.WriteString(strings.Repeat("^", end.Col-begin.Col))
			sb.WriteRune(' ')
		}

		sb.WriteString(detail.Message)
		sb.WriteString("\n")

		if i < len(p.Details)-1 {
			sb.WriteString(strings.Repeat(" ", indent))
			sb.WriteString("...")
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
