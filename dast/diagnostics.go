// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package dast

import (
	"github.com/Doenet/DoenetML-sub018/token"
)

// Diagnostic is a problem found in a document.
// SourceDoc is set if the problem was found in a document fetched by an external reference.
type Diagnostic struct {
	Message   string
	Position  token.Position
	Notes     []Note
	SourceDoc *int
}

func (d Diagnostic) String() string {
	return d.Position.BeginPos.String() + ": " + d.Message
}

// PosError converts the diagnostic into an error that can explain itself against the source.
func (d Diagnostic) PosError() *token.PosError {
	details := make([]token.ErrDetail, 0, len(d.Notes))
	for _, n := range d.Notes {
		details = append(details, token.NewErrDetail(n.Position, n.Message))
	}

	return token.NewPosError(d.Position, d.Message, details...)
}

// Diagnostics collects all error nodes below n in document order.
func Diagnostics(n Node) []Diagnostic {
	var res []Diagnostic

	Inspect(n, func(n Node) bool {
		if e, ok := n.(*Error); ok {
			res = append(res, Diagnostic{
				Message:   e.Message,
				Position:  e.Position,
				Notes:     e.Notes,
				SourceDoc: e.SourceDoc,
			})
		}

		return true
	})

	return res
}
