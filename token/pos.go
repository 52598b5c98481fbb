// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"strconv"
	"unicode/utf8"
)

// Node contains access to the start and end positions of a token.
type Node interface {
	Begin() Pos
	End() Pos
}

// A Pos describes a resolved position within a source.
type Pos struct {
	// Line denotes the one-based line number.
	Line int
	// Col denotes the one-based column number in the denoted Line, counted in runes.
	Col int
	// Offset is the zero-based byte offset into the source.
	Offset int
}

// String returns the content in the "line:col" format.
func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Advance returns the position reached after reading s, starting at p.
func (p Pos) Advance(s string) Pos {
	for _, r := range s {
		p.Offset += utf8.RuneLen(r)
		if r == '\n' {
			p.Line++
			p.Col = 1
		} else {
			p.Col++
		}
	}

	return p
}

// Position is a range between two positions.
type Position struct {
	BeginPos Pos
	EndPos   Pos
}

// Begin returns the start of the range.
func (p Position) Begin() Pos {
	return p.BeginPos
}

// End returns the exclusive end of the range.
func (p Position) End() Pos {
	return p.EndPos
}

// Pos returns a pointer to the position, so that tokens embedding Position satisfy Token.
func (p *Position) Pos() *Position {
	return p
}

// String returns the range in the "line:col-line:col" format.
func (p Position) String() string {
	return p.BeginPos.String() + "-" + p.EndPos.String()
}
