// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"sort"
	"unicode/utf8"
)

// LineIndex resolves byte offsets of a source into line and column positions.
// It is built once per source, lookups are a binary search over the line starts.
type LineIndex struct {
	src        string
	lineStarts []int
}

// NewLineIndex scans src for line breaks.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}

	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &LineIndex{src: src, lineStarts: starts}
}

// Source returns the indexed text.
func (l *LineIndex) Source() string {
	return l.src
}

// Pos returns the position of the given byte offset. Offsets outside of
// the source are clamped.
func (l *LineIndex) Pos(offset int) Pos {
	if offset < 0 {
		offset = 0
	}

	if offset > len(l.src) {
		offset = len(l.src)
	}

	// index of the last line start <= offset
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1

	start := l.lineStarts[line]

	return Pos{
		Line:   line + 1,
		Col:    utf8.RuneCountInString(l.src[start:offset]) + 1,
		Offset: offset,
	}
}

// Position returns the range between the two byte offsets.
func (l *LineIndex) Position(begin, end int) Position {
	return Position{
		BeginPos: l.Pos(begin),
		EndPos:   l.Pos(end),
	}
}

// Line returns the text of the one-based line number without its line break.
func (l *LineIndex) Line(no int) string {
	if no < 1 || no > len(l.lineStarts) {
		return ""
	}

	start := l.lineStarts[no-1]
	end := len(l.src)

	if no < len(l.lineStarts) {
		end = l.lineStarts[no] - 1
	}

	return l.src[start:end]
}
