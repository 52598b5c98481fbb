// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/Doenet/DoenetML-sub018/macro"
	"github.com/Doenet/DoenetML-sub018/token"
)

// zeroWidthSpace separates a '$' that came from a reference from what follows,
// so that "&dollar;x" stays text instead of becoming the macro $x.
const zeroWidthSpace = "\u200b"

// decoder collects decoded character data and remembers for every decoded byte
// where it came from in the source.
type decoder struct {
	sb strings.Builder
	// offsets[i] is the source offset of decoded byte i.
	offsets []int
	// dollars holds the decoded indices of '$' signs that came from references.
	dollars []int
}

// raw appends s unchanged, s starts at the source offset at.
func (d *decoder) raw(s string, at int) {
	d.sb.WriteString(s)

	for i := 0; i < len(s); i++ {
		d.offsets = append(d.offsets, at+i)
	}
}

// ref appends the decoded reference raw, which starts at the source offset at.
// Unknown named references are kept as they are.
func (d *decoder) ref(raw string, at int) {
	value := html.UnescapeString(raw)
	if value == raw {
		d.raw(raw, at)
		return
	}

	for i := 0; i < len(value); i++ {
		if value[i] == '$' {
			d.dollars = append(d.dollars, d.sb.Len()+i)
		}

		d.offsets = append(d.offsets, at)
	}

	d.sb.WriteString(value)
}

// text appends s, decoding all references in it.
func (d *decoder) text(s string, at int) {
	start := 0

	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			continue
		}

		n := token.RefLen(s, i)
		if n == 0 {
			continue
		}

		d.raw(s[start:i], at+start)
		d.ref(s[i:i+n], at+i)
		i += n - 1
		start = i + 1
	}

	d.raw(s[start:], at+start)
}

// finish returns the decoded string and a positioner into the source.
// end is the source offset right behind the decoded data.
func (d *decoder) finish(index *token.LineIndex, end int) (string, macro.Positioner) {
	s := d.sb.String()
	offsets := d.offsets

	// walk backwards, so that earlier indices stay valid
	for k := len(d.dollars) - 1; k >= 0; k-- {
		i := d.dollars[k]
		if i+1 >= len(s) || !separates(s[i+1]) {
			continue
		}

		s = s[:i+1] + zeroWidthSpace + s[i+1:]
		at := offsets[i+1]
		inserted := []int{at, at, at}
		offsets = append(offsets[:i+1:i+1], append(inserted, offsets[i+1:]...)...)
	}

	offsets = append(offsets[:len(offsets):len(offsets)], end)

	return s, func(b, e int) token.Position {
		return index.Position(offsets[clamp(b, len(s))], offsets[clamp(e, len(s))])
	}
}

// separates returns true if c directly after a '$' would start a macro.
func separates(c byte) bool {
	return c == '$' || c == '(' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}

	if i > n {
		return n
	}

	return i
}
