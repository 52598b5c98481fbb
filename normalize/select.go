// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"strings"
	"unicode"

	"github.com/Doenet/DoenetML-sub018/dast"
)

// SplitSelectShorthand splits the content of a shorthand <select> into groups.
// Whitespace outside of parentheses separates groups, everything that is not text
// belongs to the group it appears in. For "a $b (c - $d) e" the groups are
// "a", "$b", "(c - $d)" and "e".
// Fragments of a text node keep the position of the whole node.
func SplitSelectShorthand(nodes []dast.Node) [][]dast.Node {
	s := &splitter{}

	for _, n := range nodes {
		t, ok := n.(*dast.Text)
		if !ok {
			s.group = append(s.group, n)
			continue
		}

		for _, r := range t.Value {
			switch {
			case r == '(':
				s.depth++
			case r == ')' && s.depth > 0:
				s.depth--
			case unicode.IsSpace(r) && s.depth == 0:
				s.flushText(t)
				s.flushGroup()

				continue
			}

			s.sb.WriteRune(r)
		}

		s.flushText(t)
	}

	s.flushGroup()

	return s.groups
}

type splitter struct {
	sb     strings.Builder
	depth  int
	group  []dast.Node
	groups [][]dast.Node
}

func (s *splitter) flushText(from *dast.Text) {
	if s.sb.Len() == 0 {
		return
	}

	s.group = append(s.group, &dast.Text{Value: s.sb.String(), Position: from.Position, SourceDoc: from.SourceDoc})
	s.sb.Reset()
}

func (s *splitter) flushGroup() {
	if len(s.group) == 0 {
		return
	}

	s.groups = append(s.groups, s.group)
	s.group = nil
}
