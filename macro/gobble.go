// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package macro

import (
	"strings"
	"unicode"

	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/token"
)

// Gobble attaches argument lists to unresolved functions in nodes. The argument
// list of a function is the parenthesized content immediately following it, e.g.
// $$f(a, <math>b</math>). Arguments may span elements. A function that is not
// followed by "(" or whose argument list is never closed stays unresolved.
// Gobble returns the new node list, adjacent text is merged.
func Gobble(nodes []dast.Node) []dast.Node {
	if !hasUnresolved(nodes) {
		return nodes
	}

	frags := splitParens(nodes)
	res := make([]dast.Node, 0, len(frags))

	for i := 0; i < len(frags); i++ {
		f, ok := frags[i].(*dast.Function)
		if !ok || f.Input != nil {
			res = append(res, frags[i])
			continue
		}

		args, end, ok := arguments(frags, i+1)
		if !ok {
			res = append(res, f)
			continue
		}

		for j, arg := range args {
			args[j] = Gobble(trim(arg))
		}

		f.Input = args
		f.Position.EndPos = frags[end].Pos().EndPos
		res = append(res, f)
		i = end
	}

	return dast.MergeText(res)
}

func hasUnresolved(nodes []dast.Node) bool {
	for _, n := range nodes {
		if f, ok := n.(*dast.Function); ok && f.Input == nil {
			return true
		}
	}

	return false
}

// arguments scans the argument list starting at the fragment i, which must be "(".
// It returns the arguments and the index of the closing ")".
func arguments(frags []dast.Node, i int) ([][]dast.Node, int, bool) {
	if i >= len(frags) || !isText(frags[i], "(") {
		return nil, i, false
	}

	var (
		args  [][]dast.Node
		cur   []dast.Node
		depth = 1
	)

	for k := i + 1; k < len(frags); k++ {
		n := frags[k]

		switch {
		case isText(n, "("):
			depth++
		case isText(n, ")"):
			depth--
			if depth == 0 {
				if len(args) > 0 || !dast.AllBlank(cur) {
					args = append(args, cur)
				}

				if args == nil {
					args = [][]dast.Node{}
				}

				return args, k, true
			}
		case isText(n, ",") && depth == 1:
			args = append(args, cur)
			cur = nil

			continue
		}

		cur = append(cur, n)
	}

	return nil, i, false
}

func isText(n dast.Node, value string) bool {
	t, ok := n.(*dast.Text)

	return ok && t.Value == value
}

// splitParens splits text nodes at '(', ')' and ',' so that each of them becomes its own fragment.
func splitParens(nodes []dast.Node) []dast.Node {
	res := make([]dast.Node, 0, len(nodes))

	for _, n := range nodes {
		t, ok := n.(*dast.Text)
		if !ok || !strings.ContainsAny(t.Value, "(),") {
			res = append(res, n)
			continue
		}

		pos := t.Position.BeginPos
		start := 0

		emit := func(end int) {
			if end <= start {
				return
			}

			value := t.Value[start:end]
			next := pos.Advance(value)
			res = append(res, &dast.Text{
				Value:     value,
				Position:  positionOf(t, pos, next),
				SourceDoc: t.SourceDoc,
			})
			pos = next
			start = end
		}

		for i := 0; i < len(t.Value); i++ {
			switch t.Value[i] {
			case '(', ')', ',':
				emit(i)
				emit(i + 1)
			}
		}

		emit(len(t.Value))
	}

	return res
}

// trim removes leading and trailing whitespace from an argument.
func trim(arg []dast.Node) []dast.Node {
	arg = dast.MergeText(arg)

	if len(arg) > 0 {
		if t, ok := arg[0].(*dast.Text); ok {
			v := strings.TrimLeftFunc(t.Value, unicode.IsSpace)
			begin := t.Position.BeginPos.Advance(t.Value[:len(t.Value)-len(v)])
			arg[0] = &dast.Text{Value: v, Position: positionOf(t, begin, t.Position.EndPos), SourceDoc: t.SourceDoc}
		}
	}

	if len(arg) > 0 {
		last := len(arg) - 1
		if t, ok := arg[last].(*dast.Text); ok {
			v := strings.TrimRightFunc(t.Value, unicode.IsSpace)
			end := t.Position.BeginPos.Advance(v)
			arg[last] = &dast.Text{Value: v, Position: positionOf(t, t.Position.BeginPos, end), SourceDoc: t.SourceDoc}
		}
	}

	return dast.MergeText(arg)
}

// positionOf keeps synthesized text without a position unpositioned.
func positionOf(t *dast.Text, begin, end token.Pos) token.Position {
	if t.Position == (token.Position{}) {
		return token.Position{}
	}

	return token.Position{BeginPos: begin, EndPos: end}
}
