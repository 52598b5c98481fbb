// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package macro

import (
	"strings"
	"testing"

	"github.com/r3labs/diff/v2"

	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/token"
)

func text(s string) *dast.Text {
	return dast.NewText(s)
}

func withIndex(m *dast.Macro, part int, values ...dast.Node) *dast.Macro {
	m.Path[part].Index = append(m.Path[part].Index, dast.Index{Value: values})
	return m
}

func withAttr(m *dast.Macro, name string, value ...dast.Node) *dast.Macro {
	m.Attributes = append(m.Attributes, &dast.Attribute{Name: name, Children: value})
	return m
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []dast.Node
	}{
		{
			name: "no macro",
			text: "hello",
			want: []dast.Node{text("hello")},
		},
		{
			name: "single",
			text: "$x",
			want: []dast.Node{dast.NewMacro("x")},
		},
		{
			name: "path with index",
			text: "$x.y[1]",
			want: []dast.Node{withIndex(dast.NewMacro("x", "y"), 1, text("1"))},
		},
		{
			name: "trailing dot",
			text: "$x.",
			want: []dast.Node{dast.NewMacro("x"), text(".")},
		},
		{
			name: "surrounded",
			text: "a $x b",
			want: []dast.Node{text("a "), dast.NewMacro("x"), text(" b")},
		},
		{
			name: "index after attributes",
			text: "$x{z}[5]",
			want: []dast.Node{withAttr(dast.NewMacro("x"), "z", text("true")), text("[5]")},
		},
		{
			name: "open index",
			text: "$x[",
			want: []dast.Node{dast.NewMacro("x"), text("[")},
		},
		{
			name: "non numeric index",
			text: "$x[a]",
			want: []dast.Node{dast.NewMacro("x"), text("[a]")},
		},
		{
			name: "nested index",
			text: "$x[$y][2]",
			want: []dast.Node{withIndex(withIndex(dast.NewMacro("x"), 0, dast.NewMacro("y")), 0, text("2"))},
		},
		{
			name: "lonely dollar",
			text: "a $ b $5",
			want: []dast.Node{text("a $ b $5")},
		},
		{
			name: "wrapped",
			text: "$(x-y/a-b)",
			want: []dast.Node{dast.NewMacro("x-y/a-b")},
		},
		{
			name: "wrapped path",
			text: "$(x.y)z",
			want: []dast.Node{dast.NewMacro("x", "y"), text("z")},
		},
		{
			name: "wrapped name must not end with a dash",
			text: "$(x-)",
			want: []dast.Node{text("$(x-)")},
		},
		{
			name: "unclosed wrap",
			text: "$(x",
			want: []dast.Node{text("$(x")},
		},
		{
			name: "attributes",
			text: `$x{a="$y" b = 'c'}`,
			want: []dast.Node{withAttr(withAttr(dast.NewMacro("x"), "a", dast.NewMacro("y")), "b", text("c"))},
		},
		{
			name: "duplicate attributes",
			text: `$x{a a}`,
			want: []dast.Node{dast.NewMacro("x"), text("{a a}")},
		},
		{
			name: "unclosed attribute value",
			text: `$x{a="b}`,
			want: []dast.Node{dast.NewMacro("x"), text(`{a="b}`)},
		},
		{
			name: "function",
			text: "$$f",
			want: []dast.Node{dast.NewFunction("f")},
		},
		{
			name: "double dollar without path",
			text: "$$ $$$x",
			want: []dast.Node{text("$$ $"), dast.NewFunction("x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNodes(t, tt.want, Parse(tt.text, nil))
		})
	}
}

func TestParsePositions(t *testing.T) {
	src := "ab\n $x.y[1] c"
	idx := token.NewLineIndex(src)
	at := func(begin, end int) token.Position {
		return idx.Position(begin, end)
	}

	nodes := Parse(src, at)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}

	m := nodes[1].(*dast.Macro)
	if m.Position.String() != "2:2-2:9" {
		t.Errorf("unexpected macro position %s", m.Position)
	}

	if m.Path[1].Position.String() != "2:5-2:9" {
		t.Errorf("unexpected part position %s", m.Path[1].Position)
	}

	if nodes[2].Pos().String() != "2:9-2:11" {
		t.Errorf("unexpected text position %s", nodes[2].Pos())
	}
}

func TestGobble(t *testing.T) {
	fn := func(input ...[]dast.Node) *dast.Function {
		f := dast.NewFunction("f")
		f.Input = input

		return f
	}

	args := func(nodes ...dast.Node) []dast.Node {
		return nodes
	}

	tests := []struct {
		name string
		text string
		want []dast.Node
	}{
		{
			name: "two arguments",
			text: "$$f(a,b)",
			want: []dast.Node{fn(args(text("a")), args(text("b")))},
		},
		{
			name: "nested parens",
			text: "$$f(a(b),c)",
			want: []dast.Node{fn(args(text("a(b)")), args(text("c")))},
		},
		{
			name: "trimmed",
			text: "$$f( a , b ) rest",
			want: []dast.Node{fn(args(text("a")), args(text("b"))), text(" rest")},
		},
		{
			name: "unclosed",
			text: "$$f(a",
			want: []dast.Node{dast.NewFunction("f"), text("(a")},
		},
		{
			name: "not directly followed",
			text: "$$f (a)",
			want: []dast.Node{dast.NewFunction("f"), text(" (a)")},
		},
		{
			name: "macro argument",
			text: "$$f($x, 2)",
			want: []dast.Node{fn(args(dast.NewMacro("x")), args(text("2")))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertNodes(t, tt.want, Gobble(Parse(tt.text, nil)))
		})
	}
}

func TestGobbleEmptyAndNested(t *testing.T) {
	nodes := Gobble(Parse("$$f()", nil))
	f := nodes[0].(*dast.Function)

	if f.Input == nil || len(f.Input) != 0 {
		t.Errorf("expected an empty argument list, got %v", f.Input)
	}

	nodes = Gobble(Parse("$$f($$g(1), 2)", nil))
	f = nodes[0].(*dast.Function)

	if len(f.Input) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(f.Input))
	}

	g, ok := f.Input[0][0].(*dast.Function)
	if !ok || len(g.Input) != 1 || g.Input[0][0].(*dast.Text).Value != "1" {
		t.Errorf("expected the nested function to be resolved, got %#v", f.Input[0])
	}
}

func TestGobbleAcrossElements(t *testing.T) {
	math := dast.NewElement("math").AddChildren(text("x+1"))
	nodes := []dast.Node{text("y "), dast.NewFunction("f"), text("( a, "), math, text(" ) z")}

	got := Gobble(nodes)
	if len(got) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(got))
	}

	f := got[1].(*dast.Function)
	if len(f.Input) != 2 || f.Input[1][0] != math {
		t.Errorf("expected the element to be the second argument, got %#v", f.Input)
	}

	if got[2].(*dast.Text).Value != " z" {
		t.Errorf("unexpected rest %q", got[2].(*dast.Text).Value)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"$x", "$x"},
		{"$x.y[1]", "$(x.y[1])"},
		{"$(x-y/a-b)", "$(x-y/a-b)"},
		{"$x[$y]", "$x[$y]"},
		{`$x{a="b" c}`, `$x{a="b" c="true"}`},
		{`$x{a='say "hi"'}`, `$x{a='say "hi"'}`},
		{"$$f(a, $b)", "$$f(a,$b)"},
		{"$$f()", "$$f()"},
		{"$(x)y", "$(x)y"},
		{"$x.", "$x."},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			nodes := Gobble(Parse(tt.text, nil))

			got := FormatList(nodes, nil)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}

			assertNodes(t, nodes, Gobble(Parse(got, nil)))
		})
	}

	if String(dast.NewMacro("a", "b")) != "$(a.b)" {
		t.Error("multi part paths must be wrapped")
	}
}

func assertNodes(t *testing.T, want, got []dast.Node) {
	t.Helper()

	root := func(nodes []dast.Node) *dast.Root {
		r := &dast.Root{Children: nodes}
		dast.StripPositions(r)

		return r
	}

	differences, err := diff.Diff(root(want), root(got), diff.SliceOrdering(true))
	if err != nil {
		t.Fatal(err)
	}

	for _, d := range differences {
		t.Errorf("property '%s' %s, expected %#v but got %#v", strings.Join(d.Path, "."), d.Type, d.From, d.To)
	}
}
