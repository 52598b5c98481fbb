// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package dast

import (
	"strings"
	"testing"

	"github.com/r3labs/diff/v2"

	"github.com/Doenet/DoenetML-sub018/token"
)

func TestAttributes(t *testing.T) {
	var attrs Attributes

	if attrs.SetText("a", "1") {
		t.Error("a did not exist yet")
	}

	attrs.SetText("b", "2")

	if !attrs.SetText("a", "3") {
		t.Error("expected a to be overwritten")
	}

	if v, _ := attrs.Value("a"); v != "3" || attrs[0].Name != "a" {
		t.Errorf("overwriting must keep the order, got %q at %s", v, attrs[0].Name)
	}

	if attrs.Fold("B") == nil {
		t.Error("expected a case-insensitive match")
	}

	if attrs.Get("B") != nil {
		t.Error("Get must be case-sensitive")
	}

	attrs.AddMissing(Attributes{NewAttribute("b", "x"), NewAttribute("c", "4")})

	if v, _ := attrs.Value("b"); v != "2" {
		t.Errorf("AddMissing must not overwrite, got %q", v)
	}

	if !attrs.Has("c") {
		t.Error("expected c to be added")
	}

	if d := attrs.Delete("b"); d == nil || len(attrs) != 2 || attrs.Has("b") {
		t.Errorf("unexpected state after delete: %d attributes", len(attrs))
	}

	if !attrs.Put(NewAttribute("a", "z")) || attrs[0].Name != "a" {
		t.Error("Put must replace in place")
	}

	withMacro := &Attribute{Name: "m", Children: []Node{NewText("x"), NewMacro("y")}}
	if _, ok := withMacro.Text(); ok {
		t.Error("a value with a macro is not plain text")
	}
}

func TestReplace(t *testing.T) {
	root := &Root{Children: []Node{
		NewElement("a").AddChildren(
			NewText("x"),
			&Comment{Value: "c"},
			NewElement("b"),
		),
		&Comment{Value: "top"},
	}}

	var order []string

	Replace(root, func(n Node, parent Node) []Node {
		switch n := n.(type) {
		case *Comment:
			order = append(order, "comment:"+n.Value)
			return nil
		case *Element:
			order = append(order, n.Name)
			if n.Name == "b" {
				return []Node{NewText("1"), NewText("2")}
			}
		}

		return []Node{n}
	})

	want := &Root{Children: []Node{
		NewElement("a").AddChildren(NewText("x"), NewText("1"), NewText("2")),
	}}

	assertTree(t, want, root)

	if strings.Join(order, ",") != "comment:c,b,a,comment:top" {
		t.Errorf("unexpected visiting order %v", order)
	}
}

func TestWalk(t *testing.T) {
	root := &Root{Children: []Node{
		NewElement("a").AddChildren(NewElement("b"), NewElement("skip").AddChildren(NewElement("hidden"))),
		NewElement("c"),
	}}

	var names []string

	Elements(root, func(e *Element, parent Node) {
		names = append(names, e.Name)
	})

	if strings.Join(names, ",") != "a,b,skip,hidden,c" {
		t.Errorf("unexpected elements %v", names)
	}

	names = nil

	Walk(root, func(n, parent Node) bool {
		if e, ok := n.(*Element); ok {
			names = append(names, e.Name)
			return e.Name != "skip"
		}

		return true
	})

	if strings.Join(names, ",") != "a,b,skip,c" {
		t.Errorf("unexpected walk %v", names)
	}
}

func TestMergeText(t *testing.T) {
	idx := token.NewLineIndex("abc")
	a := &Text{Value: "a", Position: idx.Position(0, 1)}
	b := &Text{Value: "bc", Position: idx.Position(1, 3)}

	got := MergeText([]Node{NewText(""), a, b, NewMacro("x"), NewText("y"), NewText("")})

	if len(got) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(got))
	}

	merged := got[0].(*Text)
	if merged.Value != "abc" || merged.Position.String() != "1:1-1:4" {
		t.Errorf("unexpected merge %q at %s", merged.Value, merged.Position)
	}

	if a.Value != "a" {
		t.Error("MergeText must not modify its input")
	}
}

func TestTrimBlank(t *testing.T) {
	nodes := []Node{NewText(" \n"), NewElement("a"), NewText(" "), NewElement("b"), NewText("\t")}

	got := TrimBlank(nodes)
	if len(got) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(got))
	}

	if len(WithoutBlank(nodes)) != 2 {
		t.Error("expected only the elements to remain")
	}

	if !AllBlank([]Node{NewText(" ")}) || AllBlank(nodes) {
		t.Error("unexpected AllBlank result")
	}
}

func TestDiagnostics(t *testing.T) {
	idx := token.NewLineIndex("<a>\n<b>")
	f := NewFunction("f")
	f.Input = [][]Node{{&Error{Message: "in argument", Position: idx.Position(5, 6)}}}

	root := &Root{Children: []Node{
		&Error{Message: "first", Position: idx.Position(0, 3)},
		NewElement("a").AddChildren(f, &Error{Message: "last"}),
	}}

	got := Diagnostics(root)
	if len(got) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(got))
	}

	if got[0].String() != "1:1: first" || got[1].Message != "in argument" || got[2].Message != "last" {
		t.Errorf("unexpected diagnostics %v", got)
	}

	if got[1].PosError().Error() != "2:2: in argument" {
		t.Errorf("unexpected error %q", got[1].PosError().Error())
	}
}

func TestStampSource(t *testing.T) {
	m := NewMacro("x")
	m.Attributes.SetText("a", "b")

	idx := NewMacro("i")
	m.Path[0].Index = []Index{{Value: []Node{idx}}}

	arg := NewMacro("y")
	f := NewFunction("f")
	f.Input = [][]Node{{arg}}

	errNode := NewError("broken", token.Position{})

	e := NewElement("p").AddText("name", "n").AddChildren(NewText("t"), m, f, errNode)
	StampSource(e, 2)

	if e.SourceDoc == nil || *e.SourceDoc != 2 {
		t.Error("element not stamped")
	}

	if *e.Attributes[0].SourceDoc != 2 || *e.Children[0].(*Text).SourceDoc != 2 {
		t.Error("attribute or text not stamped")
	}

	if *m.Attributes[0].SourceDoc != 2 {
		t.Error("macro attribute not stamped")
	}

	for name, doc := range map[string]*int{
		"macro":          m.SourceDoc,
		"index macro":    idx.SourceDoc,
		"function":       f.SourceDoc,
		"function input": arg.SourceDoc,
		"error":          errNode.SourceDoc,
	} {
		if doc == nil || *doc != 2 {
			t.Errorf("%s not stamped", name)
		}
	}
}

// assertTree compares two trees structurally, positions are ignored.
func assertTree(t *testing.T, want, got Node) {
	t.Helper()

	StripPositions(want)
	StripPositions(got)

	differences, err := diff.Diff(want, got, diff.SliceOrdering(true))
	if err != nil {
		t.Fatal(err)
	}

	for _, d := range differences {
		t.Errorf("property '%s' %s, expected %#v but got %#v", strings.Join(d.Path, "."), d.Type, d.From, d.To)
	}
}
