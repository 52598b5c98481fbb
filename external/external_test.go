// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package external

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/r3labs/diff/v2"

	"github.com/Doenet/DoenetML-sub018/convert"
	"github.com/Doenet/DoenetML-sub018/dast"
)

// documents resolves uris from a fixed set of sources.
func documents(docs map[string]string) Resolver {
	return func(_ context.Context, uri string) (string, error) {
		text, ok := docs[uri]
		if !ok {
			return "", errors.New("not found")
		}

		return text, nil
	}
}

func messages(root *dast.Root) string {
	var res []string
	for _, d := range dast.Diagnostics(root) {
		res = append(res, d.Message)
	}

	return strings.Join(res, "\n")
}

func TestExpand(t *testing.T) {
	src := `<p name="n">hi</p>`
	root := convert.Convert(`<p extend="doenet:X"/>`)

	if err := Expand(context.Background(), root, documents(map[string]string{"doenet:X": src}), Options{}); err != nil {
		t.Fatal(err)
	}

	want := &dast.Root{Children: []dast.Node{
		dast.NewElement("p").AddChildren(
			dast.NewElement("_externalContent").
				AddChildren(dast.NewText("hi")).
				AddText("name", "n").
				AddText("doenetMLSource", src).
				AddText("forType", "p"),
		),
	}}

	assertTree(t, want, &dast.Root{Children: root.Children})

	if len(root.Sources) != 1 {
		t.Errorf("generic expansion must not register sources, got %d", len(root.Sources))
	}
}

func TestExpandScoped(t *testing.T) {
	src := `<p name="n">hi $n</p>`
	root := convert.Convert(`<p extend="doenet:X"/><p extend="other"/>`)

	err := Expand(context.Background(), root, documents(map[string]string{"doenet:X": src}), Options{Mode: Scoped})
	if err != nil {
		t.Fatal(err)
	}

	if len(root.Sources) != 2 || root.Sources[1] != src {
		t.Fatalf("expected the fetched source to be registered, got %q", root.Sources)
	}

	p := root.Children[0].(*dast.Element)
	ext := p.Children[0].(*dast.Element)

	if seq, _ := p.Attributes.Value("source:sequence"); seq != "0 1" {
		t.Errorf("unexpected source sequence %q", seq)
	}

	if name, _ := ext.Attributes.Value("source-1:name"); name != "n" {
		t.Errorf("expected the scoped name, got %q", name)
	}

	if ext.Attributes.Has("name") {
		t.Errorf("expected the fetched name to be replaced by the scoped name")
	}

	if ext.SourceDoc != nil {
		t.Errorf("expected the merged content to belong to the referencing document")
	}

	if hi := ext.Children[0].(*dast.Text); hi.Value != "hi " || hi.SourceDoc == nil || *hi.SourceDoc != 1 {
		t.Errorf("expected the merged text to be stamped")
	}

	if m := ext.Children[1].(*dast.Macro); m.SourceDoc == nil || *m.SourceDoc != 1 {
		t.Errorf("expected the merged macro to be stamped")
	}

	other := root.Children[1].(*dast.Element)
	if v, _ := other.Attributes.Value("extend"); v != "other" {
		t.Errorf("only doenet references are expanded in scoped mode")
	}
}

func TestExpandScopedErrorSource(t *testing.T) {
	docs := documents(map[string]string{
		"doenet:X": `<p copy="doenet:missing"><b></p>`,
	})
	root := convert.Convert(`<p copy="doenet:X"/>`)

	if err := Expand(context.Background(), root, docs, Options{Mode: Scoped}); err != nil {
		t.Fatal(err)
	}

	diags := dast.Diagnostics(root)
	if len(diags) != 2 {
		t.Fatalf("expected two diagnostics, got %v", diags)
	}

	for _, d := range diags {
		if d.SourceDoc == nil || *d.SourceDoc != 1 {
			t.Errorf("expected %q to come from the fetched document", d.Message)
		}
	}
}

func TestExpandErrors(t *testing.T) {
	docs := map[string]string{
		"doenet:P":     `<p>x</p>`,
		"doenet:Q":     `<q/>`,
		"doenet:Empty": ` `,
		"doenet:Two":   `<p/><p/>`,
		"A":            `<p extend="B"/>`,
		"B":            `<p extend="A"/>`,
	}

	tests := []struct {
		name string
		text string
		mode Mode
		want string
	}{
		{
			name: "rejected",
			text: `<p copy="doenet:Missing"/><p extend="doenet:P"/>`,
			want: `Could not resolve copy="doenet:Missing": not found`,
		},
		{
			name: "mismatch",
			text: `<p extend="doenet:Q"/>`,
			want: `Could not resolve extend="doenet:Q": content mismatch: expected a <p> element, found <q>`,
		},
		{
			name: "empty",
			text: `<p extend="doenet:Empty"/>`,
			want: `Could not resolve extend="doenet:Empty": content mismatch: expected a <p> element, found nothing`,
		},
		{
			name: "more than one element",
			text: `<p extend="doenet:Two"/>`,
			want: `Could not resolve extend="doenet:Two": content mismatch: expected a single <p> element, found 2 nodes`,
		},
		{
			name: "circular",
			text: `<p extend="A"/>`,
			want: `Could not resolve extend="A": circular reference`,
		},
		{
			name: "macros are not references",
			text: `<p copy="$x"/>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := convert.Convert(tt.text)

			if err := Expand(context.Background(), root, documents(docs), Options{Mode: tt.mode}); err != nil {
				t.Fatal(err)
			}

			if got := messages(root); got != tt.want {
				t.Errorf("got diagnostics\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestExpandRecursionLimit(t *testing.T) {
	var fetches int32

	resolve := func(_ context.Context, _ string) (string, error) {
		atomic.AddInt32(&fetches, 1)
		return `<p extend="doenet:X">hi</p>`, nil
	}

	root := convert.Convert(`<p extend="doenet:X"/>`)

	if err := Expand(context.Background(), root, resolve, Options{Mode: Scoped}); err != nil {
		t.Fatal(err)
	}

	if fetches != DefaultMaxRecursion {
		t.Errorf("expected %d fetches, got %d", DefaultMaxRecursion, fetches)
	}

	if got := messages(root); got != `Could not resolve extend="doenet:X": too many levels of recursion` {
		t.Errorf("unexpected diagnostics %q", got)
	}

	if len(root.Sources) != DefaultMaxRecursion+1 {
		t.Errorf("expected every fetched level to be registered, got %d sources", len(root.Sources))
	}
}

func TestExpandDepthFirst(t *testing.T) {
	docs := map[string]string{
		"doenet:A": `<p>a</p>`,
		"doenet:B": `<p extend="doenet:C">b</p>`,
		"doenet:C": `<p>c</p>`,
	}

	src := `<p extend="doenet:A"/><p extend="doenet:B"/>`
	root := convert.Convert(src)

	if err := Expand(context.Background(), root, documents(docs), Options{Mode: Scoped}); err != nil {
		t.Fatal(err)
	}

	want := []string{src, docs["doenet:B"], docs["doenet:C"], docs["doenet:A"]}
	if strings.Join(root.Sources, "|") != strings.Join(want, "|") {
		t.Errorf("unexpected splice order\n%q\nwant\n%q", root.Sources, want)
	}

	if got := messages(root); got != "" {
		t.Errorf("unexpected diagnostics %q", got)
	}
}

func TestExpandConcurrency(t *testing.T) {
	var active, peak int32

	resolve := func(_ context.Context, _ string) (string, error) {
		n := atomic.AddInt32(&active, 1)
		defer atomic.AddInt32(&active, -1)

		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}

		time.Sleep(5 * time.Millisecond)

		return `<p>x</p>`, nil
	}

	root := convert.Convert(strings.Repeat(`<p extend="doenet:X"/>`, 6))

	if err := Expand(context.Background(), root, resolve, Options{Mode: Scoped, MaxConcurrentFetch: 2}); err != nil {
		t.Fatal(err)
	}

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent fetches, got %d", peak)
	}

	if len(root.Sources) != 7 {
		t.Errorf("expected all references to be expanded, got %d sources", len(root.Sources))
	}
}

func TestExpandCancel(t *testing.T) {
	t.Run("before", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Expand(ctx, convert.Convert(`<p extend="doenet:X"/>`), documents(nil), Options{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancellation, got %v", err)
		}
	})

	t.Run("during fetch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		resolve := func(ctx context.Context, _ string) (string, error) {
			cancel()
			return "", ctx.Err()
		}

		err := Expand(ctx, convert.Convert(`<p extend="doenet:X"/>`), resolve, Options{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancellation, got %v", err)
		}
	})
}

func assertTree(t *testing.T, want, got dast.Node) {
	t.Helper()

	dast.StripPositions(want)
	dast.StripPositions(got)

	differences, err := diff.Diff(want, got, diff.SliceOrdering(true))
	if err != nil {
		t.Fatal(err)
	}

	for _, d := range differences {
		t.Errorf("property '%s' %s, expected %#v but got %#v", strings.Join(d.Path, "."), d.Type, d.From, d.To)
	}
}
