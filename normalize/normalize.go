// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package normalize rewrites a converted tree into its canonical form: exactly one
// document root, valid names, expanded aliases and expanded shorthand markup.
// Normalizing a normalized tree does not change it.
package normalize

import (
	"github.com/tliron/commonlog"

	"github.com/Doenet/DoenetML-sub018/dast"
)

var log = commonlog.GetLogger("doenetml.normalize")

// Options configure the pipeline.
type Options struct {
	// AutoName assigns names to all unnamed elements. It is switched on automatically
	// for documents declaring a compatibility version below 0.7.0.
	AutoName bool
	// Aliases replaces DefaultAliases if not nil.
	Aliases map[string]Alias
}

// Pass is a single rewrite of the whole tree.
type Pass func(root *dast.Root, state *State)

// State is carried through all passes of one Normalize call.
type State struct {
	Options Options

	autoName bool
	counters map[string]int
	used     map[string]bool
}

func newState(opts Options) *State {
	return &State{
		Options:  opts,
		counters: map[string]int{},
		used:     map[string]bool{},
	}
}

func (s *State) aliases() map[string]Alias {
	if s.Options.Aliases != nil {
		return s.Options.Aliases
	}

	return DefaultAliases
}

// DefaultPasses are applied by Normalize, in this order.
var DefaultPasses = []Pass{
	StripMarkup,
	EnsureDocument,
	CompatibilityAttributes,
	ValidateNames,
	ExpandAliases,
	AutoName,
	Sugar,
}

// Normalize applies DefaultPasses to root in place and returns it.
func Normalize(root *dast.Root, opts Options) *dast.Root {
	return Apply(root, opts, DefaultPasses...)
}

// Apply applies the given passes to root in place and returns it.
func Apply(root *dast.Root, opts Options, passes ...Pass) *dast.Root {
	state := newState(opts)

	for _, pass := range passes {
		pass(root, state)
	}

	return root
}

// StripMarkup removes comments, instructions and doctypes and turns CDATA into text.
func StripMarkup(root *dast.Root, _ *State) {
	dast.Replace(root, func(n dast.Node, _ dast.Node) []dast.Node {
		switch n := n.(type) {
		case *dast.Comment, *dast.Instruction, *dast.Doctype:
			return nil
		case *dast.Cdata:
			return []dast.Node{&dast.Text{Value: n.Value, Position: n.Position}}
		}

		return []dast.Node{n}
	})

	mergeText(root)
}

// mergeText joins adjacent text in all child lists.
func mergeText(root *dast.Root) {
	dast.Walk(root, func(n, _ dast.Node) bool {
		switch n := n.(type) {
		case *dast.Root:
			n.Children = dast.MergeText(n.Children)
		case *dast.Element:
			n.Children = dast.MergeText(n.Children)
		}

		return true
	})
}

// EnsureDocument makes a single <document> element the only child of root.
// Blank text around the top level content is removed. Error nodes next to a
// single document are moved into it.
func EnsureDocument(root *dast.Root, _ *State) {
	content := dast.TrimBlank(root.Children)

	var (
		doc   *dast.Element
		count int
		other bool
	)

	for _, n := range content {
		switch n := n.(type) {
		case *dast.Element:
			if n.Name == "document" {
				doc = n
				count++

				continue
			}

			other = true
		case *dast.Error:
		default:
			if !dast.IsBlank(n) {
				other = true
			}
		}
	}

	if count == 1 && !other {
		var before, after []dast.Node

		seen := false

		for _, n := range content {
			switch {
			case n == dast.Node(doc):
				seen = true
			case dast.IsBlank(n):
			case seen:
				after = append(after, n)
			default:
				before = append(before, n)
			}
		}

		doc.Children = append(append(before, doc.Children...), after...)
		root.Children = []dast.Node{doc}

		return
	}

	wrapper := dast.NewElement("document").AddChildren(content...)
	wrapper.Position = root.Position
	root.Children = []dast.Node{wrapper}
}

// CompatibilityAttributes rewrites legacy attribute forms. xml:id becomes name,
// unless a name is present already.
func CompatibilityAttributes(root *dast.Root, _ *State) {
	dast.Elements(root, func(e *dast.Element, _ dast.Node) {
		if e.Attributes.Has("name") {
			return
		}

		if a := e.Attributes.Get("xml:id"); a != nil {
			a.Name = "name"
		}
	})
}
