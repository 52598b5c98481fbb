// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"strconv"

	"golang.org/x/mod/semver"

	"github.com/Doenet/DoenetML-sub018/dast"
)

// Default is an attribute value an alias adds unless the element sets it.
type Default struct {
	Name  string
	Value string
}

// Alias renames an element and adds default attributes.
type Alias struct {
	Name     string
	Defaults []Default
}

// DefaultAliases maps alternative element names onto the canonical ones.
var DefaultAliases = map[string]Alias{
	"sbs":         {Name: "sideBySide"},
	"sbsGroup":    {Name: "sideBySideGroup"},
	"exercise":    {Name: "problem"},
	"question":    {Name: "problem"},
	"lemma":       {Name: "theorem", Defaults: []Default{{Name: "type", Value: "lemma"}}},
	"corollary":   {Name: "theorem", Defaults: []Default{{Name: "type", Value: "corollary"}}},
	"proposition": {Name: "theorem", Defaults: []Default{{Name: "type", Value: "proposition"}}},
}

// ExpandAliases renames aliased elements and merges in their default attributes
// without overwriting attributes that are present already.
func ExpandAliases(root *dast.Root, state *State) {
	aliases := state.aliases()

	dast.Elements(root, func(e *dast.Element, _ dast.Node) {
		alias, ok := aliases[e.Name]
		if !ok {
			return
		}

		e.Name = alias.Name

		var defaults dast.Attributes
		for _, d := range alias.Defaults {
			defaults = append(defaults, dast.NewAttribute(d.Name, d.Value))
		}

		e.Attributes.AddMissing(defaults)
	})
}

// autoNameBefore is the first compatibility version that no longer names elements automatically.
const autoNameBefore = "v0.7.0"

// needsAutoName reports whether the document asks for automatic names through an old
// compatibility attribute, like <document compatibility="0.6">.
func needsAutoName(root *dast.Root) bool {
	if len(root.Children) != 1 {
		return false
	}

	doc, ok := root.Children[0].(*dast.Element)
	if !ok {
		return false
	}

	compat, ok := doc.Attributes.Value("compatibility")
	if !ok {
		return false
	}

	v := "v" + compat
	if !semver.IsValid(v) {
		return false
	}

	return semver.Compare(v, autoNameBefore) < 0
}

// AutoName gives every unnamed element below the document a name {type}{n}, counting
// per type in document order and skipping names that are in use. It only runs if
// Options.AutoName is set or the document declares an old compatibility version.
// Elements created by later passes are named when they are created.
func AutoName(root *dast.Root, state *State) {
	state.autoName = state.Options.AutoName || needsAutoName(root)
	if !state.autoName {
		return
	}

	dast.Elements(root, func(e *dast.Element, _ dast.Node) {
		if name, ok := e.Attributes.Value("name"); ok {
			state.used[name] = true
		}
	})

	dast.Elements(root, func(e *dast.Element, parent dast.Node) {
		if _, top := parent.(*dast.Root); top {
			return
		}

		state.name(e)
	})

	log.Debugf("assigned automatic names, %d types", len(state.counters))
}

// name assigns an automatic name to e if automatic naming is on and e has no name.
func (s *State) name(e *dast.Element) {
	if !s.autoName || e.Attributes.Has("name") || !ValidName(e.Name) {
		return
	}

	for {
		s.counters[e.Name]++
		candidate := e.Name + strconv.Itoa(s.counters[e.Name])

		if !s.used[candidate] {
			s.used[candidate] = true
			e.Attributes = append(e.Attributes, dast.NewAttribute("name", candidate))

			return
		}
	}
}
