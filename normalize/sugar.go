// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"github.com/Doenet/DoenetML-sub018/dast"
)

// sugarFunc expands the shorthand of a single element in place.
// Every sugarFunc must leave an already expanded element unchanged.
type sugarFunc func(e *dast.Element, state *State)

var sugar = map[string][]sugarFunc{
	"repeat":             {repeatTemplate},
	"repeatForSequence":  {repeatTemplate},
	"conditionalContent": {conditionalCases},
	"select":             {selectOptions},
	"solution":           {postponeRender},
	"givenAnswer":        {postponeRender},
	"aside":              {postponeRender},
	"proof":              {postponeRender},
	"image":              {shortDescription},
	"video":              {shortDescription},
	"figure":             {shortDescription},
	"table":              {shortDescription},
	"graph":              {shortDescription, axisLabels},
	"pretzel":            {pretzelProblems},
}

// Sugar expands shorthand markup into its long form. Parents are expanded
// before their children, so content moved into new elements is expanded as well.
// Text left next to each other by moving elements out is merged.
func Sugar(root *dast.Root, state *State) {
	dast.Elements(root, func(e *dast.Element, _ dast.Node) {
		for _, fn := range sugar[e.Name] {
			fn(e, state)
		}
	})

	mergeText(root)
}

// create returns a new element which takes part in automatic naming.
func (s *State) create(name string, children ...dast.Node) *dast.Element {
	e := dast.NewElement(name).AddChildren(children...)
	s.name(e)

	return e
}

// childElement returns the first child element with the given name.
func childElement(e *dast.Element, name string) *dast.Element {
	for _, c := range e.Children {
		if c, ok := c.(*dast.Element); ok && c.Name == name {
			return c
		}
	}

	return nil
}

// only returns the single non-blank child of nodes if it is an element with the given name.
func only(nodes []dast.Node, name string) bool {
	content := dast.WithoutBlank(nodes)
	if len(content) != 1 {
		return false
	}

	e, ok := content[0].(*dast.Element)

	return ok && e.Name == name
}

// repeatTemplate moves the content of a repeat into a <template> and declares the
// valueName and indexName attributes as placeholders in a <setup>.
func repeatTemplate(e *dast.Element, state *State) {
	if childElement(e, "template") != nil {
		return
	}

	var placeholders []dast.Node

	for _, attr := range []struct{ name, typ string }{{"valueName", "value"}, {"indexName", "index"}} {
		name, ok := e.Attributes.Value(attr.name)
		if !ok || !ValidName(name) {
			continue
		}

		placeholders = append(placeholders, dast.NewElement("placeholder").
			AddText("name", name).
			AddText("type", attr.typ))
	}

	var children []dast.Node
	if len(placeholders) > 0 {
		children = append(children, state.create("setup", placeholders...))
	}

	e.Children = append(children, state.create("template", dast.TrimBlank(e.Children)...))
}

// conditionalCases turns a conditionalContent with a condition attribute into one
// with a single <case>, renames <else> to <case> and wraps the content of every
// case into a <group>.
func conditionalCases(e *dast.Element, state *State) {
	if childElement(e, "case") == nil && childElement(e, "else") == nil {
		cond := e.Attributes.Get("condition")
		if cond == nil {
			return
		}

		e.Attributes.Delete("condition")

		c := state.create("case", dast.TrimBlank(e.Children)...)
		c.Attributes.Put(cond)
		e.Children = []dast.Node{c}
	}

	for _, n := range e.Children {
		c, ok := n.(*dast.Element)
		if !ok {
			continue
		}

		if c.Name == "else" {
			c.Name = "case"
		}

		if c.Name != "case" || dast.AllBlank(c.Children) || only(c.Children, "group") {
			continue
		}

		c.Children = []dast.Node{state.create("group", dast.TrimBlank(c.Children)...)}
	}
}

// selectOptions turns the shorthand <select>a b</select> into one <option> per
// whitespace separated group, each holding an element of the select's type.
func selectOptions(e *dast.Element, state *State) {
	if childElement(e, "option") != nil || dast.AllBlank(e.Children) {
		return
	}

	typ, ok := e.Attributes.Value("type")
	if !ok || !ValidComponentName(typ) {
		typ = "math"
	}

	var options []dast.Node

	for _, group := range SplitSelectShorthand(e.Children) {
		if len(group) == 1 {
			if el, ok := group[0].(*dast.Element); ok {
				options = append(options, state.create("option", el))
				continue
			}
		}

		options = append(options, state.create("option", state.create(typ, group...)))
	}

	e.Children = options
}

// postponeRender wraps everything except the titles into a render container, so
// that the content is only rendered once it is opened.
func postponeRender(e *dast.Element, state *State) {
	var titles, rest []dast.Node

	for _, n := range e.Children {
		if c, ok := n.(*dast.Element); ok && c.Name == "title" {
			titles = append(titles, c)
			continue
		}

		rest = append(rest, n)
	}

	if dast.AllBlank(rest) || only(rest, PostponeRenderContainer) {
		return
	}

	e.Children = append(titles, state.create(PostponeRenderContainer, dast.TrimBlank(rest)...))
}

// shortDescription moves a description attribute into a <shortDescription> child.
func shortDescription(e *dast.Element, state *State) {
	attr := e.Attributes.Get("description")
	if attr == nil || childElement(e, "shortDescription") != nil {
		return
	}

	e.Attributes.Delete(attr.Name)

	desc := state.create("shortDescription", attr.Children...)
	desc.Position = attr.Position
	e.Children = append([]dast.Node{desc}, e.Children...)
}

// axisLabels moves the xlabel and ylabel attributes of a graph into <xLabel> and <yLabel>.
func axisLabels(e *dast.Element, state *State) {
	for _, name := range []string{"yLabel", "xLabel"} {
		attr := e.Attributes.Fold(name)
		if attr == nil || childElement(e, name) != nil {
			continue
		}

		e.Attributes.Delete(attr.Name)

		label := state.create(name, attr.Children...)
		label.Position = attr.Position
		e.Children = append([]dast.Node{label}, e.Children...)
	}
}

// pretzelProblems makes sure every problem of a pretzel has a <statement> and a <givenAnswer>.
func pretzelProblems(e *dast.Element, state *State) {
	for _, n := range e.Children {
		p, ok := n.(*dast.Element)
		if !ok || p.Name != "problem" {
			continue
		}

		if childElement(p, "statement") == nil {
			var statement, answers []dast.Node

			for _, c := range p.Children {
				if c, ok := c.(*dast.Element); ok && c.Name == "givenAnswer" {
					answers = append(answers, c)
					continue
				}

				statement = append(statement, c)
			}

			p.Children = append([]dast.Node{state.create("statement", dast.TrimBlank(statement)...)}, answers...)
		}

		if childElement(p, "givenAnswer") == nil {
			p.Children = append(p.Children, state.create("givenAnswer"))
		}
	}
}
