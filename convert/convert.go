// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package convert turns DoenetML source into its abstract tree. It decodes references,
// parses macros and replaces every malformed region by an error node. It never fails.
package convert

import (
	"github.com/tliron/commonlog"

	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/macro"
	"github.com/Doenet/DoenetML-sub018/parser"
	"github.com/Doenet/DoenetML-sub018/token"
)

var log = commonlog.GetLogger("doenetml.convert")

// Convert parses src. The returned root registers src as Sources[0].
func Convert(src string) *dast.Root {
	cst, index := parser.Parse(src)

	return FromTree(cst, index)
}

// FromTree converts an already parsed concrete tree.
func FromTree(cst *parser.TreeNode, index *token.LineIndex) *dast.Root {
	c := &converter{index: index}

	return &dast.Root{
		Children: c.children(cst.Children),
		Sources:  []string{index.Source()},
		Position: cst.Range,
	}
}

type converter struct {
	index *token.LineIndex
}

func isCharData(k parser.NodeKind) bool {
	return k == parser.KindText || k == parser.KindEntityRef || k == parser.KindCharRef
}

// children converts a child list. Function arguments are gobbled over the complete list,
// so they may span elements.
func (c *converter) children(nodes []*parser.TreeNode) []dast.Node {
	var res []dast.Node

	for i := 0; i < len(nodes); i++ {
		n := nodes[i]

		switch n.Kind {
		case parser.KindText, parser.KindEntityRef, parser.KindCharRef:
			j := i
			for j < len(nodes) && isCharData(nodes[j].Kind) {
				j++
			}

			res = append(res, c.charData(nodes[i:j])...)
			i = j - 1
		case parser.KindElement:
			res = append(res, c.element(n)...)
		case parser.KindComment:
			res = append(res, &dast.Comment{Value: n.Text(), Position: n.Range})
		case parser.KindCdata:
			res = append(res, &dast.Cdata{Value: n.Text(), Position: n.Range})
		case parser.KindDoctype:
			res = append(res, &dast.Doctype{Value: n.Text(), Position: n.Range})
		case parser.KindInstruction:
			res = append(res, c.instruction(n))
		case parser.KindMismatchedCloseTag, parser.KindInvalid:
			res = append(res, errorFor(n))
		default:
			log.Errorf("cannot convert %s node at %s", n.Kind, n.Range)
		}
	}

	return macro.Gobble(res)
}

// charData decodes a run of text and references into text, macro and function nodes.
func (c *converter) charData(run []*parser.TreeNode) []dast.Node {
	d := &decoder{}

	for _, n := range run {
		at := n.Range.BeginPos.Offset

		if n.Kind == parser.KindText {
			d.raw(n.Text(), at)
		} else {
			d.ref(n.Text(), at)
		}
	}

	end := run[len(run)-1].Range.EndPos.Offset
	s, at := d.finish(c.index, end)

	return macro.Parse(s, at)
}

func (c *converter) element(n *parser.TreeNode) []dast.Node {
	e := &dast.Element{
		Name:     n.Name,
		Position: n.Range,
	}

	errs := startTagErrors(n.Open)

	for _, a := range n.Open.Attributes {
		if a.IsError() {
			continue
		}

		if e.Attributes.Has(a.Name) {
			errs = append(errs, duplicateAttribute(a))
			continue
		}

		e.Attributes = append(e.Attributes, c.attribute(a))
	}

	e.Children = append(errs, c.children(n.Children)...)

	if err := errorFor(n); err != nil {
		return []dast.Node{e, err}
	}

	return []dast.Node{e}
}

func (c *converter) attribute(a *token.Attribute) *dast.Attribute {
	attr := &dast.Attribute{
		Name:     a.Name,
		Position: a.Position,
	}

	if a.Kind == token.AttributeValueless {
		attr.Children = []dast.Node{&dast.Text{Value: "true", Position: a.NamePos}}
		return attr
	}

	if a.Value == "" {
		attr.Children = []dast.Node{&dast.Text{Value: "", Position: a.ValuePos}}
		return attr
	}

	d := &decoder{}
	d.text(a.Value, a.ValuePos.BeginPos.Offset)
	s, at := d.finish(c.index, a.ValuePos.EndPos.Offset)
	attr.Children = macro.Gobble(macro.Parse(s, at))

	return attr
}

func (c *converter) instruction(n *parser.TreeNode) *dast.Instruction {
	tok := n.Token.(*token.Instruction)
	in := &dast.Instruction{
		Name:     tok.Name,
		Position: n.Range,
	}

	base := tok.ValuePos.BeginPos.Offset
	in.Value = macro.Gobble(macro.Parse(tok.Value, func(begin, end int) token.Position {
		return c.index.Position(base+begin, base+end)
	}))

	return in
}
