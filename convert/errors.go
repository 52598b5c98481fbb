// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"

	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/parser"
	"github.com/Doenet/DoenetML-sub018/token"
)

const couldNotConvert = "Invalid DoenetML: could not convert node"

// errorFor synthesizes the error node describing a malformed region of the
// concrete tree. It returns nil if n is well-formed. The most specific problem
// wins: an element whose start tag is malformed reports the start tag, not the
// missing close tag.
func errorFor(n *parser.TreeNode) *dast.Error {
	switch n.Kind {
	case parser.KindElement:
		return elementError(n)
	case parser.KindMismatchedCloseTag:
		return closeTagError(n)
	case parser.KindInvalid:
		msg := couldNotConvert
		if inv, ok := n.Token.(*token.Invalid); ok && inv.Message != "" {
			msg = inv.Message
		}

		return dast.NewError(msg, n.Range)
	default:
		return dast.NewError(couldNotConvert, n.Range)
	}
}

// elementError reports a missing close tag. Errors inside the start tag are reported
// separately by startTagErrors, in that case the missing close tag is not reported.
func elementError(n *parser.TreeNode) *dast.Error {
	if n.Open == nil || n.Open.HasError() {
		return nil
	}

	switch n.Close {
	case parser.CloseEOF:
		return dast.NewError(missingCloseTag(n.Name), n.Open.Position)
	case parser.CloseImplicit:
		err := dast.NewError(missingCloseTag(n.Name), n.CloseRange)
		err.Notes = []dast.Note{{
			Message:  fmt.Sprintf("The tag `<%s>` is opened here", n.Name),
			Position: n.Open.Position,
		}}

		return err
	}

	return nil
}

func missingCloseTag(name string) string {
	return fmt.Sprintf("The tag `<%s>` has no closing tag. Expected a self-closing tag or a `</%s>` tag.", name, name)
}

func closeTagError(n *parser.TreeNode) *dast.Error {
	tok, ok := n.Token.(*token.MismatchedCloseTag)
	if !ok {
		return dast.NewError(couldNotConvert, n.Range)
	}

	if tok.Expected == "" {
		return dast.NewError(fmt.Sprintf("Invalid DoenetML: the closing tag `</%s>` has no corresponding opening tag", tok.Name), n.Range)
	}

	return dast.NewError(fmt.Sprintf("Invalid DoenetML: mismatched closing tag. Expected `</%s>`. Found `</%s>`.", tok.Expected, tok.Name), n.Range)
}

// startTagErrors reports every malformed region of a start tag in source order.
func startTagErrors(open *token.StartTag) []dast.Node {
	var res []dast.Node

	for _, a := range open.Attributes {
		if a.IsError() {
			res = append(res, attributeError(a))
		}
	}

	if open.Unterminated {
		res = append(res, dast.NewError(
			fmt.Sprintf("Invalid DoenetML: the tag `<%s` is not terminated by `>`", open.Name),
			open.Position,
		))
	}

	return res
}

func attributeError(a *token.Attribute) *dast.Error {
	var msg string

	switch a.Kind {
	case token.AttributeMissingValue:
		msg = fmt.Sprintf("Attribute `%s` is missing a value", a.Name)
	case token.AttributeMissingCloseQuote:
		msg = fmt.Sprintf("Attribute `%s` is missing a closing `%c`", a.Name, a.Quote)
	case token.AttributeMissingOpenQuote:
		msg = fmt.Sprintf("Attribute `%s` is missing an opening `%c`", a.Name, a.Quote)
	default:
		msg = fmt.Sprintf("Invalid attribute `%s`", a.Raw)
	}

	return dast.NewError(msg, a.Position)
}

func duplicateAttribute(a *token.Attribute) *dast.Error {
	return dast.NewError(fmt.Sprintf("Duplicate attribute `%s`", a.Name), a.Position)
}
