// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package normalize

import (
	"fmt"

	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/token"
)

// Reserved element names that are used internally and may start with an underscore.
const (
	ExternalContent         = "_externalContent"
	PostponeRenderContainer = "_postponeRenderContainer"
)

// ValidName reports whether s can be used as the value of a name attribute:
// a letter followed by letters, digits, '-' or '_'.
func ValidName(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !isDigit(c) && c != '-' && c != '_' {
			return false
		}
	}

	return true
}

// ValidComponentName reports whether an element may be called s.
func ValidComponentName(s string) bool {
	if s == ExternalContent || s == PostponeRenderContainer {
		return true
	}

	return s != "" && isLetter(s[0])
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ValidateNames replaces elements with invalid component names by an error.
// An invalid name attribute is removed and an error is inserted in front of its element.
func ValidateNames(root *dast.Root, _ *State) {
	dast.Replace(root, func(n dast.Node, _ dast.Node) []dast.Node {
		e, ok := n.(*dast.Element)
		if !ok {
			return []dast.Node{n}
		}

		if !ValidComponentName(e.Name) {
			return []dast.Node{dast.NewError(
				fmt.Sprintf("Invalid component type: `%s`. Component types must start with a letter.", e.Name),
				e.Position,
			)}
		}

		attr := e.Attributes.Get("name")
		if attr == nil {
			return []dast.Node{e}
		}

		value, ok := attr.Text()
		if ok && ValidName(value) {
			return []dast.Node{e}
		}

		e.Attributes.Delete("name")

		msg := fmt.Sprintf("Invalid component name: `%s`. Names must start with a letter and may only contain letters, digits, `-` and `_`.", value)
		if !ok {
			msg = "Invalid component name: a name must be plain text and cannot contain macros."
		}

		pos := attr.Position
		if pos == (token.Position{}) {
			pos = e.Position
		}

		return []dast.Node{dast.NewError(msg, pos), e}
	})
}
