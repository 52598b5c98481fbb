// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package encoder

import (
	"strings"

	"github.com/Doenet/DoenetML-sub018/token"
)

var (
	xmlText      = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	xmlAttribute = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// escapeXML replaces all occurrences of reserved characters in XML.
func escapeXML(s string, attribute bool) string {
	if attribute {
		return xmlAttribute.Replace(s)
	}

	return xmlText.Replace(s)
}

// escapeDoenetML escapes '<' unless it is followed by whitespace or '=', and '&'
// only if it would start a character or entity reference.
// A '<' at the end of s is escaped, as s may be followed by markup.
// Double quotes are escaped in attribute values.
func escapeDoenetML(s string, attribute bool) string {
	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '<' && !bareLessThan(s, i):
			sb.WriteString("&lt;")
		case c == '&' && token.RefLen(s, i) > 0:
			sb.WriteString("&amp;")
		case c == '"' && attribute:
			sb.WriteString("&quot;")
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func bareLessThan(s string, i int) bool {
	if i+1 >= len(s) {
		return false
	}

	switch s[i+1] {
	case ' ', '\t', '\n', '\r', '=':
		return true
	}

	return false
}
