// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package macro

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("doenetml.macro")

// macroLexer splits text into the few token kinds the macro grammar cares about.
// Every input byte ends up in some token, Other catches the rest.
var macroLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Dollar", Pattern: `\$`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[.\[\]{}()=/"'\-]`},
	{Name: "Space", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

var (
	symbols = macroLexer.Symbols()

	tokDollar = symbols["Dollar"]
	tokIdent  = symbols["Ident"]
	tokInt    = symbols["Int"]
	tokPunct  = symbols["Punct"]
	tokSpace  = symbols["Space"]
)

// tok is a lexed token with its byte range in the input.
type tok struct {
	typ        lexer.TokenType
	value      string
	begin, end int
}

func (t tok) is(typ lexer.TokenType, value string) bool {
	return t.typ == typ && t.value == value
}

func (t tok) punct(value string) bool {
	return t.is(tokPunct, value)
}

// lex tokenizes s. It returns nil if the lexer failed, which would be a bug in the rules above.
func lex(s string) []tok {
	l, err := macroLexer.Lex("", strings.NewReader(s))
	if err != nil {
		log.Errorf("cannot lex macro text %q: %v", s, err)
		return nil
	}

	all, err := lexer.ConsumeAll(l)
	if err != nil {
		log.Errorf("cannot lex macro text %q: %v", s, err)
		return nil
	}

	res := make([]tok, 0, len(all))

	for _, t := range all {
		if t.EOF() {
			break
		}

		res = append(res, tok{
			typ:   t.Type,
			value: t.Value,
			begin: t.Pos.Offset,
			end:   t.Pos.Offset + len(t.Value),
		})
	}

	return res
}
