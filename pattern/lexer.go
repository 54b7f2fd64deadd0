/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// patternLexer splits raw pattern text into structural characters and text runs.
// Only Open, Close and Splice are structural outside of a group.
var patternLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Open", Pattern: `<`},
	{Name: "Close", Pattern: `>`},
	{Name: "Splice", Pattern: `;`},
	// Enum item separators
	{Name: "Pipe", Pattern: `[|,]`},
	{Name: "Colon", Pattern: `:`},
	{Name: "At", Pattern: `@`},
	{Name: "Text", Pattern: `[^<>;|,:@]+`},
})

var (
	tokOpen   = patternLexer.Symbols()["Open"]
	tokClose  = patternLexer.Symbols()["Close"]
	tokSplice = patternLexer.Symbols()["Splice"]
	tokPipe   = patternLexer.Symbols()["Pipe"]
	tokColon  = patternLexer.Symbols()["Colon"]
	tokAt     = patternLexer.Symbols()["At"]
)

// lex tokenizes raw, dropping the trailing EOF token.
func lex(raw string) ([]lexer.Token, error) {
	lx, err := patternLexer.LexString("", raw)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lx)
	if err != nil {
		return nil, err
	}
	if n := len(tokens); n > 0 && tokens[n-1].EOF() {
		tokens = tokens[:n-1]
	}
	return tokens, nil
}
