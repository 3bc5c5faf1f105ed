package highlight

import (
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Lexer analyzes source code and generates a stream of tokens.
type Lexer interface {
	Lex(src string) ([]chroma.Token, error)
}

// LexerFor returns a [Lexer] for the named language.
// Names are matched against Chroma's lexer names and aliases,
// e.g. "go", "golang", or "javascript".
//
// Unknown languages get a lexer that treats the source as plain text.
func LexerFor(lang string) Lexer {
	l := lexers.Get(lang)
	if lang == "" || l == nil {
		l = lexers.Fallback
	}
	return &chromaLexer{l: chroma.Coalesce(l)}
}

// chromaLexer builds a [Lexer] from a Chroma lexer.
type chromaLexer struct{ l chroma.Lexer }

// Lex lexically analyzes the given source code using Chroma.
func (cl *chromaLexer) Lex(src string) ([]chroma.Token, error) {
	return chroma.Tokenise(cl.l, nil, src)
}
