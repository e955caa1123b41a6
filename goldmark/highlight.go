package goldmark

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

const codeStyle = "monokai"

// highlight returns one ANSI-colored string per line of code. It returns
// nil when the language is unknown or tokenizing fails, in which case the
// caller prints the code plain.
func highlight(code, lang string) []string {
	if lang == "" {
		return nil
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return nil
	}

	style := chromastyles.Get(codeStyle)
	lines := chroma.SplitTokensIntoLines(it.Tokens())
	out := make([]string, 0, len(lines))
	for _, tokens := range lines {
		var b strings.Builder
		if err := formatters.TTY16.Format(&b, style, chroma.Literator(tokens...)); err != nil {
			return nil
		}
		out = append(out, strings.ReplaceAll(b.String(), "\n", ""))
	}
	return out
}
