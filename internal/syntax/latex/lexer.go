package latex

import (
	"unicode"

	"github.com/texls/texls/internal/syntax"
)

type rawToken struct {
	kind  syntax.Kind
	start int
	text  string
}

// lex splits text into the flat token stream the parser consumes. Commands
// are either a backslash followed by one or more letters, or a backslash
// followed by exactly one non-letter character (LaTeX's escaped-symbol
// convention, e.g. "\%" or "\\").
func lex(text string) []rawToken {
	var tokens []rawToken
	i := 0
	n := len(text)
	for i < n {
		c := text[i]
		switch {
		case c == '%':
			start := i
			for i < n && text[i] != '\n' {
				i++
			}
			tokens = append(tokens, rawToken{COMMENT, start, text[start:i]})
		case c == '\\':
			start := i
			i++
			if i < n && isLetter(text[i]) {
				for i < n && isLetter(text[i]) {
					i++
				}
				// absorb a single trailing '*' (starred command variants)
				if i < n && text[i] == '*' {
					i++
				}
			} else if i < n {
				i++
			}
			tokens = append(tokens, rawToken{COMMAND_NAME, start, text[start:i]})
		case c == '{':
			tokens = append(tokens, rawToken{L_BRACE, i, "{"})
			i++
		case c == '}':
			tokens = append(tokens, rawToken{R_BRACE, i, "}"})
			i++
		case c == '[':
			tokens = append(tokens, rawToken{L_BRACKET, i, "["})
			i++
		case c == ']':
			tokens = append(tokens, rawToken{R_BRACKET, i, "]"})
			i++
		case c == '=':
			tokens = append(tokens, rawToken{EQUALITY_SIGN, i, "="})
			i++
		case c == ',':
			tokens = append(tokens, rawToken{COMMA, i, ","})
			i++
		case c == '$':
			tokens = append(tokens, rawToken{DOLLAR, i, "$"})
			i++
		case isSpace(c):
			start := i
			for i < n && isSpace(text[i]) {
				i++
			}
			tokens = append(tokens, rawToken{WHITESPACE, start, text[start:i]})
		default:
			start := i
			for i < n && !isSpecial(text[i]) {
				i++
			}
			if i == start {
				i++
			}
			tokens = append(tokens, rawToken{WORD, start, text[start:i]})
		}
	}
	return tokens
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isSpecial(b byte) bool {
	switch b {
	case '\\', '{', '}', '[', ']', '=', ',', '$', '%':
		return true
	}
	return isSpace(b) || unicode.IsSpace(rune(b))
}
