package bibtex

import "github.com/texls/texls/internal/syntax"

type rawToken struct {
	kind  syntax.Kind
	start int
	text  string
}

// lex splits text into the flat token stream the parser consumes. An
// entry type is an '@' followed by a run of letters; everything between
// entries that isn't one of the structural delimiters is a WORD run.
func lex(text string) []rawToken {
	var tokens []rawToken
	i, n := 0, len(text)
	for i < n {
		c := text[i]
		switch {
		case c == '@':
			start := i
			i++
			for i < n && isLetter(text[i]) {
				i++
			}
			tokens = append(tokens, rawToken{TYPE, start, text[start:i]})
		case c == '{' || c == '(':
			tokens = append(tokens, rawToken{L_DELIM, i, text[i : i+1]})
			i++
		case c == '}' || c == ')':
			tokens = append(tokens, rawToken{R_DELIM, i, text[i : i+1]})
			i++
		case c == ',':
			tokens = append(tokens, rawToken{COMMA, i, ","})
			i++
		case c == '=':
			tokens = append(tokens, rawToken{EQUALITY_SIGN, i, "="})
			i++
		case c == '"':
			tokens = append(tokens, rawToken{QUOTE, i, "\""})
			i++
		case c == '#':
			tokens = append(tokens, rawToken{POUND, i, "#"})
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
	case '@', '{', '}', '(', ')', ',', '=', '"', '#':
		return true
	}
	return isSpace(b)
}
