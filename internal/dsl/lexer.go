package dsl

import (
	"strings"
)

// Lexer tokenises mamegen DSL source text into a flat token stream.
//
// Whitespace (except newlines) is insignificant. Newlines are preserved as
// tokens because the parser uses them to enforce "one rule per line".
// Comments are not part of the language — a trailing '#' to end of line is
// stripped before tokenisation, mirroring strip_comments in the reference
// implementation.
type Lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

// NewLexer returns a Lexer over src, with '#' comments already stripped.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(stripComments(src)), pos: 0, line: 1, col: 1}
}

// stripComments removes a trailing '#' comment from every line, preserving
// leading whitespace on the line itself (the lexer trims that separately).
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		if idx := strings.IndexByte(ln, '#'); idx >= 0 {
			lines[i] = ln[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

// Tokenize runs the lexer to completion and returns every token including a
// trailing KindEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == KindEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) advance() (rune, bool) {
	r, ok := l.peekRune()
	if !ok {
		return 0, false
	}
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, true
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) next() (Token, error) {
	for {
		r, ok := l.peekRune()
		if !ok {
			return Token{Kind: KindEOF, Line: l.line, Col: l.col}, nil
		}
		if r == '\n' {
			line, col := l.line, l.col
			l.advance()
			return Token{Kind: KindNewline, Text: "\n", Line: line, Col: col}, nil
		}
		if r == ' ' || r == '\t' || r == '\r' {
			l.advance()
			continue
		}
		break
	}

	line, col := l.line, l.col
	r, _ := l.peekRune()

	switch {
	case r == '"' || r == '\'':
		return l.lexString(line, col)
	case r == '{':
		l.advance()
		return Token{Kind: KindOpenBrace, Text: "{", Line: line, Col: col}, nil
	case r == '}':
		l.advance()
		return Token{Kind: KindCloseBrace, Text: "}", Line: line, Col: col}, nil
	case r == '[':
		l.advance()
		return Token{Kind: KindOpenBracket, Text: "[", Line: line, Col: col}, nil
	case r == ']':
		l.advance()
		return Token{Kind: KindCloseBracket, Text: "]", Line: line, Col: col}, nil
	case r == ',':
		l.advance()
		return Token{Kind: KindComma, Text: ",", Line: line, Col: col}, nil
	case r == ':' || r == '=':
		l.advance()
		return Token{Kind: KindSymbol, Text: string(r), Line: line, Col: col}, nil
	case r == '.':
		// ".." is a distinct token; a lone '.' is not part of the grammar
		// outside of numbers, so treat it as the start of a range token.
		l.advance()
		if r2, ok := l.peekRune(); ok && r2 == '.' {
			l.advance()
			return Token{Kind: KindRangeDots, Text: "..", Line: line, Col: col}, nil
		}
		return Token{}, syntaxErr(line, col, "unexpected character '.'")
	case isDigit(r) || r == '-':
		return l.lexNumber(line, col)
	case isIdentStart(r):
		return l.lexIdentifier(line, col)
	default:
		l.advance()
		return Token{}, syntaxErr(line, col, "unexpected character %q", r)
	}
}

func (l *Lexer) lexString(line, col int) (Token, error) {
	quote, _ := l.advance()
	var sb strings.Builder
	for {
		r, ok := l.peekRune()
		if !ok {
			return Token{}, syntaxErr(line, col, "unterminated string literal")
		}
		l.advance()
		if r == quote {
			return Token{Kind: KindString, Text: sb.String(), Line: line, Col: col}, nil
		}
		if r == '\n' {
			return Token{}, syntaxErr(line, col, "unterminated string literal (newline before closing quote)")
		}
		sb.WriteRune(r)
	}
}

func (l *Lexer) lexIdentifier(line, col int) (Token, error) {
	var sb strings.Builder
	for {
		r, ok := l.peekRune()
		if !ok || !isIdentCont(r) {
			break
		}
		sb.WriteRune(r)
		l.advance()
	}
	return Token{Kind: KindIdentifier, Text: sb.String(), Line: line, Col: col}, nil
}

// lexNumber consumes a signed decimal integer or float. A leading '-' is
// only treated as numeric if immediately followed by a digit; a bare '-' is
// otherwise unexpected in this grammar.
func (l *Lexer) lexNumber(line, col int) (Token, error) {
	var sb strings.Builder
	if r, _ := l.peekRune(); r == '-' {
		sb.WriteRune(r)
		l.advance()
		if r2, ok := l.peekRune(); !ok || !isDigit(r2) {
			return Token{}, syntaxErr(line, col, "unexpected character '-'")
		}
	}
	for {
		r, ok := l.peekRune()
		if !ok || !isDigit(r) {
			break
		}
		sb.WriteRune(r)
		l.advance()
	}

	isFloat := false
	// A '.' starts a fractional part only when not followed by another '.'
	// (which would instead be the range-dots token, consumed by the caller
	// on the *next* lex call since we stop before it here).
	if r, ok := l.peekRune(); ok && r == '.' {
		save := l.pos
		saveLine, saveCol := l.line, l.col
		l.advance()
		if r2, ok2 := l.peekRune(); ok2 && r2 == '.' {
			// This is range-dots; rewind so it's lexed as its own token.
			l.pos, l.line, l.col = save, saveLine, saveCol
		} else if ok2 && isDigit(r2) {
			isFloat = true
			sb.WriteRune('.')
			for {
				r3, ok3 := l.peekRune()
				if !ok3 || !isDigit(r3) {
					break
				}
				sb.WriteRune(r3)
				l.advance()
			}
		} else {
			l.pos, l.line, l.col = save, saveLine, saveCol
		}
	}

	kind := KindInteger
	if isFloat {
		kind = KindFloat
	}
	return Token{Kind: kind, Text: sb.String(), Line: line, Col: col}, nil
}
