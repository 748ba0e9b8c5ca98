package dsl

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	KindIdentifier Kind = iota
	KindString
	KindInteger
	KindFloat
	KindSymbol // bare ':' or '='; flagged as forbidden by the parser, not the lexer
	KindNewline
	KindOpenBrace
	KindCloseBrace
	KindOpenBracket
	KindCloseBracket
	KindRangeDots // ".."
	KindComma
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindSymbol:
		return "symbol"
	case KindNewline:
		return "newline"
	case KindOpenBrace:
		return "'{'"
	case KindCloseBrace:
		return "'}'"
	case KindOpenBracket:
		return "'['"
	case KindCloseBracket:
		return "']'"
	case KindRangeDots:
		return "'..'"
	case KindComma:
		return "','"
	case KindEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit with its source position (1-based line/col).
type Token struct {
	Kind Kind
	Text string // raw source text; for strings, the unquoted contents
	Line int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Col)
}
