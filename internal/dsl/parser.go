package dsl

import "strconv"

// Parser turns a token stream into a Document: an ordered list of raw,
// unmerged top-level sections. It enforces the surface syntax rules from
// the grammar (one rule per line, no ':'/'=' inside rule arguments, closed
// ranges only) but defers all cross-referential checks — selector
// resolution, reference/class existence — to the analyser.
type Parser struct {
	toks []Token
	pos  int
}

func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

func Parse(src string) (*Document, error) {
	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(toks).ParseDocument()
}

func (p *Parser) peek() Token  { return p.toks[p.pos] }
func (p *Parser) atEnd() bool  { return p.peek().Kind == KindEOF }

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != KindEOF {
		p.pos++
	}
	return t
}

func (p *Parser) skipNewlines() {
	for p.peek().Kind == KindNewline {
		p.advance()
	}
}

func (p *Parser) expect(k Kind) (Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, syntaxErr(t.Line, t.Col, "expected %s, got %s %q", k, t.Kind, t.Text)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(word string) (Token, error) {
	t := p.peek()
	if t.Kind != KindIdentifier || t.Text != word {
		return t, syntaxErr(t.Line, t.Col, "expected %q, got %q", word, t.Text)
	}
	return p.advance(), nil
}

// ParseDocument consumes the whole token stream, returning one Section per
// top-level block encountered.
func (p *Parser) ParseDocument() (*Document, error) {
	doc := &Document{}
	p.skipNewlines()
	for !p.atEnd() {
		t := p.peek()
		if t.Kind != KindIdentifier {
			return nil, syntaxErr(t.Line, t.Col, "expected a top-level keyword (CONFIG, HEADER, REFERENCE, CLASS, COLUMN_RULES), got %s", t.Kind)
		}
		var sec Section
		var err error
		switch t.Text {
		case "CONFIG":
			sec.Config, err = p.parseConfigSection()
		case "HEADER":
			sec.Header, err = p.parseHeaderSection()
		case "REFERENCE":
			sec.Reference, err = p.parseReferenceSection()
		case "CLASS":
			sec.Class, err = p.parseClassSection()
		case "COLUMN_RULES":
			sec.ColumnRules, err = p.parseColumnRulesSection()
		default:
			return nil, syntaxErr(t.Line, t.Col, "unknown top-level keyword %q", t.Text)
		}
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, sec)
		p.skipNewlines()
	}
	return doc, nil
}

// readBraceBody consumes '{' NEWLINE* <lines> '}' and returns the lines as
// token slices (newlines and the enclosing braces stripped, blank lines
// dropped).
func (p *Parser) readBraceBody() ([][]Token, error) {
	if _, err := p.expect(KindOpenBrace); err != nil {
		return nil, err
	}
	p.skipNewlines()
	var lines [][]Token
	for p.peek().Kind != KindCloseBrace {
		if p.atEnd() {
			t := p.peek()
			return nil, syntaxErr(t.Line, t.Col, "unexpected end of input inside block, missing '}'")
		}
		var line []Token
		for p.peek().Kind != KindNewline && p.peek().Kind != KindCloseBrace {
			if p.atEnd() {
				t := p.peek()
				return nil, syntaxErr(t.Line, t.Col, "unexpected end of input inside block, missing '}'")
			}
			line = append(line, p.advance())
		}
		if len(line) > 0 {
			lines = append(lines, line)
		}
		p.skipNewlines()
	}
	if _, err := p.expect(KindCloseBrace); err != nil {
		return nil, err
	}
	return lines, nil
}

func (p *Parser) parseConfigSection() (*RawConfigSection, error) {
	if _, err := p.expectKeyword("CONFIG"); err != nil {
		return nil, err
	}
	lines, err := p.readBraceBody()
	if err != nil {
		return nil, err
	}
	// CONFIG tolerates either one "<key> <value>" pair per line, or several
	// packed onto one line (`type CSV count 2 reproducible true`) — flatten
	// every line into a single token stream and read key/value pairs off it.
	var toks []Token
	for _, line := range lines {
		toks = append(toks, line...)
	}
	if err := expectNoForbiddenSymbols(toks); err != nil {
		return nil, err
	}
	sec := &RawConfigSection{}
	for i := 0; i < len(toks); {
		key := toks[i]
		if key.Kind != KindIdentifier {
			return nil, syntaxErr(key.Line, key.Col, "CONFIG entry must be '<key> <value>'")
		}
		if i+1 >= len(toks) {
			return nil, syntaxErr(key.Line, key.Col, "CONFIG entry %q is missing its value", key.Text)
		}
		valTok := toks[i+1]
		v, err := tokenToValue(valTok)
		if err != nil {
			if valTok.Kind == KindIdentifier {
				// bare identifiers are valid CONFIG values too, e.g. `type CSV`,
				// `true`/`false` — stored as-is, the analyser interprets each key.
				v = StringValue(valTok.Text)
			} else {
				return nil, err
			}
		}
		sec.Entries = append(sec.Entries, ConfigEntry{Key: key.Text, Value: v})
		i += 2
	}
	return sec, nil
}

func (p *Parser) parseHeaderSection() (*RawHeaderSection, error) {
	if _, err := p.expectKeyword("HEADER"); err != nil {
		return nil, err
	}
	lines, err := p.readBraceBody()
	if err != nil {
		return nil, err
	}
	// HEADER tolerates a single bracketed list (`["id", "name"]`) or one
	// quoted name per line — every quoted string in the body becomes a
	// column name, in source order; brackets and commas are punctuation.
	sec := &RawHeaderSection{}
	for _, line := range lines {
		for _, t := range line {
			switch t.Kind {
			case KindString:
				sec.Names = append(sec.Names, t.Text)
			case KindOpenBracket, KindCloseBracket, KindComma:
				// punctuation around a bracketed name list
			default:
				return nil, syntaxErr(t.Line, t.Col, "HEADER entries must be quoted column names")
			}
		}
	}
	return sec, nil
}

func (p *Parser) parseReferenceSection() (*RawReferenceSection, error) {
	if _, err := p.expectKeyword("REFERENCE"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	lines, err := p.readBraceBody()
	if err != nil {
		return nil, err
	}
	sec := &RawReferenceSection{Name: nameTok.Text}
	for _, line := range lines {
		row, err := parseValueRow(line)
		if err != nil {
			return nil, err
		}
		sec.Rows = append(sec.Rows, row)
	}
	return sec, nil
}

func parseValueRow(line []Token) ([]Value, error) {
	items := line
	if len(items) >= 2 && items[0].Kind == KindOpenBracket && items[len(items)-1].Kind == KindCloseBracket {
		items = items[1 : len(items)-1]
	}
	var row []Value
	for _, t := range items {
		if t.Kind == KindComma {
			continue
		}
		v, err := tokenToValue(t)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	if len(row) == 0 {
		t := line[0]
		return nil, syntaxErr(t.Line, t.Col, "reference row must have at least one value")
	}
	return row, nil
}

func (p *Parser) parseClassSection() (*RawClassSection, error) {
	if _, err := p.expectKeyword("CLASS"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	lines, err := p.readBraceBody()
	if err != nil {
		return nil, err
	}
	sec := &RawClassSection{Name: nameTok.Text}
	for _, line := range lines {
		entry, err := parseRuleLine(line)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue
		}
		if _, isClassRef := entry.(classRefEntry); isClassRef {
			t := line[0]
			return nil, invalidRuleErr(t.Line, t.Col, "a CLASS block cannot reference another class")
		}
		sec.Entries = append(sec.Entries, entry)
	}
	return sec, nil
}

// parseColumnRulesSection parses a COLUMN_RULES wrapper: `{ <selector> {
// <rule-lines> } ... }`, one or more nested selector-scoped rule bodies.
func (p *Parser) parseColumnRulesSection() (*RawColumnRulesSection, error) {
	if _, err := p.expectKeyword("COLUMN_RULES"); err != nil {
		return nil, err
	}
	if _, err := p.expect(KindOpenBrace); err != nil {
		return nil, err
	}
	p.skipNewlines()

	sec := &RawColumnRulesSection{}
	for p.peek().Kind != KindCloseBrace {
		if p.atEnd() {
			t := p.peek()
			return nil, syntaxErr(t.Line, t.Col, "unexpected end of input inside COLUMN_RULES, missing '}'")
		}
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		lines, err := p.readBraceBody()
		if err != nil {
			return nil, err
		}
		block := SelectorRuleBlock{Selector: sel}
		for _, line := range lines {
			entry, err := parseRuleLine(line)
			if err != nil {
				return nil, err
			}
			if entry != nil {
				block.Entries = append(block.Entries, entry)
			}
		}
		sec.Blocks = append(sec.Blocks, block)
		p.skipNewlines()
	}
	if _, err := p.expect(KindCloseBrace); err != nil {
		return nil, err
	}
	return sec, nil
}

// parseSelector parses the INDEX/INDICES/LABEL/LABELS phrase that follows
// COLUMN_RULES, stopping before the block's opening '{'.
func (p *Parser) parseSelector() (Selector, error) {
	kw, err := p.expect(KindIdentifier)
	if err != nil {
		return Selector{}, err
	}
	switch kw.Text {
	case "INDEX":
		n, err := p.expect(KindInteger)
		if err != nil {
			return Selector{}, err
		}
		idx, _ := strconv.Atoi(n.Text)
		return Selector{Kind: SelIndex, Index: idx}, nil

	case "INDICES":
		if p.peek().Kind == KindOpenBracket {
			nums, err := p.parseIntList()
			if err != nil {
				return Selector{}, err
			}
			return Selector{Kind: SelIndexList, Indices: nums}, nil
		}
		from, err := p.expect(KindInteger)
		if err != nil {
			return Selector{}, err
		}
		if _, err := p.expect(KindRangeDots); err != nil {
			return Selector{}, err
		}
		to, err := p.expect(KindInteger)
		if err != nil {
			return Selector{}, err
		}
		fromN, _ := strconv.Atoi(from.Text)
		toN, _ := strconv.Atoi(to.Text)
		return Selector{Kind: SelIndexRange, IndexFrom: fromN, IndexTo: toN}, nil

	case "LABEL":
		s, err := p.expect(KindString)
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelLabel, Label: s.Text}, nil

	case "LABELS":
		if p.peek().Kind == KindOpenBracket {
			labels, err := p.parseStringList()
			if err != nil {
				return Selector{}, err
			}
			return Selector{Kind: SelLabelList, Labels: labels}, nil
		}
		from, err := p.expect(KindString)
		if err != nil {
			return Selector{}, err
		}
		if _, err := p.expect(KindRangeDots); err != nil {
			return Selector{}, err
		}
		to, err := p.expect(KindString)
		if err != nil {
			return Selector{}, err
		}
		return Selector{Kind: SelLabelRange, LabelFrom: from.Text, LabelTo: to.Text}, nil

	default:
		return Selector{}, syntaxErr(kw.Line, kw.Col, "expected INDEX, INDICES, LABEL, or LABELS, got %q", kw.Text)
	}
}

func (p *Parser) parseIntList() ([]int, error) {
	if _, err := p.expect(KindOpenBracket); err != nil {
		return nil, err
	}
	var out []int
	for p.peek().Kind != KindCloseBracket {
		t, err := p.expect(KindInteger)
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(t.Text)
		out = append(out, n)
		if p.peek().Kind == KindComma {
			p.advance()
		}
	}
	if _, err := p.expect(KindCloseBracket); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseStringList() ([]string, error) {
	if _, err := p.expect(KindOpenBracket); err != nil {
		return nil, err
	}
	var out []string
	for p.peek().Kind != KindCloseBracket {
		t, err := p.expect(KindString)
		if err != nil {
			return nil, err
		}
		out = append(out, t.Text)
		if p.peek().Kind == KindComma {
			p.advance()
		}
	}
	if _, err := p.expect(KindCloseBracket); err != nil {
		return nil, err
	}
	return out, nil
}
