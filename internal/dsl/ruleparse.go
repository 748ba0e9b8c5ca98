package dsl

import "strconv"

// parseRuleLine turns one rule-block line (tokens with the trailing newline
// already stripped) into a RuleEntry. It mirrors the dispatch-by-keyword
// shape of the reference implementation's RULE_TABLE: the leading identifier
// names the rule, everything after it is that rule's argument list.
func parseRuleLine(toks []Token) (RuleEntry, error) {
	if len(toks) == 0 {
		return nil, nil
	}
	head := toks[0]
	if head.Kind != KindIdentifier {
		return nil, syntaxErr(head.Line, head.Col, "expected a rule keyword, got %s", head.Kind)
	}
	args := toks[1:]
	switch head.Text {
	case "seq":
		return parseSeq(head, args)
	case "step":
		return parseStep(head, args)
	case "digits":
		return parseDigits(head, args)
	case "charset":
		return parseCharset(head, args)
	case "length":
		return parseLength(head, args)
	case "enum":
		return parseEnum(head, args)
	case "fixed":
		return parseFixed(head, args)
	case "range":
		return parseRange(head, args)
	case "date_range":
		return parseDateRange(head, args, false)
	case "datetime":
		return parseDateRange(head, args, true)
	case "copy":
		return parseCopy(head, args)
	case "join":
		return parseJoin(head, args)
	case "regex":
		return parseRegex(head, args)
	case "reference":
		return parseReference(head, args)
	case "output":
		return parseOutput(head, args)
	case "value_source":
		return parseValueSource(head, args)
	case "allow_null":
		return parseAllowNull(head, args)
	case "null_probability":
		return parseNullProbability(head, args)
	case "class":
		return parseClassRef(head, args)
	default:
		return nil, invalidRuleErr(head.Line, head.Col, "unknown rule keyword %q", head.Text)
	}
}

func expectNoForbiddenSymbols(toks []Token) error {
	for _, t := range toks {
		if t.Kind == KindSymbol {
			return syntaxErr(t.Line, t.Col, "unexpected %q: ':' and '=' are not used in rule arguments", t.Text)
		}
	}
	return nil
}

func parseIntRange(head Token, args []Token) (lo, hi int, err error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return 0, 0, err
	}
	if len(args) != 3 || args[0].Kind != KindInteger || args[1].Kind != KindRangeDots || args[2].Kind != KindInteger {
		return 0, 0, syntaxErr(head.Line, head.Col, "%s expects a closed range START..END, e.g. %s 1..100 (open ranges and multiple rules on one line are not allowed)", head.Text, head.Text)
	}
	lo, errLo := strconv.Atoi(args[0].Text)
	hi2, errHi := strconv.Atoi(args[2].Text)
	if errLo != nil || errHi != nil {
		return 0, 0, invalidRuleErr(head.Line, head.Col, "%s bounds must be integers", head.Text)
	}
	return lo, hi2, nil
}

func parseSeq(head Token, args []Token) (RuleEntry, error) {
	lo, hi, err := parseIntRange(head, args)
	if err != nil {
		return nil, err
	}
	return seqEntry{start: lo, end: hi, step: 1}, nil
}

func parseSingleInt(head Token, args []Token) (int, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return 0, err
	}
	if len(args) != 1 || args[0].Kind != KindInteger {
		return 0, invalidRuleErr(head.Line, head.Col, "%s expects a single integer argument", head.Text)
	}
	n, err := strconv.Atoi(args[0].Text)
	if err != nil {
		return 0, invalidRuleErr(head.Line, head.Col, "%s argument must be an integer", head.Text)
	}
	return n, nil
}

func parseStep(head Token, args []Token) (RuleEntry, error) {
	n, err := parseSingleInt(head, args)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, invalidRuleErr(head.Line, head.Col, "step must not be zero")
	}
	return stepEntry{n: n}, nil
}

func parseDigits(head Token, args []Token) (RuleEntry, error) {
	n, err := parseSingleInt(head, args)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, invalidRuleErr(head.Line, head.Col, "digits must not be negative")
	}
	return digitsEntry{n: n}, nil
}

func parseCharset(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) == 1 && args[0].Kind == KindString {
		return charsetEntry{literal: args[0].Text}, nil
	}
	if len(args) == 1 && args[0].Kind == KindIdentifier {
		return charsetEntry{kind: args[0].Text}, nil
	}
	return nil, invalidRuleErr(head.Line, head.Col, "charset expects a kind name (e.g. lower) or a quoted literal set, one per line")
}

func parseLength(head Token, args []Token) (RuleEntry, error) {
	n, err := parseSingleInt(head, args)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, invalidRuleErr(head.Line, head.Col, "length must be positive")
	}
	return lengthEntry{n: n}, nil
}

func tokenToValue(t Token) (Value, error) {
	switch t.Kind {
	case KindString:
		return StringValue(t.Text), nil
	case KindInteger:
		n, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return Value{}, syntaxErr(t.Line, t.Col, "invalid integer literal %q", t.Text)
		}
		return IntValue(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			return Value{}, syntaxErr(t.Line, t.Col, "invalid float literal %q", t.Text)
		}
		return FloatValue(f), nil
	default:
		return Value{}, syntaxErr(t.Line, t.Col, "expected a literal value, got %s", t.Kind)
	}
}

func parseEnum(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	items := args
	if len(items) >= 2 && items[0].Kind == KindOpenBracket && items[len(items)-1].Kind == KindCloseBracket {
		items = items[1 : len(items)-1]
	}
	var values []Value
	for i, t := range items {
		if t.Kind == KindComma {
			continue
		}
		if i > 0 && items[i-1].Kind != KindComma {
			// tolerate bare whitespace-separated lists too
		}
		v, err := tokenToValue(t)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, invalidRuleErr(head.Line, head.Col, "enum requires at least one value")
	}
	return enumEntry{values: values}, nil
}

func parseFixed(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, invalidRuleErr(head.Line, head.Col, "fixed expects exactly one value")
	}
	v, err := tokenToValue(args[0])
	if err != nil {
		return nil, err
	}
	return fixedEntry{value: v}, nil
}

func parseRange(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 3 || args[1].Kind != KindRangeDots {
		return nil, invalidRuleErr(head.Line, head.Col, "range expects LOW..HIGH")
	}
	lo, err := tokenToValue(args[0])
	if err != nil {
		return nil, err
	}
	hi, err := tokenToValue(args[2])
	if err != nil {
		return nil, err
	}
	isFloat := lo.Kind == VFloat || hi.Kind == VFloat
	if (lo.Kind != VInt && lo.Kind != VFloat) || (hi.Kind != VInt && hi.Kind != VFloat) {
		return nil, invalidRuleErr(head.Line, head.Col, "range bounds must be numeric")
	}
	return rangeEntry{lo: lo, hi: hi, isFloat: isFloat}, nil
}

func parseDateRange(head Token, args []Token, isDatetime bool) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) < 3 || args[0].Kind != KindString || args[1].Kind != KindRangeDots || args[2].Kind != KindString {
		return nil, invalidRuleErr(head.Line, head.Col, "%s expects \"START\"..\"END\"", head.Text)
	}
	format := ""
	if len(args) == 4 && args[3].Kind == KindString {
		format = args[3].Text
	} else if len(args) > 3 {
		return nil, invalidRuleErr(head.Line, head.Col, "%s takes an optional trailing format string", head.Text)
	}
	return dateRangeEntry{start: args[0].Text, end: args[2].Text, format: format, isDatetime: isDatetime}, nil
}

func parseCopy(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, invalidRuleErr(head.Line, head.Col, "copy expects a single column reference")
	}
	switch args[0].Kind {
	case KindString:
		return copyEntry{byLabel: true, column: args[0].Text}, nil
	case KindInteger:
		n, err := strconv.Atoi(args[0].Text)
		if err != nil || n < 1 {
			return nil, invalidRuleErr(head.Line, head.Col, "copy index must be a positive integer")
		}
		return copyEntry{byLabel: false, index: n}, nil
	default:
		return nil, invalidRuleErr(head.Line, head.Col, "copy expects a quoted column label or a 1-based index")
	}
}

func parseJoin(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) < 1 || args[0].Kind != KindString {
		return nil, invalidRuleErr(head.Line, head.Col, "join expects a quoted separator followed by a column list")
	}
	sep := args[0].Text
	rest := args[1:]
	if len(rest) >= 2 && rest[0].Kind == KindOpenBracket && rest[len(rest)-1].Kind == KindCloseBracket {
		rest = rest[1 : len(rest)-1]
	}
	var cols []string
	for _, t := range rest {
		if t.Kind == KindComma {
			continue
		}
		if t.Kind != KindString {
			return nil, invalidRuleErr(head.Line, head.Col, "join column list must name columns by quoted label")
		}
		cols = append(cols, t.Text)
	}
	if len(cols) < 2 {
		return nil, invalidRuleErr(head.Line, head.Col, "join requires at least two columns")
	}
	return joinEntry{sep: sep, columns: cols}, nil
}

func parseRegex(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 || args[0].Kind != KindString {
		return nil, invalidRuleErr(head.Line, head.Col, "regex expects a single quoted pattern")
	}
	return regexEntry{pattern: args[0].Text}, nil
}

func parseReference(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 || args[0].Kind != KindIdentifier {
		return nil, invalidRuleErr(head.Line, head.Col, "reference expects a single table name")
	}
	return referenceEntry{key: args[0].Text}, nil
}

func parseOutput(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 || args[0].Kind != KindIdentifier || (args[0].Text != "label" && args[0].Text != "value") {
		return nil, invalidRuleErr(head.Line, head.Col, "output expects \"label\" or \"value\"")
	}
	return outputEntry{side: args[0].Text}, nil
}

func parseValueSource(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return valueSourceEntry{auto: true}, nil
	}
	if len(args) != 1 || args[0].Kind != KindString {
		return nil, invalidRuleErr(head.Line, head.Col, "value_source takes no argument, or a single quoted column label")
	}
	return valueSourceEntry{auto: false, column: args[0].Text}, nil
}

func parseAllowNull(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 || args[0].Kind != KindIdentifier || (args[0].Text != "true" && args[0].Text != "false") {
		return nil, invalidRuleErr(head.Line, head.Col, "allow_null expects true or false")
	}
	return allowNullEntry{value: args[0].Text == "true"}, nil
}

func parseNullProbability(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 || (args[0].Kind != KindFloat && args[0].Kind != KindInteger) {
		return nil, invalidRuleErr(head.Line, head.Col, "null_probability expects a numeric value between 0 and 1")
	}
	v, err := tokenToValue(args[0])
	if err != nil {
		return nil, err
	}
	p := v.asFloat()
	if p < 0 || p > 1 {
		return nil, invalidRuleErr(head.Line, head.Col, "null_probability must be between 0 and 1")
	}
	return nullProbabilityEntry{p: p}, nil
}

func parseClassRef(head Token, args []Token) (RuleEntry, error) {
	if err := expectNoForbiddenSymbols(args); err != nil {
		return nil, err
	}
	if len(args) != 1 || args[0].Kind != KindIdentifier {
		return nil, invalidRuleErr(head.Line, head.Col, "class expects a single class name")
	}
	return classRefEntry{name: args[0].Text}, nil
}
