package dsl

import "fmt"

// Analyse merges a Document's sections, expands class references, resolves
// selectors against the header, flattens rule blocks left-to-right with
// last-writer-wins per rule key, and validates every cross-reference. The
// result is ready for the row generator.
func Analyse(doc *Document) (*Program, error) {
	header, err := mergeHeader(doc)
	if err != nil {
		return nil, err
	}
	cfg, err := mergeConfig(doc)
	if err != nil {
		return nil, err
	}
	refs, err := mergeReferences(doc)
	if err != nil {
		return nil, err
	}
	classes, err := mergeClasses(doc)
	if err != nil {
		return nil, err
	}

	columns := make([]*ResolvedColumnRule, len(header))
	for i := range columns {
		columns[i] = newResolvedColumnRule()
	}

	for _, sec := range doc.Sections {
		if sec.ColumnRules == nil {
			continue
		}
		for _, block := range sec.ColumnRules.Blocks {
			positions, err := block.Selector.Resolve(header)
			if err != nil {
				return nil, err
			}
			entries, err := expandClassRefs(block.Entries, classes)
			if err != nil {
				return nil, err
			}
			for _, pos := range positions {
				acc := columns[pos]
				for _, entry := range entries {
					entry.ApplyTo(acc)
				}
			}
		}
	}

	if err := validateColumns(header, refs, columns); err != nil {
		return nil, err
	}
	resolveAutoValueSources(header, columns)

	return &Program{Config: cfg, Header: header, References: refs, Columns: columns}, nil
}

func mergeHeader(doc *Document) ([]string, error) {
	var found *RawHeaderSection
	count := 0
	for _, sec := range doc.Sections {
		if sec.Header == nil {
			continue
		}
		count++
		if found == nil {
			found = sec.Header
		}
	}
	if count == 0 {
		return nil, analyseErr("document", ErrInvalidRule, "missing required HEADER block")
	}
	if count > 1 {
		return nil, analyseErr("document", ErrInvalidRule, "HEADER block may only appear once")
	}
	if len(found.Names) == 0 {
		return nil, analyseErr("HEADER", ErrInvalidRule, "HEADER block must not be empty")
	}
	return found.Names, nil
}

func mergeConfig(doc *Document) (Config, error) {
	raw := map[string]Value{}
	for _, sec := range doc.Sections {
		if sec.Config == nil {
			continue
		}
		for _, e := range sec.Config.Entries {
			raw[e.Key] = e.Value // last writer wins, per key
		}
	}
	// write_csv's own defaults (cli.py) quote every field and every header
	// cell unless told not to; matched here rather than inverted to false.
	cfg := Config{Encoding: "utf-8", WithHeader: true, QuoteStrings: true, QuoteHeader: true, Rows: 100}
	if v, ok := raw["count"]; ok {
		if v.Kind != VInt {
			return cfg, analyseErr("CONFIG", ErrInvalidRule, "count must be an integer")
		}
		cfg.Rows = int(v.Int)
	}
	if v, ok := raw["type"]; ok && v.Kind == VString {
		cfg.Type = v.Str
	}
	if v, ok := raw["seed"]; ok {
		if v.Kind != VInt {
			return cfg, analyseErr("CONFIG", ErrInvalidRule, "seed must be an integer")
		}
		cfg.Seed = v.Int
		cfg.HasSeed = true
	}
	if v, ok := raw["reproducible"]; ok {
		cfg.Reproducible = v.Kind == VString && v.Str == "true"
	}
	if v, ok := raw["output_encoding"]; ok && v.Kind == VString {
		cfg.Encoding = v.Str
	} else if v, ok := raw["encoding"]; ok && v.Kind == VString {
		cfg.Encoding = v.Str
	}
	if v, ok := raw["with_header"]; ok {
		cfg.WithHeader = v.Kind == VString && v.Str == "true"
	}
	if v, ok := raw["quote_strings"]; ok {
		cfg.QuoteStrings = v.Kind == VString && v.Str == "true"
	}
	if v, ok := raw["quote_header"]; ok {
		cfg.QuoteHeader = v.Kind == VString && v.Str == "true"
	}
	return cfg, nil
}

func mergeReferences(doc *Document) (map[string][][]Value, error) {
	refs := map[string][][]Value{}
	width := map[string]int{}
	for _, sec := range doc.Sections {
		if sec.Reference == nil {
			continue
		}
		r := sec.Reference
		for _, row := range r.Rows {
			if w, ok := width[r.Name]; ok && w != len(row) {
				return nil, analyseErr(fmt.Sprintf("REFERENCE %s", r.Name), ErrInvalidRule, "all rows of a reference table must have the same width")
			}
			width[r.Name] = len(row)
		}
		if len(r.Rows) == 0 {
			return nil, analyseErr(fmt.Sprintf("REFERENCE %s", r.Name), ErrEmptyReference, "reference table must not be empty")
		}
		refs[r.Name] = append(refs[r.Name], r.Rows...)
	}
	return refs, nil
}

func mergeClasses(doc *Document) (map[string][]RuleEntry, error) {
	classes := map[string][]RuleEntry{}
	for _, sec := range doc.Sections {
		if sec.Class == nil {
			continue
		}
		if _, exists := classes[sec.Class.Name]; exists {
			return nil, analyseErr(fmt.Sprintf("CLASS %s", sec.Class.Name), ErrDuplicateClass, "class %q is already defined", sec.Class.Name)
		}
		classes[sec.Class.Name] = sec.Class.Entries
	}
	return classes, nil
}

// expandClassRefs splices each referenced class's entries into place, depth
// one only (class bodies may not themselves reference a class, enforced by
// the parser, so a single pass suffices).
func expandClassRefs(entries []RuleEntry, classes map[string][]RuleEntry) ([]RuleEntry, error) {
	var out []RuleEntry
	for _, e := range entries {
		ref, ok := e.(classRefEntry)
		if !ok {
			out = append(out, e)
			continue
		}
		body, ok := classes[ref.name]
		if !ok {
			return nil, analyseErr("class", ErrUnknownColumn, "undefined class %q", ref.name)
		}
		out = append(out, body...)
	}
	return out, nil
}

func validateColumns(header []string, refs map[string][][]Value, columns []*ResolvedColumnRule) error {
	for i, col := range columns {
		path := fmt.Sprintf("column %q", header[i])
		if col.Reference != nil {
			if _, ok := refs[col.Reference.Key]; !ok {
				return analyseErr(path, ErrUnknownReference, "reference(%s) names an undefined reference table", col.Reference.Key)
			}
			if col.Reference.Output == "" {
				return analyseErr(path, ErrMissingOutput, "a reference(...) column requires output(label) or output(value)")
			}
		}
		if col.Copy != nil {
			if err := validateColumnRef(path, header, col.Copy.ByLabel, col.Copy.Column, col.Copy.Index); err != nil {
				return err
			}
		}
		if col.Join != nil {
			for _, c := range col.Join.Columns {
				if err := validateColumnRef(path, header, true, c, 0); err != nil {
					return err
				}
			}
		}
		if col.Reference != nil && col.Reference.ValueSource != nil && !col.Reference.ValueSource.Auto {
			if err := validateColumnRef(path, header, true, col.Reference.ValueSource.Column, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateColumnRef(path string, header []string, byLabel bool, label string, index int) error {
	if byLabel {
		for _, h := range header {
			if h == label {
				return nil
			}
		}
		return analyseErr(path, ErrUnknownColumn, "references undefined column %q", label)
	}
	if index < 1 || index > len(header) {
		return analyseErr(path, ErrUnknownColumn, "column index %d is out of range", index)
	}
	return nil
}

// resolveAutoValueSources precomputes, for every column whose reference has
// an automatic value_source, the header position of the nearest column to
// its left that shares the same reference key and emits output(label).
func resolveAutoValueSources(header []string, columns []*ResolvedColumnRule) {
	for i, col := range columns {
		if col.Reference == nil || col.Reference.ValueSource == nil || !col.Reference.ValueSource.Auto {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			other := columns[j]
			if other.Reference != nil && other.Reference.Key == col.Reference.Key && other.Reference.Output == "label" {
				col.reverseSourcePos = j
				break
			}
		}
	}
}
