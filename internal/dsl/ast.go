package dsl

// Document is the parser's output: an ordered list of raw, unmerged top-level
// sections, in the order they appeared in source. The analyser is
// responsible for merging repeated sections, expanding classes, resolving
// selectors, and flattening rule blocks into a Program.
type Document struct {
	Sections []Section
}

// Section is a tagged variant over the five top-level block kinds. Exactly
// one of the pointer fields is non-nil.
type Section struct {
	Config      *RawConfigSection
	Header      *RawHeaderSection
	Reference   *RawReferenceSection
	Class       *RawClassSection
	ColumnRules *RawColumnRulesSection
}

// RawConfigSection holds one CONFIG block's key/value entries, in source
// order. Repeated CONFIG blocks are merged last-writer-wins per key by the
// analyser.
type RawConfigSection struct {
	Entries []ConfigEntry
}

type ConfigEntry struct {
	Key   string
	Value Value
}

// RawHeaderSection holds one HEADER block's column name list.
type RawHeaderSection struct {
	Names []string
}

// RawReferenceSection holds one REFERENCE <name> { ... } block: a table name
// and its row matrix, each row a fixed-width slice of Values in column
// order. Repeated REFERENCE blocks with the same name are concatenated by
// the analyser, not overwritten.
type RawReferenceSection struct {
	Name string
	Rows [][]Value
}

// RawClassSection holds one CLASS <name> { ... } block: a named, reusable
// rule-entry list. A class may not reference another class (depth-1 only).
type RawClassSection struct {
	Name    string
	Entries []RuleEntry
}

// RawColumnRulesSection holds one COLUMN_RULES block. The block is a
// wrapper: it contains one or more nested selector-scoped rule bodies
// (`INDEX 1 { ... }`, `LABEL "x" { ... }`, ...), each applied independently
// during flattening.
type RawColumnRulesSection struct {
	Blocks []SelectorRuleBlock
}

// SelectorRuleBlock is one `<selector> { <rule-entry>* }` nested inside a
// COLUMN_RULES section. Entries may include classRefEntry placeholders,
// expanded by the analyser.
type SelectorRuleBlock struct {
	Selector Selector
	Entries  []RuleEntry
}
