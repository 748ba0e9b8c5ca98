package dsl

// RuleEntry is a single parsed rule-block line: one tagged variant per rule
// form listed in spec.md §3. The flatten step in the analyser applies each
// entry, in document order, onto the ResolvedColumnRule of every column the
// entry's selector covers — last writer wins per rule key.
type RuleEntry interface {
	// Key identifies the merge slot this entry writes. Two entries with the
	// same Key on the same column conflict; the later one (in document
	// order) wins.
	Key() string
	// ApplyTo merges this entry into acc, overwriting whatever previously
	// occupied its Key.
	ApplyTo(acc *ResolvedColumnRule)
}

// SeqConfig describes a seq(start, end) + step(k) + digits(d) column.
type SeqConfig struct {
	Start, End int
	Step       int
	Digits     int // 0 means "no zero-padding"
}

// CharsetConfig describes a charset(kind) + length(n) column.
type CharsetConfig struct {
	Kinds   []string // accumulated charset tokens, e.g. ["lower", "number"]
	Literal string   // non-empty when charset was a literal quoted set instead of a kind
	Length  int
}

type EnumConfig struct{ Values []Value }

type FixedConfig struct{ Value Value }

type RangeConfig struct {
	Lo, Hi  Value
	IsFloat bool
}

type DateRangeConfig struct {
	Start, End string // "YYYY-MM-DD"
	Format     string // optional override, default "YYYY-MM-DD"
	IsDatetime bool
}

type CopyConfig struct {
	ByLabel bool
	Column  string
	Index   int // 1-based, used when !ByLabel
}

type JoinConfig struct {
	Sep     string
	Columns []string
}

type RegexConfig struct{ Pattern string }

type ValueSourceConfig struct {
	Auto   bool   // scan leftward for the nearest output-label column
	Column string // explicit source column name, when !Auto
}

type ReferenceConfig struct {
	Key         string
	Output      string // "label" | "value"
	ValueSource *ValueSourceConfig
}

// ResolvedColumnRule is the winning merged rule-block for one header
// position, after selector flattening and last-writer-wins arbitration.
type ResolvedColumnRule struct {
	Seq             *SeqConfig
	Charset         *CharsetConfig
	Enum            *EnumConfig
	Fixed           *FixedConfig
	Range           *RangeConfig
	DateRange       *DateRangeConfig
	Copy            *CopyConfig
	Join            *JoinConfig
	Regex           *RegexConfig
	Reference       *ReferenceConfig
	AllowNull       bool // default true
	NullProbability float64

	// reverseSourcePos is precomputed by the analyser for auto value_source
	// columns: the header position of the nearest leftward reference column
	// with the same key and output=label. -1 if unresolved at analysis time
	// (the generator then emits empty, or fails when allow_null is false).
	reverseSourcePos int
}

func newResolvedColumnRule() *ResolvedColumnRule {
	return &ResolvedColumnRule{AllowNull: true, reverseSourcePos: -1}
}

// ReverseSourcePos returns the header position the analyser resolved for an
// automatic value_source, or -1 if none was found.
func (r *ResolvedColumnRule) ReverseSourcePos() int { return r.reverseSourcePos }

// --- tagged variants -------------------------------------------------------

type seqEntry struct{ start, end, step int }

func (e seqEntry) Key() string { return "seq" }
func (e seqEntry) ApplyTo(acc *ResolvedColumnRule) {
	digits := 0
	if acc.Seq != nil {
		digits = acc.Seq.Digits
	}
	acc.Seq = &SeqConfig{Start: e.start, End: e.end, Step: e.step, Digits: digits}
}

type digitsEntry struct{ n int }

func (e digitsEntry) Key() string { return "digits" }
func (e digitsEntry) ApplyTo(acc *ResolvedColumnRule) {
	if acc.Seq == nil {
		acc.Seq = &SeqConfig{Start: 1, Step: 1}
	}
	acc.Seq.Digits = e.n
}

type stepEntry struct{ n int }

func (e stepEntry) Key() string { return "step" }
func (e stepEntry) ApplyTo(acc *ResolvedColumnRule) {
	if acc.Seq == nil {
		acc.Seq = &SeqConfig{Start: 1}
	}
	acc.Seq.Step = e.n
}

type charsetEntry struct {
	kind    string
	literal string
}

func (e charsetEntry) Key() string { return "charset" }
func (e charsetEntry) ApplyTo(acc *ResolvedColumnRule) {
	length := 8
	if acc.Charset != nil {
		length = acc.Charset.Length
	}
	if e.literal != "" {
		acc.Charset = &CharsetConfig{Literal: e.literal, Length: length}
		return
	}
	var kinds []string
	if acc.Charset != nil && acc.Charset.Literal == "" {
		kinds = acc.Charset.Kinds
	}
	acc.Charset = &CharsetConfig{Kinds: append(kinds, e.kind), Length: length}
}

type lengthEntry struct{ n int }

func (e lengthEntry) Key() string { return "length" }
func (e lengthEntry) ApplyTo(acc *ResolvedColumnRule) {
	if acc.Charset == nil {
		acc.Charset = &CharsetConfig{Kinds: []string{"alnum"}}
	}
	acc.Charset.Length = e.n
}

type enumEntry struct{ values []Value }

func (e enumEntry) Key() string                      { return "enum" }
func (e enumEntry) ApplyTo(acc *ResolvedColumnRule)   { acc.Enum = &EnumConfig{Values: e.values} }

type fixedEntry struct{ value Value }

func (e fixedEntry) Key() string                    { return "fixed" }
func (e fixedEntry) ApplyTo(acc *ResolvedColumnRule) { acc.Fixed = &FixedConfig{Value: e.value} }

type rangeEntry struct {
	lo, hi  Value
	isFloat bool
}

func (e rangeEntry) Key() string { return "range" }
func (e rangeEntry) ApplyTo(acc *ResolvedColumnRule) {
	acc.Range = &RangeConfig{Lo: e.lo, Hi: e.hi, IsFloat: e.isFloat}
}

type dateRangeEntry struct {
	start, end, format string
	isDatetime         bool
}

func (e dateRangeEntry) Key() string { return "date_range" }
func (e dateRangeEntry) ApplyTo(acc *ResolvedColumnRule) {
	acc.DateRange = &DateRangeConfig{Start: e.start, End: e.end, Format: e.format, IsDatetime: e.isDatetime}
}

type copyEntry struct {
	byLabel bool
	column  string
	index   int
}

func (e copyEntry) Key() string { return "copy" }
func (e copyEntry) ApplyTo(acc *ResolvedColumnRule) {
	acc.Copy = &CopyConfig{ByLabel: e.byLabel, Column: e.column, Index: e.index}
}

type joinEntry struct {
	sep     string
	columns []string
}

func (e joinEntry) Key() string { return "join" }
func (e joinEntry) ApplyTo(acc *ResolvedColumnRule) {
	acc.Join = &JoinConfig{Sep: e.sep, Columns: e.columns}
}

type regexEntry struct{ pattern string }

func (e regexEntry) Key() string                    { return "regex" }
func (e regexEntry) ApplyTo(acc *ResolvedColumnRule) { acc.Regex = &RegexConfig{Pattern: e.pattern} }

type referenceEntry struct{ key string }

func (e referenceEntry) Key() string { return "reference" }
func (e referenceEntry) ApplyTo(acc *ResolvedColumnRule) {
	if acc.Reference == nil {
		acc.Reference = &ReferenceConfig{}
	}
	acc.Reference.Key = e.key
}

type outputEntry struct{ side string }

func (e outputEntry) Key() string { return "output" }
func (e outputEntry) ApplyTo(acc *ResolvedColumnRule) {
	if acc.Reference == nil {
		acc.Reference = &ReferenceConfig{}
	}
	acc.Reference.Output = e.side
}

type valueSourceEntry struct {
	auto   bool
	column string
}

func (e valueSourceEntry) Key() string { return "value_source" }
func (e valueSourceEntry) ApplyTo(acc *ResolvedColumnRule) {
	if acc.Reference == nil {
		acc.Reference = &ReferenceConfig{}
	}
	acc.Reference.ValueSource = &ValueSourceConfig{Auto: e.auto, Column: e.column}
}

type allowNullEntry struct{ value bool }

func (e allowNullEntry) Key() string                    { return "allow_null" }
func (e allowNullEntry) ApplyTo(acc *ResolvedColumnRule) { acc.AllowNull = e.value }

type nullProbabilityEntry struct{ p float64 }

func (e nullProbabilityEntry) Key() string { return "null_probability" }
func (e nullProbabilityEntry) ApplyTo(acc *ResolvedColumnRule) { acc.NullProbability = e.p }

// classRefEntry is expanded away by the analyser before flattening; it never
// reaches ApplyTo in the resolved tree (the analyser splices the referenced
// class's entries in its place).
type classRefEntry struct{ name string }

func (e classRefEntry) Key() string                    { return "class" }
func (e classRefEntry) ApplyTo(acc *ResolvedColumnRule) {}
