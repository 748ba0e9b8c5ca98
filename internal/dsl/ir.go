package dsl

// Program is the fully analysed, ready-to-generate form of a mamegen
// document: merged configuration, a single header, concatenated reference
// tables, and one resolved rule per header position.
type Program struct {
	Config     Config
	Header     []string
	References map[string][][]Value
	Columns    []*ResolvedColumnRule // len(Columns) == len(Header)
}

// Config holds the merged CONFIG block, last-writer-wins per key.
type Config struct {
	Rows            int
	Seed            int64
	HasSeed         bool
	Reproducible    bool
	Type            string // "CSV" | "JSON", output format fallback when the output path's extension is unrecognised
	Encoding        string // output character encoding, default "utf-8"
	WithHeader      bool
	QuoteStrings    bool
	QuoteHeader     bool
}
