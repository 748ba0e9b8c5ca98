// Package genrow turns an analysed mamegen program into generated rows: for
// each record it evaluates every column's resolved rule left to right,
// sharing per-record state (the implicit reference lock) and per-column
// state (sequence cursors) across the whole run the way the reference
// generator's generate_data loop does.
package genrow

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mitumame/mamegen/internal/dsl"
	"github.com/mitumame/mamegen/internal/refstore"
)

// DefaultSeed is used when a program neither sets CONFIG seed nor the CLI
// is given --seed, but reproducible is requested.
const DefaultSeed int64 = 42

// Generator produces rows for one Program, carrying sequence cursors across
// the whole run.
type Generator struct {
	prog    *dsl.Program
	refs    *refstore.Store
	rng     *rand.Rand
	seqCur  map[string]int64
}

// New builds a Generator. seed is used only when the caller wants
// determinism (CONFIG reproducible=true, an explicit CONFIG seed, or
// --seed); with useSeed=false, seed is ignored and the run draws from
// process entropy instead, matching common_generator.py, which only calls
// random.seed(42) under reproducible=true and otherwise leaves Python's
// random module unseeded.
func New(prog *dsl.Program, refs *refstore.Store, seed int64, useSeed bool) *Generator {
	var src rand.Source
	if useSeed {
		src = rand.NewSource(seed)
	} else {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{prog: prog, refs: refs, rng: rand.New(src), seqCur: map[string]int64{}}
}

// Row is one generated record, one cell per header position.
type Row []dsl.Value

// Generate produces prog.Config.Rows records.
func (g *Generator) Generate() ([]Row, error) {
	rows := make([]Row, 0, g.prog.Config.Rows)
	for i := 0; i < g.prog.Config.Rows; i++ {
		row, err := g.generateOne()
		if err != nil {
			return nil, fmt.Errorf("generating row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *Generator) generateOne() (Row, error) {
	row := make(Row, len(g.prog.Header))
	lock := map[string]int{} // reference key -> chosen row index, one per record

	for i, col := range g.prog.Columns {
		name := g.prog.Header[i]
		v, err := g.evalColumn(i, name, col, row, lock)
		if err != nil {
			return nil, err
		}
		if v.IsEmpty() && !col.AllowNull {
			return nil, fmt.Errorf("%w: column %q produced no value and allow_null is false", ErrGeneration, name)
		}
		row[i] = v
	}
	return row, nil
}

func (g *Generator) evalColumn(pos int, name string, col *dsl.ResolvedColumnRule, row Row, lock map[string]int) (dsl.Value, error) {
	if g.shouldEmitNull(col) {
		return dsl.EmptyValue(), nil
	}

	switch {
	case col.Fixed != nil:
		return col.Fixed.Value, nil

	case col.Copy != nil:
		return g.evalCopy(name, col, row)

	case col.Join != nil:
		return g.evalJoin(col, row)

	case col.Reference != nil:
		return g.evalReference(pos, name, col, row, lock)

	case col.Seq != nil:
		return g.evalSeq(name, col), nil

	case col.DateRange != nil:
		return g.evalDateRange(col), nil

	case col.Regex != nil:
		return g.evalRegex(col)

	case col.Range != nil:
		return g.evalRange(col), nil

	case col.Enum != nil:
		return col.Enum.Values[g.rng.Intn(len(col.Enum.Values))], nil

	case col.Charset != nil:
		pool := poolFromCharset(col.Charset)
		return dsl.StringValue(randString(g.rng, col.Charset.Length, pool)), nil

	default:
		return dsl.EmptyValue(), nil
	}
}

func (g *Generator) shouldEmitNull(col *dsl.ResolvedColumnRule) bool {
	if !col.AllowNull {
		return false
	}
	if col.NullProbability <= 0 {
		return false
	}
	return g.rng.Float64() < col.NullProbability
}

func (g *Generator) nullOrErr(col *dsl.ResolvedColumnRule, format string, args ...any) (dsl.Value, error) {
	if col.AllowNull {
		return dsl.EmptyValue(), nil
	}
	return dsl.Value{}, fmt.Errorf("%w: %s", ErrGeneration, fmt.Sprintf(format, args...))
}

func (g *Generator) evalCopy(name string, col *dsl.ResolvedColumnRule, row Row) (dsl.Value, error) {
	pos := col.Copy.Index - 1
	if col.Copy.ByLabel {
		found := -1
		for i, h := range g.prog.Header {
			if h == col.Copy.Column {
				found = i
				break
			}
		}
		if found < 0 {
			return g.nullOrErr(col, "copy source column %q not found for %q", col.Copy.Column, name)
		}
		pos = found
	}
	if pos < 0 || pos >= len(row) {
		return g.nullOrErr(col, "copy index out of range for column %q", name)
	}
	return row[pos], nil
}

func (g *Generator) evalJoin(col *dsl.ResolvedColumnRule, row Row) (dsl.Value, error) {
	var parts []string
	for _, name := range col.Join.Columns {
		pos := -1
		for i, h := range g.prog.Header {
			if h == name {
				pos = i
				break
			}
		}
		if pos < 0 {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, row[pos].String())
	}
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += col.Join.Sep
		}
		joined += p
	}
	return dsl.StringValue(joined), nil
}

func (g *Generator) evalReference(pos int, name string, col *dsl.ResolvedColumnRule, row Row, lock map[string]int) (dsl.Value, error) {
	key := col.Reference.Key
	vs := col.Reference.ValueSource

	if vs != nil {
		var lookup dsl.Value
		if vs.Auto {
			if col.ReverseSourcePos() < 0 {
				return g.nullOrErr(col, "value_source could not find a reference(%s) output(label) column to the left of %q", key, name)
			}
			lookup = row[col.ReverseSourcePos()]
		} else {
			srcPos := -1
			for i, h := range g.prog.Header {
				if h == vs.Column {
					srcPos = i
					break
				}
			}
			if srcPos < 0 {
				return g.nullOrErr(col, "value_source column %q not found for %q", vs.Column, name)
			}
			lookup = row[srcPos]
		}
		if lookup.IsEmpty() || lookup.String() == "" {
			return g.nullOrErr(col, "value_source produced no value for column %q", name)
		}
		// spec.md §4.5: look up by label first, then fall back to value.
		refRow, ok := g.refs.RowByLabel(key, lookup.String())
		if !ok {
			refRow, ok = g.refs.RowByValue(key, lookup)
		}
		if !ok {
			return g.nullOrErr(col, "%q not found by label or value in reference %q", lookup.String(), key)
		}
		return referenceOutput(refRow, col.Reference.Output), nil
	}

	idx, ok := lock[key]
	if !ok {
		picked, found := g.refs.PickIndex(key, g.rng)
		if !found {
			return g.nullOrErr(col, "reference table %q not found or empty", key)
		}
		lock[key] = picked
		idx = picked
	}
	refRow, ok2 := g.refs.RowAt(key, idx)
	if !ok2 {
		return g.nullOrErr(col, "reference table %q not found or empty", key)
	}
	return referenceOutput(refRow, col.Reference.Output), nil
}

func referenceOutput(row []dsl.Value, side string) dsl.Value {
	if side == "label" {
		return row[0]
	}
	if len(row) >= 2 {
		return row[1]
	}
	return row[0]
}

func (g *Generator) evalSeq(name string, col *dsl.ResolvedColumnRule) dsl.Value {
	cur, ok := g.seqCur[name]
	if !ok {
		cur = int64(col.Seq.Start)
	}
	val := cur
	next := cur + int64(col.Seq.Step)
	if col.Seq.Step > 0 && next > int64(col.Seq.End) {
		next = int64(col.Seq.Start)
	} else if col.Seq.Step < 0 && next < int64(col.Seq.End) {
		next = int64(col.Seq.Start)
	}
	g.seqCur[name] = next

	if col.Seq.Digits > 0 {
		return dsl.StringValue(zeroPad(val, col.Seq.Digits))
	}
	return dsl.IntValue(val)
}

func zeroPad(v int64, digits int) string {
	s := fmt.Sprintf("%d", v)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for len(s) < digits {
		s = "0" + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

func (g *Generator) evalDateRange(col *dsl.ResolvedColumnRule) dsl.Value {
	dr := col.DateRange
	start, err1 := parseDateLike(dr.Start)
	end, err2 := parseDateLike(dr.End)
	if err1 != nil || err2 != nil {
		return dsl.EmptyValue()
	}
	format := dr.Format
	if format == "" {
		format = defaultDateFormat(dr.IsDatetime)
	}
	dt := randomDate(g.rng, start, end, dr.IsDatetime)
	return dsl.StringValue(dt.Format(goLayout(format)))
}

func (g *Generator) evalRegex(col *dsl.ResolvedColumnRule) (dsl.Value, error) {
	re, err := compileRegexMini(col.Regex.Pattern)
	if err != nil {
		return dsl.Value{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return dsl.StringValue(re.Generate(g.rng)), nil
}

func (g *Generator) evalRange(col *dsl.ResolvedColumnRule) dsl.Value {
	r := col.Range
	if r.IsFloat {
		lo, hi := r.Lo.Float64OrInt(), r.Hi.Float64OrInt()
		if hi < lo {
			lo, hi = hi, lo
		}
		f := lo + g.rng.Float64()*(hi-lo)
		return dsl.FloatValue(roundTo(f, 6))
	}
	lo, hi := r.Lo.Int, r.Hi.Int
	if r.Lo.Kind == dsl.VFloat {
		lo = int64(r.Lo.Float)
	}
	if r.Hi.Kind == dsl.VFloat {
		hi = int64(r.Hi.Float)
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	n := lo + g.rng.Int63n(hi-lo+1)
	return dsl.IntValue(n)
}
