package output

import (
	"encoding/json"
	"io"

	"github.com/mitumame/mamegen/internal/dsl"
	"github.com/mitumame/mamegen/internal/genrow"
)

// WriteJSON writes rows as a JSON array of objects keyed by header, 2-space
// indented, matching write_json's json.dump(..., indent=2).
func WriteJSON(w io.Writer, header []string, rows []genrow.Row) error {
	records := make([]map[string]any, len(rows))
	for i, row := range rows {
		rec := make(map[string]any, len(header))
		for j, name := range header {
			if j >= len(row) || row[j].IsEmpty() {
				rec[name] = nil
				continue
			}
			rec[name] = cellJSONValue(row[j])
		}
		records[i] = rec
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// cellJSONValue renders a cell as its native JSON type: numbers stay
// numbers, everything else is a string, matching the reference generator's
// untyped Python dict values flowing straight into json.dump.
func cellJSONValue(v dsl.Value) any {
	switch v.Kind {
	case dsl.VInt:
		return v.Int
	case dsl.VFloat:
		return v.Float
	default:
		return v.Str
	}
}
