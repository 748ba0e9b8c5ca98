package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mitumame/mamegen/internal/dsl"
	"github.com/mitumame/mamegen/internal/genrow"
)

func TestWriteJSONShapeAndTypes(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"id", "ratio", "name", "note"}
	rows := []genrow.Row{
		{dsl.IntValue(1), dsl.FloatValue(0.5), dsl.StringValue("Tokyo"), dsl.EmptyValue()},
	}
	if err := WriteJSON(&buf, header, rows); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 record, got %d", len(decoded))
	}
	rec := decoded[0]
	if v, ok := rec["id"].(float64); !ok || v != 1 {
		t.Fatalf("id: got %v", rec["id"])
	}
	if v, ok := rec["ratio"].(float64); !ok || v != 0.5 {
		t.Fatalf("ratio: got %v", rec["ratio"])
	}
	if v, ok := rec["name"].(string); !ok || v != "Tokyo" {
		t.Fatalf("name: got %v", rec["name"])
	}
	if rec["note"] != nil {
		t.Fatalf("note: expected null for an empty cell, got %v", rec["note"])
	}
}

func TestWriteJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"id"}
	rows := []genrow.Row{{dsl.IntValue(1)}}
	if err := WriteJSON(&buf, header, rows); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("  \"id\"")) {
		t.Fatalf("expected 2-space indented output, got:\n%s", buf.String())
	}
}
