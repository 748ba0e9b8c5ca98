package output

import (
	"strings"
	"testing"

	"github.com/mitumame/mamegen/internal/dsl"
	"github.com/mitumame/mamegen/internal/genrow"
)

func TestWriteCSVDefaultQuotingOnlyEscapesWhenNeeded(t *testing.T) {
	var buf strings.Builder
	header := []string{"id", "note"}
	rows := []genrow.Row{
		{dsl.IntValue(1), dsl.StringValue("plain")},
		{dsl.IntValue(2), dsl.StringValue("has,comma")},
	}
	if err := WriteCSV(&buf, header, rows, true, false, false); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "id,note" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "1,plain" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if lines[2] != `2,"has,comma"` {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestWriteCSVForceQuoteAllFieldsAndHeader(t *testing.T) {
	var buf strings.Builder
	header := []string{"id", "note"}
	rows := []genrow.Row{
		{dsl.IntValue(1), dsl.StringValue("plain")},
	}
	if err := WriteCSV(&buf, header, rows, true, true, true); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != `"id","note"` {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != `"1","plain"` {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestWriteCSVWithHeaderFalseOmitsHeaderLine(t *testing.T) {
	var buf strings.Builder
	header := []string{"id", "note"}
	rows := []genrow.Row{
		{dsl.IntValue(1), dsl.StringValue("plain")},
	}
	if err := WriteCSV(&buf, header, rows, false, false, false); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one data line with no header, got %d: %q", len(lines), lines)
	}
	if lines[0] != "1,plain" {
		t.Fatalf("unexpected row: %q", lines[0])
	}
}

func TestWriteCSVEmptyCellRendersBlank(t *testing.T) {
	var buf strings.Builder
	header := []string{"id"}
	rows := []genrow.Row{{dsl.EmptyValue()}}
	if err := WriteCSV(&buf, header, rows, true, false, false); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[1] != "" {
		t.Fatalf("expected blank line for empty cell, got %q", lines[1])
	}
}
