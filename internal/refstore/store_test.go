package refstore

import (
	"math/rand"
	"testing"

	"github.com/mitumame/mamegen/internal/dsl"
)

func sampleRefs() map[string][][]dsl.Value {
	return map[string][][]dsl.Value{
		"pref": {
			{dsl.StringValue("Tokyo"), dsl.IntValue(13)},
			{dsl.StringValue("Osaka"), dsl.IntValue(27)},
			{dsl.StringValue("Aichi"), dsl.IntValue(23)},
		},
		"single_col": {
			{dsl.StringValue("only")},
		},
	}
}

func TestRowByLabel(t *testing.T) {
	s, err := New(sampleRefs())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	row, ok := s.RowByLabel("pref", "Osaka")
	if !ok {
		t.Fatal("expected to find row for label Osaka")
	}
	if row[1].Int != 27 {
		t.Fatalf("got %+v, want value 27", row)
	}
	if _, ok := s.RowByLabel("pref", "ghost"); ok {
		t.Fatal("expected miss for unknown label")
	}
}

func TestRowByValue(t *testing.T) {
	s, err := New(sampleRefs())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	row, ok := s.RowByValue("pref", dsl.IntValue(23))
	if !ok {
		t.Fatal("expected to find row for value 23")
	}
	if row[0].Str != "Aichi" {
		t.Fatalf("got %+v, want Aichi", row)
	}
}

func TestRowByValueMissesOnSingleColumnTable(t *testing.T) {
	s, err := New(sampleRefs())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := s.RowByValue("single_col", dsl.StringValue("only")); ok {
		t.Fatal("expected single-column table to have no value index")
	}
}

func TestPickIndexAndRowAtAgree(t *testing.T) {
	s, err := New(sampleRefs())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	idx, ok := s.PickIndex("pref", rng)
	if !ok {
		t.Fatal("expected PickIndex to find table pref")
	}
	row, ok := s.RowAt("pref", idx)
	if !ok {
		t.Fatalf("expected RowAt(%d) to succeed", idx)
	}
	if row[0].Kind != dsl.VString {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestPickIndexUnknownTableMisses(t *testing.T) {
	s, err := New(sampleRefs())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	if _, ok := s.PickIndex("ghost", rng); ok {
		t.Fatal("expected miss for unknown table")
	}
}
