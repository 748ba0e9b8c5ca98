package dsl

import "testing"

func TestValueStringRendering(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{StringValue("abc"), "abc"},
		{IntValue(42), "42"},
		{FloatValue(3.5), "3.5"},
		{EmptyValue(), ""},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("Value{%+v}.String() = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestValueEqualCrossesIntFloatDivide(t *testing.T) {
	if !IntValue(13).Equal(FloatValue(13.0)) {
		t.Fatal("expected IntValue(13) to equal FloatValue(13.0)")
	}
	if StringValue("13").Equal(IntValue(13)) {
		t.Fatal("a string value should never equal a numeric value")
	}
	if !StringValue("Tokyo").Equal(StringValue("Tokyo")) {
		t.Fatal("expected equal strings to compare equal")
	}
}

func TestValueFloat64OrInt(t *testing.T) {
	if got := IntValue(7).Float64OrInt(); got != 7.0 {
		t.Fatalf("got %v, want 7.0", got)
	}
	if got := FloatValue(2.5).Float64OrInt(); got != 2.5 {
		t.Fatalf("got %v, want 2.5", got)
	}
}
