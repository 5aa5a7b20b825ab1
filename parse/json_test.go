package parse

import (
	"math/big"
	"testing"

	"github.com/signadot/xcode/internal/irtest"
	"github.com/signadot/xcode/ir"
)

func TestJSONDecode(t *testing.T) {
	two64, _ := new(big.Int).SetString("18446744073709551616", 10)
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{"scalars", `[true, null, 1.5, -2, 1e3, 10.0, "s"]`, irtest.Seq(true, nil, 1.5, -2, 1000.0, 10.0, "s")},
		{"order and duplicates", `{"b": 1, "a": {}, "b": 2}`, irtest.Obj("b", 1, "a", irtest.Obj(), "b", 2)},
		{"big integer", `18446744073709551616`, irtest.V(two64)},
		{"negative big", `-18446744073709551616`, irtest.V(new(big.Int).Neg(two64))},
		{"comments", "{\n  // note\n  \"a\": 1 /* x */,\n}", irtest.Obj("a", 1)},
		{"trailing comma", `[1, 2,]`, irtest.Seq(1, 2)},
		{"escapes", `"aé\n"`, irtest.V("aé\n")},
		{"empty array", `[]`, irtest.Seq()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON().Decode([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if diff := irtest.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONNumberKinds(t *testing.T) {
	got, err := Parse([]byte(`[1, 1.0, 1e0]`))
	if err != nil {
		t.Fatal(err)
	}
	want := []ir.Type{ir.IntType, ir.FloatType, ir.FloatType}
	for i, v := range got.Values {
		if v.Type != want[i] {
			t.Errorf("element %d is %s; want %s", i, v.Type, want[i])
		}
	}
}

func TestJSONDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind ir.DecodeErrorKind
		line int
	}{
		{"empty", ``, ir.Truncated, 0},
		{"unclosed object", `{"a": 1`, ir.Truncated, 0},
		{"unclosed array", "[1,\n2", ir.Truncated, 0},
		{"missing colon", `{"a" 1}`, ir.Syntax, 1},
		{"bad value", "[1,\n x]", ir.Syntax, 2},
		{"deep bad value", "{\"a\": [1,\n2,\n3,\n\n  @]}", ir.Syntax, 5},
		{"trailing data", `1 2`, ir.Syntax, 1},
		{"overflow", `1e999`, ir.UnsupportedShape, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON().Decode([]byte(tt.in))
			if err == nil {
				t.Fatalf("expected an error, got %v", got)
			}
			de, ok := err.(*ir.DecodeError)
			if !ok {
				t.Fatalf("error %v is not a DecodeError", err)
			}
			if de.Kind != tt.kind {
				t.Errorf("kind %v; want %v (%v)", de.Kind, tt.kind, err)
			}
			if tt.line != 0 && de.Pos.Line != tt.line {
				t.Errorf("line %d; want %d", de.Pos.Line, tt.line)
			}
			if tt.line != 0 && tt.in[de.Pos.Offset] == ' ' {
				t.Errorf("offset %d points at white space", de.Pos.Offset)
			}
		})
	}
}
