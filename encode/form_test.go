package encode

import (
	"bytes"
	"testing"

	"github.com/signadot/xcode/internal/irtest"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/parse"
)

func TestFormEncode(t *testing.T) {
	tests := []struct {
		name string
		in   *ir.Node
		want string
	}{
		{"pairs", irtest.Obj("a", "1", "b", "x y&z"), "a=1&b=x+y%26z"},
		{"scalars", irtest.Obj("i", -2, "f", 0.5, "t", true), "i=-2&f=0.5&t=true"},
		{"repeat", irtest.Obj("a", irtest.Seq(1, 2, 3)), "a=1&a=2&a=3"},
		{"empty seq", irtest.Obj("a", irtest.Seq(), "b", ""), "b="},
		{"key escape", irtest.Obj("a b=", "é"), "a+b%3D=%C3%A9"},
		{"empty", irtest.Obj(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			if err := URLEncoded().Encode(tt.in, buf); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q; want %q", got, tt.want)
			}
		})
	}
}

func TestFormCapability(t *testing.T) {
	tests := []struct {
		name string
		in   *ir.Node
		kind ir.EncodeErrorKind
	}{
		{"nested map", irtest.Obj("a", irtest.Obj("b", 1)), ir.Unsupported},
		{"nested seq", irtest.Obj("a", irtest.Seq(irtest.Seq(1))), ir.Unsupported},
		{"root seq", irtest.Seq(1), ir.Unsupported},
		{"null", irtest.Obj("a", nil), ir.Unsupported},
		{"bytes", irtest.Obj("a", []byte{1}), ir.Unsupported},
		{"int key", irtest.Obj(1, "a"), ir.KeyType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			err := URLEncoded().Encode(tt.in, buf)
			if kind, ok := ir.EncodeKind(err); !ok || kind != tt.kind {
				t.Errorf("got %v; want %s", err, tt.kind)
			}
			if buf.Len() != 0 {
				t.Errorf("partial output %q", buf.String())
			}
		})
	}
}

func TestFormSequenceRoundTrip(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := URLEncoded().Encode(irtest.Obj("a", irtest.Seq(1, 2, 3)), buf); err != nil {
		t.Fatal(err)
	}
	got, err := parse.Parse(buf.Bytes(), parse.ParseURLEncoded())
	if err != nil {
		t.Fatal(err)
	}
	// flat values carry no types
	want := irtest.Obj("a", irtest.Seq("1", "2", "3"))
	if diff := irtest.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
