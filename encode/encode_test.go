package encode

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/internal/irtest"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/parse"
)

type failWriter struct{}

var errDiskFull = errors.New("disk full")

func (failWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestEncodeDispatch(t *testing.T) {
	for _, enc := range Encoders() {
		buf := bytes.NewBuffer(nil)
		if err := Encode(irtest.Obj("a", 1), buf, EncodeFormat(enc.Format())); err != nil {
			t.Errorf("%s: %v", enc.Format(), err)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: no output", enc.Format())
		}
	}
	err := Encode(irtest.Obj(), bytes.NewBuffer(nil), EncodeFormat(format.TAMLFormat))
	if !errors.Is(err, ErrNoEncoder) {
		t.Errorf("taml encode: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	v := irtest.Obj(
		"name", "alice",
		"age", 30,
		"ratio", 0.25,
		"tags", irtest.Seq("x", "y"),
		"nested", irtest.Obj("ok", true, "none", nil),
		"empty", irtest.Seq(),
	)
	for _, f := range []format.Format{format.CBORFormat, format.JSONFormat, format.YAMLFormat} {
		for _, pretty := range []bool{false, true} {
			buf := bytes.NewBuffer(nil)
			if err := Encode(v, buf, EncodeFormat(f), Pretty(pretty)); err != nil {
				t.Fatalf("%s: %v", f, err)
			}
			got, err := parse.Parse(buf.Bytes(), parse.ParseFormat(f))
			if err != nil {
				t.Fatalf("%s: decoding %q: %v", f, buf.String(), err)
			}
			if diff := irtest.Diff(v, got); diff != "" {
				t.Errorf("%s pretty=%v (-want +got):\n%s", f, pretty, diff)
			}
		}
	}
}

func TestNoPartialOutput(t *testing.T) {
	v := irtest.Obj("a", 1, "b", irtest.Seq("x", math.NaN()))
	for _, f := range []format.Format{format.JSONFormat, format.URLEncodedFormat, format.XMLFormat} {
		buf := bytes.NewBuffer(nil)
		err := Encode(v, buf, EncodeFormat(f))
		if kind, ok := ir.EncodeKind(err); !ok || kind != ir.Unsupported {
			t.Errorf("%s: got %v; want Unsupported", f, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: wrote %q before failing", f, buf.String())
		}
	}
}

func TestWriteFailure(t *testing.T) {
	for _, enc := range Encoders() {
		err := enc.Encode(irtest.Obj("a", 1), failWriter{})
		if kind, ok := ir.EncodeKind(err); !ok || kind != ir.IOFailure {
			t.Errorf("%s: got %v; want IOFailure", enc.Format(), err)
		}
		if !errors.Is(err, errDiskFull) {
			t.Errorf("%s: write error not wrapped", enc.Format())
		}
	}
}

func TestEncodeColors(t *testing.T) {
	colors := &Colors{
		Default: func(s string, _ ...any) string { return "<" + s + ">" },
		Map:     map[Colorable]func(string, ...any) string{},
	}
	got := MustString(irtest.Obj("a", 1), EncodeColors(colors))
	if want := `<{><"a"><:><1><}>`; got != want {
		t.Errorf("got %s; want %s", got, want)
	}
	if got := MustString(irtest.Obj("a", 1), EncodeColors(nil)); got != `{"a":1}` {
		t.Errorf("nil colors: %s", got)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{-0.5, "-0.5"},
		{0, "0.0"},
		{1e21, "1.0e+21"},
		{1.5e-7, "1.5e-7"},
		{123456.789, "123456.789"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
