package parse

import (
	"math/big"
	"testing"

	"github.com/signadot/xcode/internal/irtest"
	"github.com/signadot/xcode/ir"
)

const tamlDoc = `// config
name: "demo"
count: 18446744073709551616
ratio: 0.5
enabled: true
mode: Fast
shape: Circle(1.5, "red")
tags: ("a",
  "b",)
blob: <hex:00ff>
b64: <base64:AQI=>

# server
host: "localhost"
## tls
cert: "c.pem"

# [users]
name: "ann"

# [users]
name: "bob"

# a.b
` + "`odd key`: -3\n"

func TestTAMLDecode(t *testing.T) {
	two64, _ := new(big.Int).SetString("18446744073709551616", 10)
	want := irtest.Obj(
		"name", "demo",
		"count", two64,
		"ratio", 0.5,
		"enabled", true,
		"mode", "Fast",
		"shape", irtest.Obj("Circle", irtest.Seq(1.5, "red")),
		"tags", irtest.Seq("a", "b"),
		"blob", []byte{0, 0xff},
		"b64", []byte{1, 2},
		"server", irtest.Obj(
			"host", "localhost",
			"tls", irtest.Obj("cert", "c.pem"),
		),
		"users", irtest.Seq(
			irtest.Obj("name", "ann"),
			irtest.Obj("name", "bob"),
		),
		"a", irtest.Obj("b", irtest.Obj("odd key", -3)),
	)
	got, err := TAML().Decode([]byte(tamlDoc))
	if err != nil {
		t.Fatal(err)
	}
	if diff := irtest.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTAMLEmpty(t *testing.T) {
	got, err := TAML().Decode([]byte("// nothing\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := irtest.Diff(irtest.Obj(), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTAMLDiagnostics(t *testing.T) {
	src := "a: 1\na: 2\n### deep\nb: \"open\nc: (1, 2"
	got, err := TAML().Decode([]byte(src))
	if got != nil {
		t.Errorf("partial value returned with error")
	}
	de, ok := err.(*ir.DecodeError)
	if !ok {
		t.Fatalf("error %v is not a DecodeError", err)
	}
	if len(de.Diagnostics) != 4 {
		t.Fatalf("got %d diagnostics, want 4: %v", len(de.Diagnostics), de.Diagnostics)
	}
	for i, line := range []int{2, 3, 4, 5} {
		if got := de.Diagnostics[i].Pos.Line; got != line {
			t.Errorf("diagnostic %d on line %d; want %d: %s", i, got, line, de.Diagnostics[i])
		}
	}
	if de.Kind != ir.Syntax || de.Pos.Line != 2 {
		t.Errorf("first problem %v at %v", de.Kind, de.Pos)
	}
}

func TestTAMLTruncated(t *testing.T) {
	for _, src := range []string{"a: \"open", "a: (1,\n2"} {
		_, err := TAML().Decode([]byte(src))
		if kind, ok := ir.DecodeKind(err); !ok || kind != ir.Truncated {
			t.Errorf("%q: got %v", src, err)
		}
	}
}

func TestTAMLErrors(t *testing.T) {
	tests := []string{
		"a: <rot13:abc>",
		"a: <hex:0>",
		"a 1",
		"# t\n# t",
		"a: 1\n# a.b",
		"a: 1 2",
		"a: \"\\q\"",
		": 1",
	}
	for _, src := range tests {
		if _, err := TAML().Decode([]byte(src)); err == nil {
			t.Errorf("%q decoded without error", src)
		}
	}
}
