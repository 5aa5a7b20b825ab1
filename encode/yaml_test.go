package encode

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/internal/irtest"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/parse"
)

func yamlOut(t *testing.T, v *ir.Node) string {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	if err := YAML().Encode(v, buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestYAMLBlockLayout(t *testing.T) {
	v := irtest.Obj(
		"a", 1,
		"b", irtest.Seq("x", irtest.Obj("c", true, "d", irtest.Seq())),
		"e", irtest.Obj("f", nil),
		"g", irtest.Seq(irtest.Seq(1, 2)),
	)
	want := strings.Join([]string{
		"a: 1",
		"b:",
		"- x",
		"- c: true",
		"  d: []",
		"e:",
		"  f: null",
		"g:",
		"- - 1",
		"  - 2",
		"",
	}, "\n")
	if got := yamlOut(t, v); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestYAMLScalars(t *testing.T) {
	tests := []struct {
		in   *ir.Node
		want string
	}{
		{irtest.V("plain"), "plain\n"},
		{irtest.V("true"), "\"true\"\n"},
		{irtest.V("123"), "\"123\"\n"},
		{irtest.V(""), "\"\"\n"},
		{irtest.V("a: b"), "\"a: b\"\n"},
		{irtest.V("two\nlines"), "\"two\\nlines\"\n"},
		{irtest.V(math.NaN()), ".nan\n"},
		{irtest.V(math.Inf(-1)), "-.inf\n"},
		{irtest.V(2.0), "2.0\n"},
		{irtest.V([]byte{1, 2, 3}), "!!binary AQID\n"},
		{irtest.V([]byte{}), "!!binary \"\"\n"},
		{irtest.Obj(), "{}\n"},
	}
	for _, tt := range tests {
		if got := yamlOut(t, tt.in); got != tt.want {
			t.Errorf("got %q; want %q", got, tt.want)
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	v := irtest.Obj(
		"quoted", irtest.Seq("null", "yes", "-1", "# no", "[x]", "a\tb"),
		"numbers", irtest.Seq(-3, 1.5, math.Inf(1)),
		1, "int key",
		2.5, "float key",
		true, "bool key",
		"bin", []byte("hello"),
		"deep", irtest.Seq(irtest.Obj("a", irtest.Obj("b", irtest.Seq(1)))),
	)
	d := yamlOut(t, v)
	got, err := parse.Parse([]byte(d), parse.ParseYAML())
	if err != nil {
		t.Fatalf("decoding\n%s: %v", d, err)
	}
	if diff := irtest.Diff(v, got); diff != "" {
		t.Errorf("document\n%s(-want +got):\n%s", d, diff)
	}
}

func TestYAMLKeyType(t *testing.T) {
	for _, key := range []*ir.Node{irtest.V([]byte{1}), irtest.Seq(), irtest.Obj()} {
		err := Encode(irtest.Obj(key, 1), bytes.NewBuffer(nil), EncodeFormat(format.YAMLFormat))
		if kind, ok := ir.EncodeKind(err); !ok || kind != ir.KeyType {
			t.Errorf("%s key: got %v; want KeyType", key.Type, err)
		}
	}
}

func TestYAMLIndent(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := YAML().Encode(irtest.Obj("a", irtest.Obj("b", irtest.Seq(1))), buf, Indent(4)); err != nil {
		t.Fatal(err)
	}
	if want := "a:\n    b:\n    -   1\n"; buf.String() != want {
		t.Errorf("got %q; want %q", buf.String(), want)
	}
}
