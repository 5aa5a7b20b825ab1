package libdiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xcode/internal/irtest"
)

func TestDiff(t *testing.T) {
	from := irtest.Obj(
		"a", 1,
		"b", irtest.Seq("x", "y", "z"),
		"c", irtest.Obj("d", true),
		1, "int key",
	)
	to := irtest.Obj(
		"a", "1",
		"b", irtest.Seq("x", "y"),
		"c", irtest.Obj("d", true),
		"e", nil,
	)
	type change struct {
		Path string
		Kind ChangeKind
	}
	var got []change
	for _, c := range Diff(from, to) {
		got = append(got, change{c.Path, c.Kind})
	}
	want := []change{
		{"$.a", Changed},
		{"$.b[2]", Removed},
		{"$[1]", Removed},
		{"$.e", Added},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDiffEqual(t *testing.T) {
	v := irtest.Obj("a", irtest.Seq(1.5, []byte{1}), "a", nil)
	if got := Diff(v, v.Clone()); len(got) != 0 {
		t.Errorf("equal trees differ: %v", got)
	}
}

func TestLines(t *testing.T) {
	got := Lines("a: 1\nb: 2\nc: 3\n", "a: 1\nb: \"2\"\nc: 3\n")
	want := " a: 1\n-b: 2\n+b: \"2\"\n c: 3\n"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
