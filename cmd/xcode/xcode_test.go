package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/signadot/xcode"
	"github.com/signadot/xcode/internal/irtest"
)

func TestListFormats(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := listFormats(buf, xcode.Default); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if f := strings.Fields(lines[3]); len(f) != 4 || f[0] != "taml" || f[3] != "no" {
		t.Errorf("taml line %q", lines[3])
	}
}

func TestLossyReport(t *testing.T) {
	node := irtest.Obj("a", irtest.Seq(1, 2), "b", "x")
	buf := bytes.NewBuffer(nil)
	if err := lossyReport(buf, node, "json", "urlencoded"); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{"changed $.a[0]: 1 -> \"1\"\n", "changed $.a[1]: 2 -> \"2\"\n", "-    1,\n", "+    \"1\",\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("report lacks %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "$.b") {
		t.Errorf("text value reported as lost:\n%s", got)
	}
}

func TestLossyNoLoss(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := lossyReport(buf, irtest.Obj("a", 1), "json", "cbor"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "cbor carries the document without loss\n" {
		t.Errorf("got %q", got)
	}
}

func TestClassify(t *testing.T) {
	err := xcode.Transcode(strings.NewReader("{"), bytes.NewBuffer(nil), "json", "yaml", false)
	if got := classify(err).Error(); !strings.HasPrefix(got, "bad input: ") {
		t.Errorf("got %q", got)
	}
	if classify(nil) != nil {
		t.Errorf("nil error classified")
	}
}
