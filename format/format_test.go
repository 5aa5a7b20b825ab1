package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range AllFormats() {
		got, err := ParseFormat(f.String())
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", f, err)
			continue
		}
		if got != f {
			t.Errorf("ParseFormat(%q) = %v", f, got)
		}
		if f.Suffix() == "" {
			t.Errorf("%v has no suffix", f)
		}
	}
	aliases := map[string]Format{
		"c":    CBORFormat,
		"form": URLEncodedFormat,
		"yml":  YAMLFormat,
	}
	for name, want := range aliases {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("ParseFormat(toml) error = %v; want ErrBadFormat", err)
	}
}

func TestUnmarshalText(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("xml")); err != nil {
		t.Fatal(err)
	}
	if !f.IsXML() {
		t.Errorf("got %v", f)
	}
	if _, err := Format(42).MarshalText(); err == nil {
		t.Errorf("expected error for an unknown format")
	}
}
