package format

import (
	"errors"
	"fmt"
)

type Format int

const (
	CBORFormat Format = iota
	JSONFormat
	TAMLFormat
	URLEncodedFormat
	XMLFormat
	YAMLFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"c":          CBORFormat,
		"cbor":       CBORFormat,
		"j":          JSONFormat,
		"json":       JSONFormat,
		"t":          TAMLFormat,
		"taml":       TAMLFormat,
		"u":          URLEncodedFormat,
		"form":       URLEncodedFormat,
		"urlencoded": URLEncodedFormat,
		"x":          XMLFormat,
		"xml":        XMLFormat,
		"y":          YAMLFormat,
		"yml":        YAMLFormat,
		"yaml":       YAMLFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case CBORFormat:
		return []byte("cbor"), nil
	case JSONFormat:
		return []byte("json"), nil
	case TAMLFormat:
		return []byte("taml"), nil
	case URLEncodedFormat:
		return []byte("urlencoded"), nil
	case XMLFormat:
		return []byte("xml"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsCBOR() bool       { return f == CBORFormat }
func (f Format) IsJSON() bool       { return f == JSONFormat }
func (f Format) IsTAML() bool       { return f == TAMLFormat }
func (f Format) IsURLEncoded() bool { return f == URLEncodedFormat }
func (f Format) IsXML() bool        { return f == XMLFormat }
func (f Format) IsYAML() bool       { return f == YAMLFormat }

// IsBinary reports whether documents in f are not text.
func (f Format) IsBinary() bool { return f == CBORFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case CBORFormat:
		return ".cbor"
	case JSONFormat:
		return ".json"
	case TAMLFormat:
		return ".taml"
	case URLEncodedFormat:
		return ".form"
	case XMLFormat:
		return ".xml"
	case YAMLFormat:
		return ".yaml"
	default:
		return ""
	}
}

// AllFormats returns all known formats in name order.
func AllFormats() []Format {
	return []Format{
		CBORFormat,
		JSONFormat,
		TAMLFormat,
		URLEncodedFormat,
		XMLFormat,
		YAMLFormat,
	}
}
