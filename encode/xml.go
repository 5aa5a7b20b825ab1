package encode

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

const (
	xmlAttrPrefix = "@"
	xmlTextKey    = "$text"
	xmlRootName   = "root"
	xmlItemName   = "item"
)

type xmlEncoder struct{}

// XML returns the XML encoder. A map with a single element-named entry
// becomes the root element, anything else is wrapped in a <root> element.
// The element mapping is the inverse of the XML decoder's.
func XML() Encoder { return xmlEncoder{} }

func (xmlEncoder) Format() format.Format { return format.XMLFormat }

func (xmlEncoder) Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := newEncState(opts)
	buf := bytes.NewBuffer(nil)
	xw := &xmlWriter{enc: xml.NewEncoder(buf)}
	if es.pretty {
		xw.enc.Indent("", strings.Repeat(" ", es.indent))
	}
	var err error
	if name, val, ok := xmlRoot(node); ok {
		err = xw.element(name, val, ir.FieldPath("$", node.Fields[0]))
	} else {
		err = xw.element(xmlRootName, node, "$")
	}
	if err != nil {
		return err
	}
	if err := xw.enc.Flush(); err != nil {
		return xw.fail("$", err)
	}
	buf.WriteByte('\n')
	return flush(buf, w, format.XMLFormat)
}

// xmlRoot reports whether node names its own root element.
func xmlRoot(node *ir.Node) (string, *ir.Node, bool) {
	if node.Type != ir.ObjectType || len(node.Fields) != 1 {
		return "", nil, false
	}
	k, v := node.Fields[0], node.Values[0]
	if k.Type != ir.StringType || v.Type == ir.ArrayType || !validXMLName(k.String) {
		return "", nil, false
	}
	return k.String, v, true
}

type xmlWriter struct {
	enc *xml.Encoder
}

func (x *xmlWriter) fail(path string, err error) error {
	e := encErr(format.XMLFormat, ir.Unsupported, path, "writing element")
	e.Err = err
	return e
}

func (x *xmlWriter) token(t xml.Token, path string) error {
	if err := x.enc.EncodeToken(t); err != nil {
		return x.fail(path, err)
	}
	return nil
}

// members writes one element per entry of a map value, repeating the
// element for each item of a sequence.
func (x *xmlWriter) members(name string, val *ir.Node, path string) error {
	if val.Type != ir.ArrayType {
		return x.element(name, val, path)
	}
	for i, item := range val.Values {
		if err := x.element(name, item, ir.IndexPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (x *xmlWriter) element(name string, val *ir.Node, path string) error {
	if !validXMLName(name) {
		return encErr(format.XMLFormat, ir.InvalidName, path, fmt.Sprintf("element name %q", name))
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if val.Type == ir.ObjectType {
		for i, k := range val.Fields {
			fieldPath := ir.FieldPath(path, k)
			if k.Type != ir.StringType {
				return encErr(format.XMLFormat, ir.KeyType, fieldPath, fmt.Sprintf("%s map key", k.Type))
			}
			attr, ok := strings.CutPrefix(k.String, xmlAttrPrefix)
			if !ok {
				continue
			}
			if !validXMLName(attr) {
				return encErr(format.XMLFormat, ir.InvalidName, fieldPath, fmt.Sprintf("attribute name %q", attr))
			}
			v := val.Values[i]
			if !v.Type.IsScalar() {
				return encErr(format.XMLFormat, ir.Unsupported, fieldPath, fmt.Sprintf("%s attribute value", v.Type))
			}
			s, err := xmlText(v, fieldPath)
			if err != nil {
				return err
			}
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attr}, Value: s})
		}
	}
	if err := x.token(start, path); err != nil {
		return err
	}
	switch val.Type {
	case ir.ObjectType:
		for i, k := range val.Fields {
			fieldPath := ir.FieldPath(path, k)
			v := val.Values[i]
			switch {
			case strings.HasPrefix(k.String, xmlAttrPrefix):
			case k.String == xmlTextKey:
				if err := x.chars(v, fieldPath); err != nil {
					return err
				}
			default:
				if err := x.members(k.String, v, fieldPath); err != nil {
					return err
				}
			}
		}
	case ir.ArrayType:
		for i, item := range val.Values {
			if err := x.element(xmlItemName, item, ir.IndexPath(path, i)); err != nil {
				return err
			}
		}
	case ir.NullType:
	default:
		s, err := xmlText(val, path)
		if err != nil {
			return err
		}
		if err := x.token(xml.CharData(s), path); err != nil {
			return err
		}
	}
	return x.token(start.End(), path)
}

// chars writes the character data runs stored under the text key.
func (x *xmlWriter) chars(v *ir.Node, path string) error {
	runs := []*ir.Node{v}
	if v.Type == ir.ArrayType {
		runs = v.Values
	}
	for i, run := range runs {
		p := path
		if v.Type == ir.ArrayType {
			p = ir.IndexPath(path, i)
		}
		if !run.Type.IsScalar() {
			return encErr(format.XMLFormat, ir.Unsupported, p, fmt.Sprintf("%s character data", run.Type))
		}
		s, err := xmlText(run, p)
		if err != nil {
			return err
		}
		if i > 0 {
			s = " " + s
		}
		if err := x.token(xml.CharData(s), p); err != nil {
			return err
		}
	}
	return nil
}

func xmlText(node *ir.Node, path string) (string, error) {
	var s string
	switch node.Type {
	case ir.StringType:
		s = node.String
	case ir.BytesType:
		return base64.StdEncoding.EncodeToString(node.Bytes), nil
	case ir.IntType:
		return node.IntString(), nil
	case ir.FloatType:
		if math.IsNaN(node.Float64) || math.IsInf(node.Float64, 0) {
			return "", encErr(format.XMLFormat, ir.Unsupported, path, fmt.Sprintf("float %v", node.Float64))
		}
		return formatFloat(node.Float64), nil
	case ir.BoolType:
		if node.Bool {
			return "true", nil
		}
		return "false", nil
	default:
		return "", encErr(format.XMLFormat, ir.Unsupported, path, fmt.Sprintf("%s as text", node.Type))
	}
	if !utf8.ValidString(s) {
		return "", encErr(format.XMLFormat, ir.Unsupported, path, "invalid UTF-8 in text")
	}
	for _, r := range s {
		if !xmlChar(r) {
			return "", encErr(format.XMLFormat, ir.Unsupported, path, fmt.Sprintf("character %U not allowed in XML", r))
		}
	}
	return s, nil
}

// xmlChar reports whether r is in the XML 1.0 Char production.
func xmlChar(r rune) bool {
	switch {
	case r == 0x09, r == 0x0a, r == 0x0d:
		return true
	case r >= 0x20 && r <= 0xd7ff:
		return true
	case r >= 0xe000 && r <= 0xfffd:
		return true
	case r >= 0x10000 && r <= 0x10ffff:
		return true
	}
	return false
}

func validXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.' || r == ':'):
		default:
			return false
		}
	}
	return true
}
