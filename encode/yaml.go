package encode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/token"
)

type yamlEncoder struct{}

// YAML returns the block style YAML encoder.
func YAML() Encoder { return yamlEncoder{} }

func (yamlEncoder) Format() format.Format { return format.YAMLFormat }

func (yamlEncoder) Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := newEncState(opts)
	es.format = format.YAMLFormat
	if es.indent < 2 {
		es.indent = 2
	}
	buf := bytes.NewBuffer(nil)
	ye := &yamlWriter{es: es, w: buf}
	if err := ye.value(node, 0, "", "$"); err != nil {
		return err
	}
	return flush(buf, w, format.YAMLFormat)
}

type yamlWriter struct {
	es *EncState
	w  io.Writer
}

func (y *yamlWriter) write(s string) error {
	return writeString(y.w, s)
}

// value writes node starting at the current line. prefix is written in
// place of the indentation of the first line.
func (y *yamlWriter) value(node *ir.Node, indent int, prefix, path string) error {
	switch {
	case node.Type == ir.ObjectType && len(node.Fields) > 0:
		return y.mapping(node, indent, prefix, path)
	case node.Type == ir.ArrayType && len(node.Values) > 0:
		return y.sequence(node, indent, prefix, path)
	}
	s, err := y.scalar(node, path)
	if err != nil {
		return err
	}
	return y.write(prefix + s + "\n")
}

func (y *yamlWriter) mapping(node *ir.Node, indent int, prefix, path string) error {
	pad := strings.Repeat(" ", indent)
	for i, key := range node.Fields {
		fieldPath := ir.FieldPath(path, key)
		k, err := y.key(key, fieldPath)
		if err != nil {
			return err
		}
		lead := pad
		if i == 0 {
			lead = prefix
		}
		if err := y.write(lead + k + applyColor(y.es, ir.ObjectType, SepColor, ":")); err != nil {
			return err
		}
		v := node.Values[i]
		switch {
		case v.Type == ir.ObjectType && len(v.Fields) > 0:
			if err := y.write("\n"); err != nil {
				return err
			}
			sub := indent + y.es.indent
			err = y.mapping(v, sub, strings.Repeat(" ", sub), fieldPath)
		case v.Type == ir.ArrayType && len(v.Values) > 0:
			if err := y.write("\n"); err != nil {
				return err
			}
			err = y.sequence(v, indent, pad, fieldPath)
		default:
			err = y.value(v, indent, " ", fieldPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (y *yamlWriter) sequence(node *ir.Node, indent int, prefix, path string) error {
	pad := strings.Repeat(" ", indent)
	dash := applyColor(y.es, ir.ArrayType, SepColor, "-") + strings.Repeat(" ", y.es.indent-1)
	for i, v := range node.Values {
		lead := pad
		if i == 0 {
			lead = prefix
		}
		if err := y.value(v, indent+y.es.indent, lead+dash, ir.IndexPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (y *yamlWriter) key(key *ir.Node, path string) (string, error) {
	switch key.Type {
	case ir.StringType:
		return applyColor(y.es, ir.ObjectType, FieldColor, yamlString(key.String)), nil
	case ir.IntType, ir.FloatType, ir.BoolType, ir.NullType:
		s, err := y.plain(key)
		if err != nil {
			return "", err
		}
		return applyColor(y.es, key.Type, FieldColor, s), nil
	default:
		return "", encErr(format.YAMLFormat, ir.KeyType, path, fmt.Sprintf("%s map key", key.Type))
	}
}

func (y *yamlWriter) scalar(node *ir.Node, path string) (string, error) {
	switch node.Type {
	case ir.ObjectType:
		return applyColor(y.es, ir.ObjectType, SepColor, "{}"), nil
	case ir.ArrayType:
		return applyColor(y.es, ir.ArrayType, SepColor, "[]"), nil
	case ir.StringType:
		return applyValueColor(y.es, ir.StringType, yamlString(node.String)), nil
	case ir.BytesType:
		b64 := base64.StdEncoding.EncodeToString(node.Bytes)
		if b64 == "" {
			b64 = `""`
		}
		return applyColor(y.es, ir.BytesType, TagColor, "!!binary") + " " + applyValueColor(y.es, ir.BytesType, b64), nil
	case ir.IntType, ir.FloatType, ir.BoolType, ir.NullType:
		s, err := y.plain(node)
		if err != nil {
			return "", err
		}
		return applyValueColor(y.es, node.Type, s), nil
	default:
		return "", encErr(format.YAMLFormat, ir.Unsupported, path, fmt.Sprintf("node type %s", node.Type))
	}
}

func (y *yamlWriter) plain(node *ir.Node) (string, error) {
	switch node.Type {
	case ir.IntType:
		return node.IntString(), nil
	case ir.FloatType:
		switch f := node.Float64; {
		case math.IsNaN(f):
			return ".nan", nil
		case math.IsInf(f, 1):
			return ".inf", nil
		case math.IsInf(f, -1):
			return "-.inf", nil
		default:
			return formatFloat(f), nil
		}
	case ir.BoolType:
		if node.Bool {
			return "true", nil
		}
		return "false", nil
	default:
		return "null", nil
	}
}

func yamlString(s string) string {
	if token.NeedsQuoteYAML(s) {
		return token.Quote(s, false)
	}
	return s
}
