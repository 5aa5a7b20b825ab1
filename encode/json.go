package encode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"math"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/token"
)

type jsonEncoder struct{}

// JSON returns the JSON encoder. Map keys must be text, floats must be
// finite and bytes are written as base64 strings.
func JSON() Encoder { return jsonEncoder{} }

func (jsonEncoder) Format() format.Format { return format.JSONFormat }

func (jsonEncoder) Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := newEncState(opts)
	es.format = format.JSONFormat
	buf := bytes.NewBuffer(nil)
	if err := encodeJSON(node, buf, es, "$"); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return flush(buf, w, format.JSONFormat)
}

func encodeJSON(node *ir.Node, w io.Writer, es *EncState, path string) error {
	es.colorType = node.Type
	switch node.Type {
	case ir.ObjectType:
		return encodeJSONObject(node, w, es, path)
	case ir.ArrayType:
		return encodeJSONArray(node, w, es, path)
	case ir.StringType:
		return writeScalar(w, es, ir.StringType, token.Quote(node.String, false))
	case ir.BytesType:
		return writeScalar(w, es, ir.BytesType, `"`+base64.StdEncoding.EncodeToString(node.Bytes)+`"`)
	case ir.IntType:
		return writeScalar(w, es, ir.IntType, node.IntString())
	case ir.FloatType:
		if math.IsNaN(node.Float64) || math.IsInf(node.Float64, 0) {
			return encErr(es.format, ir.Unsupported, path, fmt.Sprintf("float %v", node.Float64))
		}
		return writeScalar(w, es, ir.FloatType, formatFloat(node.Float64))
	case ir.BoolType:
		if node.Bool {
			return writeScalar(w, es, ir.BoolType, "true")
		}
		return writeScalar(w, es, ir.BoolType, "false")
	case ir.NullType:
		return writeScalar(w, es, ir.NullType, "null")
	default:
		return encErr(es.format, ir.Unsupported, path, fmt.Sprintf("node type %s", node.Type))
	}
}

func writeScalar(w io.Writer, es *EncState, t ir.Type, v string) error {
	es.col += len(v)
	return writeString(w, applyValueColor(es, t, v))
}

func writeSep(w io.Writer, es *EncState, t ir.Type, sep string) error {
	es.col += len(sep)
	return writeString(w, applyColor(es, t, SepColor, sep))
}

func encodeJSONObject(node *ir.Node, w io.Writer, es *EncState, path string) error {
	if len(node.Fields) == 0 {
		return writeSep(w, es, ir.ObjectType, "{}")
	}
	if err := writeSep(w, es, ir.ObjectType, "{"); err != nil {
		return err
	}
	es.depth++
	for i, key := range node.Fields {
		fieldPath := ir.FieldPath(path, key)
		if key.Type != ir.StringType {
			return encErr(es.format, ir.KeyType, fieldPath, fmt.Sprintf("%s map key", key.Type))
		}
		if i > 0 {
			if err := writeSep(w, es, ir.ObjectType, ","); err != nil {
				return err
			}
		}
		if es.pretty {
			if err := writeNL(w, es); err != nil {
				return err
			}
		}
		f := token.Quote(key.String, false)
		es.col += len(f)
		if err := writeString(w, applyColor(es, ir.ObjectType, FieldColor, f)); err != nil {
			return err
		}
		sep := ":"
		if es.pretty {
			sep = ": "
		}
		if err := writeSep(w, es, ir.ObjectType, sep); err != nil {
			return err
		}
		if err := encodeJSON(node.Values[i], w, es, fieldPath); err != nil {
			return err
		}
	}
	es.depth--
	if es.pretty {
		if err := writeNL(w, es); err != nil {
			return err
		}
	}
	return writeSep(w, es, ir.ObjectType, "}")
}

func encodeJSONArray(node *ir.Node, w io.Writer, es *EncState, path string) error {
	if len(node.Values) == 0 {
		return writeSep(w, es, ir.ArrayType, "[]")
	}
	if err := writeSep(w, es, ir.ArrayType, "["); err != nil {
		return err
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			if err := writeSep(w, es, ir.ArrayType, ","); err != nil {
				return err
			}
		}
		if es.pretty {
			if err := writeNL(w, es); err != nil {
				return err
			}
		}
		if err := encodeJSON(v, w, es, ir.IndexPath(path, i)); err != nil {
			return err
		}
	}
	es.depth--
	if es.pretty {
		if err := writeNL(w, es); err != nil {
			return err
		}
	}
	return writeSep(w, es, ir.ArrayType, "]")
}
