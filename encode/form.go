package encode

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/url"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

type formEncoder struct{}

// URLEncoded returns the application/x-www-form-urlencoded encoder. The
// root must be a map with text keys whose values are scalars or
// sequences of scalars; a sequence repeats its key once per element.
func URLEncoded() Encoder { return formEncoder{} }

func (formEncoder) Format() format.Format { return format.URLEncodedFormat }

func (formEncoder) Encode(node *ir.Node, w io.Writer, _ ...EncodeOption) error {
	if node.Type != ir.ObjectType {
		return encErr(format.URLEncodedFormat, ir.Unsupported, "$", fmt.Sprintf("%s root, want Map", node.Type))
	}
	buf := bytes.NewBuffer(nil)
	for i, key := range node.Fields {
		fieldPath := ir.FieldPath("$", key)
		if key.Type != ir.StringType {
			return encErr(format.URLEncodedFormat, ir.KeyType, fieldPath, fmt.Sprintf("%s map key", key.Type))
		}
		k := url.QueryEscape(key.String)
		val := node.Values[i]
		if val.Type != ir.ArrayType {
			v, err := formScalar(val, fieldPath)
			if err != nil {
				return err
			}
			formPair(buf, k, v)
			continue
		}
		for j, elt := range val.Values {
			v, err := formScalar(elt, ir.IndexPath(fieldPath, j))
			if err != nil {
				return err
			}
			formPair(buf, k, v)
		}
	}
	return flush(buf, w, format.URLEncodedFormat)
}

func formPair(buf *bytes.Buffer, k, v string) {
	if buf.Len() != 0 {
		buf.WriteByte('&')
	}
	buf.WriteString(k)
	buf.WriteByte('=')
	buf.WriteString(url.QueryEscape(v))
}

func formScalar(node *ir.Node, path string) (string, error) {
	switch node.Type {
	case ir.StringType:
		return node.String, nil
	case ir.IntType:
		return node.IntString(), nil
	case ir.FloatType:
		if math.IsNaN(node.Float64) || math.IsInf(node.Float64, 0) {
			return "", encErr(format.URLEncodedFormat, ir.Unsupported, path, fmt.Sprintf("float %v", node.Float64))
		}
		return formatFloat(node.Float64), nil
	case ir.BoolType:
		if node.Bool {
			return "true", nil
		}
		return "false", nil
	default:
		return "", encErr(format.URLEncodedFormat, ir.Unsupported, path, fmt.Sprintf("%s value", node.Type))
	}
}
