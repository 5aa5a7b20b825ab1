package encode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

const (
	cborMajorBytes = 2 << 5
	cborMajorText  = 3 << 5
	cborMajorArray = 4 << 5
	cborMajorMap   = 5 << 5

	cborFalse = 0xf4
	cborTrue  = 0xf5
	cborNull  = 0xf6
)

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{
		ShortestFloat: cbor.ShortestFloat16,
		NaNConvert:    cbor.NaNConvertPreserveSignal,
		InfConvert:    cbor.InfConvertFloat16,
		BigIntConvert: cbor.BigIntConvertShortest,
	}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

type cborEncoder struct{}

// CBOR returns the CBOR encoder. Every node is representable: maps keep
// their order and duplicate keys, integers outside 64 bits become bignums
// and floats use the shortest width that preserves the value.
func CBOR() Encoder { return cborEncoder{} }

func (cborEncoder) Format() format.Format { return format.CBORFormat }

func (cborEncoder) Encode(node *ir.Node, w io.Writer, _ ...EncodeOption) error {
	buf := bytes.NewBuffer(nil)
	if err := encodeCBOR(node, buf, "$"); err != nil {
		return err
	}
	return flush(buf, w, format.CBORFormat)
}

// cborHead writes the initial bytes of an item with major type m and
// argument u in the shortest form.
func cborHead(buf *bytes.Buffer, m byte, u uint64) {
	switch {
	case u < 24:
		buf.WriteByte(m | byte(u))
	case u <= 0xff:
		buf.WriteByte(m | 24)
		buf.WriteByte(byte(u))
	case u <= 0xffff:
		buf.WriteByte(m | 25)
		buf.Write(binary.BigEndian.AppendUint16(nil, uint16(u)))
	case u <= 0xffffffff:
		buf.WriteByte(m | 26)
		buf.Write(binary.BigEndian.AppendUint32(nil, uint32(u)))
	default:
		buf.WriteByte(m | 27)
		buf.Write(binary.BigEndian.AppendUint64(nil, u))
	}
}

func encodeCBOR(node *ir.Node, buf *bytes.Buffer, path string) error {
	switch node.Type {
	case ir.ObjectType:
		cborHead(buf, cborMajorMap, uint64(len(node.Fields)))
		for i, k := range node.Fields {
			fieldPath := ir.FieldPath(path, k)
			if err := encodeCBOR(k, buf, fieldPath); err != nil {
				return err
			}
			if err := encodeCBOR(node.Values[i], buf, fieldPath); err != nil {
				return err
			}
		}
		return nil
	case ir.ArrayType:
		cborHead(buf, cborMajorArray, uint64(len(node.Values)))
		for i, v := range node.Values {
			if err := encodeCBOR(v, buf, ir.IndexPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case ir.StringType:
		cborHead(buf, cborMajorText, uint64(len(node.String)))
		buf.WriteString(node.String)
		return nil
	case ir.BytesType:
		cborHead(buf, cborMajorBytes, uint64(len(node.Bytes)))
		buf.Write(node.Bytes)
		return nil
	case ir.BoolType:
		if node.Bool {
			buf.WriteByte(cborTrue)
		} else {
			buf.WriteByte(cborFalse)
		}
		return nil
	case ir.NullType:
		buf.WriteByte(cborNull)
		return nil
	case ir.IntType:
		var v any = node.Int64
		if !node.IsInt64() {
			v = node.Big
		}
		return cborMarshal(buf, v, path)
	case ir.FloatType:
		return cborMarshal(buf, node.Float64, path)
	default:
		return encErr(format.CBORFormat, ir.Unsupported, path, fmt.Sprintf("node type %s", node.Type))
	}
}

func cborMarshal(buf *bytes.Buffer, v any, path string) error {
	d, err := cborEncMode.Marshal(v)
	if err != nil {
		e := encErr(format.CBORFormat, ir.Unsupported, path, "marshaling scalar")
		e.Err = err
		return e
	}
	buf.Write(d)
	return nil
}
