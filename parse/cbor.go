package parse

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/x448/float16"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

const (
	cborBreak = 0xff

	tagPosBignum  = 2
	tagNegBignum  = 3
	tagShareable  = 28
	tagSharedRef  = 29
	cborIndefLen  = 31
	cborSimpleMax = 23
)

type cborDecoder struct{}

// CBOR returns the RFC 8949 decoder. Definite length text and byte strings
// are borrowed from the input when Borrow is set.
func CBOR() Decoder { return cborDecoder{} }

func (cborDecoder) Format() format.Format { return format.CBORFormat }
func (cborDecoder) Borrows() bool         { return true }

func (cborDecoder) Decode(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newParseOpts(opts)
	dm, err := cbor.DecOptions{
		MaxNestedLevels:  min(max(pOpts.maxDepth, 4), 65535),
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
		IndefLength:      cbor.IndefLengthAllowed,
		UTF8:             cbor.UTF8RejectInvalid,
	}.DecMode()
	if err != nil {
		return nil, err
	}
	if err := dm.Wellformed(d); err != nil {
		return nil, cborWellformedErr(d, err)
	}
	w := &cborWalker{d: d, borrow: pOpts.borrow, maxDepth: pOpts.maxDepth}
	return w.item(0)
}

func cborWellformedErr(d []byte, err error) *ir.DecodeError {
	var (
		nested *cbor.MaxNestedLevelError
		extra  *cbor.ExtraneousDataError
	)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		e := decodeErr(format.CBORFormat, ir.Truncated, ir.Position{Offset: len(d)}, "unexpected end of input")
		e.Err = err
		return e
	case errors.As(err, &nested):
		e := decodeErr(format.CBORFormat, ir.UnsupportedShape, ir.Position{}, nested.Error())
		e.Err = err
		return e
	case errors.As(err, &extra):
		e := decodeErr(format.CBORFormat, ir.Syntax, ir.Position{}, extra.Error())
		e.Err = err
		return e
	default:
		e := decodeErr(format.CBORFormat, ir.Syntax, ir.Position{}, err.Error())
		e.Err = err
		return e
	}
}

// cborWalker builds nodes from well formed input.
type cborWalker struct {
	d        []byte
	off      int
	borrow   bool
	maxDepth int
}

func (w *cborWalker) shapeErr(off int, msg string) *ir.DecodeError {
	return decodeErr(format.CBORFormat, ir.UnsupportedShape, ir.Position{Offset: off}, msg)
}

// head reads an initial byte and its argument.
func (w *cborWalker) head() (major byte, ai byte, arg uint64) {
	b := w.d[w.off]
	w.off++
	major, ai = b>>5, b&0x1f
	switch {
	case ai < 24:
		arg = uint64(ai)
	case ai == 24:
		arg = uint64(w.d[w.off])
		w.off++
	case ai == 25:
		arg = uint64(binary.BigEndian.Uint16(w.d[w.off:]))
		w.off += 2
	case ai == 26:
		arg = uint64(binary.BigEndian.Uint32(w.d[w.off:]))
		w.off += 4
	case ai == 27:
		arg = binary.BigEndian.Uint64(w.d[w.off:])
		w.off += 8
	}
	return
}

func (w *cborWalker) atBreak() bool {
	if w.d[w.off] == cborBreak {
		w.off++
		return true
	}
	return false
}

func (w *cborWalker) item(depth int) (*ir.Node, error) {
	if depth > w.maxDepth {
		return nil, tooDeep(format.CBORFormat, ir.Position{Offset: w.off}, w.maxDepth)
	}
	start := w.off
	major, ai, arg := w.head()
	switch major {
	case 0:
		return ir.FromUint(arg), nil
	case 1:
		return negInt(arg), nil
	case 2, 3:
		if ai == cborIndefLen {
			return w.indefString(major)
		}
		p := w.d[w.off : w.off+int(arg)]
		w.off += int(arg)
		if major == 3 && !utf8.Valid(p) {
			return nil, decodeErr(format.CBORFormat, ir.Syntax, ir.Position{Offset: start}, "invalid utf8 in text string")
		}
		return w.str(major, p), nil
	case 4:
		res := &ir.Node{Type: ir.ArrayType}
		if ai == cborIndefLen {
			res.Values = []*ir.Node{}
			for !w.atBreak() {
				v, err := w.item(depth + 1)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, v)
			}
			return res, nil
		}
		// each element takes at least one byte
		res.Values = make([]*ir.Node, 0, min(arg, uint64(len(w.d)-w.off)))
		for range arg {
			v, err := w.item(depth + 1)
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, v)
		}
		return res, nil
	case 5:
		res := &ir.Node{Type: ir.ObjectType, Fields: []*ir.Node{}, Values: []*ir.Node{}}
		if ai != cborIndefLen {
			n := min(arg, uint64(len(w.d)-w.off)/2)
			res.Fields = make([]*ir.Node, 0, n)
			res.Values = make([]*ir.Node, 0, n)
		}
		for i := uint64(0); ai == cborIndefLen || i < arg; i++ {
			if ai == cborIndefLen && w.atBreak() {
				break
			}
			k, err := w.item(depth + 1)
			if err != nil {
				return nil, err
			}
			v, err := w.item(depth + 1)
			if err != nil {
				return nil, err
			}
			res.Append(k, v)
		}
		return res, nil
	case 6:
		return w.tag(start, arg, depth)
	default:
		return w.simple(start, ai, arg)
	}
}

func negInt(arg uint64) *ir.Node {
	if arg <= math.MaxInt64 {
		return ir.FromInt(-1 - int64(arg))
	}
	n := new(big.Int).SetUint64(arg)
	n.Add(n, big.NewInt(1))
	return ir.FromBigInt(n.Neg(n))
}

func (w *cborWalker) str(major byte, p []byte) *ir.Node {
	switch {
	case major == 2 && w.borrow:
		return ir.FromBorrowedBytes(p)
	case major == 2:
		return ir.FromBytes(append([]byte(nil), p...))
	case w.borrow:
		return ir.FromBorrowedString(p)
	default:
		return ir.FromString(string(p))
	}
}

// indefString concatenates the chunks of an indefinite length string.
// Each text chunk must be valid UTF-8 on its own.
func (w *cborWalker) indefString(major byte) (*ir.Node, error) {
	var buf []byte
	for !w.atBreak() {
		chunk := w.off
		_, _, n := w.head()
		p := w.d[w.off : w.off+int(n)]
		if major == 3 && !utf8.Valid(p) {
			return nil, decodeErr(format.CBORFormat, ir.Syntax, ir.Position{Offset: chunk}, "invalid utf8 in text string chunk")
		}
		buf = append(buf, p...)
		w.off += int(n)
	}
	if major == 2 {
		return ir.FromBytes(buf), nil
	}
	return ir.FromString(string(buf)), nil
}

func (w *cborWalker) tag(start int, num uint64, depth int) (*ir.Node, error) {
	switch num {
	case tagPosBignum, tagNegBignum:
		content, err := w.item(depth + 1)
		if err != nil {
			return nil, err
		}
		if content.Type != ir.BytesType {
			return nil, w.shapeErr(start, fmt.Sprintf("bignum tag %d content is %s", num, content.Type))
		}
		n := new(big.Int).SetBytes(content.Bytes)
		if num == tagNegBignum {
			n.Add(n, big.NewInt(1))
			n.Neg(n)
		}
		return ir.FromBigInt(n), nil
	case tagSharedRef:
		return nil, w.shapeErr(start, "shared references are not supported")
	case tagShareable:
		return w.item(depth + 1)
	default:
		// the tag number is dropped
		return w.item(depth + 1)
	}
}

func (w *cborWalker) simple(start int, ai byte, arg uint64) (*ir.Node, error) {
	switch ai {
	case 20:
		return ir.FromBool(false), nil
	case 21:
		return ir.FromBool(true), nil
	case 22, 23:
		return ir.Null(), nil
	case 25:
		return ir.FromFloat(float64(float16.Frombits(uint16(arg)).Float32())), nil
	case 26:
		return ir.FromFloat(float64(math.Float32frombits(uint32(arg)))), nil
	case 27:
		return ir.FromFloat(math.Float64frombits(arg)), nil
	default:
		if ai < cborSimpleMax || ai == 24 {
			return nil, w.shapeErr(start, fmt.Sprintf("simple value %d", arg))
		}
		return nil, w.shapeErr(start, fmt.Sprintf("reserved additional information %d", ai))
	}
}
