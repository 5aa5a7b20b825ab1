package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/token"
)

type jsonDecoder struct{}

// JSON returns the JSON decoder. Comments and trailing commas are
// tolerated.
func JSON() Decoder { return jsonDecoder{} }

func (jsonDecoder) Format() format.Format { return format.JSONFormat }

func (jsonDecoder) Decode(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newParseOpts(opts)
	// ToJSON replaces comments and trailing commas with white space, so
	// offsets into data are offsets into d.
	data := jsonc.ToJSON(d)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &jsonParser{dec: dec, pd: token.NewPosDoc(d), n: len(d), maxDepth: pOpts.maxDepth}
	if !json.Valid(data) {
		return nil, p.invalid(data)
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	res, err := p.value(tok, 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		off := int(dec.InputOffset())
		var se *json.SyntaxError
		if errors.As(err, &se) {
			off = int(se.Offset)
		}
		return nil, p.errAt(ir.Syntax, off, "data after top level value")
	}
	return res, nil
}

type jsonParser struct {
	dec      *json.Decoder
	pd       *token.PosDoc
	n        int
	maxDepth int
}

func (p *jsonParser) errAt(kind ir.DecodeErrorKind, off int, msg string) *ir.DecodeError {
	return decodeErr(format.JSONFormat, kind, p.pd.Position(min(off, p.n)), msg)
}

// invalid reports the first syntax error of data. Unlike the offsets of a
// token stream, the offset of a whole-document SyntaxError counts bytes
// from the start of the input, up to and including the offending byte.
func (p *jsonParser) invalid(data []byte) error {
	err := json.Unmarshal(data, new(json.RawMessage))
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return p.errAt(ir.Syntax, 0, "invalid json")
	}
	kind, off := ir.Syntax, max(int(se.Offset)-1, 0)
	if strings.HasPrefix(se.Error(), "unexpected end of JSON input") {
		kind, off = ir.Truncated, p.n
	}
	e := p.errAt(kind, off, se.Error())
	e.Err = err
	return e
}

func (p *jsonParser) next() (json.Token, error) {
	tok, err := p.dec.Token()
	if err == nil {
		return tok, nil
	}
	var se *json.SyntaxError
	switch {
	case errors.As(err, &se):
		e := p.errAt(ir.Syntax, int(se.Offset), se.Error())
		e.Err = err
		return nil, e
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		e := p.errAt(ir.Truncated, p.n, "unexpected end of input")
		e.Err = err
		return nil, e
	default:
		e := p.errAt(ir.Syntax, int(p.dec.InputOffset()), err.Error())
		e.Err = err
		return nil, e
	}
}

// value builds the node which starts with tok.
func (p *jsonParser) value(tok json.Token, depth int) (*ir.Node, error) {
	if depth > p.maxDepth {
		return nil, tooDeep(format.JSONFormat, p.pd.Position(int(p.dec.InputOffset())), p.maxDepth)
	}
	switch v := tok.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(v), nil
	case string:
		return ir.FromString(v), nil
	case json.Number:
		return p.number(v)
	case json.Delim:
		switch v {
		case '[':
			res := ir.FromSlice(nil)
			for p.dec.More() {
				tok, err := p.next()
				if err != nil {
					return nil, err
				}
				elt, err := p.value(tok, depth+1)
				if err != nil {
					return nil, err
				}
				res.Values = append(res.Values, elt)
			}
			if _, err := p.next(); err != nil {
				return nil, err
			}
			return res, nil
		case '{':
			res := ir.FromKeyVals(nil)
			for p.dec.More() {
				tok, err := p.next()
				if err != nil {
					return nil, err
				}
				key, ok := tok.(string)
				if !ok {
					return nil, p.errAt(ir.Syntax, int(p.dec.InputOffset()), "object key is not a string")
				}
				tok, err = p.next()
				if err != nil {
					return nil, err
				}
				val, err := p.value(tok, depth+1)
				if err != nil {
					return nil, err
				}
				res.Append(ir.FromString(key), val)
			}
			if _, err := p.next(); err != nil {
				return nil, err
			}
			return res, nil
		}
	}
	return nil, p.errAt(ir.Syntax, int(p.dec.InputOffset()), fmt.Sprintf("unexpected token %v", tok))
}

// number reads a literal with a fraction or exponent as a float and
// anything else as an integer.
func (p *jsonParser) number(v json.Number) (*ir.Node, error) {
	s := string(v)
	off := int(p.dec.InputOffset()) - len(s)
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		switch {
		case err == nil:
		case errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0):
			return nil, p.errAt(ir.UnsupportedShape, off, fmt.Sprintf("number %s overflows float64", s))
		case errors.Is(err, strconv.ErrRange):
			// underflow rounds to zero
		default:
			return nil, p.errAt(ir.Syntax, off, err.Error())
		}
		return ir.FromFloat(f), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ir.FromInt(i), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, p.errAt(ir.Syntax, off, fmt.Sprintf("malformed integer %s", s))
	}
	return ir.FromBigInt(n), nil
}
