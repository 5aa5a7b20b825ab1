package parse

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

type formDecoder struct{}

// URLEncoded returns the application/x-www-form-urlencoded decoder. It
// accepts every input: malformed percent escapes are kept literally.
// Escape free segments are borrowed from the input when Borrow is set.
func URLEncoded() Decoder { return formDecoder{} }

func (formDecoder) Format() format.Format { return format.URLEncodedFormat }
func (formDecoder) Borrows() bool         { return true }

func (formDecoder) Decode(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newParseOpts(opts)
	res := ir.FromKeyVals(nil)
	index := map[string]int{}
	for len(d) != 0 {
		var seg []byte
		seg, d, _ = bytes.Cut(d, []byte{'&'})
		if len(seg) == 0 {
			continue
		}
		k, v, _ := bytes.Cut(seg, []byte{'='})
		key := formText(k, pOpts.borrow)
		val := formText(v, pOpts.borrow)
		i, ok := index[key.String]
		if !ok {
			index[key.String] = len(res.Fields)
			res.Append(key, val)
			continue
		}
		prev := res.Values[i]
		if prev.Type != ir.ArrayType {
			prev = ir.FromSlice([]*ir.Node{prev})
			res.Values[i] = prev
		}
		prev.Values = append(prev.Values, val)
	}
	return res, nil
}

func formText(seg []byte, borrow bool) *ir.Node {
	if bytes.IndexAny(seg, "%+") == -1 {
		if !utf8.Valid(seg) {
			return ir.FromString(strings.ToValidUTF8(string(seg), "\uFFFD"))
		}
		if borrow {
			return ir.FromBorrowedString(seg)
		}
		return ir.FromString(string(seg))
	}
	return ir.FromString(strings.ToValidUTF8(formUnescape(seg), "\uFFFD"))
}

// formUnescape decodes '+' and %XX. Invalid escapes pass through.
func formUnescape(seg []byte) string {
	b := make([]byte, 0, len(seg))
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		switch {
		case c == '+':
			b = append(b, ' ')
		case c == '%' && i+2 < len(seg) && ishex(seg[i+1]) && ishex(seg[i+2]):
			b = append(b, unhex(seg[i+1])<<4|unhex(seg[i+2]))
			i += 2
		default:
			b = append(b, c)
		}
	}
	return string(b)
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
