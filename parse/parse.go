package parse

import (
	"errors"
	"fmt"
	"io"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

// Decoder turns a complete document into a node.
type Decoder interface {
	Format() format.Format
	Decode(d []byte, opts ...ParseOption) (*ir.Node, error)
}

// StreamDecoder is a Decoder which can also read its input incrementally.
type StreamDecoder interface {
	Decoder
	DecodeReader(r io.Reader, opts ...ParseOption) (*ir.Node, error)
}

// BorrowingDecoder is a Decoder which honors Borrow.
type BorrowingDecoder interface {
	Decoder
	Borrows() bool
}

var ErrNoDecoder = errors.New("no decoder")

// CanBorrow reports whether dec may return borrowed payloads.
func CanBorrow(dec Decoder) bool {
	b, ok := dec.(BorrowingDecoder)
	return ok && b.Borrows()
}

// Decoders returns every built in decoder.
func Decoders() []Decoder {
	return []Decoder{
		CBOR(),
		JSON(),
		TAML(),
		URLEncoded(),
		XML(),
		YAML(),
	}
}

// Parse decodes d in the format selected by opts, JSON by default.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newParseOpts(opts)
	for _, dec := range Decoders() {
		if dec.Format() == pOpts.format {
			return dec.Decode(d, opts...)
		}
	}
	return nil, fmt.Errorf("%w for %s", ErrNoDecoder, pOpts.format)
}

func decodeErr(f format.Format, kind ir.DecodeErrorKind, pos ir.Position, msg string) *ir.DecodeError {
	return &ir.DecodeError{
		Format: f.String(),
		Kind:   kind,
		Pos:    pos,
		Msg:    msg,
	}
}

func tooDeep(f format.Format, pos ir.Position, max int) *ir.DecodeError {
	return decodeErr(f, ir.UnsupportedShape, pos, fmt.Sprintf("nesting deeper than %d", max))
}
