package parse

import (
	"github.com/signadot/xcode/format"
)

// DefaultMaxDepth bounds the nesting of decoded documents.
const DefaultMaxDepth = 1000

type parseOpts struct {
	format   format.Format
	borrow   bool
	maxDepth int
}

func newParseOpts(opts []ParseOption) *parseOpts {
	pOpts := &parseOpts{format: format.JSONFormat, maxDepth: DefaultMaxDepth}
	for _, f := range opts {
		f(pOpts)
	}
	if pOpts.maxDepth <= 0 {
		pOpts.maxDepth = DefaultMaxDepth
	}
	return pOpts
}

type ParseOption func(*parseOpts)

func ParseCBOR() ParseOption {
	return ParseFormat(format.CBORFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}
func ParseTAML() ParseOption {
	return ParseFormat(format.TAMLFormat)
}
func ParseURLEncoded() ParseOption {
	return ParseFormat(format.URLEncodedFormat)
}
func ParseXML() ParseOption {
	return ParseFormat(format.XMLFormat)
}
func ParseYAML() ParseOption {
	return ParseFormat(format.YAMLFormat)
}
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// Borrow lets decoders which support it return text and bytes payloads
// that reference the input slice. Such results must be passed through
// ir.Detach before the input is reused.
func Borrow(v bool) ParseOption {
	return func(o *parseOpts) { o.borrow = v }
}

// MaxDepth sets the maximum nesting of sequences and maps.
func MaxDepth(n int) ParseOption {
	return func(o *parseOpts) { o.maxDepth = n }
}
