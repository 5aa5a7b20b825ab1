package xcode

import (
	"bytes"
	"io"
	"sync"

	"github.com/signadot/xcode/debug"
	"github.com/signadot/xcode/encode"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/parse"

	"go.uber.org/zap"
)

// maxPooledBuffer bounds the capacity of input buffers returned to the
// pool.
const maxPooledBuffer = 16 << 20

var bufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 64<<10))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	bufPool.Put(buf)
}

// Decode reads a document in the format called name from src. Decoders
// which can borrow decode in place from a pooled buffer; the result is
// detached before the buffer is released, so it is always owned.
func (r *Registry) Decode(name string, src io.Reader, opts ...parse.ParseOption) (*ir.Node, error) {
	dec, err := r.Decoder(name)
	if err != nil {
		return nil, err
	}
	return decode(dec, src, opts)
}

func decode(dec parse.Decoder, src io.Reader, opts []parse.ParseOption) (*ir.Node, error) {
	if sd, ok := dec.(parse.StreamDecoder); ok && !parse.CanBorrow(dec) {
		node, err := sd.DecodeReader(src, opts...)
		if err != nil {
			return nil, stageErr(StageDecode, err)
		}
		logDecode(dec, -1, false, node)
		return node, nil
	}
	buf := getBuffer()
	defer putBuffer(buf)
	n, err := buf.ReadFrom(src)
	if err != nil {
		return nil, stageErr(StageRead, err)
	}
	borrow := parse.CanBorrow(dec)
	node, err := dec.Decode(buf.Bytes(), append(opts[:len(opts):len(opts)], parse.Borrow(borrow))...)
	if err != nil {
		return nil, stageErr(StageDecode, err)
	}
	logDecode(dec, int(n), borrow, node)
	if borrow {
		owned := ir.IsOwned(node)
		node = ir.Detach(node)
		if debug.Detach() {
			debug.Logger().Debug("detached",
				zap.Stringer("format", dec.Format()),
				zap.Bool("copied", !owned))
		}
	}
	return node, nil
}

func logDecode(dec parse.Decoder, n int, borrow bool, node *ir.Node) {
	if !debug.Decode() {
		return
	}
	debug.Logger().Debug("decoded",
		zap.Stringer("format", dec.Format()),
		zap.Int("bytes", n),
		zap.Bool("borrow", borrow),
		zap.Stringer("node", debug.Node{Node: node}))
}

// Encode writes node to w in the format called name. Nothing is written
// when encoding fails.
func (r *Registry) Encode(name string, node *ir.Node, pretty bool, w io.Writer, opts ...encode.EncodeOption) error {
	enc, err := r.Encoder(name)
	if err != nil {
		return err
	}
	return encodeTo(enc, node, pretty, w, opts)
}

func encodeTo(enc encode.Encoder, node *ir.Node, pretty bool, w io.Writer, opts []encode.EncodeOption) error {
	opts = append([]encode.EncodeOption{encode.Pretty(pretty)}, opts...)
	err := enc.Encode(node, w, opts...)
	if debug.Encode() {
		debug.Logger().Debug("encoded",
			zap.Stringer("format", enc.Format()),
			zap.Bool("pretty", pretty),
			zap.Error(err))
	}
	return stageErr(StageEncode, err)
}

// Transcode decodes a document in format in from src and encodes it in
// format out to w. Both formats are resolved before src is read.
func (r *Registry) Transcode(src io.Reader, w io.Writer, in, out string, pretty bool, opts ...encode.EncodeOption) error {
	dec, err := r.Decoder(in)
	if err != nil {
		return err
	}
	enc, err := r.Encoder(out)
	if err != nil {
		return err
	}
	node, err := decode(dec, src, nil)
	if err != nil {
		return err
	}
	return encodeTo(enc, node, pretty, w, opts)
}

// RoundTrip encodes node in the format called via and decodes the result,
// showing what via preserves of node.
func (r *Registry) RoundTrip(node *ir.Node, via string) (*ir.Node, error) {
	enc, err := r.Encoder(via)
	if err != nil {
		return nil, err
	}
	dec, err := r.Decoder(via)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := encodeTo(enc, node, false, buf, nil); err != nil {
		return nil, err
	}
	back, err := decode(dec, buf, nil)
	if err != nil {
		return nil, err
	}
	if debug.Encode() {
		debug.Logf("round trip via %s: %v", via, back)
	}
	return back, nil
}

// Decode decodes using the Default registry.
func Decode(name string, src io.Reader, opts ...parse.ParseOption) (*ir.Node, error) {
	return Default.Decode(name, src, opts...)
}

// Encode encodes using the Default registry.
func Encode(name string, node *ir.Node, pretty bool, w io.Writer, opts ...encode.EncodeOption) error {
	return Default.Encode(name, node, pretty, w, opts...)
}

// Transcode transcodes using the Default registry.
func Transcode(src io.Reader, w io.Writer, in, out string, pretty bool, opts ...encode.EncodeOption) error {
	return Default.Transcode(src, w, in, out, pretty, opts...)
}

// RoundTrip round trips node through the Default registry.
func RoundTrip(node *ir.Node, via string) (*ir.Node, error) {
	return Default.RoundTrip(node, via)
}
