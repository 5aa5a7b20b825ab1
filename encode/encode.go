package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

// Encoder writes a node as a document. Implementations serialize into a
// buffer and write to w only when the whole document was produced, so a
// failed encode leaves w untouched.
type Encoder interface {
	Format() format.Format
	Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error
}

var ErrNoEncoder = errors.New("no encoder")

type EncState struct {
	line, col     int
	depth, indent int
	pretty        bool

	format format.Format

	colorType ir.Type
	colorAttr ColorAttr
	Color     func(ir.Type, ColorAttr, string) string
}

func newEncState(opts []EncodeOption) *EncState {
	es := &EncState{
		indent: 2,
		format: format.JSONFormat,
	}
	for _, opt := range opts {
		opt(es)
	}
	if es.indent < 1 {
		es.indent = 2
	}
	return es
}

// Encoders returns every built in encoder.
func Encoders() []Encoder {
	return []Encoder{
		CBOR(),
		JSON(),
		URLEncoded(),
		XML(),
		YAML(),
	}
}

// Encode writes node to w in the format selected by opts, JSON by default.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	f := FormatFromOpts(opts...)
	for _, enc := range Encoders() {
		if enc.Format() == f {
			return enc.Encode(node, w, opts...)
		}
	}
	return fmt.Errorf("%w for %s", ErrNoEncoder, f)
}

// flush writes a completed document.
func flush(buf *bytes.Buffer, w io.Writer, f format.Format) error {
	if _, err := w.Write(buf.Bytes()); err != nil {
		return &ir.EncodeError{Format: f.String(), Kind: ir.IOFailure, Msg: "writing output", Err: err}
	}
	return nil
}

func encErr(f format.Format, kind ir.EncodeErrorKind, path, msg string) *ir.EncodeError {
	if path == "" {
		path = "$"
	}
	return &ir.EncodeError{Format: f.String(), Kind: kind, Path: path, Msg: msg}
}

// Helper functions for writing
func writeNL(w io.Writer, es *EncState) error {
	if es.col == 0 {
		return nil
	}
	indentString := strings.Repeat(strings.Repeat(" ", es.indent), es.depth)
	if err := writeString(w, "\n"+indentString); err != nil {
		return err
	}
	es.line++
	es.col = len(indentString)
	return nil
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func applyColor(es *EncState, nodeType ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(nodeType, attr, v)
}

func applyValueColor(es *EncState, nodeType ir.Type, v string) string {
	return applyColor(es, nodeType, ValueColor, v)
}

// formatFloat renders a finite float so that it always reads back as a
// float: the result has a fraction or an exponent.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	fmtByte := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		fmtByte = 'e'
	}
	v := strconv.FormatFloat(f, fmtByte, -1, 64)
	if fmtByte == 'e' {
		mant, exp, _ := strings.Cut(v, "e")
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		// clean up e-09 to e-9
		if n := len(exp); n >= 3 && exp[1] == '0' {
			exp = exp[:1] + exp[2:]
		}
		return mant + "e" + exp
	}
	if !strings.Contains(v, ".") {
		v += ".0"
	}
	return v
}
