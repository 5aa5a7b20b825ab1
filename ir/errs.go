package ir

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDecode = errors.New("decode error")
	ErrEncode = errors.New("encode error")
)

// Position locates a byte in a decoder input. Line and Column are 1-based;
// zero means unknown.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) Known() bool {
	return p.Line != 0 || p.Offset > 0
}

func (p Position) String() string {
	if p.Line == 0 {
		return fmt.Sprintf("offset %d", p.Offset)
	}
	if p.Column == 0 {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("line %d, col %d", p.Line, p.Column)
}

type DecodeErrorKind int

const (
	Syntax DecodeErrorKind = iota
	Truncated
	UnsupportedShape
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Truncated:
		return "truncated"
	case UnsupportedShape:
		return "unsupported shape"
	default:
		return fmt.Sprintf("<decode kind %d>", int(k))
	}
}

// Diagnostic is one located problem found while decoding.
type Diagnostic struct {
	Pos Position
	Msg string
}

func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Msg
}

type DecodeError struct {
	Format string
	Kind   DecodeErrorKind
	Pos    Position
	Msg    string

	// Diagnostics holds every problem found, the first of which is
	// described by Pos and Msg. It is empty for formats which stop at the
	// first problem.
	Diagnostics []Diagnostic

	Err error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Format != "" {
		b.WriteString(e.Format)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Pos.Known() {
		b.WriteString(" at ")
		b.WriteString(e.Pos.String())
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if n := len(e.Diagnostics); n > 1 {
		fmt.Fprintf(&b, " (and %d more)", n-1)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

type EncodeErrorKind int

const (
	Unsupported EncodeErrorKind = iota
	InvalidName
	KeyType
	IOFailure
)

func (k EncodeErrorKind) String() string {
	switch k {
	case Unsupported:
		return "unsupported"
	case InvalidName:
		return "invalid name"
	case KeyType:
		return "key type"
	case IOFailure:
		return "i/o failure"
	default:
		return fmt.Sprintf("<encode kind %d>", int(k))
	}
}

type EncodeError struct {
	Format string
	Kind   EncodeErrorKind
	// Path locates the offending node, e.g. "$.a[0]".
	Path string
	Msg  string
	Err  error
}

func (e *EncodeError) Error() string {
	var b strings.Builder
	if e.Format != "" {
		b.WriteString(e.Format)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil && e.Kind == IOFailure {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}

// DecodeKind reports the kind of the first DecodeError in err's chain.
func DecodeKind(err error) (DecodeErrorKind, bool) {
	var de *DecodeError
	if !errors.As(err, &de) {
		return 0, false
	}
	return de.Kind, true
}

// EncodeKind reports the kind of the first EncodeError in err's chain.
func EncodeKind(err error) (EncodeErrorKind, bool) {
	var ee *EncodeError
	if !errors.As(err, &ee) {
		return 0, false
	}
	return ee.Kind, true
}
