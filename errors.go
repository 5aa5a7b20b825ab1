package xcode

import (
	"errors"
	"fmt"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

// ErrUnsupportedFormat is returned for a known format which has no
// decoder or encoder in a Registry.
var ErrUnsupportedFormat = errors.New("unsupported format")

type Stage string

const (
	StageRead   Stage = "read"
	StageDecode Stage = "decode"
	StageEncode Stage = "encode"
)

// TranscodeError records the stage at which a transcode failed.
type TranscodeError struct {
	Stage Stage
	Err   error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

func stageErr(s Stage, err error) error {
	if err == nil {
		return nil
	}
	return &TranscodeError{Stage: s, Err: err}
}

// ErrorClass groups errors by what the caller has to do about them.
type ErrorClass int

const (
	NoError ErrorClass = iota
	BadInput
	Unrepresentable
	IOFailure
	Usage
)

func (c ErrorClass) String() string {
	switch c {
	case NoError:
		return "no error"
	case BadInput:
		return "bad input"
	case Unrepresentable:
		return "unrepresentable data"
	case IOFailure:
		return "i/o failure"
	case Usage:
		return "usage"
	default:
		return fmt.Sprintf("<error class %d>", int(c))
	}
}

// Class classifies err. Errors which are neither decode, encode nor
// format selection errors come from reading or writing and are
// IOFailure.
func Class(err error) ErrorClass {
	if err == nil {
		return NoError
	}
	if errors.Is(err, format.ErrBadFormat) || errors.Is(err, ErrUnsupportedFormat) {
		return Usage
	}
	if kind, ok := ir.EncodeKind(err); ok {
		if kind == ir.IOFailure {
			return IOFailure
		}
		return Unrepresentable
	}
	if _, ok := ir.DecodeKind(err); ok {
		return BadInput
	}
	return IOFailure
}
