package token

import "errors"

var (
	ErrNumber            = errors.New("malformed number")
	ErrNumberLeadingZero = errors.New("number with leading zero")
	ErrUnterminated      = errors.New("unterminated")
	ErrBadUTF8           = errors.New("invalid utf8")
	ErrBadEscape         = errors.New("invalid escape")
	ErrBadUnicode        = errors.New("invalid unicode escape")
	ErrUnexpectedChar    = errors.New("unexpected character")
)
