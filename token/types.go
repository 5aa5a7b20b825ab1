package token

import (
	"fmt"
)

type TokenType int

const (
	THeading TokenType = iota
	TIdent
	TQuotedKey
	TString
	TInteger
	TFloat
	TData
	TColon
	TComma
	TDot
	TLParen
	TRParen
	TLSquare
	TRSquare
	TEOL
)

func (t TokenType) String() string {
	return map[TokenType]string{
		THeading:   "THeading",
		TIdent:     "TIdent",
		TQuotedKey: "TQuotedKey",
		TString:    "TString",
		TInteger:   "TInteger",
		TFloat:     "TFloat",
		TData:      "TData",
		TColon:     "TColon",
		TComma:     "TComma",
		TDot:       "TDot",
		TLParen:    "TLParen",
		TRParen:    "TRParen",
		TLSquare:   "TLSquare",
		TRSquare:   "TRSquare",
		TEOL:       "TEOL",
	}[t]
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

// Key returns the key text of an identifier or quoted key token.
func (t *Token) Key() string {
	if t.Type == TQuotedKey && len(t.Bytes) >= 2 {
		return string(t.Bytes[1 : len(t.Bytes)-1])
	}
	return string(t.Bytes)
}

type TokenizeErr struct {
	Err error
	Pos Pos
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func UnexpectedErr(what string, p *Pos) *TokenizeErr {
	return NewTokenizeErr(fmt.Errorf("%w %s", ErrUnexpectedChar, what), p)
}
