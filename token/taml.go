package token

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// TokenizeTAML splits a TAML document into tokens. A line with a lexical
// error is reported and skipped up to its newline, so one call reports
// every bad line. The token list always ends with a TEOL.
func TokenizeTAML(d []byte) ([]Token, []*TokenizeErr) {
	posDoc := NewPosDoc(d)
	var (
		toks []Token
		errs []*TokenizeErr
	)
	emit := func(tt TokenType, i, j int) {
		toks = append(toks, Token{Type: tt, Pos: posDoc.Pos(i), Bytes: d[i:j]})
	}
	skipLine := func(i int) int {
		if j := bytes.IndexByte(d[i:], '\n'); j != -1 {
			return i + j
		}
		return len(d)
	}
	lineStart := true
	i := 0
	for i < len(d) {
		c := d[i]
		switch c {
		case ' ', '\t', '\r':
			i++
			continue
		case '\n':
			emit(TEOL, i, i+1)
			lineStart = true
			i++
			continue
		}
		atLineStart := lineStart
		lineStart = false
		switch c {
		case '/':
			if i+1 < len(d) && d[i+1] == '/' {
				i = skipLine(i)
				lineStart = atLineStart
				continue
			}
			errs = append(errs, UnexpectedErr("'/'", posDoc.Pos(i)))
			i = skipLine(i)
		case '#':
			if !atLineStart {
				errs = append(errs, UnexpectedErr("'#' after line start", posDoc.Pos(i)))
				i = skipLine(i)
				continue
			}
			j := i
			for j < len(d) && d[j] == '#' {
				j++
			}
			emit(THeading, i, j)
			i = j
		case '"':
			j, err := scanQuoted(d, i, '"', true)
			if err != nil {
				errs = append(errs, NewTokenizeErr(err, posDoc.Pos(i)))
				i = skipLine(i)
				continue
			}
			emit(TString, i, j)
			i = j
		case '`':
			j, err := scanQuoted(d, i, '`', false)
			if err != nil {
				errs = append(errs, NewTokenizeErr(fmt.Errorf("%w quoted key", err), posDoc.Pos(i)))
				i = skipLine(i)
				continue
			}
			emit(TQuotedKey, i, j)
			i = j
		case '<':
			j, err := scanQuoted(d, i, '>', false)
			if err != nil {
				errs = append(errs, NewTokenizeErr(fmt.Errorf("%w data literal", err), posDoc.Pos(i)))
				i = skipLine(i)
				continue
			}
			emit(TData, i, j)
			i = j
		case ':':
			emit(TColon, i, i+1)
			i++
		case ',':
			emit(TComma, i, i+1)
			i++
		case '.':
			emit(TDot, i, i+1)
			i++
		case '(':
			emit(TLParen, i, i+1)
			i++
		case ')':
			emit(TRParen, i, i+1)
			i++
		case '[':
			emit(TLSquare, i, i+1)
			i++
		case ']':
			emit(TRSquare, i, i+1)
			i++
		default:
			switch {
			case c == '-' || asciiDigit(c):
				sign := 0
				if c == '-' {
					sign = 1
				}
				n, isFloat, err := Number(d[i+sign:])
				if err == nil && i+sign+n < len(d) && identChar(d[i+sign+n]) {
					err = ErrNumber
				}
				if err != nil {
					errs = append(errs, NewTokenizeErr(err, posDoc.Pos(i)))
					i = skipLine(i)
					continue
				}
				tt := TInteger
				if isFloat {
					tt = TFloat
				}
				emit(tt, i, i+sign+n)
				i += sign + n
			case identStart(c):
				j := i + 1
				for j < len(d) && identChar(d[j]) {
					j++
				}
				emit(TIdent, i, j)
				i = j
			default:
				r, _ := utf8.DecodeRune(d[i:])
				errs = append(errs, UnexpectedErr(fmt.Sprintf("%q", r), posDoc.Pos(i)))
				i = skipLine(i)
			}
		}
	}
	if len(toks) == 0 || toks[len(toks)-1].Type != TEOL {
		toks = append(toks, Token{Type: TEOL, Pos: posDoc.Pos(len(d))})
	}
	return toks, errs
}

// scanQuoted returns the end offset of the construct opened at d[i] and
// closed by q. It never crosses a newline.
func scanQuoted(d []byte, i int, q byte, escapes bool) (int, error) {
	for j := i + 1; j < len(d); j++ {
		switch d[j] {
		case q:
			return j + 1, nil
		case '\n':
			return 0, ErrUnterminated
		case '\\':
			if escapes && j+1 < len(d) && d[j+1] != '\n' {
				j++
			}
		}
	}
	return 0, ErrUnterminated
}

func identStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func identChar(c byte) bool {
	return identStart(c) || asciiDigit(c) || c == '-'
}
