package parse

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strconv"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/token"
)

type tamlDecoder struct{}

// TAML returns the decoder for TAML configuration documents. Unlike the
// other decoders it does not stop at the first problem; the returned
// *ir.DecodeError lists every problem in Diagnostics.
func TAML() Decoder { return tamlDecoder{} }

func (tamlDecoder) Format() format.Format { return format.TAMLFormat }

func (tamlDecoder) Decode(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newParseOpts(opts)
	toks, terrs := token.TokenizeTAML(d)
	p := &tamlParser{
		toks:     toks,
		root:     ir.FromKeyVals(nil),
		index:    map[*ir.Node]map[string]int{},
		badLines: map[int]bool{},
		maxDepth: pOpts.maxDepth,
	}
	p.cur = p.root
	for _, te := range terrs {
		kind := ir.Syntax
		if errors.Is(te, token.ErrUnterminated) && bytes.IndexByte(d[te.Pos.I:], '\n') == -1 {
			kind = ir.Truncated
		}
		p.diags = append(p.diags, &tamlDiag{kind: kind, pos: te.Pos.Position(), msg: te.Err.Error()})
		p.badLines[te.Pos.Line()] = true
	}
	p.parse()
	if len(p.diags) == 0 {
		return p.root, nil
	}
	slices.SortStableFunc(p.diags, func(a, b *tamlDiag) int {
		return a.pos.Offset - b.pos.Offset
	})
	first := p.diags[0]
	res := decodeErr(format.TAMLFormat, first.kind, first.pos, first.msg)
	for _, dg := range p.diags {
		res.Diagnostics = append(res.Diagnostics, ir.Diagnostic{Pos: dg.pos, Msg: dg.msg})
	}
	return nil, res
}

type tamlDiag struct {
	kind ir.DecodeErrorKind
	pos  ir.Position
	msg  string
}

func (d *tamlDiag) Error() string {
	return d.pos.String() + ": " + d.msg
}

type tamlParser struct {
	toks []token.Token
	i    int

	root *ir.Node
	cur  *ir.Node
	// stack[n] is the table opened by the current heading of depth n+1.
	stack []*ir.Node
	index map[*ir.Node]map[string]int

	diags    []*tamlDiag
	badLines map[int]bool
	maxDepth int
}

func (p *tamlParser) peek() *token.Token {
	return &p.toks[p.i]
}

func (p *tamlParser) next() *token.Token {
	t := &p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *tamlParser) atEnd() bool {
	return p.i == len(p.toks)-1
}

func (p *tamlParser) diagAt(t *token.Token, msg string, args ...any) *tamlDiag {
	return &tamlDiag{kind: ir.Syntax, pos: t.Pos.Position(), msg: fmt.Sprintf(msg, args...)}
}

// skipLine moves past the next end of line.
func (p *tamlParser) skipLine() {
	for !p.atEnd() && p.peek().Type != token.TEOL {
		p.i++
	}
	p.i++
}

func (p *tamlParser) skipEOLs() {
	for !p.atEnd() && p.peek().Type == token.TEOL {
		p.i++
	}
}

func (p *tamlParser) parse() {
	for p.i < len(p.toks) {
		t := p.peek()
		if t.Type == token.TEOL {
			p.i++
			continue
		}
		if p.badLines[t.Pos.Line()] {
			p.skipLine()
			continue
		}
		var err *tamlDiag
		switch t.Type {
		case token.THeading:
			err = p.heading()
		case token.TIdent, token.TQuotedKey:
			err = p.field()
		default:
			err = p.diagAt(t, "expected a key or a heading, got %s", t.Bytes)
		}
		if err != nil {
			p.diags = append(p.diags, err)
			p.skipLine()
		}
	}
}

func (p *tamlParser) expect(tt token.TokenType, what string) (*token.Token, *tamlDiag) {
	t := p.peek()
	if t.Type != tt {
		return nil, p.diagAt(t, "expected %s", what)
	}
	return p.next(), nil
}

// expectEOL checks for the end of line without consuming it.
func (p *tamlParser) expectEOL(what string) *tamlDiag {
	if t := p.peek(); t.Type != token.TEOL {
		return p.diagAt(t, "expected end of line after %s", what)
	}
	return nil
}

func (p *tamlParser) lookup(tbl *ir.Node, key string) *ir.Node {
	if i, ok := p.index[tbl][key]; ok {
		return tbl.Values[i]
	}
	return nil
}

func (p *tamlParser) add(tbl *ir.Node, key string, val *ir.Node) {
	idx := p.index[tbl]
	if idx == nil {
		idx = map[string]int{}
		p.index[tbl] = idx
	}
	idx[key] = len(tbl.Values)
	tbl.Append(ir.FromString(key), val)
}

func (p *tamlParser) field() *tamlDiag {
	kt := p.next()
	key := kt.Key()
	if _, err := p.expect(token.TColon, "':' after key"); err != nil {
		return err
	}
	val, err := p.value(0)
	if err != nil {
		return err
	}
	if err := p.expectEOL("value"); err != nil {
		return err
	}
	if p.lookup(p.cur, key) != nil {
		return p.diagAt(kt, "duplicate key %q", key)
	}
	p.add(p.cur, key, val)
	return nil
}

func (p *tamlParser) heading() *tamlDiag {
	h := p.next()
	depth := len(h.Bytes)
	if depth > len(p.stack)+1 {
		return p.diagAt(h, "heading of depth %d follows depth %d", depth, len(p.stack))
	}
	list := p.peek().Type == token.TLSquare
	if list {
		p.next()
	}
	var path []*token.Token
	for {
		t := p.peek()
		if t.Type != token.TIdent && t.Type != token.TQuotedKey {
			return p.diagAt(t, "expected a table name")
		}
		path = append(path, p.next())
		if p.peek().Type != token.TDot {
			break
		}
		p.next()
	}
	if list {
		if _, err := p.expect(token.TRSquare, "']'"); err != nil {
			return err
		}
	}
	if err := p.expectEOL("heading"); err != nil {
		return err
	}
	tbl := p.root
	if depth > 1 {
		tbl = p.stack[depth-2]
	}
	for _, kt := range path[:len(path)-1] {
		sub, err := p.subtable(tbl, kt)
		if err != nil {
			return err
		}
		tbl = sub
	}
	last := path[len(path)-1]
	key := last.Key()
	existing := p.lookup(tbl, key)
	next := ir.FromKeyVals(nil)
	switch {
	case list && existing == nil:
		p.add(tbl, key, ir.FromSlice([]*ir.Node{next}))
	case list && existing.Type == ir.ArrayType:
		existing.Values = append(existing.Values, next)
	case list:
		return p.diagAt(last, "%q is not a list of tables", key)
	case existing != nil:
		return p.diagAt(last, "duplicate table %q", key)
	default:
		p.add(tbl, key, next)
	}
	p.stack = append(p.stack[:depth-1], next)
	p.cur = next
	return nil
}

func (p *tamlParser) subtable(tbl *ir.Node, kt *token.Token) (*ir.Node, *tamlDiag) {
	key := kt.Key()
	v := p.lookup(tbl, key)
	switch {
	case v == nil:
		v = ir.FromKeyVals(nil)
		p.add(tbl, key, v)
		return v, nil
	case v.Type == ir.ObjectType:
		return v, nil
	case v.Type == ir.ArrayType && len(v.Values) != 0 && v.Values[len(v.Values)-1].Type == ir.ObjectType:
		return v.Values[len(v.Values)-1], nil
	}
	return nil, p.diagAt(kt, "%q is not a table", key)
}

func (p *tamlParser) value(depth int) (*ir.Node, *tamlDiag) {
	t := p.peek()
	if depth > p.maxDepth {
		return nil, p.diagAt(t, "nesting deeper than %d", p.maxDepth)
	}
	switch t.Type {
	case token.TEOL, token.TComma, token.TRParen, token.TColon:
		return nil, p.diagAt(t, "expected a value")
	}
	p.next()
	switch t.Type {
	case token.TString:
		s, err := token.UnquoteTAML(t.Bytes)
		if err != nil {
			return nil, p.diagAt(t, "string: %v", err)
		}
		return ir.FromString(s), nil
	case token.TInteger:
		if i, err := strconv.ParseInt(string(t.Bytes), 10, 64); err == nil {
			return ir.FromInt(i), nil
		}
		n, ok := new(big.Int).SetString(string(t.Bytes), 10)
		if !ok {
			return nil, p.diagAt(t, "malformed integer %s", t.Bytes)
		}
		return ir.FromBigInt(n), nil
	case token.TFloat:
		f, err := strconv.ParseFloat(string(t.Bytes), 64)
		if err != nil && math.IsInf(f, 0) {
			return nil, p.diagAt(t, "decimal %s overflows float64", t.Bytes)
		}
		return ir.FromFloat(f), nil
	case token.TIdent:
		name := string(t.Bytes)
		if p.peek().Type == token.TLParen {
			args, err := p.list(depth+1, p.next())
			if err != nil {
				return nil, err
			}
			return ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString(name), Val: args}}), nil
		}
		switch name {
		case "true":
			return ir.FromBool(true), nil
		case "false":
			return ir.FromBool(false), nil
		}
		return ir.FromString(name), nil
	case token.TLParen:
		return p.list(depth+1, t)
	case token.TData:
		return p.data(t)
	}
	return nil, p.diagAt(t, "expected a value, got %s", t.Bytes)
}

// list reads the elements of a parenthesized list opened by open. Lists
// may span lines.
func (p *tamlParser) list(depth int, open *token.Token) (*ir.Node, *tamlDiag) {
	res := ir.FromSlice(nil)
	unterminated := func() *tamlDiag {
		d := p.diagAt(open, "unterminated list")
		d.kind = ir.Truncated
		return d
	}
	for {
		p.skipEOLs()
		if p.atEnd() {
			return nil, unterminated()
		}
		if p.peek().Type == token.TRParen {
			p.next()
			return res, nil
		}
		elt, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, elt)
		p.skipEOLs()
		switch t := p.peek(); {
		case t.Type == token.TComma:
			p.next()
		case t.Type == token.TRParen:
			p.next()
			return res, nil
		case p.atEnd():
			return nil, unterminated()
		default:
			return nil, p.diagAt(t, "expected ',' or ')' in list")
		}
	}
}

func (p *tamlParser) data(t *token.Token) (*ir.Node, *tamlDiag) {
	body := t.Bytes[1 : len(t.Bytes)-1]
	enc, payload, ok := bytes.Cut(body, []byte{':'})
	if !ok {
		return nil, p.diagAt(t, "data literal without encoding")
	}
	payload = bytes.TrimSpace(payload)
	var (
		b   []byte
		err error
	)
	switch string(enc) {
	case "base64":
		b, err = base64.StdEncoding.DecodeString(string(payload))
	case "hex":
		b, err = hex.DecodeString(string(payload))
	default:
		return nil, p.diagAt(t, "unknown data encoding %q", enc)
	}
	if err != nil {
		return nil, p.diagAt(t, "%s data: %v", enc, err)
	}
	return ir.FromBytes(b), nil
}
