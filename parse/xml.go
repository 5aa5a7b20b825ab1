package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

const (
	// XMLAttrPrefix marks map keys which hold attributes.
	XMLAttrPrefix = "@"
	// XMLTextKey holds character data of elements which also have
	// attributes or child elements.
	XMLTextKey = "$text"
)

type xmlDecoder struct{}

// XML returns the streaming XML decoder. See the package documentation
// for how elements map to nodes.
func XML() StreamDecoder { return xmlDecoder{} }

func (xmlDecoder) Format() format.Format { return format.XMLFormat }

func (x xmlDecoder) Decode(d []byte, opts ...ParseOption) (*ir.Node, error) {
	return x.DecodeReader(bytes.NewReader(d), opts...)
}

func (xmlDecoder) DecodeReader(r io.Reader, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newParseOpts(opts)
	p := &xmlParser{dec: xml.NewDecoder(r), maxDepth: pOpts.maxDepth}
	return p.parse()
}

type xmlFrame struct {
	name    string
	content *ir.Node
	index   map[string]int
	text    strings.Builder
	hasText bool
}

func (f *xmlFrame) add(key string, val *ir.Node) {
	if f.content == nil {
		f.content = ir.FromKeyVals(nil)
		f.index = map[string]int{}
	}
	i, ok := f.index[key]
	if !ok {
		f.index[key] = len(f.content.Fields)
		f.content.Append(ir.FromString(key), val)
		return
	}
	prev := f.content.Values[i]
	if prev.Type != ir.ArrayType {
		prev = ir.FromSlice([]*ir.Node{prev})
		f.content.Values[i] = prev
	}
	prev.Values = append(prev.Values, val)
}

// flushText adds the pending character data run of a structured element.
// Runs are joined by a space into a single Text at the position of the
// first run.
func (f *xmlFrame) flushText() {
	run := strings.TrimSpace(f.text.String())
	f.text.Reset()
	if run == "" {
		return
	}
	if i, ok := f.index[XMLTextKey]; ok {
		prev := f.content.Values[i]
		prev.String += " " + run
		return
	}
	f.add(XMLTextKey, ir.FromString(run))
}

func (f *xmlFrame) value() *ir.Node {
	if f.content == nil {
		if !f.hasText {
			return ir.Null()
		}
		return ir.FromString(f.text.String())
	}
	f.flushText()
	return f.content
}

type xmlParser struct {
	dec      *xml.Decoder
	stack    []*xmlFrame
	res      *ir.Node
	maxDepth int
}

func (p *xmlParser) pos() ir.Position {
	line, col := p.dec.InputPos()
	return ir.Position{Offset: int(p.dec.InputOffset()), Line: line, Column: col}
}

func (p *xmlParser) errAt(kind ir.DecodeErrorKind, msg string) *ir.DecodeError {
	return decodeErr(format.XMLFormat, kind, p.pos(), msg)
}

func xmlName(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

func (p *xmlParser) parse() (*ir.Node, error) {
	for {
		tok, err := p.dec.RawToken()
		if errors.Is(err, io.EOF) && p.res != nil && len(p.stack) == 0 {
			return p.res, nil
		}
		if err != nil {
			return nil, p.tokenErr(err)
		}
		var top *xmlFrame
		if n := len(p.stack); n != 0 {
			top = p.stack[n-1]
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if top == nil && p.res != nil {
				return nil, p.errAt(ir.Syntax, "multiple root elements")
			}
			if len(p.stack) >= p.maxDepth {
				return nil, tooDeep(format.XMLFormat, p.pos(), p.maxDepth)
			}
			if top != nil {
				top.hasText = false
				top.flushText()
			}
			f := &xmlFrame{name: xmlName(t.Name)}
			for _, a := range t.Attr {
				f.add(XMLAttrPrefix+xmlName(a.Name), ir.FromString(a.Value))
			}
			p.stack = append(p.stack, f)
		case xml.EndElement:
			name := xmlName(t.Name)
			if top == nil {
				return nil, p.errAt(ir.Syntax, fmt.Sprintf("unexpected end element </%s>", name))
			}
			if name != top.name {
				return nil, p.errAt(ir.Syntax, fmt.Sprintf("element <%s> closed by </%s>", top.name, name))
			}
			p.stack = p.stack[:len(p.stack)-1]
			val := top.value()
			if len(p.stack) == 0 {
				p.res = ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString(top.name), Val: val}})
				continue
			}
			p.stack[len(p.stack)-1].add(top.name, val)
		case xml.CharData:
			if top == nil {
				if len(bytes.TrimSpace(t)) != 0 {
					return nil, p.errAt(ir.Syntax, "character data outside the root element")
				}
				continue
			}
			top.text.Write(t)
			if top.content == nil {
				top.hasText = true
			}
		case xml.Comment, xml.ProcInst, xml.Directive:
		}
	}
}

func (p *xmlParser) tokenErr(err error) error {
	var se *xml.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return p.errAt(ir.Truncated, "unexpected end of input")
	case errors.As(err, &se):
		kind := ir.Syntax
		if strings.Contains(se.Msg, "unexpected EOF") {
			kind = ir.Truncated
		}
		e := decodeErr(format.XMLFormat, kind, ir.Position{Offset: int(p.dec.InputOffset()), Line: se.Line}, se.Msg)
		e.Err = err
		return e
	default:
		return fmt.Errorf("xml: reading input: %w", err)
	}
}
