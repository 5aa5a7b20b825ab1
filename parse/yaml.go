package parse

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	ytoken "github.com/goccy/go-yaml/token"

	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
)

// yamlIntRE matches the plain integer notations of YAML 1.1 and 1.2.
var yamlIntRE = regexp.MustCompile(`^[-+]?(0[xX][0-9a-fA-F_]+|0[oO][0-7_]+|0[bB][01_]+|[0-9][0-9_]*)$`)

// maxAliasNodes bounds the number of nodes produced by alias expansion.
const maxAliasNodes = 1 << 20

type yamlDecoder struct{}

// YAML returns the YAML decoder. Aliases are expanded by copy.
func YAML() Decoder { return yamlDecoder{} }

func (yamlDecoder) Format() format.Format { return format.YAMLFormat }

func (yamlDecoder) Decode(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := newParseOpts(opts)
	f, err := parser.ParseBytes(d, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, yamlErr(err)
	}
	var docs []*ast.DocumentNode
	for _, doc := range f.Docs {
		if doc != nil && doc.Body != nil {
			docs = append(docs, doc)
		}
	}
	switch len(docs) {
	case 0:
		return ir.Null(), nil
	case 1:
	default:
		return nil, decodeErr(format.YAMLFormat, ir.UnsupportedShape, yamlPos(docs[1].Start), "more than one document")
	}
	p := &yamlParser{
		anchors:  map[string]*ir.Node{},
		sizes:    map[string]int{},
		maxDepth: pOpts.maxDepth,
	}
	return p.node(docs[0].Body, 0)
}

type yamlTokenErr interface {
	GetToken() *ytoken.Token
	GetMessage() string
}

func yamlErr(err error) error {
	var te yamlTokenErr
	if !errors.As(err, &te) {
		e := decodeErr(format.YAMLFormat, ir.Syntax, ir.Position{}, yaml.FormatError(err, false, false))
		e.Err = err
		return e
	}
	msg := te.GetMessage()
	kind := ir.Syntax
	if strings.Contains(msg, "could not find end character") {
		kind = ir.Truncated
	}
	pos := yamlPos(te.GetToken())
	e := decodeErr(format.YAMLFormat, kind, pos, msg)
	e.Diagnostics = []ir.Diagnostic{{Pos: pos, Msg: msg}}
	e.Err = err
	return e
}

func yamlPos(tk *ytoken.Token) ir.Position {
	if tk == nil || tk.Position == nil {
		return ir.Position{}
	}
	return ir.Position{Offset: tk.Position.Offset, Line: tk.Position.Line, Column: tk.Position.Column}
}

type yamlParser struct {
	// anchors holds nil while an anchor's value is being built.
	anchors  map[string]*ir.Node
	sizes    map[string]int
	expanded int
	maxDepth int
}

func (p *yamlParser) errAt(kind ir.DecodeErrorKind, n ast.Node, msg string) *ir.DecodeError {
	return decodeErr(format.YAMLFormat, kind, yamlPos(n.GetToken()), msg)
}

func (p *yamlParser) node(n ast.Node, depth int) (*ir.Node, error) {
	if depth > p.maxDepth {
		return nil, tooDeep(format.YAMLFormat, yamlPos(n.GetToken()), p.maxDepth)
	}
	switch n := n.(type) {
	case *ast.NullNode:
		return ir.Null(), nil
	case *ast.BoolNode:
		return ir.FromBool(n.Value), nil
	case *ast.IntegerNode:
		return p.integer(n)
	case *ast.FloatNode:
		return ir.FromFloat(n.Value), nil
	case *ast.InfinityNode:
		return ir.FromFloat(n.Value), nil
	case *ast.NanNode:
		return ir.FromFloat(math.NaN()), nil
	case *ast.StringNode:
		// plain integers beyond 64 bits arrive as strings
		if n.Token != nil && n.Token.Type == ytoken.StringType && yamlIntRE.MatchString(n.Token.Value) {
			if b, ok := new(big.Int).SetString(n.Token.Value, 0); ok {
				return ir.FromBigInt(b), nil
			}
		}
		return ir.FromString(n.Value), nil
	case *ast.LiteralNode:
		return ir.FromString(n.Value.Value), nil
	case *ast.MergeKeyNode:
		return ir.FromString("<<"), nil
	case *ast.MappingKeyNode:
		return p.node(n.Value, depth)
	case *ast.MappingNode:
		res := ir.FromKeyVals(nil)
		for _, mv := range n.Values {
			if err := p.pair(res, mv, depth); err != nil {
				return nil, err
			}
		}
		return res, nil
	case *ast.MappingValueNode:
		res := ir.FromKeyVals(nil)
		if err := p.pair(res, n, depth); err != nil {
			return nil, err
		}
		return res, nil
	case *ast.SequenceNode:
		res := ir.FromSlice(nil)
		for _, v := range n.Values {
			elt, err := p.node(v, depth+1)
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, elt)
		}
		return res, nil
	case *ast.AnchorNode:
		return p.anchor(n, depth)
	case *ast.AliasNode:
		return p.alias(n)
	case *ast.TagNode:
		return p.tag(n, depth)
	case *ast.CommentGroupNode, *ast.CommentNode:
		return ir.Null(), nil
	default:
		return nil, p.errAt(ir.UnsupportedShape, n, fmt.Sprintf("unsupported yaml node %s", n.Type()))
	}
}

func (p *yamlParser) pair(res *ir.Node, mv *ast.MappingValueNode, depth int) error {
	k, err := p.node(mv.Key, depth+1)
	if err != nil {
		return err
	}
	v, err := p.node(mv.Value, depth+1)
	if err != nil {
		return err
	}
	res.Append(k, v)
	return nil
}

// integer decodes n from its source text so that every YAML notation and
// magnitude is kept.
func (p *yamlParser) integer(n *ast.IntegerNode) (*ir.Node, error) {
	// base 0 takes 0x, 0o, 0b and leading 0 octal, and underscores
	if b, ok := new(big.Int).SetString(n.Token.Value, 0); ok {
		return ir.FromBigInt(b), nil
	}
	switch v := n.Value.(type) {
	case int64:
		return ir.FromInt(v), nil
	case uint64:
		return ir.FromUint(v), nil
	case int:
		return ir.FromInt(int64(v)), nil
	}
	return nil, p.errAt(ir.Syntax, n, fmt.Sprintf("malformed integer %q", n.Token.Value))
}

func (p *yamlParser) anchor(n *ast.AnchorNode, depth int) (*ir.Node, error) {
	name := n.Name.GetToken().Value
	p.anchors[name] = nil
	v, err := p.node(n.Value, depth)
	if err != nil {
		return nil, err
	}
	p.anchors[name] = v
	p.sizes[name] = countNodes(v)
	return v, nil
}

func countNodes(v *ir.Node) int {
	n := 1
	for _, f := range v.Fields {
		n += countNodes(f)
	}
	for _, e := range v.Values {
		n += countNodes(e)
	}
	return n
}

func (p *yamlParser) alias(n *ast.AliasNode) (*ir.Node, error) {
	name := n.Value.GetToken().Value
	v, ok := p.anchors[name]
	switch {
	case !ok:
		return nil, p.errAt(ir.Syntax, n, fmt.Sprintf("unknown anchor %q", name))
	case v == nil:
		return nil, p.errAt(ir.UnsupportedShape, n, fmt.Sprintf("alias *%s refers to its own anchor", name))
	}
	p.expanded += p.sizes[name]
	if p.expanded > maxAliasNodes {
		return nil, p.errAt(ir.UnsupportedShape, n, "alias expansion too large")
	}
	return v.Clone(), nil
}

func (p *yamlParser) tag(n *ast.TagNode, depth int) (*ir.Node, error) {
	switch n.Start.Value {
	case "!!binary":
		if _, ok := n.Value.(ast.ScalarNode); !ok {
			return nil, p.errAt(ir.Syntax, n, "!!binary value is not a scalar")
		}
		text := n.Value.GetToken().Value
		if lit, ok := n.Value.(*ast.LiteralNode); ok {
			text = lit.Value.Value
		}
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return nil, p.errAt(ir.Syntax, n, fmt.Sprintf("!!binary: %v", err))
		}
		return ir.FromBytes(b), nil
	case "!!str":
		if _, ok := n.Value.(ast.ScalarNode); ok {
			if lit, ok := n.Value.(*ast.LiteralNode); ok {
				return ir.FromString(lit.Value.Value), nil
			}
			return ir.FromString(n.Value.GetToken().Value), nil
		}
	}
	return p.node(n.Value, depth)
}
