package libdiff

import (
	"bytes"

	"github.com/signadot/xcode/encode"
	"github.com/signadot/xcode/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type ChangeKind int

const (
	Changed ChangeKind = iota
	Removed
	Added
)

func (k ChangeKind) String() string {
	switch k {
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "changed"
	}
}

// Change is a difference between two trees at Path. From is nil for
// Added and To is nil for Removed.
type Change struct {
	Path     string
	Kind     ChangeKind
	From, To *ir.Node
}

// Diff lists the changes turning from into to, in document order.
func Diff(from, to *ir.Node) []Change {
	var res []Change
	diffAt("$", from, to, &res)
	return res
}

func diffAt(path string, from, to *ir.Node, res *[]Change) {
	if from.Type != to.Type {
		*res = append(*res, Change{Path: path, Kind: Changed, From: from, To: to})
		return
	}
	switch from.Type {
	case ir.ObjectType:
		diffObject(path, from, to, res)
	case ir.ArrayType:
		n := min(len(from.Values), len(to.Values))
		for i := 0; i < n; i++ {
			diffAt(ir.IndexPath(path, i), from.Values[i], to.Values[i], res)
		}
		for i := n; i < len(from.Values); i++ {
			*res = append(*res, Change{Path: ir.IndexPath(path, i), Kind: Removed, From: from.Values[i]})
		}
		for i := n; i < len(to.Values); i++ {
			*res = append(*res, Change{Path: ir.IndexPath(path, i), Kind: Added, To: to.Values[i]})
		}
	default:
		if ir.Compare(from, to) != 0 {
			*res = append(*res, Change{Path: path, Kind: Changed, From: from, To: to})
		}
	}
}

// diffObject aligns the keys of from and to, mapping each distinct key to
// a rune so the entries can be diffed as text.
func diffObject(path string, from, to *ir.Node, res *[]Change) {
	keyMap := map[string]rune{}
	fromRunes := mapFieldsTo(keyMap, from)
	toRunes := mapFieldsTo(keyMap, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)
	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		for range []rune(diff.Text) {
			switch diff.Type {
			case diffpatch.DiffDelete:
				*res = append(*res, Change{Path: ir.FieldPath(path, from.Fields[fi]), Kind: Removed, From: from.Values[fi]})
				fi++
			case diffpatch.DiffEqual:
				diffAt(ir.FieldPath(path, from.Fields[fi]), from.Values[fi], to.Values[ti], res)
				fi++
				ti++
			case diffpatch.DiffInsert:
				*res = append(*res, Change{Path: ir.FieldPath(path, to.Fields[ti]), Kind: Added, To: to.Values[ti]})
				ti++
			}
		}
	}
}

func mapFieldsTo(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Fields))
	for i, k := range node.Fields {
		id := keyID(k)
		r, ok := m[id]
		if !ok {
			// skip the surrogate range, which does not survive as text
			r = rune(len(m))
			if r >= 0xd800 {
				r += 0x800
			}
			m[id] = r
		}
		rs[i] = r
	}
	return rs
}

// keyID identifies a key by its CBOR encoding, which is distinct for
// every distinct key of any type.
func keyID(k *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := encode.CBOR().Encode(k, buf); err != nil {
		return k.Type.String() + ":" + k.String
	}
	return buf.String()
}
