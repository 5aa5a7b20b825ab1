package ir

import (
	"maps"
	"math"
	"math/big"
	"slices"
	"strconv"
	"unsafe"
)

type Node struct {
	Type Type

	// Fields[i] is the key of Values[i] for ObjectType. For ArrayType
	// Fields is nil and Values holds the elements.
	Fields []*Node
	Values []*Node

	String  string
	Bytes   []byte
	Bool    bool
	Int64   int64
	Big     *big.Int
	Float64 float64

	// borrowed marks String or Bytes as referencing memory owned by a
	// decoder input buffer.
	borrowed bool
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: IntType, Int64: v}
}

func FromUint(v uint64) *Node {
	if v <= math.MaxInt64 {
		return FromInt(int64(v))
	}
	return &Node{Type: IntType, Big: new(big.Int).SetUint64(v)}
}

// FromBigInt returns an integer node holding a copy of v. Values in the
// int64 range are stored in Int64.
func FromBigInt(v *big.Int) *Node {
	if v.IsInt64() {
		return FromInt(v.Int64())
	}
	return &Node{Type: IntType, Big: new(big.Int).Set(v)}
}

func FromFloat(f float64) *Node {
	return &Node{Type: FloatType, Float64: f}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

// FromBytes returns a bytes node which takes ownership of b.
func FromBytes(b []byte) *Node {
	if b == nil {
		b = []byte{}
	}
	return &Node{Type: BytesType, Bytes: b}
}

// FromBorrowedString returns a text node whose payload aliases b. The node
// is only valid while b is neither modified nor released; call Detach
// before the buffer goes away.
func FromBorrowedString(b []byte) *Node {
	if len(b) == 0 {
		return FromString("")
	}
	return &Node{
		Type:     StringType,
		String:   unsafe.String(&b[0], len(b)),
		borrowed: true,
	}
}

// FromBorrowedBytes returns a bytes node whose payload aliases b.
// See FromBorrowedString.
func FromBorrowedBytes(b []byte) *Node {
	if len(b) == 0 {
		return FromBytes(nil)
	}
	return &Node{
		Type:     BytesType,
		Bytes:    b[:len(b):len(b)],
		borrowed: true,
	}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{Type: ArrayType}
	res.Values = make([]*Node, len(ySlice))
	copy(res.Values, ySlice)
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		if kv.Key == nil {
			kv.Key = Null()
		}
		if kv.Val == nil {
			kv.Val = Null()
		}
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

// FromMap builds an object with text keys in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(yMap))
	res.Values = make([]*Node, len(yMap))
	keys := slices.Sorted(maps.Keys(yMap))
	for i, key := range keys {
		res.Fields[i] = FromString(key)
		res.Values[i] = yMap[key]
	}
	return res
}

// Append adds an entry to an object node.
func (y *Node) Append(key, val *Node) {
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, val)
}

func (y *Node) KeyVals() []KeyVal {
	if y.Type != ObjectType {
		return nil
	}
	res := make([]KeyVal, len(y.Fields))
	for i := range y.Fields {
		res[i] = KeyVal{Key: y.Fields[i], Val: y.Values[i]}
	}
	return res
}

func (y *Node) Len() int {
	return len(y.Values)
}

// Get returns the value of the first entry whose key is the text field.
func Get(y *Node, field string) *Node {
	if y.Type != ObjectType {
		return nil
	}
	for i, f := range y.Fields {
		if f.Type == StringType && f.String == field {
			return y.Values[i]
		}
	}
	return nil
}

// Borrowed reports whether the payload of y references an input buffer.
func (y *Node) Borrowed() bool {
	return y.borrowed
}

func (y *Node) IsInt64() bool {
	return y.Type == IntType && y.Big == nil
}

// BigInt returns the integer value of y as a new big.Int.
func (y *Node) BigInt() *big.Int {
	if y.Big != nil {
		return new(big.Int).Set(y.Big)
	}
	return big.NewInt(y.Int64)
}

// Uint64 returns the integer value of y when it is in the uint64 range.
func (y *Node) Uint64() (uint64, bool) {
	if y.Big != nil {
		if y.Big.IsUint64() {
			return y.Big.Uint64(), true
		}
		return 0, false
	}
	if y.Int64 < 0 {
		return 0, false
	}
	return uint64(y.Int64), true
}

func (y *Node) IntString() string {
	if y.Big != nil {
		return y.Big.String()
	}
	return strconv.FormatInt(y.Int64, 10)
}

func (y *Node) Clone() *Node {
	dst := &Node{}
	*dst = *y
	dst.borrowed = false
	if y.Big != nil {
		dst.Big = new(big.Int).Set(y.Big)
	}
	if y.Bytes != nil {
		dst.Bytes = slices.Clone(y.Bytes)
	}
	if y.borrowed {
		dst.String = cloneString(y.String)
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, f := range y.Fields {
			dst.Fields[i] = f.Clone()
		}
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			dst.Values[i] = v.Clone()
		}
	}
	return dst
}

// Visit walks y depth first, calling f before (isPost false) and after
// (isPost true) the children of each node. Object keys are visited before
// their values.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for i, yy := range y.Values {
			if y.Type == ObjectType {
				if err := y.Fields[i].Visit(f); err != nil {
					return err
				}
			}
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}
