// Package irtest builds and compares IR trees in tests.
package irtest

import (
	"fmt"
	"math/big"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/signadot/xcode/ir"
)

// V converts a Go value to a node. Nodes are returned as is.
func V(v any) *ir.Node {
	switch x := v.(type) {
	case *ir.Node:
		return x
	case nil:
		return ir.Null()
	case bool:
		return ir.FromBool(x)
	case int:
		return ir.FromInt(int64(x))
	case int64:
		return ir.FromInt(x)
	case uint64:
		return ir.FromUint(x)
	case *big.Int:
		return ir.FromBigInt(x)
	case float64:
		return ir.FromFloat(x)
	case string:
		return ir.FromString(x)
	case []byte:
		return ir.FromBytes(x)
	default:
		panic(fmt.Sprintf("irtest: cannot convert %T", v))
	}
}

// Obj builds a map from alternating keys and values.
func Obj(kvs ...any) *ir.Node {
	if len(kvs)%2 != 0 {
		panic("irtest: odd number of arguments to Obj")
	}
	res := ir.FromKeyVals(nil)
	for i := 0; i < len(kvs); i += 2 {
		res.Append(V(kvs[i]), V(kvs[i+1]))
	}
	return res
}

func Seq(vs ...any) *ir.Node {
	res := ir.FromSlice(nil)
	for _, v := range vs {
		res.Values = append(res.Values, V(v))
	}
	return res
}

// Options compares nodes by value, ignoring ownership.
var Options = cmp.Options{
	cmpopts.IgnoreUnexported(ir.Node{}),
	cmpopts.EquateNaNs(),
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	}),
}

// Diff returns a human readable difference between want and got, or ""
// when they are equal.
func Diff(want, got *ir.Node) string {
	return cmp.Diff(want, got, Options)
}
