package ir

import (
	"math"
	"math/big"
	"testing"
)

func TestIntegers(t *testing.T) {
	n := FromUint(math.MaxUint64)
	if n.IsInt64() {
		t.Fatalf("MaxUint64 stored as int64")
	}
	if u, ok := n.Uint64(); !ok || u != math.MaxUint64 {
		t.Errorf("Uint64() = %d, %v", u, ok)
	}
	if got, want := n.IntString(), "18446744073709551615"; got != want {
		t.Errorf("IntString() = %q; want %q", got, want)
	}
	small := FromUint(5)
	if !small.IsInt64() || small.Int64 != 5 {
		t.Errorf("FromUint(5) = %+v", small)
	}
	neg := FromInt(-3)
	if _, ok := neg.Uint64(); ok {
		t.Errorf("negative reported as uint64")
	}
	b := big.NewInt(9)
	bn := FromBigInt(b)
	b.SetInt64(10)
	if bn.Int64 != 9 {
		t.Errorf("FromBigInt aliased its argument")
	}
}

func TestGetAndAppend(t *testing.T) {
	obj := FromKeyVals(nil)
	obj.Append(FromInt(1), FromString("int key"))
	obj.Append(FromString("a"), FromString("first"))
	obj.Append(FromString("a"), FromString("second"))
	if got := Get(obj, "a"); got == nil || got.String != "first" {
		t.Errorf("Get(a) = %v", got)
	}
	if got := Get(obj, "1"); got != nil {
		t.Errorf("Get(1) matched an integer key")
	}
	if obj.Len() != 3 {
		t.Errorf("Len() = %d", obj.Len())
	}
	kvs := obj.KeyVals()
	if len(kvs) != 3 || kvs[2].Val.String != "second" {
		t.Errorf("KeyVals() = %v", kvs)
	}
}

func TestFromMapSorted(t *testing.T) {
	obj := FromMap(map[string]*Node{
		"b": FromInt(2),
		"a": FromInt(1),
	})
	if obj.Fields[0].String != "a" || obj.Fields[1].String != "b" {
		t.Errorf("FromMap keys not sorted: %q %q", obj.Fields[0].String, obj.Fields[1].String)
	}
}

func TestCloneIndependent(t *testing.T) {
	orig := FromSlice([]*Node{FromBytes([]byte{1, 2, 3}), FromUint(math.MaxUint64)})
	c := orig.Clone()
	orig.Values[0].Bytes[0] = 9
	orig.Values[1].Big.SetInt64(0)
	if c.Values[0].Bytes[0] != 1 {
		t.Errorf("Clone shares bytes")
	}
	if c.Values[1].IntString() != "18446744073709551615" {
		t.Errorf("Clone shares big int")
	}
}

func TestVisitCountsKeys(t *testing.T) {
	obj := FromKeyVals([]KeyVal{
		{Key: FromString("a"), Val: FromSlice([]*Node{FromInt(1), FromInt(2)})},
	})
	n := 0
	err := obj.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			n++
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// object, key, array, 2 elements
	if n != 5 {
		t.Errorf("visited %d nodes; want 5", n)
	}
}

func TestPaths(t *testing.T) {
	p := FieldPath("", FromString("a"))
	p = IndexPath(p, 2)
	p = FieldPath(p, FromString("x.y"))
	if want := "$.a[2].'x.y'"; p != want {
		t.Errorf("path = %q; want %q", p, want)
	}
	if got := FieldPath("$", FromInt(7)); got != "$[7]" {
		t.Errorf("int key path = %q", got)
	}
}
