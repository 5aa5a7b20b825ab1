package ir

import (
	"testing"
)

func borrowedTree(buf []byte) *Node {
	return FromKeyVals([]KeyVal{
		{Key: FromBorrowedString(buf[0:3]), Val: FromBorrowedBytes(buf[3:6])},
		{Key: FromString("list"), Val: FromSlice([]*Node{
			FromBorrowedString(buf[6:9]),
			FromInt(4),
		})},
	})
}

func TestDetachCopiesBorrowed(t *testing.T) {
	buf := []byte("keyblbval")
	v := borrowedTree(buf)
	if IsOwned(v) {
		t.Fatalf("borrowed tree reported owned")
	}
	want := FromKeyVals([]KeyVal{
		{Key: FromString("key"), Val: FromBytes([]byte("blb"))},
		{Key: FromString("list"), Val: FromSlice([]*Node{FromString("val"), FromInt(4)})},
	})

	d := Detach(v)
	if !IsOwned(d) {
		t.Fatalf("detached tree still borrowed")
	}
	if !Equal(d, want) {
		t.Fatalf("detach changed the value")
	}

	for i := range buf {
		buf[i] = 'X'
	}
	if !Equal(d, want) {
		t.Errorf("detached value depends on the input buffer")
	}
}

func TestDetachIdempotent(t *testing.T) {
	buf := []byte("keyblbval")
	once := Detach(borrowedTree(buf))
	twice := Detach(once)
	if twice != once {
		t.Errorf("detach of an owned tree is not the identity")
	}
	if !Equal(once, twice) {
		t.Errorf("detach(detach(v)) != detach(v)")
	}
}

func TestDetachOwnedIdentity(t *testing.T) {
	v := FromSlice([]*Node{FromString("a"), FromBytes([]byte{1})})
	if Detach(v) != v {
		t.Errorf("owned tree was copied")
	}
	if Detach(nil) != nil {
		t.Errorf("Detach(nil) != nil")
	}
}

func TestDetachEmptyBorrowed(t *testing.T) {
	v := FromSlice([]*Node{FromBorrowedString(nil), FromBorrowedBytes([]byte{})})
	if !IsOwned(v) {
		t.Errorf("empty borrowed payloads should be owned")
	}
}
