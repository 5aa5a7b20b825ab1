package ir

import (
	"slices"
	"strings"
)

// Detach returns a tree equal to y holding no reference into any decoder
// input buffer. When nothing under y is borrowed, y itself is returned.
// Otherwise the result is a structural copy in which borrowed payloads are
// copied and owned payloads are shared with y.
func Detach(y *Node) *Node {
	if y == nil || IsOwned(y) {
		return y
	}
	return detach(y)
}

// IsOwned reports whether no payload under y is borrowed.
func IsOwned(y *Node) bool {
	if y.borrowed {
		return false
	}
	for i, v := range y.Values {
		if y.Type == ObjectType && !IsOwned(y.Fields[i]) {
			return false
		}
		if !IsOwned(v) {
			return false
		}
	}
	return true
}

func detach(y *Node) *Node {
	dst := &Node{}
	*dst = *y
	if y.borrowed {
		switch y.Type {
		case StringType:
			dst.String = cloneString(y.String)
		case BytesType:
			dst.Bytes = slices.Clone(y.Bytes)
		}
		dst.borrowed = false
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, f := range y.Fields {
			dst.Fields[i] = detach(f)
		}
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			dst.Values[i] = detach(v)
		}
	}
	return dst
}

func cloneString(s string) string {
	return strings.Clone(s)
}
