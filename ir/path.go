package ir

import (
	"strconv"
	"strings"
)

// FieldPath extends the JSONPath-style path p with the object key k.
func FieldPath(p string, k *Node) string {
	if p == "" {
		p = "$"
	}
	var f string
	switch k.Type {
	case StringType:
		f = k.String
	case IntType:
		return p + "[" + k.IntString() + "]"
	default:
		return p + "[<" + k.Type.String() + " key>]"
	}
	if f != "" && strings.IndexAny(f, "'.*$[] ") == -1 {
		return p + "." + f
	}
	return p + ".'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// IndexPath extends the JSONPath-style path p with the array index i.
func IndexPath(p string, i int) string {
	if p == "" {
		p = "$"
	}
	return p + "[" + strconv.Itoa(i) + "]"
}
