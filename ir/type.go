package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	BoolType
	IntType
	FloatType
	StringType
	BytesType
	ArrayType
	ObjectType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		NullType:   "Null",
		BoolType:   "Bool",
		IntType:    "Integer",
		FloatType:  "Float",
		StringType: "Text",
		BytesType:  "Bytes",
		ArrayType:  "Sequence",
		ObjectType: "Map",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Null":     NullType,
		"Bool":     BoolType,
		"Integer":  IntType,
		"Float":    FloatType,
		"Text":     StringType,
		"Bytes":    BytesType,
		"Sequence": ArrayType,
		"Map":      ObjectType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		NullType,
		BoolType,
		IntType,
		FloatType,
		StringType,
		BytesType,
		ArrayType,
		ObjectType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType:
		return false
	default:
		return true
	}
}

// IsScalar reports whether t is a leaf carrying a textual rendering, that
// is any leaf other than Null and Bytes.
func (t Type) IsScalar() bool {
	switch t {
	case BoolType, IntType, FloatType, StringType:
		return true
	default:
		return false
	}
}
