// Package types holds the value-type model shared by the front end, the
// middle end, and the interpreter: spec.md §3.1.
package types

import "fmt"

// Kind is a primitive data-kind.
type Kind int

const (
	Bool Kind = iota
	Char
	Int
	Float
	String
	Struct
	Void
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Struct:
		return "struct"
	case Void:
		return "void"
	default:
		return "unknown"
	}
}

// scalarSize returns the byte size of a primitive kind, ignoring pointers
// and arrays (spec.md §3.1).
func scalarSize(k Kind) uint64 {
	switch k {
	case Bool, Char:
		return 1
	case Int, Float:
		return 4
	default:
		return 0
	}
}

const maxArity = 8

// Type is the (kind, ptr_depth, arity, bytes) tuple of spec.md §3.1.
type Type struct {
	Kind      Kind
	PtrDepth  uint16
	Arity     [maxArity]uint64
	ArityLen  uint8 // number of populated Arity entries ("arity_size")
	Bytes     uint64
	FieldsOf  string // struct tag name, when Kind == Struct
}

// Scalar builds a non-pointer, non-array type for a primitive kind.
func Scalar(k Kind) Type {
	t := Type{Kind: k}
	t.Bytes = scalarSize(k)
	return t
}

// Pointer builds a pointer-to-t type one level deeper than t.
func Pointer(elem Type) Type {
	t := elem
	t.PtrDepth = elem.PtrDepth + 1
	t.Bytes = 8
	return t
}

// Array builds an array-of-elem type with the given arity dimensions.
func Array(elem Type, dims ...uint64) Type {
	t := elem
	if len(dims) > maxArity {
		panic(fmt.Sprintf("types: array arity %d exceeds max %d", len(dims), maxArity))
	}
	t.ArityLen = uint8(len(dims))
	product := uint64(1)
	for i, d := range dims {
		t.Arity[i] = d
		product *= d
	}
	if t.PtrDepth > 0 {
		t.Bytes = 8
	} else {
		t.Bytes = product * scalarSize(elem.Kind)
	}
	return t
}

// StructOf builds a named struct type of the given total byte size.
func StructOf(name string, bytes uint64) Type {
	return Type{Kind: Struct, FieldsOf: name, Bytes: bytes}
}

// Valid reports whether t satisfies the invariant in spec.md §3.1:
//
//	bytes == if ptr_depth > 0 { 8 }
//	         else if arity_size > 0 { product(arity) * size_of(kind) }
//	         else { size_of(kind) }
func (t Type) Valid() bool {
	if t.PtrDepth > 0 {
		return t.Bytes == 8
	}
	if t.ArityLen > 0 {
		product := uint64(1)
		for i := uint8(0); i < t.ArityLen; i++ {
			product *= t.Arity[i]
		}
		return t.Bytes == product*scalarSize(t.Kind)
	}
	if t.Kind == Struct {
		return true // struct byte size is layout-defined, not kind-derived
	}
	return t.Bytes == scalarSize(t.Kind)
}

func (t Type) String() string {
	s := t.Kind.String()
	for i := uint16(0); i < t.PtrDepth; i++ {
		s = "*" + s
	}
	for i := uint8(0); i < t.ArityLen; i++ {
		s = fmt.Sprintf("%s[%d]", s, t.Arity[i])
	}
	return s
}

// IsArray reports whether t is a fixed-size array type.
func (t Type) IsArray() bool { return t.ArityLen > 0 && t.PtrDepth == 0 }

// IsPointer reports whether t is a pointer type.
func (t Type) IsPointer() bool { return t.PtrDepth > 0 }

// Numeric reports whether t's kind supports arithmetic.
func (t Type) Numeric() bool {
	return t.Kind == Int || t.Kind == Float || t.Kind == Char
}
