// Package profile implements the data-driven description of kernel
// structures — vtypes, overlays, object-class overrides, and per-image
// constants — that parameterizes the object factory in the sibling
// object package.
//
// Grounded on internal/gocore/type.go's Type{Name, Size, Kind, Elem,
// Fields} representation, generalized from "one DWARF-derived type per
// Go runtime type" to "one vtype-table-derived type per kernel struct,
// parameterized by profile" — interpreting a descriptor table at access
// time rather than generating one concrete Go type per kernel struct.
package profile

// Kind tags the shape of a TypeDescriptor. Grounded on
// internal/gocore/type.go's Kind enum, narrowed to the eight descriptor
// shapes a vtype entry can actually take.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindPointer
	KindArray
	KindBitfield
	KindEnumeration
	KindString
	KindNamed
	KindVolatilityMagic
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindPointer:
		return "Pointer"
	case KindArray:
		return "Array"
	case KindBitfield:
		return "Bitfield"
	case KindEnumeration:
		return "Enumeration"
	case KindString:
		return "String"
	case KindNamed:
		return "Named"
	case KindVolatilityMagic:
		return "VolatilityMagic"
	}
	return "Unknown"
}

// LengthFunc computes a field's length (for KindString/KindArray) from
// the parent object's already-read sibling fields — e.g. an ELF note's
// namesz field drives the length of its name string. parent is an
// *object.Object at call time, but profile cannot import object (object
// imports profile), so it arrives as an opaque any; a LengthFunc
// type-asserts it to ParentReader to read the sibling field it needs.
type LengthFunc func(parent any) int64

// ParentReader is the minimal accessor a LengthFunc needs against its
// parent object: read a sibling field as an unsigned integer. profile
// cannot import object (object already imports profile), so a LengthFunc
// type-asserts its parent any to this interface instead of a concrete
// object.Object — satisfied structurally, by method shape, without
// either package naming the other.
type ParentReader interface {
	UintField(name string) (uint64, bool)
}

// TypeDescriptor is the tagged variant of a field's type. Only the
// fields relevant to Kind are populated; the object factory switches on
// Kind to decide which to read.
type TypeDescriptor struct {
	Kind Kind

	// KindPrimitive
	Width  int64
	Signed bool

	// KindPointer, KindArray
	Target *TypeDescriptor

	// KindArray
	Count   int64
	CountFn LengthFunc // when non-nil, overrides Count

	// KindBitfield
	BitStart, BitEnd int
	Base             *TypeDescriptor

	// KindEnumeration
	EnumBase    *TypeDescriptor
	Choices     map[int64]string

	// KindString
	Length   int64
	LengthFn LengthFunc
	NullTerm bool

	// KindNamed
	TypeName string

	// KindVolatilityMagic
	Predicate []byte
}

// Primitive builds an integer/float leaf descriptor.
func Primitive(width int64, signed bool) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindPrimitive, Width: width, Signed: signed}
}

// PointerTo builds a pointer descriptor.
func PointerTo(target *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindPointer, Target: target}
}

// ArrayOf builds a fixed-count array descriptor.
func ArrayOf(target *TypeDescriptor, count int64) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindArray, Target: target, Count: count}
}

// ArrayOfFunc builds an array descriptor whose count is computed from
// sibling fields at access time.
func ArrayOfFunc(target *TypeDescriptor, fn LengthFunc) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindArray, Target: target, CountFn: fn}
}

// BitfieldOf builds a bitfield descriptor over [start, end) of base.
func BitfieldOf(base *TypeDescriptor, start, end int) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindBitfield, Base: base, BitStart: start, BitEnd: end}
}

// EnumerationOf builds an enumeration descriptor.
func EnumerationOf(base *TypeDescriptor, choices map[int64]string) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindEnumeration, EnumBase: base, Choices: choices}
}

// StringOf builds a fixed-length string descriptor, trimmed at the first
// null byte if nullTerm is set.
func StringOf(length int64, nullTerm bool) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindString, Length: length, NullTerm: nullTerm}
}

// StringOfFunc builds a string descriptor whose length is computed from
// sibling fields at access time (e.g. an ELF note's namesz field).
func StringOfFunc(fn LengthFunc, nullTerm bool) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindString, LengthFn: fn, NullTerm: nullTerm}
}

// Named builds a descriptor that recurses into another named vtype.
func Named(typeName string) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindNamed, TypeName: typeName}
}

// VolatilityMagicOf builds a descriptor naming the exact byte pattern
// that must appear at the field's own offset (checked by
// object.MagicMatches). Profile discovery does not use it: a profile's
// image-wide magic is the plain Profile.Magic byte slice.
func VolatilityMagicOf(predicate []byte) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindVolatilityMagic, Predicate: predicate}
}
