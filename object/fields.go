package object

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/profile"
)

// Uint reads o as an unsigned integer: a primitive, the base of a
// bitfield, or the base of an enumeration. Returns (0, false) — never
// panics — if o is a sentinel or isn't one of these kinds.
func (o *Object) Uint() (uint64, bool) {
	if o.IsSentinel() || o.desc == nil {
		return 0, false
	}
	switch o.desc.Kind {
	case profile.KindPrimitive:
		return o.readUint(o.offset, o.desc.Width)
	case profile.KindBitfield:
		base, ok := o.readUint(o.offset, o.desc.Base.Width)
		if !ok {
			return 0, false
		}
		width := uint(o.desc.BitEnd - o.desc.BitStart)
		mask := uint64(1)<<width - 1
		return (base >> uint(o.desc.BitStart)) & mask, true
	case profile.KindEnumeration:
		return o.readUint(o.offset, o.desc.EnumBase.Width)
	}
	return 0, false
}

// Int reads o as a signed integer, sign-extending from the primitive's
// declared width.
func (o *Object) Int() (int64, bool) {
	u, ok := o.Uint()
	if !ok {
		return 0, false
	}
	if o.desc.Kind != profile.KindPrimitive || !o.desc.Signed {
		return int64(u), true
	}
	width := o.desc.Width * 8
	shift := 64 - width
	return int64(u<<shift) >> shift, true
}

// Uintptr is a convenience for reading a pointer-width unsigned value out
// of a pointer slot's own address-as-bits (rarely what callers want —
// most should call Dereference instead). It is provided for parity with
// core.Process's own ReadPtr-style accessors.
func (o *Object) Uintptr() (uint64, bool) {
	if o.IsSentinel() {
		return 0, false
	}
	if o.desc != nil && o.desc.Kind == profile.KindPointer {
		w, ok := o.prof.NativeWidth("pointer")
		if !ok {
			w = 8
		}
		return o.readUint(o.offset, w)
	}
	return o.Uint()
}

// String reads o as a fixed-length (or length-function-driven) byte
// string, trimming at the first null byte when the descriptor says to.
func (o *Object) String() (string, bool) {
	if o.IsSentinel() || o.desc == nil || o.desc.Kind != profile.KindString {
		return "", false
	}
	n := o.stringLength()
	data, ok := o.vm.Read(o.offset, n)
	if !ok {
		return "", false
	}
	if o.desc.NullTerm {
		for i, b := range data {
			if b == 0 {
				data = data[:i]
				break
			}
		}
	}
	return string(data), true
}

// UintField reads field name off o as an unsigned integer. Its only
// purpose is to make *Object satisfy profile.ParentReader, so a
// LengthFunc built in package profile can read a sibling field (e.g. an
// ELF note's n_namesz driving its name string's length) without either
// package importing the other.
func (o *Object) UintField(name string) (uint64, bool) {
	return o.Field(name).Uint()
}

func (o *Object) stringLength() int64 {
	if o.desc.LengthFn != nil {
		return o.desc.LengthFn(o.parent)
	}
	return o.desc.Length
}

// Enum reads o as an enumeration and returns its symbolic name, or the
// integer's decimal string if the value has no registered choice.
func (o *Object) Enum() (string, bool) {
	if o.IsSentinel() || o.desc == nil || o.desc.Kind != profile.KindEnumeration {
		return "", false
	}
	v, ok := o.Uint()
	if !ok {
		return "", false
	}
	if name, ok := o.desc.Choices[int64(v)]; ok {
		return name, true
	}
	return fmt.Sprintf("%d", v), true
}

// MagicMatches reads len(Predicate) bytes at o's offset and reports
// whether they equal the VolatilityMagicOf pattern verbatim. This is
// KindVolatilityMagic's only operation — a fixed-byte-pattern check, not
// a value meant to be read as an integer or string — mirroring how a
// VOLATILITY_MAGIC entry is used in the overlays it's grounded on: to
// assert a constant lives at a location, not to carry data.
func (o *Object) MagicMatches() (bool, bool) {
	if o.IsSentinel() || o.desc == nil || o.desc.Kind != profile.KindVolatilityMagic {
		return false, false
	}
	data, ok := o.vm.Read(o.offset, int64(len(o.desc.Predicate)))
	if !ok {
		return false, false
	}
	return bytes.Equal(data, o.desc.Predicate), true
}

// Dereference follows a pointer object to its target: reads a
// pointer-width integer, checks validity on the vm, and returns the
// target view or a sentinel.
func (o *Object) Dereference() *Object {
	if o.IsSentinel() {
		return o
	}
	if o.desc == nil || o.desc.Kind != profile.KindPointer {
		return sentinel(fmt.Errorf("not a pointer"))
	}
	w, ok := o.prof.NativeWidth("pointer")
	if !ok {
		w = 8
	}
	target, ok := o.readUint(o.offset, w)
	if !ok {
		return sentinel(fmt.Errorf("could not read pointer at %s", o.offset))
	}
	targetAddr := addr.Address(target)
	if !o.vm.IsValidAddress(targetAddr) {
		return sentinel(fmt.Errorf("pointer target %s is not a valid address", targetAddr))
	}
	if o.desc.Target == nil {
		// unsafe.Pointer-equivalent: no target type, nothing further to
		// materialize.
		return sentinel(fmt.Errorf("pointer has no target type"))
	}
	return o.fromDescriptor(o.desc.Target, targetAddr)
}

// count returns the array element count, resolving a CountFn against
// o.parent when one is set.
func (o *Object) count() int64 {
	if o.desc.CountFn != nil {
		return o.desc.CountFn(o.parent)
	}
	return o.desc.Count
}

func (o *Object) elemSize(target *profile.TypeDescriptor) int64 {
	if target.Kind == profile.KindNamed {
		vt, err := o.prof.VType(target.TypeName)
		if err != nil {
			return 0
		}
		return vt.Size
	}
	child := &Object{desc: target, vm: o.vm, prof: o.prof}
	return child.Size()
}

// Index returns a lazy view of element i of an array object: an
// indexable view that computes its element offset on demand rather
// than reading the whole array up front.
func (o *Object) Index(i int64) *Object {
	if o.IsSentinel() {
		return o
	}
	if o.desc == nil || o.desc.Kind != profile.KindArray {
		return sentinel(fmt.Errorf("not an array"))
	}
	if i < 0 || i >= o.count() {
		return sentinel(fmt.Errorf("index %d out of range [0,%d)", i, o.count()))
	}
	elemSize := o.elemSize(o.desc.Target)
	return o.fromDescriptor(o.desc.Target, o.offset.Add(i*elemSize))
}

// Len returns an array object's element count.
func (o *Object) Len() int64 {
	if o.IsSentinel() || o.desc == nil || o.desc.Kind != profile.KindArray {
		return 0
	}
	return o.count()
}

func (o *Object) readUint(a addr.Address, width int64) (uint64, bool) {
	data, ok := o.vm.Read(a, width)
	if !ok {
		return 0, false
	}
	switch width {
	case 1:
		return uint64(data[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(data)), true
	case 4:
		return uint64(binary.LittleEndian.Uint32(data)), true
	case 8:
		return binary.LittleEndian.Uint64(data), true
	}
	return 0, false
}
