// Package object implements a typed-overlay object factory:
// New(type_name, offset, vm) -> Object | Sentinel. Every field access
// is a bounds-checked dereference through the layered address-space
// stack; a failed read anywhere in the chain yields a sentinel that
// silently absorbs every further dereference instead of panicking.
//
// Grounded on internal/gocore/object.go's Object (a thin wrapper over an
// address, with domain methods layered on by class overrides) and on
// internal/gocore/type.go's field-driven access pattern, retargeted from
// "reflect over DWARF-derived Go runtime types" to "reflect over
// vtype-derived kernel structure types".
package object

import (
	"fmt"

	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
	"github.com/memview/memview/profile"
)

// Object is a live, lazily-read view of a typed value somewhere in an
// address space. It is value-like and cheap to construct — O(1), no
// eager reads — and owns no memory beyond its own small header.
type Object struct {
	// typeName is set when this Object is positioned at a named vtype
	// (the common case: the root of a factory call, or anything
	// reached through a KindNamed descriptor). desc is set instead when
	// positioned at an anonymous descriptor (a field's own type, e.g. a
	// pointer or array slot) that isn't itself a named vtype.
	typeName string
	desc     *profile.TypeDescriptor

	offset addr.Address
	vm     space.AddressSpace
	prof   *profile.Profile
	parent *Object

	// err is non-nil exactly when this Object is a sentinel. Every
	// accessor on a sentinel returns another sentinel carrying the same
	// err, never panicking.
	err error
}

// New is the object factory entry point. prof must have typeName
// registered; if it doesn't, New returns a sentinel rather than an
// error, so callers can chain without a separate error check at the
// root — exactly as every other accessor behaves.
func New(prof *profile.Profile, typeName string, offset addr.Address, vm space.AddressSpace, parent *Object) *Object {
	if _, err := prof.VType(typeName); err != nil {
		return sentinel(err)
	}
	return &Object{typeName: typeName, offset: offset, vm: vm, prof: prof, parent: parent}
}

func sentinel(err error) *Object {
	return &Object{err: err}
}

// IsSentinel reports whether o stands in for a failed read.
func (o *Object) IsSentinel() bool {
	return o != nil && o.err != nil
}

// Err returns the reason o is a sentinel, or nil if it isn't.
func (o *Object) Err() error {
	if o == nil {
		return fmt.Errorf("nil object")
	}
	return o.err
}

// Bool is the boolean projection: false for any sentinel, true
// otherwise.
func (o *Object) Bool() bool {
	return o != nil && o.err == nil
}

// TypeName returns the name of o's vtype, or "" if o is positioned at an
// anonymous descriptor or is a sentinel.
func (o *Object) TypeName() string { return o.typeName }

// Offset returns o's absolute address in its address space.
func (o *Object) Offset() addr.Address { return o.offset }

// VM returns the address space o's reads go through.
func (o *Object) VM() space.AddressSpace { return o.vm }

// Profile returns the profile o was constructed from.
func (o *Object) Profile() *profile.Profile { return o.prof }

// Parent returns the object this one was reached from via a field,
// pointer dereference, or array index — used by LengthFunc evaluators
// that compute a length from a sibling field on the parent.
func (o *Object) Parent() *Object { return o.parent }

// resolveVType returns the merged (size, fields) layout for o's named
// type, or a sentinel-producing error if o isn't positioned at a named
// type at all (e.g. it's a bare pointer/array slot with no vtype of its
// own).
func (o *Object) resolveVType() (*profile.VType, error) {
	if o.typeName == "" {
		return nil, fmt.Errorf("object has no named type to look up fields on")
	}
	return o.prof.VType(o.typeName)
}

// Field looks up name in o's vtype and returns the object positioned at
// that field. A sentinel is returned (never a panic) if o is already a
// sentinel, has no vtype, or has no such field.
func (o *Object) Field(name string) *Object {
	if o.IsSentinel() {
		return o
	}
	vt, err := o.resolveVType()
	if err != nil {
		return sentinel(err)
	}
	var f *profile.Field
	for i := range vt.Fields {
		if vt.Fields[i].Name == name {
			f = &vt.Fields[i]
			break
		}
	}
	if f == nil {
		return sentinel(fmt.Errorf("type %s has no field %q", o.typeName, name))
	}
	return o.fromDescriptor(f.Type, o.offset.Add(f.Off))
}

// HasField reports whether o's vtype defines name.
func (o *Object) HasField(name string) bool {
	vt, err := o.resolveVType()
	if err != nil {
		return false
	}
	return vt.HasField(name)
}

// fromDescriptor builds the child object a TypeDescriptor produces at
// offset off: a KindNamed descriptor recurses into the named vtype;
// every other kind carries its descriptor directly.
func (o *Object) fromDescriptor(td *profile.TypeDescriptor, off addr.Address) *Object {
	if td.Kind == profile.KindNamed {
		return New(o.prof, td.TypeName, off, o.vm, o)
	}
	return &Object{desc: td, offset: off, vm: o.vm, prof: o.prof, parent: o}
}

// descriptor returns the TypeDescriptor that governs how to read o's own
// value: either its explicit anonymous descriptor, or — for a named
// object used as a scalar (unusual, but not an error) — nil.
func (o *Object) descriptor() *profile.TypeDescriptor {
	return o.desc
}

func (o *Object) vtypeSize() (int64, error) {
	if o.desc != nil {
		return 0, fmt.Errorf("not a named type")
	}
	vt, err := o.resolveVType()
	if err != nil {
		return 0, err
	}
	return vt.Size, nil
}

// Size returns the size in bytes of o's type: the vtype size for a named
// object, or the descriptor's own size for primitives/bitfields, or the
// pointer width for a pointer.
func (o *Object) Size() int64 {
	if o.IsSentinel() {
		return 0
	}
	if o.desc == nil {
		size, err := o.vtypeSize()
		if err != nil {
			return 0
		}
		return size
	}
	switch o.desc.Kind {
	case profile.KindPrimitive:
		return o.desc.Width
	case profile.KindPointer:
		if w, ok := o.prof.NativeWidth("pointer"); ok {
			return w
		}
		return 8
	case profile.KindArray:
		return o.elemSize(o.desc.Target) * o.count()
	case profile.KindString:
		return o.stringLength()
	case profile.KindBitfield:
		return o.desc.Base.Width
	case profile.KindEnumeration:
		return o.desc.EnumBase.Width
	case profile.KindVolatilityMagic:
		return int64(len(o.desc.Predicate))
	}
	return 0
}
