package profile

import "fmt"

// Field is one named, offset member of a VType. Grounded on
// internal/gocore/type.go's Field{Name, Off, Type}.
type Field struct {
	Name string
	Off  int64
	Type *TypeDescriptor
}

// VType is the (size, fields) pair assigned to each type name in a
// Profile's vtypes map.
type VType struct {
	Size   int64
	Fields []Field
}

func (t *VType) field(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// HasField reports whether name is a member of t.
func (t *VType) HasField(name string) bool {
	return t.field(name) != nil
}

// ClassFactory builds an extended view's capability set for a type named
// in a Profile's object_classes table. It returns an opaque value that
// object.Extend hands back as-is, and the caller type-asserts it to the
// concrete type it expects; profile only carries the registration — a small
// registry keyed by (profile, type_name) mapping to a func(Object) ->
// ExtendedView, so callers request an extended view explicitly.
type ClassFactory func(obj any) any

// Profile is named by OS + service-pack + architecture and holds the
// vtypes, object-class overrides, per-image constants, and discovery
// anchors (VOLATILITY_MAGIC, KDBG magic/offset) for one target.
type Profile struct {
	Name string
	Arch string // "ia32", "ia32pae", or "amd64" — selects the paging variant

	vtypes        map[string]*VType
	objectClasses map[string]ClassFactory
	constants     map[string]int64
	nativeWidths  map[string]int64 // native_types: primitive widths for the architecture

	// Magic is the exact byte sequence VOLATILITY_MAGIC names; the
	// stack assembler's profile-discovery pass looks for it in the
	// image.
	Magic []byte

	// KDBGMagic anchors DTB discovery for this profile: the assembler
	// scans the physical view for this byte pattern, then reads the
	// DTB field at KDBGOffset bytes past the match.
	KDBGMagic []byte
	KDBGOffset int64
}

// New creates an empty profile ready to be populated by New's caller
// (typically a profile constructor in builtin.go) via SetVType,
// ApplyOverlay, SetConstant, SetObjectClass.
func New(name, arch string) *Profile {
	return &Profile{
		Name:          name,
		Arch:          arch,
		vtypes:        make(map[string]*VType),
		objectClasses: make(map[string]ClassFactory),
		constants:     make(map[string]int64),
		nativeWidths:  make(map[string]int64),
	}
}

// SetVType installs the base layout for typeName: the machine-generated
// vtypes map (as produced from OS symbols) before any overlay is
// applied.
func (p *Profile) SetVType(typeName string, size int64, fields []Field) {
	p.vtypes[typeName] = &VType{Size: size, Fields: append([]Field(nil), fields...)}
}

// SetConstant installs a per-image constant (e.g. a discovered KDBG
// offset).
func (p *Profile) SetConstant(name string, value int64) {
	p.constants[name] = value
}

// Constant returns a previously-set constant and whether it exists.
func (p *Profile) Constant(name string) (int64, bool) {
	v, ok := p.constants[name]
	return v, ok
}

// SetNativeWidth records a primitive width for the architecture (e.g.
// "long" -> 4 on ia32, 8 on amd64).
func (p *Profile) SetNativeWidth(name string, width int64) {
	p.nativeWidths[name] = width
}

// NativeWidth returns a previously-set native width and whether it
// exists.
func (p *Profile) NativeWidth(name string) (int64, bool) {
	w, ok := p.nativeWidths[name]
	return w, ok
}

// SetObjectClass registers a capability-set override for typeName in
// the profile's object_classes table.
func (p *Profile) SetObjectClass(typeName string, factory ClassFactory) {
	p.objectClasses[typeName] = factory
}

// ObjectClass returns the registered class factory for typeName, if any.
func (p *Profile) ObjectClass(typeName string) (ClassFactory, bool) {
	f, ok := p.objectClasses[typeName]
	return f, ok
}

// VType returns the merged layout for typeName, or an error if the
// profile has no such type — a missing-prerequisite failure at the
// type-lookup granularity.
func (p *Profile) VType(typeName string) (*VType, error) {
	t, ok := p.vtypes[typeName]
	if !ok {
		return nil, fmt.Errorf("profile %s: no such type %q", p.Name, typeName)
	}
	return t, nil
}

// TypeNames returns every type name the profile defines, for discovery
// tooling (e.g. a "profile-info" CLI command).
func (p *Profile) TypeNames() []string {
	names := make([]string, 0, len(p.vtypes))
	for n := range p.vtypes {
		names = append(names, n)
	}
	return names
}
