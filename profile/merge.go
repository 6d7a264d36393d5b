package profile

// OverlayPatch is one type's worth of version-specific tweaks: a
// possibly-revised size and/or a set of fields to add or replace by
// name. Overlays applied later win on a field-by-field basis over
// overlays applied earlier, which in turn win over the base vtype.
type OverlayPatch struct {
	Size   *int64
	Fields []Field
}

// Overlay is a named collection of per-type patches, applied in one pass
// over a Profile's vtypes.
type Overlay map[string]OverlayPatch

// ApplyOverlay merges overlay onto p's vtypes field-by-field: a patched
// type's Size is replaced if the patch sets one, and each patched field
// replaces any existing field of the same name (or is appended if new).
// Fields not mentioned by the patch are left untouched.
//
// Grounded on internal/gocore/dwarf.go's readDWARFTypes, which allocates
// every Type first and fills in fields in a second pass; ApplyOverlay
// generalizes that two-pass shape from "one DWARF pass over a base set"
// to "N overlay passes over a deep-copied base set."
func (p *Profile) ApplyOverlay(overlay Overlay) {
	for typeName, patch := range overlay {
		t, ok := p.vtypes[typeName]
		if !ok {
			t = &VType{}
			p.vtypes[typeName] = t
		}
		if patch.Size != nil {
			t.Size = *patch.Size
		}
		for _, f := range patch.Fields {
			if existing := t.field(f.Name); existing != nil {
				*existing = f
				continue
			}
			t.Fields = append(t.Fields, f)
		}
	}
}

// Clone deep-copies p's vtypes so a caller can build a version-specific
// profile from a shared base without later overlays mutating the
// original.
func (p *Profile) Clone(name string) *Profile {
	np := New(name, p.Arch)
	for typeName, t := range p.vtypes {
		np.vtypes[typeName] = &VType{
			Size:   t.Size,
			Fields: append([]Field(nil), t.Fields...),
		}
	}
	for k, v := range p.constants {
		np.constants[k] = v
	}
	for k, v := range p.nativeWidths {
		np.nativeWidths[k] = v
	}
	for k, v := range p.objectClasses {
		np.objectClasses[k] = v
	}
	np.Magic = p.Magic
	np.KDBGMagic = p.KDBGMagic
	np.KDBGOffset = p.KDBGOffset
	return np
}
