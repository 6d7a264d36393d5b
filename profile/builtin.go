package profile

import "github.com/memview/memview/internal/space"

// DefaultRegistry returns the small set of profiles memview ships out
// of the box. Registration order matters: profiles declared first are
// tried first during discovery. Each ships just enough vtype/overlay/
// magic data to demonstrate the engine end to end; a production
// deployment would load a much larger machine-generated catalog
// instead.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(winVistaSP1X86())
	reg.Register(winXPSP2X86())
	return reg
}

// elf32NoteNamesz reads n_namesz off parent and reports it as an int64,
// or 0 if parent doesn't carry that field. This is the length-function
// counterpart of
// _examples/original_source/volatility/plugins/overlays/linux/elf32.py's
// elf32_note overlay: `'namesz' : ['String', dict(length = lambda x :
// int(x.n_namesz))]`.
func elf32NoteNamesz(parent any) int64 {
	pr, ok := parent.(ParentReader)
	if !ok {
		return 0
	}
	n, ok := pr.UintField("n_namesz")
	if !ok {
		return 0
	}
	return int64(n)
}

// registerELFNoteType installs elf32_note: the ELF note header every
// container probe's note-parsing logic (internal/space/elfcore.go's
// hasQEMUCoreNote) reads by hand when deciding whether an ELF coredump
// is QEMU's. Registering it here additionally exposes the note layout
// to the object engine itself — e.g. for "inspect" REPL use against a
// note offset found during container probing — with its name string's
// length driven by LengthFn off the fixed-size n_namesz field that
// precedes it, exactly as elf32.py's overlay does it. The descriptor
// bytes that follow the name aren't modeled as a field here: their
// offset itself depends on namesz (4-byte aligned), which needs a custom
// accessor rather than a fixed Field.Off — the same reason elf32.py computes
// desc_offset in a getter instead of a plain vtype entry.
func registerELFNoteType(p *Profile) {
	p.SetVType("elf32_note", 12, []Field{
		{Name: "n_namesz", Off: 0, Type: Primitive(4, false)},
		{Name: "n_descsz", Off: 4, Type: Primitive(4, false)},
		{Name: "n_type", Off: 8, Type: Primitive(4, false)},
		{Name: "namesz", Off: 12, Type: StringOfFunc(elf32NoteNamesz, true)},
	})
}

// winVistaSP1X86 mirrors
// _examples/original_source/volatility/plugins/overlays/windows/vista_sp1_x86.py:
// its VOLATILITY_MAGIC and KDBG byte-pattern are carried over as the
// anchors the stack assembler scans for.
func winVistaSP1X86() *Profile {
	p := New("WinVistaSP1x86", "ia32")
	p.Magic = []byte("VOLATILITY_MAGIC_VISTA_SP1_X86")
	p.KDBGMagic = space.KDBGMagicVista
	p.KDBGOffset = int64(len(space.KDBGMagicVista)) + 4 // skip the trailing version word's low half
	p.SetNativeWidth("pointer", 4)
	p.SetNativeWidth("long", 4)

	registerCommonWindowsTypes(p)
	registerELFNoteType(p)
	return p
}

// winXPSP2X86 is a second, older profile registered after Vista so that
// Discover's registration-order trial has more than one candidate to
// skip past.
func winXPSP2X86() *Profile {
	p := New("WinXPSP2x86", "ia32")
	p.Magic = []byte("VOLATILITY_MAGIC_XP_SP2_X86")
	p.SetNativeWidth("pointer", 4)
	p.SetNativeWidth("long", 4)

	registerCommonWindowsTypes(p)
	registerELFNoteType(p)
	return p
}

// registerCommonWindowsTypes installs the handful of structure layouts
// exercised by the pool scanner and the inspect REPL: _HHIVE (the
// registry hive header hivescan2.py anchors on) and _LIST_ENTRY (the
// doubly linked list every Windows kernel structure is threaded
// through).
func registerCommonWindowsTypes(p *Profile) {
	p.SetVType("_LIST_ENTRY", 8, []Field{
		{Name: "Flink", Off: 0, Type: PointerTo(Named("_LIST_ENTRY"))},
		{Name: "Blink", Off: 4, Type: PointerTo(Named("_LIST_ENTRY"))},
	})
	p.SetVType("_HHIVE", 0x4a8, []Field{
		{Name: "Signature", Off: 0, Type: Primitive(4, false)},
		// SignatureMagic overlays the same 4 bytes as Signature as a
		// KindVolatilityMagic predicate (0xbee0bee0 little-endian) rather
		// than an integer to compare by hand — the fixed-pattern-match
		// counterpart to poolscan.CheckSignature's Uint()==want check.
		{Name: "SignatureMagic", Off: 0, Type: VolatilityMagicOf([]byte{0xe0, 0xbe, 0xe0, 0xbe})},
		{Name: "BaseBlock", Off: 4, Type: PointerTo(Named("_HBASE_BLOCK"))},
	})
	p.SetVType("_HBASE_BLOCK", 0x200, []Field{
		{Name: "Signature", Off: 0, Type: Primitive(4, false)},
		{Name: "Sequence1", Off: 4, Type: Primitive(4, false)},
		{Name: "Sequence2", Off: 8, Type: Primitive(4, false)},
	})
}
