package space

import (
	"encoding/binary"

	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
)

// Windows crash-dump signatures. A 32-bit dump starts "PAGEDUMP"; a
// 64-bit dump starts "PAGEDU64". Grounded on the KDBG-magic-anchored
// profile selection described in
// _examples/original_source/volatility/plugins/overlays/windows/vista_sp1_x86.py.
var (
	crashSig32 = [8]byte{'P', 'A', 'G', 'E', 'D', 'U', 'M', 'P'}
	crashSig64 = [8]byte{'P', 'A', 'G', 'E', 'D', 'U', '6', '4'}
)

const (
	crashPhysicalMemoryBlockOffset32 = 0x064
	crashPhysicalMemoryBlockOffset64 = 0x088
	crashRunEntrySize                = 16 // BasePage (8) + PageCount (8), little-endian uint64 pair
	crashPageSize                    = 0x1000
)

// NewCrashDump probes base for a Windows crash-dump header and, on
// success, returns the decoded physical view built from the dump's
// PhysicalMemoryBlock run table.
func NewCrashDump(base AddressSpace, cfg *config.Config) (*physicalView, error) {
	hdr, ok := base.Read(0, 0x2000)
	if !ok || len(hdr) < 8 {
		return nil, ErrNotApplicable
	}
	var is64 bool
	switch {
	case matchSig(hdr, crashSig32):
		is64 = false
	case matchSig(hdr, crashSig64):
		is64 = true
	default:
		return nil, ErrNotApplicable
	}

	blockOff := crashPhysicalMemoryBlockOffset32
	if is64 {
		blockOff = crashPhysicalMemoryBlockOffset64
	}
	if len(hdr) < blockOff+8 {
		return nil, ErrNotApplicable
	}
	numberOfRuns := binary.LittleEndian.Uint64(hdr[blockOff:])
	if numberOfRuns == 0 || numberOfRuns > 1<<20 {
		return nil, ErrNotApplicable
	}

	runTableOff := blockOff + 16 // skip NumberOfRuns + NumberOfPages
	runTableLen := int(numberOfRuns) * crashRunEntrySize
	table, ok := base.Read(addr.Address(runTableOff), int64(runTableLen))
	if !ok {
		return nil, ErrNotApplicable
	}

	var runs []Run
	fileOff := int64(len(hdr)) // data follows the header+run-table region
	if headerLen := runTableOff + runTableLen; int64(headerLen) > fileOff {
		fileOff = int64(headerLen)
	}
	for i := 0; i < int(numberOfRuns); i++ {
		e := table[i*crashRunEntrySize:]
		basePage := binary.LittleEndian.Uint64(e[0:8])
		pageCount := binary.LittleEndian.Uint64(e[8:16])
		length := int64(pageCount) * crashPageSize
		runs = append(runs, Run{
			Physical:   addr.Address(basePage * crashPageSize),
			FileOffset: fileOff,
			Length:     length,
		})
		fileOff += length
	}
	if len(runs) == 0 {
		return nil, ErrNotApplicable
	}

	v := newPhysicalView(base, cfg, 10, NewRunList(runs))
	return &v, nil
}

func matchSig(hdr []byte, sig [8]byte) bool {
	for i := range sig {
		if hdr[i] != sig[i] {
			return false
		}
	}
	return true
}

// KDBGMagicVista is an example KDBG anchor: eight zero bytes followed
// by "KDBG" and a version word, specific to one Vista service-pack
// profile. DTB discovery (internal/stack) scans a physical view for
// patterns like this one, supplied per-profile.
var KDBGMagicVista = []byte{0, 0, 0, 0, 0, 0, 0, 0, 'K', 'D', 'B', 'G', 0x30, 0x03}
