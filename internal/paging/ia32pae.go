package paging

import (
	"encoding/binary"

	"github.com/memview/memview/arch"
	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
)

// pteFrameMask selects the physical-frame bits of a 64-bit x86 page-table
// entry (bits 12-51), excluding the NX bit (63) and the low flag bits.
const pteFrameMask = 0x000ffffffffff000

// NewIA32PAE builds a three-level x86 PAE paging layer (4 KiB pages, or
// 2 MiB pages when PS is set in the page-directory entry) over base.
func NewIA32PAE(base space.AddressSpace, cfg *config.Config, dtb addr.Address) *Table {
	return &Table{
		base: base,
		dtb:  dtb,
		arch: arch.IA32PAE,
		prio: 49,
		cfg:  cfg,
		levels: []level{
			{shift: 30, bits: 2, canBeLeaf: false},                  // page-directory-pointer table
			{shift: 21, bits: 9, canBeLeaf: true, leafSize: 2 << 20}, // page directory
			{shift: 12, bits: 9, canBeLeaf: false},                  // page table
		},
		decode: decodePAEEntry,
	}
}

func decodePAEEntry(buf []byte) entry {
	v := binary.LittleEndian.Uint64(buf)
	present := v&1 != 0
	large := v&(1<<7) != 0
	return entry{present: present, large: large, addr: addr.Address(v & pteFrameMask)}
}
