package paging

import (
	"encoding/binary"

	"github.com/memview/memview/arch"
	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
)

// NewIA32 builds a classic x86 two-level paging layer (4 KiB pages, or
// 4 MiB pages when PSE is set in the page-directory entry) over base,
// using dtb as the physical address of the page directory.
func NewIA32(base space.AddressSpace, cfg *config.Config, dtb addr.Address) *Table {
	return &Table{
		base: base,
		dtb:  dtb,
		arch: arch.IA32,
		prio: 50,
		cfg:  cfg,
		levels: []level{
			{shift: 22, bits: 10, canBeLeaf: true, leafSize: 4 << 20}, // page directory
			{shift: 12, bits: 10, canBeLeaf: false},                  // page table
		},
		decode: decodeIA32Entry,
	}
}

func decodeIA32Entry(buf []byte) entry {
	v := binary.LittleEndian.Uint32(buf)
	present := v&1 != 0
	large := v&(1<<7) != 0
	var frame addr.Address
	if large {
		// 4 MiB page: bits 22-31 are the frame, bits 13-20 extend it
		// past 32 bits on PSE-36 systems; memview targets plain PSE,
		// so only bits 22-31 are used.
		frame = addr.Address(v &^ 0x3fffff)
	} else {
		frame = addr.Address(v &^ 0xfff)
	}
	return entry{present: present, large: large, addr: frame}
}
