package paging

import (
	"encoding/binary"

	"github.com/memview/memview/arch"
	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
)

// NewAMD64 builds a four-level x86-64 paging layer over base (4 KiB,
// 2 MiB, or 1 GiB pages depending on which level's PS bit is set).
func NewAMD64(base space.AddressSpace, cfg *config.Config, dtb addr.Address) *Table {
	return &Table{
		base: base,
		dtb:  dtb,
		arch: arch.AMD64,
		prio: 48,
		cfg:  cfg,
		levels: []level{
			{shift: 39, bits: 9, canBeLeaf: false},                   // PML4
			{shift: 30, bits: 9, canBeLeaf: true, leafSize: 1 << 30}, // page-directory-pointer table
			{shift: 21, bits: 9, canBeLeaf: true, leafSize: 2 << 20}, // page directory
			{shift: 12, bits: 9, canBeLeaf: false},                  // page table
		},
		decode: decodeAMD64Entry,
	}
}

func decodeAMD64Entry(buf []byte) entry {
	v := binary.LittleEndian.Uint64(buf)
	present := v&1 != 0
	large := v&(1<<7) != 0
	return entry{present: present, large: large, addr: addr.Address(v & pteFrameMask)}
}
