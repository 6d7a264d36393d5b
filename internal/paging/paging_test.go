package paging

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
)

// fakePhysical is a minimal synthetic physical address space: a fixed
// set of byte regions, each readable in full, everything else
// unreadable. It exists only to drive paging.Table against known
// page-table-entry and page-content bytes without needing a real image.
type fakePhysical struct {
	regions []fakeRegion
}

type fakeRegion struct {
	start addr.Address
	data  []byte
}

func (f *fakePhysical) find(a addr.Address, n int64) ([]byte, bool) {
	for _, r := range f.regions {
		if a >= r.start && int64(a-r.start)+n <= int64(len(r.data)) {
			off := int64(a - r.start)
			return r.data[off : off+n], true
		}
	}
	return nil, false
}

func (f *fakePhysical) Read(a addr.Address, n int64) ([]byte, bool) { return f.find(a, n) }

func (f *fakePhysical) ZRead(a addr.Address, n int64) []byte {
	if data, ok := f.find(a, n); ok {
		return append([]byte(nil), data...)
	}
	return make([]byte, n)
}

func (f *fakePhysical) IsValidAddress(a addr.Address) bool {
	_, ok := f.find(a, 1)
	return ok
}

func (f *fakePhysical) AvailableRanges() []space.Range {
	out := make([]space.Range, len(f.regions))
	for i, r := range f.regions {
		out[i] = space.Range{Start: r.start, Length: int64(len(r.data))}
	}
	return out
}

func (f *fakePhysical) Base() space.AddressSpace { return nil }
func (f *fakePhysical) Priority() int            { return 0 }

// S2: IA32 paging, DTB 0x39000, virtual 0xC0000000 mapped to physical
// 0x01000000 via a single 4 MiB page-directory entry.
func TestIA32LargePageTranslation(t *testing.T) {
	const dtb = addr.Address(0x39000)
	const vbase = addr.Address(0xC0000000)
	const pbase = addr.Address(0x01000000)

	pdt := make([]byte, 0x1000)
	index := (uint64(vbase) >> 22) & 0x3ff
	binary.LittleEndian.PutUint32(pdt[index*4:], uint32(pbase)|1|(1<<7)) // present + PS

	lastPage := bytes.Repeat([]byte{0x55}, 0x1000)

	phys := &fakePhysical{regions: []fakeRegion{
		{start: dtb, data: pdt},
		{start: pbase.Add(0x3ff000), data: lastPage},
	}}

	table := NewIA32(phys, &config.Config{}, dtb)

	if p, ok := table.Vtop(vbase.Add(0x100)); !ok || p != pbase.Add(0x100) {
		t.Fatalf("Vtop(vbase+0x100) = %s,%v; want %s,true", p, ok, pbase.Add(0x100))
	}
	if _, ok := table.Vtop(vbase.Add(0x400000)); ok {
		t.Fatalf("Vtop(vbase+4MiB) succeeded; want failure, page directory entry unset")
	}

	got := table.ZRead(vbase.Add(0x3ff000), 0x2000)
	if len(got) != 0x2000 {
		t.Fatalf("len(ZRead) = %d; want 0x2000", len(got))
	}
	if !bytes.Equal(got[:0x1000], lastPage) {
		t.Fatalf("ZRead first half = %x; want last mapped page contents", got[:0x1000])
	}
	for i := 0x1000; i < 0x2000; i++ {
		if got[i] != 0 {
			t.Fatalf("ZRead byte %d past mapped page = %#x; want 0", i, got[i])
		}
	}
}
