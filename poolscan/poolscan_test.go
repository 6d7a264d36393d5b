package poolscan

import (
	"testing"

	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
	"github.com/memview/memview/profile"
)

type flatSpace struct {
	data []byte
}

func (f *flatSpace) Read(a addr.Address, n int64) ([]byte, bool) {
	if n < 0 || int64(a)+n > int64(len(f.data)) {
		return nil, false
	}
	return f.data[a : int64(a)+n], true
}

func (f *flatSpace) ZRead(a addr.Address, n int64) []byte {
	if data, ok := f.Read(a, n); ok {
		return append([]byte(nil), data...)
	}
	return make([]byte, n)
}

func (f *flatSpace) IsValidAddress(a addr.Address) bool { return int64(a) < int64(len(f.data)) }
func (f *flatSpace) AvailableRanges() []space.Range {
	return []space.Range{{Start: 0, Length: int64(len(f.data))}}
}
func (f *flatSpace) Base() space.AddressSpace { return nil }
func (f *flatSpace) Priority() int            { return 0 }

// S6: scanning for tag "CM10" with the check_hive_sig-equivalent
// constraint over a buffer holding one valid hive pool header at offset
// 0x12000 yields that single offset.
func TestPoolScanHiveSignature(t *testing.T) {
	prof := profile.New("test", "ia32")
	prof.SetVType("_HHIVE", 0x4a8, []profile.Field{
		{Name: "Signature", Off: 0, Type: profile.Primitive(4, false)},
	})

	const tagOffset = 0x12000
	data := make([]byte, tagOffset+0x500)
	copy(data[tagOffset:], "CM10")
	// _HHIVE begins 4 bytes after the tag, matching
	// check_hive_sig's offset=found+4.
	hiveOff := tagOffset + 4
	data[hiveOff+0] = 0xe0
	data[hiveOff+1] = 0xbe
	data[hiveOff+2] = 0xe0
	data[hiveOff+3] = 0xbe

	vm := &flatSpace{data: data}
	scanner := New("CM10", 0x4a8, CheckSignature(prof, "_HHIVE", "Signature", 4, 0xbee0bee0))

	var got []addr.Address
	for off := range scanner.Scan(vm) {
		got = append(got, off)
	}
	if len(got) != 1 || got[0] != addr.Address(tagOffset) {
		t.Fatalf("Scan() = %v; want single offset %#x", got, tagOffset)
	}
}

func TestPoolScanRejectsWrongSignature(t *testing.T) {
	prof := profile.New("test", "ia32")
	prof.SetVType("_HHIVE", 0x4a8, []profile.Field{
		{Name: "Signature", Off: 0, Type: profile.Primitive(4, false)},
	})

	const tagOffset = 0x1000
	data := make([]byte, tagOffset+0x500)
	copy(data[tagOffset:], "CM10")
	// Signature left as zero bytes: wrong value, constraint must reject.

	vm := &flatSpace{data: data}
	scanner := New("CM10", 0x4a8, CheckSignature(prof, "_HHIVE", "Signature", 4, 0xbee0bee0))

	var got []addr.Address
	for off := range scanner.Scan(vm) {
		got = append(got, off)
	}
	if len(got) != 0 {
		t.Fatalf("Scan() = %v; want no matches (signature constraint should reject)", got)
	}
}
