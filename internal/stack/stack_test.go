package stack

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/memview/memview/config"
	"github.com/memview/memview/profile"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "image.raw")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// TestAssembleEndToEnd builds a synthetic raw image with no recognized
// container format, a discoverable profile magic, a KDBG-anchored DTB,
// and a one-entry IA32 large-page directory, then checks that Assemble
// picks the right profile, the right DTB, and produces a paging layer
// that actually translates.
func TestAssembleEndToEnd(t *testing.T) {
	const (
		magicOff  = 0x1000
		anchorOff = 0x1100
		dtb       = 0x3000
		pageBase  = 0x400000 // a 4 MiB page frame must be 4 MiB-aligned
	)
	data := make([]byte, pageBase+0x1000)
	copy(data[magicOff:], "TESTMAGIC")
	copy(data[anchorOff:], "KDBGANCHOR")
	binary.LittleEndian.PutUint32(data[anchorOff+len("KDBGANCHOR"):], dtb)
	// Page-directory entry 0: present + PS, frame pageBase.
	binary.LittleEndian.PutUint32(data[dtb:], pageBase|1|(1<<7))
	copy(data[pageBase+0x50:], []byte("HELLOWORLD123456"))

	path := writeTemp(t, data)

	prof := profile.New("testos", "ia32")
	prof.Magic = []byte("TESTMAGIC")
	prof.KDBGMagic = []byte("KDBGANCHOR")
	prof.KDBGOffset = int64(len("KDBGANCHOR"))

	reg := profile.NewRegistry()
	reg.Register(prof)

	cfg := &config.Config{Location: "file:" + path}
	result, err := Assemble(cfg, reg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if result.Profile.Name != "testos" {
		t.Fatalf("Profile = %s; want testos", result.Profile.Name)
	}
	if result.DTB != dtb {
		t.Fatalf("DTB = %s; want %#x", result.DTB, dtb)
	}

	got, ok := result.Top.Read(0x50, 16)
	if !ok || string(got) != "HELLOWORLD123456" {
		t.Fatalf("Top.Read(0x50,16) = %q,%v; want HELLOWORLD123456,true", got, ok)
	}
}

func TestAssemblePinnedProfileAndDTB(t *testing.T) {
	const (
		dtb      = 0x3000
		pageBase = 0x400000 // a 4 MiB page frame must be 4 MiB-aligned
	)
	data := make([]byte, pageBase+0x1000)
	binary.LittleEndian.PutUint32(data[dtb:], pageBase|1|(1<<7))
	copy(data[pageBase+0x10:], []byte("PINNEDOK12345678"))

	path := writeTemp(t, data)

	prof := profile.New("testos", "ia32")
	reg := profile.NewRegistry()
	reg.Register(prof)

	pinnedDTB := uint64(dtb)
	cfg := &config.Config{Location: "file:" + path, Profile: "testos", DTB: &pinnedDTB}
	result, err := Assemble(cfg, reg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got, ok := result.Top.Read(0x10, 16)
	if !ok || string(got) != "PINNEDOK12345678" {
		t.Fatalf("Top.Read(0x10,16) = %q,%v; want PINNEDOK12345678,true", got, ok)
	}
}
