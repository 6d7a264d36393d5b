package space

import (
	"fmt"

	"github.com/memview/memview/internal/addr"
)

// fileReaderAt adapts an AddressSpace to io.ReaderAt so that stdlib
// container-format parsers (debug/elf) can read directly through a lower
// layer without memview re-implementing their header parsing.
type fileReaderAt struct {
	base AddressSpace
}

func (r *fileReaderAt) ReadAt(p []byte, off int64) (int, error) {
	data, ok := r.base.Read(addr.Address(off), int64(len(p)))
	if !ok {
		return 0, fmt.Errorf("short read at offset %#x", off)
	}
	copy(p, data)
	return len(data), nil
}
