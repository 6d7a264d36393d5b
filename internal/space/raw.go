package space

import (
	"io"
	"os"

	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
)

// Raw is the address space at the bottom of every stack: random-access
// reads of an image file by byte offset. Grounded on
// plugins/address_spaces/standard.py's FileAddressSpace (order=100,
// "address space of last resort") and on internal/core/process.go's
// os.Open/mode-selection in Core().
type Raw struct {
	layer
	f    *os.File
	size int64
}

// OpenRaw opens the image named by cfg.Path() for reading, and for
// writing too if cfg.Write is set. It always succeeds if the file can be
// opened: Raw has no format to probe, so it never returns
// ErrNotApplicable.
func OpenRaw(cfg *config.Config) (*Raw, error) {
	flag := os.O_RDONLY
	if cfg.Write {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(cfg.Path(), flag, 0)
	if err != nil {
		return nil, err
	}
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Raw{
		layer: layer{base: nil, priority: 100, cfg: cfg},
		f:     f,
		size:  size,
	}, nil
}

// Close releases the underlying file handle. Idempotent.
func (r *Raw) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

func (r *Raw) Read(a addr.Address, n int64) ([]byte, bool) {
	if n < 0 || int64(a)+n > r.size || int64(a) < 0 {
		return nil, false
	}
	buf := make([]byte, n)
	if _, err := r.f.ReadAt(buf, int64(a)); err != nil {
		return nil, false
	}
	return buf, true
}

func (r *Raw) ZRead(a addr.Address, n int64) []byte {
	buf, ok := r.Read(a, n)
	if ok {
		return buf
	}
	out := make([]byte, n)
	if int64(a) >= r.size {
		return out
	}
	avail := r.size - int64(a)
	if avail > n {
		avail = n
	}
	if avail > 0 {
		got, _ := r.Read(a, avail)
		copy(out, got)
	}
	return out
}

// IsValidAddress reports whether addr is a readable byte offset.
//
// The original FileAddressSpace.is_valid_address used `addr < fsize - 1`,
// rejecting the very last byte of the image. memview implements the
// stricter `addr < fsize` instead: the historical off-by-one is not
// reproduced.
func (r *Raw) IsValidAddress(a addr.Address) bool {
	return int64(a) < r.size
}

func (r *Raw) AvailableRanges() []Range {
	if r.size <= 0 {
		return nil
	}
	return []Range{{Start: 0, Length: r.size}}
}

// Write writes data at addr if write-consent is enabled on cfg. It fails
// silently (returns false, a write-rejected outcome) otherwise.
func (r *Raw) Write(a addr.Address, data []byte) bool {
	if !r.cfg.Write {
		return false
	}
	if _, err := r.f.WriteAt(data, int64(a)); err != nil {
		return false
	}
	return true
}

// Size returns the length of the underlying image file.
func (r *Raw) Size() int64 { return r.size }
