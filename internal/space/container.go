package space

import (
	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
)

// physicalView is the address space shared by every container variant: it
// translates a physical address into one or more reads against its base
// (always Raw, or another container layer stacked below it) via a
// RunList. Grounded on internal/core/process.go's Core(), which performs
// exactly this translation by mmap-ing each Mapping's backing file at
// m.off; memview keeps the base as an AddressSpace instead of assuming a
// host mmap is available, so it works uniformly over any base layer.
type physicalView struct {
	layer
	runs *RunList
}

func newPhysicalView(base AddressSpace, cfg *config.Config, priority int, runs *RunList) physicalView {
	return physicalView{layer: layer{base: base, priority: priority, cfg: cfg}, runs: runs}
}

func (v *physicalView) Read(a addr.Address, n int64) ([]byte, bool) {
	if n == 0 {
		return nil, true
	}
	out := make([]byte, 0, n)
	for n > 0 {
		r, off := v.runs.Find(a)
		if r == nil {
			return nil, false
		}
		chunk := r.Length - off
		if chunk > n {
			chunk = n
		}
		data, ok := v.base.Read(addr.Address(r.FileOffset+off), chunk)
		if !ok {
			return nil, false
		}
		out = append(out, data...)
		a = a.Add(chunk)
		n -= chunk
	}
	return out, true
}

func (v *physicalView) ZRead(a addr.Address, n int64) []byte {
	out := make([]byte, n)
	var i int64
	for i < n {
		r, off := v.runs.Find(a.Add(i))
		if r == nil {
			i++
			continue
		}
		chunk := r.Length - off
		if chunk > n-i {
			chunk = n - i
		}
		data, ok := v.base.Read(addr.Address(r.FileOffset+off), chunk)
		if ok {
			copy(out[i:], data)
		}
		i += chunk
	}
	return out
}

func (v *physicalView) IsValidAddress(a addr.Address) bool {
	return v.runs.IsValidAddress(a)
}

func (v *physicalView) AvailableRanges() []Range {
	return v.runs.Ranges()
}
