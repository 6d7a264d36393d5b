package stack

import (
	"bytes"
	"fmt"

	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
	"github.com/memview/memview/profile"
)

// maxScanPerRange bounds how much of any one available range the
// profile/DTB scanners will search, so a single very large unmapped-ish
// range doesn't make discovery unbounded. Real images keep their magic
// anchors near the start of a readable range, so this is generous
// without being exhaustive.
const maxScanPerRange = 256 << 20

// selectProfile returns cfg.Profile by name if pinned, otherwise the
// first registered profile whose VOLATILITY_MAGIC is found in physical.
func selectProfile(cfg *config.Config, reg *profile.Registry, physical space.AddressSpace) (*profile.Profile, error) {
	if cfg.Profile != "" {
		p := reg.ByName(cfg.Profile)
		if p == nil {
			return nil, fmt.Errorf("no such profile %q", cfg.Profile)
		}
		return p, nil
	}
	return reg.Discover(func(pattern []byte) bool {
		_, ok := scanFind(physical, pattern)
		return ok
	})
}

// scanFind searches every available range of v for pattern and returns
// the absolute address of the first match — the same sliding-search
// shape poolscan uses for pool tags, here anchoring profile/DTB magic
// instead.
func scanFind(v space.AddressSpace, pattern []byte) (addr.Address, bool) {
	if len(pattern) == 0 {
		return 0, false
	}
	for _, r := range v.AvailableRanges() {
		length := r.Length
		if length > maxScanPerRange {
			length = maxScanPerRange
		}
		data := v.ZRead(r.Start, length)
		if i := bytes.Index(data, pattern); i >= 0 {
			return r.Start.Add(int64(i)), true
		}
	}
	return 0, false
}

// discoverDTB returns cfg.DTB if pinned, otherwise scans physical for
// prof's KDBGMagic anchor and reads the DTB field KDBGOffset bytes past
// the match.
func discoverDTB(cfg *config.Config, prof *profile.Profile, physical space.AddressSpace) (addr.Address, error) {
	if cfg.DTB != nil {
		return addr.Address(*cfg.DTB), nil
	}
	if len(prof.KDBGMagic) == 0 {
		return 0, fmt.Errorf("profile %s has no KDBG anchor and no DTB override was given", prof.Name)
	}
	anchor, ok := scanFind(physical, prof.KDBGMagic)
	if !ok {
		return 0, fmt.Errorf("KDBG anchor for profile %s not found in image", prof.Name)
	}

	width := int64(4)
	if prof.Arch == "amd64" {
		width = 8
	}
	data, ok := physical.Read(anchor.Add(prof.KDBGOffset), width)
	if !ok {
		return 0, fmt.Errorf("could not read DTB field at %s", anchor.Add(prof.KDBGOffset))
	}
	var dtb uint64
	for i := int64(0); i < width; i++ {
		dtb |= uint64(data[i]) << (8 * uint(i))
	}
	return addr.Address(dtb), nil
}
