package stack

import (
	"fmt"

	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/paging"
	"github.com/memview/memview/internal/space"
	"github.com/memview/memview/profile"
)

// buildPaging constructs the paging layer named by prof.Arch over
// physical, anchored at dtb. When cfg.Write is set, the returned layer
// additionally implements space.Writable via paging.WritableTable,
// gated on the same write-consent flag.
func buildPaging(physical space.AddressSpace, cfg *config.Config, prof *profile.Profile, dtb addr.Address) (space.AddressSpace, error) {
	var table *paging.Table
	switch prof.Arch {
	case "ia32":
		table = paging.NewIA32(physical, cfg, dtb)
	case "ia32pae":
		table = paging.NewIA32PAE(physical, cfg, dtb)
	case "amd64":
		table = paging.NewAMD64(physical, cfg, dtb)
	default:
		return nil, fmt.Errorf("unsupported paging architecture %q", prof.Arch)
	}
	if cfg.Write {
		return paging.NewWritableTable(table)
	}
	return table, nil
}
