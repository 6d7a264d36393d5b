package space

import (
	"sort"

	"github.com/memview/memview/internal/addr"
)

// A Run records that Length bytes of a container's decoded physical
// address space live at FileOffset in the underlying file: the
// (physical_address, file_offset, length) triple every container
// variant produces.
type Run struct {
	Physical   addr.Address
	FileOffset int64
	Length     int64
}

func (r Run) end() addr.Address { return r.Physical.Add(r.Length) }

// RunList is a sorted, non-overlapping list of Runs, binary-searched on
// every physical read. Grounded on internal/core/process.go's sort-then-
// merge pass over p.memory.mappings in Core(), generalized from "merge
// adjacent OS mappings for tidiness" to "the run list a container format
// hands the stack assembler".
type RunList struct {
	runs []Run
}

// NewRunList sorts runs by physical address and returns a RunList. It
// does not merge adjacent runs, since merging requires knowing the runs
// share a single backing file; none of the container variants here
// merge their runs before constructing the list either.
func NewRunList(runs []Run) *RunList {
	rl := &RunList{runs: append([]Run(nil), runs...)}
	sort.Slice(rl.runs, func(i, j int) bool { return rl.runs[i].Physical < rl.runs[j].Physical })
	return rl
}

// Runs returns the runs in ascending physical-address order.
func (rl *RunList) Runs() []Run { return rl.runs }

// Find returns the run containing physical address a, and the offset of
// a within that run, or (nil, 0) if a falls in a gap.
func (rl *RunList) Find(a addr.Address) (*Run, int64) {
	i := sort.Search(len(rl.runs), func(i int) bool { return rl.runs[i].end() > a })
	if i == len(rl.runs) || a < rl.runs[i].Physical {
		return nil, 0
	}
	return &rl.runs[i], a.Sub(rl.runs[i].Physical)
}

// Ranges returns the (start, length) pairs covered by the run list, for
// AvailableRanges. Adjacent runs are coalesced even when individually
// distinct (e.g. one from the core file, one from a companion
// executable), since AvailableRanges only promises readable coverage,
// not backing-store identity.
func (rl *RunList) Ranges() []Range {
	var out []Range
	for _, r := range rl.runs {
		if len(out) > 0 {
			last := &out[len(out)-1]
			if last.Start.Add(last.Length) == r.Physical {
				last.Length += r.Length
				continue
			}
		}
		out = append(out, Range{Start: r.Physical, Length: r.Length})
	}
	return out
}

// IsValidAddress reports whether a is covered by some run.
func (rl *RunList) IsValidAddress(a addr.Address) bool {
	r, _ := rl.Find(a)
	return r != nil
}
