// Package poolscan implements a pool-tag scanner: given a physical
// view, a 4-byte pool tag, a nominal allocation size, and an ordered
// list of constraint predicates, it yields the offset of every
// allocation whose tag matches and whose constraints all pass.
//
// Grounded on
// _examples/original_source/memory_plugins/registry/hivescan2.py's
// PoolScanHiveFast2, which registers check_blocksize_equal,
// check_pagedpooltype, and check_hive_sig (in that order) on top of the
// base PoolScanner's tag-sliding search; Scanner generalizes that
// registration pattern from "one hand-written subclass per tag" to "one
// Scanner value per tag, built from an ordered []Constraint".
package poolscan

import (
	"iter"

	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
)

// maxScanPerRange bounds how much of any one available range is pulled
// into memory for the sliding-window search, same rationale as
// internal/stack/profile_select.go's scanFind.
const maxScanPerRange = 256 << 20

// Constraint is one registered predicate a candidate allocation must
// satisfy, e.g. hivescan2.py's check_hive_sig. found is the offset where
// the pool tag itself begins; a constraint reads whatever header or
// payload fields it needs relative to found.
type Constraint func(v space.AddressSpace, found addr.Address) bool

// Scanner holds everything needed to find one kind of pool allocation:
// the tag to search for, the allocation's nominal size (informational —
// a constraint that wants to check it, e.g. a check_blocksize_equal
// analogue, reads it via the header fields it's given, not via this
// field directly), and the ordered constraints every candidate must
// pass.
type Scanner struct {
	Tag         [4]byte
	PoolSize    int64
	Constraints []Constraint
}

// New builds a Scanner for tag (which must be exactly 4 bytes, the way
// pool_tag = "CM10" always is in the source material) with poolSize
// informational and constraints tried in registration order; the first
// false short-circuits the rest.
func New(tag string, poolSize int64, constraints ...Constraint) *Scanner {
	s := &Scanner{PoolSize: poolSize, Constraints: constraints}
	copy(s.Tag[:], tag)
	return s
}

// Scan slides a 4-byte window across every available range of v looking
// for s.Tag, and yields the offset of each match whose constraints all
// pass, in ascending address order.
func (s *Scanner) Scan(v space.AddressSpace) iter.Seq[addr.Address] {
	return func(yield func(addr.Address) bool) {
		for _, r := range v.AvailableRanges() {
			length := r.Length
			if length > maxScanPerRange {
				length = maxScanPerRange
			}
			if length < 4 {
				continue
			}
			data := v.ZRead(r.Start, length)
			for i := 0; i+4 <= len(data); i++ {
				if data[i] != s.Tag[0] || data[i+1] != s.Tag[1] || data[i+2] != s.Tag[2] || data[i+3] != s.Tag[3] {
					continue
				}
				found := r.Start.Add(int64(i))
				if !s.satisfies(v, found) {
					continue
				}
				if !yield(found) {
					return
				}
			}
		}
	}
}

func (s *Scanner) satisfies(v space.AddressSpace, found addr.Address) bool {
	for _, c := range s.Constraints {
		if !c(v, found) {
			return false
		}
	}
	return true
}
