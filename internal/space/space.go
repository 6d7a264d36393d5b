// Package space implements the layered address-space stack: the raw byte
// source, the container-format variants that decode a wrapping format
// into a physical view, and the shared plumbing (runs, permissions)
// that every layer builds on. The paging variants that sit on
// top of a physical view live in the sibling internal/paging package.
package space

import (
	"fmt"

	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
)

// A Perm represents access permissions as a Read|Write|Exec bitset.
// Grounded on core/mapping.go's Perm, generalized from "OS process
// mapping protection" to "container-declared run protection". Run does
// not carry a Perm: none of the container formats memview reads record
// permissions.
type Perm uint8

const (
	Read Perm = 1 << iota
	Write
	Exec
)

func (p Perm) String() string {
	var b []string
	if p&Read != 0 {
		b = append(b, "R")
	}
	if p&Write != 0 {
		b = append(b, "W")
	}
	if p&Exec != 0 {
		b = append(b, "X")
	}
	if len(b) == 0 {
		return "-"
	}
	s := ""
	for _, c := range b {
		s += c
	}
	return s
}

// AddressSpace is the polymorphic translator every layer of the stack
// implements, from the raw file up through a paged virtual view.
type AddressSpace interface {
	// Read returns the n bytes at addr, or (nil, false) if any part of
	// the range is unmapped or out of range.
	Read(a addr.Address, n int64) ([]byte, bool)

	// ZRead is like Read but never fails: missing bytes read as zero.
	ZRead(a addr.Address, n int64) []byte

	// IsValidAddress reports whether a single byte at addr is readable.
	IsValidAddress(a addr.Address) bool

	// AvailableRanges returns the (start, length) pairs this address
	// space can service a Read over, coalesced and sorted by start.
	AvailableRanges() []Range

	// Base returns the layer this address space is stacked on, or nil
	// for the raw source at the bottom of the stack.
	Base() AddressSpace

	// Priority is the order in which the stack assembler tries to
	// instantiate this layer: lower values are tried earlier.
	Priority() int
}

// Vtop is implemented by address spaces that can translate a virtual
// address to a physical one: the three paging variants.
type Vtop interface {
	AddressSpace
	Vtop(v addr.Address) (addr.Address, bool)
}

// Writable is implemented by address spaces that support writes. It is
// an optional second trait, implemented only by the variants that
// support it; the write-consent check lives on the config, not in the
// type system.
type Writable interface {
	AddressSpace
	Write(a addr.Address, data []byte) bool
}

// A Range is one contiguous span an address space can answer reads over.
type Range struct {
	Start  addr.Address
	Length int64
}

// ErrNotApplicable is returned by a layer constructor when the image
// doesn't match that layer's format; the stack assembler treats it as a
// skip, not a fatal error.
var ErrNotApplicable = fmt.Errorf("layer not applicable to this image")

// ErrMissingPrerequisite is returned when a required offset or profile
// could not be found. The CLI converts this into a fatal configuration
// error terminating the run before any plugin executes.
var ErrMissingPrerequisite = fmt.Errorf("missing prerequisite for address-space assembly")

// layer holds the fields common to every AddressSpace implementation:
// its base, its priority, and the configuration snapshot it was built
// from — a tagged struct holding its base rather than the original's
// mixin-based class hierarchy.
type layer struct {
	base     AddressSpace
	priority int
	cfg      *config.Config
}

func (l *layer) Base() AddressSpace { return l.base }
func (l *layer) Priority() int      { return l.priority }
