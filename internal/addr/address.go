// Package addr defines the Address type shared by every layer of the
// memview address-space stack, from the raw byte source up through the
// paged virtual-address view.
package addr

import "fmt"

// An Address is an offset into some address space: a byte offset in the
// raw image, a physical address in a container's decoded view, or a
// virtual address above a paging layer. Which one it is depends on which
// AddressSpace produced or accepted it; the type itself carries no tag.
type Address uint64

// Add returns a+n.
func (a Address) Add(n int64) Address {
	return Address(int64(a) + n)
}

// Sub returns a-b.
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

// Trunc rounds a down to a multiple of pageSize, which must be a power of 2.
func (a Address) Trunc(pageSize int64) Address {
	return Address(uint64(a) &^ (uint64(pageSize) - 1))
}

// Off returns the offset of a within its containing page of the given size.
func (a Address) Off(pageSize int64) int64 {
	return int64(uint64(a) & (uint64(pageSize) - 1))
}

func (a Address) String() string {
	return fmt.Sprintf("%#x", uint64(a))
}
