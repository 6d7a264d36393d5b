// Copyright 2026 The Memview Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arch contains architecture-specific definitions shared by the
// paging layer and the profile engine's native_types table.
package arch

import (
	"encoding/binary"
)

// Architecture defines the architecture-specific details for one of the
// captured image's possible target machines.
type Architecture struct {
	// IntSize is the size of a native int, in bytes.
	IntSize int
	// PointerSize is the size of a pointer, in bytes.
	PointerSize int
	// ByteOrder is the byte order for ints and pointers.
	ByteOrder binary.ByteOrder
	// PTESize is the size in bytes of one page-table entry.
	PTESize int
	// PageTableLevels is the number of levels a full virtual-to-physical
	// translation walks (2 for IA32, 3 for IA32-PAE, 4 for AMD64).
	PageTableLevels int
}

func (a *Architecture) Int(buf []byte) int64 {
	return int64(a.Uint(buf))
}

func (a *Architecture) Uint(buf []byte) uint64 {
	if len(buf) != a.IntSize {
		panic("bad IntSize")
	}
	switch a.IntSize {
	case 4:
		return uint64(a.ByteOrder.Uint32(buf[:4]))
	case 8:
		return a.ByteOrder.Uint64(buf[:8])
	}
	panic("no IntSize")
}

func (a *Architecture) Uintptr(buf []byte) uint64 {
	if len(buf) != a.PointerSize {
		panic("bad PointerSize")
	}
	switch a.PointerSize {
	case 4:
		return uint64(a.ByteOrder.Uint32(buf[:4]))
	case 8:
		return a.ByteOrder.Uint64(buf[:8])
	}
	panic("no PointerSize")
}

// ReadPTE reads one page-table entry at the start of buf as an unsigned
// integer of PTESize bytes in the architecture's byte order.
func (a *Architecture) ReadPTE(buf []byte) uint64 {
	switch a.PTESize {
	case 4:
		return uint64(a.ByteOrder.Uint32(buf[:4]))
	case 8:
		return a.ByteOrder.Uint64(buf[:8])
	}
	panic("no PTESize")
}

// AMD64 describes the x86-64 long-mode four-level paging architecture.
var AMD64 = Architecture{
	IntSize:         8,
	PointerSize:     8,
	ByteOrder:       binary.LittleEndian,
	PTESize:         8,
	PageTableLevels: 4,
}

// IA32 describes the classic x86 two-level 32-bit paging architecture.
var IA32 = Architecture{
	IntSize:         4,
	PointerSize:     4,
	ByteOrder:       binary.LittleEndian,
	PTESize:         4,
	PageTableLevels: 2,
}

// IA32PAE describes x86 Physical Address Extension, a three-level scheme
// with 64-bit page-table entries over a 32-bit virtual address.
var IA32PAE = Architecture{
	IntSize:         4,
	PointerSize:     4,
	ByteOrder:       binary.LittleEndian,
	PTESize:         8,
	PageTableLevels: 3,
}
