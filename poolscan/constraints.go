package poolscan

import (
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
	"github.com/memview/memview/object"
	"github.com/memview/memview/profile"
)

// CheckSignature builds a constraint equivalent to hivescan2.py's
// check_hive_sig: construct an object of typeName at found+headerOffset
// and compare its fieldName (read as an unsigned integer) against want.
// A sentinel object (unreadable memory, or typeName/fieldName absent
// from the profile) fails the constraint rather than panicking.
func CheckSignature(prof *profile.Profile, typeName, fieldName string, headerOffset int64, want uint64) Constraint {
	return func(v space.AddressSpace, found addr.Address) bool {
		obj := object.New(prof, typeName, found.Add(headerOffset), v, nil)
		field := obj.Field(fieldName)
		got, ok := field.Uint()
		return ok && got == want
	}
}

// CheckBlockSize builds a constraint equivalent to
// check_blocksize_equal: the pool header's BlockSize byte, read at
// found+blockSizeOffset (the standard Windows pool header places
// BlockSize one byte before the tag, i.e. at offset -1 from found),
// must equal size/poolAlignment.
func CheckBlockSize(blockSizeOffset int64, wantBlocks byte) Constraint {
	return func(v space.AddressSpace, found addr.Address) bool {
		data, ok := v.Read(found.Add(blockSizeOffset), 1)
		return ok && data[0] == wantBlocks
	}
}

// CheckPagedPoolType builds a constraint equivalent to
// check_pagedpooltype: the pool header's PoolType byte, read at
// found+poolTypeOffset (standard layout: two bytes before the tag),
// must have the paged-pool bit set.
func CheckPagedPoolType(poolTypeOffset int64) Constraint {
	const pagedPoolBit = 0x01
	return func(v space.AddressSpace, found addr.Address) bool {
		data, ok := v.Read(found.Add(poolTypeOffset), 1)
		return ok && data[0]&pagedPoolBit != 0
	}
}
