// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package tetree

import (
	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/morton"
)

// TMIndex is the packed ancestor path of a tetrahedral cell: a sequence of
// 6-bit symbols, one per level, each holding (parentType<<3)|cubeID for
// that step, plus the root type at the base. 21 levels * 6 bits + 3 root
// bits is 129 bits, one more than the two uint64 halves hold: at Level 21
// the top bit of symbol_1 (the high bit of its parentType) is shifted out.
// FromTMIndex reads only the cubeID bits and the RootType, so decoding is
// unaffected (spec §4.4).
//
// Bit layout, MSB to LSB: symbol_1 (path step from root) .. symbol_Level,
// then the 3-bit RootType at the very bottom.
type TMIndex struct {
	Level uint8
	Hi    uint64
	Lo    uint64
}

// shl shifts the 128-bit (hi,lo) pair left by n bits, n in [0,64].
func shl(hi, lo uint64, n uint) (uint64, uint64) {
	if n == 0 {
		return hi, lo
	}
	return (hi << n) | (lo >> (64 - n)), lo << n
}

// shr shifts the 128-bit (hi,lo) pair right by n bits, n in [0,64].
func shr(hi, lo uint64, n uint) (uint64, uint64) {
	if n == 0 {
		return hi, lo
	}
	return hi >> n, (lo >> n) | (hi << (64 - n))
}

// TMIndex packs k's ancestor path into a TMIndex.
func (k Key) TMIndex() TMIndex {
	gx, gy, gz := k.gridIndex()
	m := morton.Encode(gx, gy, gz)

	var hi, lo uint64
	t := k.RootType
	for lvl := 1; lvl <= int(k.Level); lvl++ {
		shift := uint(3 * (int(k.Level) - lvl))
		cid := uint8((m >> shift) & 7)
		bey := typeCubeIDToBeyID[t][cid]
		symbol := uint64(t)<<3 | uint64(cid)
		hi, lo = shl(hi, lo, 6)
		lo |= symbol
		t = parentTypeToChildType[t][bey]
	}
	hi, lo = shl(hi, lo, 3)
	lo |= uint64(k.RootType)
	return TMIndex{Level: k.Level, Hi: hi, Lo: lo}
}

// FromTMIndex unpacks a TMIndex back into a Key, anchored in a world of
// coordinate.WorldSize.
func FromTMIndex(idx TMIndex) (Key, error) {
	if idx.Level > coordinate.MaxLevel {
		return Key{}, ErrInvalidKey
	}
	hi, lo := idx.Hi, idx.Lo
	rootType := uint8(lo & 7)
	hi, lo = shr(hi, lo, 3)

	symbols := make([]uint64, idx.Level)
	for i := int(idx.Level) - 1; i >= 0; i-- {
		symbols[i] = lo & 0x3F
		hi, lo = shr(hi, lo, 6)
	}

	var gx, gy, gz uint32
	for lvl := 0; lvl < int(idx.Level); lvl++ {
		cid := uint8(symbols[lvl] & 7)
		bit := uint32(1) << uint(int(idx.Level)-1-lvl)
		if cid&1 != 0 {
			gx |= bit
		}
		if cid&2 != 0 {
			gy |= bit
		}
		if cid&4 != 0 {
			gz |= bit
		}
	}

	edge := coordinate.LengthAtLevel(coordinate.WorldSize, idx.Level)
	anchor := coordinate.Point3{X: int64(gx) * edge, Y: int64(gy) * edge, Z: int64(gz) * edge}
	return Key{Anchor: anchor, Level: idx.Level, RootType: rootType}, nil
}
