/*
Copyright 2014 Will Fitzgerald. All rights reserved.
Use of this source code is governed by a BSD-style
license that can be found in the LICENSE file.
*/

// Package bitset implements a fixed-width presence bitmask.
//
// This is a simplified and stripped down version of:
//
//	github.com/bits-and-blooms/bitset
//
// adapted from a word-slice bitset of arbitrary length to a single-word,
// 8-bit mask: every cell geometry this module indexes (cube, tetree,
// prism) subdivides exactly 8 ways, so a node's child-presence mask never
// needs more than 8 bits and never grows, which removes the need for the
// slice-resizing (extendSet/Compact) and multi-word (Rank/NextSetMany)
// machinery the original type carried for an unbounded bit range.
//
// All bugs belong to me.
package bitset

import "math/bits"

// BitSet is an 8-bit presence mask, one bit per child octant.
type BitSet uint8

// Test reports whether bit i is set. Bits outside [0,8) are always unset.
func (b BitSet) Test(i uint) bool {
	if i >= 8 {
		return false
	}
	return b&(1<<i) != 0
}

// Set marks bit i present. Out-of-range i is a silent no-op: callers only
// ever pass a child-octant index in [0,8).
func (b *BitSet) Set(i uint) {
	if i < 8 {
		*b |= 1 << i
	}
}

// Clear marks bit i absent.
func (b *BitSet) Clear(i uint) {
	if i < 8 {
		*b &^= 1 << i
	}
}

// Count returns the number of set bits (the node's live child count).
func (b BitSet) Count() int {
	return bits.OnesCount8(uint8(b))
}
