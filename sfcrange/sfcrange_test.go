// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sfcrange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hellblazer/Luciferase-sub013/morton"
)

// E3: a 2x2x2 box ([0,1] on every axis) covers Morton codes 0..7; they are
// contiguous, so Decompose merges them into the single interval [0,7]
// (spec §4.6 edge policy).
func TestE3UnitCubeBox(t *testing.T) {
	b := Box{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1, MinZ: 0, MaxZ: 1}
	intervals := Decompose(b)

	require := assert.New(t)
	require.Len(intervals, 1)

	seen := map[uint64]bool{}
	for _, iv := range intervals {
		require.Equal([2]uint64{0, 7}, [2]uint64{iv.Start, iv.End}, "expected the merged interval [0,7], got %+v", iv)
		for c := iv.Start; c <= iv.End; c++ {
			seen[c] = true
		}
	}
	for code := uint64(0); code < 8; code++ {
		require.True(seen[code], "missing code %d", code)
	}
}

func TestEmptyBox(t *testing.T) {
	b := Box{MinX: 5, MaxX: 3}
	assert.True(t, b.Empty())
	assert.Nil(t, Decompose(b))
}

// I6: the union of returned intervals exactly equals the set of Morton
// codes decoding inside the box, and intervals are ordered and disjoint.
func TestDecomposeCoversExactSet(t *testing.T) {
	b := Box{MinX: 1, MaxX: 3, MinY: 0, MaxY: 2, MinZ: 1, MaxZ: 1}

	want := map[uint64]bool{}
	for x := b.MinX; x <= b.MaxX; x++ {
		for y := b.MinY; y <= b.MaxY; y++ {
			for z := b.MinZ; z <= b.MaxZ; z++ {
				want[morton.Encode(x, y, z)] = true
			}
		}
	}

	intervals := Decompose(b)
	got := map[uint64]bool{}
	var lastEnd uint64
	for i, iv := range intervals {
		assert.LessOrEqual(t, iv.Start, iv.End)
		if i > 0 {
			assert.Greater(t, iv.Start, lastEnd)
		}
		for c := iv.Start; c <= iv.End; c++ {
			got[c] = true
			if c == ^uint64(0) {
				break
			}
		}
		lastEnd = iv.End
	}
	assert.Equal(t, want, got)
}
