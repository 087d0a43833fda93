// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package morton

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// E2: Morton encode(1,2,3) = 53 (binary 000110101); decode returns (1,2,3).
func TestEncodeKnownAnswer(t *testing.T) {
	got := Encode(1, 2, 3)
	assert.Equal(t, uint64(53), got)

	x, y, z := Decode(got)
	assert.Equal(t, uint32(1), x)
	assert.Equal(t, uint32(2), y)
	assert.Equal(t, uint32(3), z)
}

// R1: Morton encode . decode = identity on [0, 2^21)^3, sampled.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	rng := rand.NewPCG(1, 2)
	r := rand.New(rng)

	for i := 0; i < 10000; i++ {
		x := uint32(r.Uint64N(uint64(Max) + 1))
		y := uint32(r.Uint64N(uint64(Max) + 1))
		z := uint32(r.Uint64N(uint64(Max) + 1))

		code := Encode(x, y, z)
		gx, gy, gz := Decode(code)
		assert.Equal(t, x, gx)
		assert.Equal(t, y, gy)
		assert.Equal(t, z, gz)
	}
}

func TestEncodeDecodeCorners(t *testing.T) {
	cases := [][3]uint32{
		{0, 0, 0},
		{Max, Max, Max},
		{Max, 0, 0},
		{0, Max, 0},
		{0, 0, Max},
	}
	for _, c := range cases {
		code := Encode(c[0], c[1], c[2])
		x, y, z := Decode(code)
		assert.Equal(t, c[0], x)
		assert.Equal(t, c[1], y)
		assert.Equal(t, c[2], z)
	}
}

// I4: parent(child(m, i)) = m for all i in {0..7}.
func TestParentChildInverse(t *testing.T) {
	rng := rand.NewPCG(3, 4)
	r := rand.New(rng)

	for i := 0; i < 1000; i++ {
		m := r.Uint64() >> 3 // keep it representable after one more child step
		for oct := uint8(0); oct < 8; oct++ {
			child := Child(m, oct)
			assert.Equal(t, m, Parent(child))
			assert.Equal(t, child&7, uint64(oct))
		}
	}
}

func TestNeighborBoundary(t *testing.T) {
	origin := Encode(0, 0, 0)

	if _, ok := Neighbor(origin, DirNegX, 1); ok {
		t.Fatal("expected negative-X neighbor of origin to be out of world")
	}
	if _, ok := Neighbor(origin, DirNegY, 1); ok {
		t.Fatal("expected negative-Y neighbor of origin to be out of world")
	}
	if _, ok := Neighbor(origin, DirNegZ, 1); ok {
		t.Fatal("expected negative-Z neighbor of origin to be out of world")
	}

	next, ok := Neighbor(origin, DirPosX, 1)
	assert.True(t, ok)
	x, y, z := Decode(next)
	assert.Equal(t, uint32(1), x)
	assert.Equal(t, uint32(0), y)
	assert.Equal(t, uint32(0), z)

	corner := Encode(Max, Max, Max)
	if _, ok := Neighbor(corner, DirPosX, 1); ok {
		t.Fatal("expected positive-X neighbor of max corner to be out of world")
	}
}

func TestNeighborRoundTrip(t *testing.T) {
	mid := Encode(100, 100, 100)
	moved, ok := Neighbor(mid, DirPosX, 5)
	assert.True(t, ok)

	back, ok := Neighbor(moved, DirNegX, 5)
	assert.True(t, ok)
	assert.Equal(t, mid, back)
}
