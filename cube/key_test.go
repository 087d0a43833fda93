// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cube

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/morton"
)

// I3: for every cube cell c and every point p in c, Locate(p, level(c)) ==
// key(c).
func TestLocateMatchesContains(t *testing.T) {
	const level = 10
	k := New(3, 7, 5, level)

	edge := coordinate.LengthAtLevel(coordinate.WorldSize, level)
	anchor := k.Anchor(coordinate.WorldSize)

	samples := []coordinate.Point3{
		anchor,
		{X: anchor.X + edge - 1, Y: anchor.Y + edge - 1, Z: anchor.Z + edge - 1},
		{X: anchor.X + edge/2, Y: anchor.Y + edge/2, Z: anchor.Z + edge/2},
	}
	for _, p := range samples {
		assert.True(t, k.Contains(p, coordinate.WorldSize))
		assert.Equal(t, k, Locate(p, level, coordinate.WorldSize))
	}
}

// I4 (cube analogue): parent(child(m, i)) == m for all i in {0..7}.
func TestParentChildInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 20))

	for i := 0; i < 500; i++ {
		level := uint8(rng.IntN(coordinate.MaxLevel))
		bound := uint32(1 << level)
		gx := rng.Uint32N(bound)
		gy := rng.Uint32N(bound)
		gz := rng.Uint32N(bound)
		k := New(gx, gy, gz, level)

		children, err := k.Children()
		require.NoError(t, err)
		for _, c := range children {
			assert.Equal(t, k, c.Parent())
		}
	}
}

func TestChildAtMaxLevelFails(t *testing.T) {
	k := New(0, 0, 0, coordinate.MaxLevel)
	_, err := k.Child(0)
	require.Error(t, err)
}

// E1: insert entities at (10,10,10), (20,20,20), (30,30,30) into an octree
// at level=10, range-query a cube centered at origin with extent 50.
// Here we only assert the geometric containment half of E1 (the node-store
// and range-query halves are covered in package index/query); this proves
// the cells locating those three points are distinct and each contains its
// point.
func TestE1CellsDistinctAndContaining(t *testing.T) {
	const level = 10
	pts := []coordinate.Point3{{10, 10, 10}, {20, 20, 20}, {30, 30, 30}}

	keys := make(map[Key]bool)
	for _, p := range pts {
		k := Locate(p, level, coordinate.WorldSize)
		assert.True(t, k.Contains(p, coordinate.WorldSize))
		keys[k] = true
	}
	assert.Len(t, keys, 3)
}

func TestNeighborBoundary(t *testing.T) {
	const level = 4
	bound := uint32(1 << level)
	origin := New(0, 0, 0, level)

	if _, ok := origin.Neighbor(morton.DirNegX); ok {
		t.Fatal("expected no negative-X neighbor at grid origin")
	}

	corner := New(bound-1, bound-1, bound-1, level)
	if _, ok := corner.Neighbor(morton.DirPosX); ok {
		t.Fatal("expected no positive-X neighbor at grid edge")
	}

	n, ok := origin.Neighbor(morton.DirPosX)
	require.True(t, ok)
	gx, gy, gz := n.GridIndex()
	assert.Equal(t, uint32(1), gx)
	assert.Equal(t, uint32(0), gy)
	assert.Equal(t, uint32(0), gz)
}

func TestLess(t *testing.T) {
	a := New(0, 0, 0, 2)
	b := New(0, 0, 0, 3)
	c := New(1, 0, 0, 2)

	assert.True(t, a.Less(b))
	assert.True(t, a.Less(c))
	assert.False(t, c.Less(a))
}

func TestString(t *testing.T) {
	k := New(1, 2, 3, 5)
	assert.Equal(t, "cube(1,2,3,5)", k.String())
}
