// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package prism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// E5: in a prism with world_size=1.0, inserting at (0.1,0.1,0.5) succeeds;
// inserting at (0.6,0.6,0.5) fails with CoordinateOutOfWorld (triangular
// constraint violated).
func TestE5TriangularConstraint(t *testing.T) {
	require.NoError(t, Validate(0.1, 0.1, 0.5, 1.0))

	err := Validate(0.6, 0.6, 0.5, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfWorld)
}

func TestLocateMatchesContains(t *testing.T) {
	const level = 4
	const size = 1.0
	k, err := Locate(0.1, 0.1, 0.5, level, size)
	require.NoError(t, err)
	assert.True(t, k.Contains(0.1, 0.1, 0.5, size))
}

func TestParentChildInverse(t *testing.T) {
	k := Root
	for depth := 0; depth < 4; depth++ {
		children, err := k.Children()
		require.NoError(t, err)
		child := children[3]
		assert.Equal(t, k, child.Parent())
		k = child
	}
}

func TestSelfIntersects(t *testing.T) {
	k, err := Locate(0.1, 0.1, 0.5, 3, 1.0)
	require.NoError(t, err)
	assert.True(t, k.Intersects(k, 1.0))
}

// The hypotenuse direction always flips the triangle's type in place and
// never touches the line component, so it can never hit a boundary.
func TestNeighborTriHypotenuseFlipsType(t *testing.T) {
	k, err := Locate(0.1, 0.1, 0.5, 3, 1.0)
	require.NoError(t, err)

	n, ok := k.Neighbor(DirTriHypotenuse)
	require.True(t, ok)
	assert.Equal(t, k.Line, n.Line)
	assert.Equal(t, k.Triangle.X, n.Triangle.X)
	assert.Equal(t, k.Triangle.Y, n.Triangle.Y)
	assert.NotEqual(t, k.Triangle.Type, n.Triangle.Type)
}

// Both line directions step the line component by one cell at the same
// level and leave the triangle untouched, away from the axis boundary.
func TestNeighborLineBothDirections(t *testing.T) {
	k, err := Locate(0.1, 0.1, 0.5, 3, 1.0)
	require.NoError(t, err)

	n, ok := k.Neighbor(DirLinePositive)
	require.True(t, ok)
	assert.Equal(t, k.Triangle, n.Triangle)
	assert.Equal(t, k.Line.Z+1, n.Line.Z)

	n, ok = k.Neighbor(DirLineNegative)
	require.True(t, ok)
	assert.Equal(t, k.Triangle, n.Triangle)
	assert.Equal(t, k.Line.Z-1, n.Line.Z)
}

// A type-0 triangle at grid origin (X=0, Y=0) has no neighbor across its
// bottom or left edge: both lie on the world boundary.
func TestNeighborTriBoundaryAtOrigin(t *testing.T) {
	k, err := Locate(0.1, 0.1, 0.5, 3, 1.0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), k.Triangle.X)
	require.Equal(t, uint32(0), k.Triangle.Y)
	require.Equal(t, uint8(0), k.Triangle.Type)

	_, ok := k.Neighbor(DirTriBottomOrTop)
	assert.False(t, ok)
	_, ok = k.Neighbor(DirTriLeftOrRight)
	assert.False(t, ok)
}

func TestIntersectRayThroughPrism(t *testing.T) {
	k, err := Locate(0.1, 0.1, 0.5, 2, 1.0)
	require.NoError(t, err)
	tv := k.Triangle.Vertices(1.0)
	cx := (tv[0][0] + tv[1][0] + tv[2][0]) / 3
	cy := (tv[0][1] + tv[1][1] + tv[2][1]) / 3

	ray, err := spatial3d.NewRay3D(
		spatial3d.Vec3{X: cx, Y: cy, Z: -1},
		spatial3d.Vec3{X: 0, Y: 0, Z: 1},
	)
	require.NoError(t, err)

	_, ok := k.IntersectRay(ray, 1.0)
	assert.True(t, ok)
}
