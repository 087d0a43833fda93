// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package tetree

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// I5: for every tetrahedral cell t and every Bey child i, Parent(Child(t,
// i)) == t.
func TestParentChildInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 200; trial++ {
		root := NewRoot(uint8(rng.IntN(6)))
		k := root
		for depth := 0; depth < 4; depth++ {
			children, err := k.Children()
			require.NoError(t, err)
			child := children[rng.IntN(8)]
			assert.Equal(t, k, child.Parent(), "depth %d", depth)
			k = child
		}
	}
}

// I7: for a tetrahedral cell t containing point p, Contains(t, p) is true,
// and this holds consistently across the six root types.
func TestContainsEveryRootType(t *testing.T) {
	for rt := uint8(0); rt < 6; rt++ {
		root := NewRoot(rt)
		k, err := Locate(coordinate.Point3{X: 100, Y: 100, Z: 100}, 5, rt, coordinate.WorldSize)
		require.NoError(t, err)
		assert.True(t, k.Contains(coordinate.Point3{X: 100, Y: 100, Z: 100}, coordinate.WorldSize))
		assert.Equal(t, uint8(5), k.Level)
		_ = root
	}
}

// E4: in a tetree with level=5 and a single entity at (100,100,100),
// Locate(p,5) returns a tet t; Contains(t,p) is true; Parent(t) has
// level=4 and its anchor is component-wise <= t's anchor.
func TestE4LocateParentScenario(t *testing.T) {
	p := coordinate.Point3{X: 100, Y: 100, Z: 100}
	tet, err := Locate(p, 5, 0, coordinate.WorldSize)
	require.NoError(t, err)
	assert.True(t, tet.Contains(p, coordinate.WorldSize))

	parent := tet.Parent()
	assert.Equal(t, uint8(4), parent.Level)
	assert.LessOrEqual(t, parent.Anchor.X, tet.Anchor.X)
	assert.LessOrEqual(t, parent.Anchor.Y, tet.Anchor.Y)
	assert.LessOrEqual(t, parent.Anchor.Z, tet.Anchor.Z)
}

// R2: TMIndex/FromTMIndex round-trips for every cell reached by Locate at
// varying levels and root types.
func TestTMIndexRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 9))

	for trial := 0; trial < 300; trial++ {
		level := uint8(rng.IntN(12))
		rootType := uint8(rng.IntN(6))
		p := coordinate.Point3{
			X: int64(rng.Uint64() % uint64(coordinate.WorldSize)),
			Y: int64(rng.Uint64() % uint64(coordinate.WorldSize)),
			Z: int64(rng.Uint64() % uint64(coordinate.WorldSize)),
		}

		k, err := Locate(p, level, rootType, coordinate.WorldSize)
		require.NoError(t, err)

		idx := k.TMIndex()
		back, err := FromTMIndex(idx)
		require.NoError(t, err)
		assert.Equal(t, k.Anchor, back.Anchor)
		assert.Equal(t, k.Level, back.Level)
		assert.Equal(t, k.RootType, back.RootType)
	}
}

func TestChildAtMaxLevelFails(t *testing.T) {
	root := NewRoot(0)
	k := root
	for k.Level < coordinate.MaxLevel {
		children, err := k.Children()
		require.NoError(t, err)
		k = children[0]
	}
	_, err := k.Child(0)
	require.Error(t, err)
}

func TestCornerChildrenPreserveType(t *testing.T) {
	for rt := uint8(0); rt < 6; rt++ {
		root := NewRoot(rt)
		children, err := root.Children()
		require.NoError(t, err)
		for i := uint8(0); i < 4; i++ {
			assert.Equal(t, rt, children[i].Type(), "root type %d corner child %d", rt, i)
		}
	}
}

func TestLocateMatchesChild(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 100; trial++ {
		level := uint8(1 + rng.IntN(8))
		rootType := uint8(rng.IntN(6))
		p := coordinate.Point3{
			X: int64(rng.Uint64() % uint64(coordinate.WorldSize)),
			Y: int64(rng.Uint64() % uint64(coordinate.WorldSize)),
			Z: int64(rng.Uint64() % uint64(coordinate.WorldSize)),
		}
		k, err := Locate(p, level, rootType, coordinate.WorldSize)
		require.NoError(t, err)
		assert.True(t, k.Contains(p, coordinate.WorldSize))
	}
}

func TestString(t *testing.T) {
	k := NewRoot(2)
	assert.Equal(t, "tet(0,0,0,0,2)", k.String())
}

// Directly answers the review observation that the existing tests never
// sample a point from Vertices()'s own convex hull: for every root type,
// a point built as a genuine convex combination of the four vertices
// Vertices() returns must satisfy Contains (spec I7).
func TestVerticesAgreeWithContains(t *testing.T) {
	weights := [4]float64{0.25, 0.25, 0.25, 0.25}
	for rt := uint8(0); rt < 6; rt++ {
		k := NewRoot(rt)
		v := k.Vertices(coordinate.WorldSize)

		var p spatial3d.Vec3
		for i, w := range weights {
			p.X += w * v[i].X
			p.Y += w * v[i].Y
			p.Z += w * v[i].Z
		}
		pt := coordinate.Point3{X: int64(p.X), Y: int64(p.Y), Z: int64(p.Z)}
		assert.True(t, k.Contains(pt, coordinate.WorldSize),
			"root type %d: point sampled from its own Vertices() hull must satisfy Contains", rt)
	}
}

// The internal faces (opposite V1 and V2) are involutions: crossing the
// same face twice returns to the original type, and the neighbor always
// differs in type while keeping the same anchor and level.
func TestNeighborInternalFacesAreInvolutions(t *testing.T) {
	for rt := uint8(0); rt < 6; rt++ {
		k := NewRoot(rt)
		for _, dir := range []Direction{DirFace1, DirFace2} {
			n, ok := k.Neighbor(dir)
			require.True(t, ok, "root type %d dir %d", rt, dir)
			assert.Equal(t, k.Anchor, n.Anchor)
			assert.Equal(t, k.Level, n.Level)
			assert.NotEqual(t, k.Type(), n.Type())

			back, ok := n.Neighbor(dir)
			require.True(t, ok)
			assert.Equal(t, k.Type(), back.Type(), "crossing the same internal face twice must return to the original type")
		}
	}
}

// A root tet spans the entire world, so both external faces (opposite V0
// and V3) must report the world boundary.
func TestNeighborExternalFaceAtWorldBoundary(t *testing.T) {
	k := NewRoot(0)
	_, ok := k.Neighbor(DirFace0)
	assert.False(t, ok, "root tet spans the whole world; DirFace0 must hit the world boundary")
	_, ok = k.Neighbor(DirFace3)
	assert.False(t, ok, "root tet spans the whole world; DirFace3 must hit the world boundary")
}

// Away from the world boundary, crossing an external face shifts the
// anchor by exactly one edge length along the expected axis and keeps
// level and root type unchanged.
func TestNeighborExternalFaceAtInteriorLevel(t *testing.T) {
	p := coordinate.Point3{X: coordinate.WorldSize / 2, Y: coordinate.WorldSize / 2, Z: coordinate.WorldSize / 2}
	k, err := Locate(p, 3, 0, coordinate.WorldSize)
	require.NoError(t, err)

	perm := axisPermutation[k.Type()]
	edge := k.edgeLength(coordinate.WorldSize)

	n, ok := k.Neighbor(DirFace0)
	require.True(t, ok)
	assert.Equal(t, k.Level, n.Level)
	assert.Equal(t, k.RootType, n.RootType)
	want := [3]int64{k.Anchor.X, k.Anchor.Y, k.Anchor.Z}
	want[perm[2]] += edge
	got := [3]int64{n.Anchor.X, n.Anchor.Y, n.Anchor.Z}
	assert.Equal(t, want, got)

	n, ok = k.Neighbor(DirFace3)
	require.True(t, ok)
	assert.Equal(t, k.Level, n.Level)
	assert.Equal(t, k.RootType, n.RootType)
	want = [3]int64{k.Anchor.X, k.Anchor.Y, k.Anchor.Z}
	want[perm[0]] -= edge
	got = [3]int64{n.Anchor.X, n.Anchor.Y, n.Anchor.Z}
	assert.Equal(t, want, got)
}

// The new variant-exact ray test must actually hit a tetrahedron's own
// centroid, proving Geometry.RayIntersect's dispatch is wired to real
// geometry rather than falling back to the AABB alone.
func TestIntersectRayHitsCentroid(t *testing.T) {
	k := NewRoot(0)
	v := k.Vertices(coordinate.WorldSize)

	var c spatial3d.Vec3
	for _, vv := range v {
		c.X += vv.X / 4
		c.Y += vv.Y / 4
		c.Z += vv.Z / 4
	}

	origin := spatial3d.Vec3{X: c.X, Y: c.Y, Z: -float64(coordinate.WorldSize)}
	ray, err := spatial3d.NewRay3D(origin, spatial3d.Vec3{X: 0, Y: 0, Z: 1})
	require.NoError(t, err)

	_, ok := k.IntersectRay(ray, coordinate.WorldSize)
	assert.True(t, ok, "a ray through the tetrahedron's own centroid must hit one of its four faces")
}
