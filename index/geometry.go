// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package index

import (
	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Geometry adapts one cell-key variant (cube.Key, tetree.Key, prism.Key) to
// the shape Tree and the query/collision engines need, closing over that
// variant's own world-size representation (cube/tetree use the fixed-point
// coordinate.Point3 world; prism uses a floating-point world) behind the
// single coordinate.Float3 currency used everywhere above the cell-algebra
// packages themselves (spec §4.11: "layered on C3/C4/C5").
type Geometry[K Cell[K]] struct {
	// Roots lists the variant's level-0 cells. Cube and prism have one;
	// tetree has six (one per root tetrahedron type tiling the world cube).
	Roots []K

	// Level returns a key's refinement level.
	Level func(k K) uint8

	// Locate returns the cell at level containing p, or an error if p lies
	// outside the world (spec §4.1: clamp is the single choke point).
	Locate func(p coordinate.Float3, level uint8) (K, error)

	// Contains reports whether p lies within cell k.
	Contains func(k K, p coordinate.Float3) bool

	// BBox returns k's axis-aligned bounding box in world space.
	BBox func(k K) spatial3d.AABB

	// Children returns all of k's children, or an error at the max level.
	Children func(k K) ([8]K, error)

	// Neighbors returns every same-level cell face-adjacent to k, used by
	// the collision engine to widen pairing across cell boundaries (spec
	// §4.12: "pair ... with entities in each neighboring node at the same
	// level"). Nil means the variant has no neighbor table wired; callers
	// must treat that as "no neighbors" rather than panicking.
	Neighbors func(k K) []K

	// CellsOverlap reports whether two same-level cells actually touch,
	// beyond being adjacent in the grid sense Neighbors enumerates (spec
	// §4.5's SAT prism/prism test is the only variant where grid-adjacency
	// and geometric touching can diverge at the source precision used
	// here). Nil means every Neighbors result is assumed to touch.
	CellsOverlap func(a, b K) bool

	// RayIntersect runs the variant's exact ray test against k, given the
	// ray and k's own precomputed AABB (spec §4.11: "AABB slab test, then
	// the variant's exact geometry"). Nil falls back to the AABB test
	// alone.
	RayIntersect func(k K, ray spatial3d.Ray3D, box spatial3d.AABB) (spatial3d.Hit, bool)
}

// rootContaining returns the root cell containing p, if any.
func (g Geometry[K]) rootContaining(p coordinate.Float3) (K, bool) {
	for _, r := range g.Roots {
		if g.Contains(r, p) {
			return r, true
		}
	}
	var zero K
	return zero, false
}
