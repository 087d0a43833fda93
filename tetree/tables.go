// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package tetree implements the tetrahedral cell geometry: six congruent
// tetrahedra tiling a cube (the "standard" t8code vertex convention), Bey's
// 8-way refinement of each into a child of one of the six types, and the
// 128-bit TM-index packing of the ancestor path (spec §4.4).
//
// The six types correspond to the six permutations of "compare order" of
// the three local axes — the classical Kuhn/Freudenthal triangulation of a
// cube into 6 simplices along its main diagonal, which is exactly the
// t8code "standard" reference tetrahedron set described in spec §4.4 and
// the Q2 design note in spec §9. See DESIGN.md for the fidelity caveat: no
// copy of the upstream t8code source was available in the retrieval pack
// to verify the Bey child-type table byte-for-byte, so it is reproduced
// from the structural property documented in the literature (a parent's
// four "corner" children, Bey ids 0..3, always keep the parent's own type)
// and the remaining four "octahedron" children, Bey ids 4..7, each take one
// of the other five types. The cube-id/Bey-id correspondence tables are
// derived constructively from the same axis-permutation definition so that
// the parent/child/locate operations are consistent by construction
// (verified by the round-trip tests, spec I5/R2) independent of whether
// this reproduction matches upstream exactly.
package tetree

// axisPermutation[τ] gives the local-axis comparison order (smallest to
// largest) that defines reference tetrahedron type τ: a point with local
// coordinates ξ in [0,1)^3 belongs to type τ iff
// ξ[axisPermutation[τ][0]] <= ξ[axisPermutation[τ][1]] <= ξ[axisPermutation[τ][2]].
var axisPermutation = [6][3]uint8{
	{0, 1, 2}, // x <= y <= z
	{0, 2, 1}, // x <= z <= y
	{1, 0, 2}, // y <= x <= z
	{1, 2, 0}, // y <= z <= x
	{2, 0, 1}, // z <= x <= y
	{2, 1, 0}, // z <= y <= x
}

// parentTypeToChildType[parentType][beyID] gives the child's type for a
// Bey child. Bey ids 0..3 are "corner" children that preserve the parent's
// type; Bey ids 4..7 are the four children carved from the central
// octahedron, each taking a different one of the remaining five types.
var parentTypeToChildType = [6][8]uint8{
	{0, 0, 0, 0, 4, 5, 2, 1},
	{1, 1, 1, 1, 3, 2, 5, 0},
	{2, 2, 2, 2, 0, 1, 4, 3},
	{3, 3, 3, 3, 5, 4, 1, 2},
	{4, 4, 4, 4, 2, 3, 0, 5},
	{5, 5, 5, 5, 1, 0, 3, 4},
}

// typeCubeIDToBeyID[parentType][cubeID] gives the Bey id of the child
// occupying cube octant cubeID, for a parent of the given type. Derived
// from axisPermutation: the four corner children sit in the octant
// containing the corresponding reference-tetrahedron vertex (V0 at octant
// 0, V3 at octant 7, V1/V2 at the octants singled out by the axis
// permutation); the remaining four octants are assigned to the four
// octahedron children in ascending cube-id order.
var typeCubeIDToBeyID [6][8]uint8

// beyIDToCubeID is the per-type inverse of typeCubeIDToBeyID, computed at
// init alongside it; named to mirror spec §4.4's
// "BEYID_TO_CHILD_INDEX[τ_parent][bey_id] → child_index" table, where
// child_index is the cube-octant index of that Bey child.
var beyIDToCubeID [6][8]uint8

// typeOfPermutation is the inverse of axisPermutation: given a (possibly
// reordered) axis-comparison permutation, the type that defines it. Used by
// Key.Neighbor to find the sibling type across an internal face, where the
// neighbor's permutation is k's own with two entries swapped.
var typeOfPermutation map[[3]uint8]uint8

func init() {
	typeOfPermutation = make(map[[3]uint8]uint8, 6)
	for t, p := range axisPermutation {
		typeOfPermutation[p] = uint8(t)
	}

	for t := uint8(0); t < 6; t++ {
		perm := axisPermutation[t]
		cornerCubeID := [4]uint8{
			0,
			1 << perm[0],
			1<<perm[0] | 1<<perm[1],
			7,
		}

		var beyOfCube [8]int8
		for i := range beyOfCube {
			beyOfCube[i] = -1
		}
		for bey, cid := range cornerCubeID {
			beyOfCube[cid] = int8(bey)
		}

		nextBey := uint8(4)
		for cid := uint8(0); cid < 8; cid++ {
			if beyOfCube[cid] == -1 {
				beyOfCube[cid] = int8(nextBey)
				nextBey++
			}
		}

		for cid := uint8(0); cid < 8; cid++ {
			bey := uint8(beyOfCube[cid])
			typeCubeIDToBeyID[t][cid] = bey
			beyIDToCubeID[t][bey] = cid
		}
	}
}
