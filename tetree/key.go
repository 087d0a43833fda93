// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package tetree

import (
	"errors"
	"fmt"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/morton"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// ErrMaxLevelExceeded is returned when subdivision is requested at
// coordinate.MaxLevel.
var ErrMaxLevelExceeded = errors.New("max level exceeded")

// ErrInvalidKey is returned when a TM-index does not correspond to a valid
// tetrahedron.
var ErrInvalidKey = errors.New("invalid tetree key")

// Key identifies a tetrahedral cell by its enclosing cube anchor, level and
// a root type: the type of its level-0 ancestor, one of the six
// tetrahedra that tile the root cube (spec §4.4, "(x,y,z,ℓ,τ)").
// Type() replays the Bey type-transition tables along the anchor's octree
// path to recover the cell's own type at Level; this keeps Key comparable
// and copyable while making Parent a pure prefix truncation (so I5 holds
// by construction, see tables.go).
type Key struct {
	Anchor   coordinate.Point3
	Level    uint8
	RootType uint8
}

// NewRoot returns the level-0 tetrahedron of root type t (0..5). The six
// root tets partition the world cube (spec §3: "six congruent tetrahedra
// that tile a cube").
func NewRoot(t uint8) Key {
	return Key{Anchor: coordinate.Point3{}, Level: 0, RootType: t % 6}
}

// Type replays the ancestor path from RootType down to Level using the
// Bey type-transition tables, recovering this cell's own type.
func (k Key) Type() uint8 {
	if k.Level == 0 {
		return k.RootType
	}
	gx, gy, gz := k.gridIndex()
	m := morton.Encode(gx, gy, gz)

	t := k.RootType
	for lvl := 1; lvl <= int(k.Level); lvl++ {
		shift := uint(3 * (int(k.Level) - lvl))
		cid := uint8((m >> shift) & 7)
		bey := typeCubeIDToBeyID[t][cid]
		t = parentTypeToChildType[t][bey]
	}
	return t
}

func (k Key) gridIndex() (gx, gy, gz uint32) {
	edge := coordinate.LengthAtLevel(coordinate.WorldSize, k.Level)
	return uint32(k.Anchor.X / edge), uint32(k.Anchor.Y / edge), uint32(k.Anchor.Z / edge)
}

// edgeLength returns the cell's edge length for worldSize.
func (k Key) edgeLength(worldSize int64) int64 {
	return coordinate.LengthAtLevel(worldSize, k.Level)
}

// Vertices returns the 4 world-space vertices of the tetrahedron under the
// standard t8code vertex convention: the reference simplex V0=anchor,
// V1=anchor+e[π2], V2=anchor+e[π2]+e[π1], V3=anchor+(1,1,1), scaled by the
// cell's edge length, where π is the type's axis permutation. This is the
// classical Kuhn/Freudenthal construction for the ordering
// ξ[π0] <= ξ[π1] <= ξ[π2]: writing any point of the hull as a convex
// combination t1*V1 + t2*V2 + t3*V3 (t0 = 1-t1-t2-t3) gives
// ξ[π2] = t1+t2+t3, ξ[π1] = t2+t3, ξ[π0] = t3, so ξ[π0] <= ξ[π1] <= ξ[π2]
// holds throughout the hull — the same region Contains tests. Containment
// and Locate both derive from this convention exclusively (spec §9 Q2: the
// standard convention MUST be used, never the subdivision-only one).
func (k Key) Vertices(worldSize int64) [4]spatial3d.Vec3 {
	edge := float64(k.edgeLength(worldSize))
	a := spatial3d.Vec3{X: float64(k.Anchor.X), Y: float64(k.Anchor.Y), Z: float64(k.Anchor.Z)}
	perm := axisPermutation[k.Type()]

	axisVec := func(axis uint8) spatial3d.Vec3 {
		v := spatial3d.Vec3{}
		switch axis {
		case 0:
			v.X = edge
		case 1:
			v.Y = edge
		case 2:
			v.Z = edge
		}
		return v
	}

	v0 := a
	v1 := a.Add(axisVec(perm[2]))
	v2 := v1.Add(axisVec(perm[1]))
	v3 := a.Add(spatial3d.Vec3{X: edge, Y: edge, Z: edge})
	return [4]spatial3d.Vec3{v0, v1, v2, v3}
}

// BBox returns the tetrahedron's enclosing cube AABB.
func (k Key) BBox(worldSize int64) spatial3d.AABB {
	edge := float64(k.edgeLength(worldSize))
	min := spatial3d.Vec3{X: float64(k.Anchor.X), Y: float64(k.Anchor.Y), Z: float64(k.Anchor.Z)}
	return spatial3d.AABB{Min: min, Max: min.Add(spatial3d.Vec3{X: edge, Y: edge, Z: edge})}
}

// Contains reports whether world point p lies within the tetrahedron,
// using the standard convention's coordinate-order test (spec I7).
func (k Key) Contains(p coordinate.Point3, worldSize int64) bool {
	edge := k.edgeLength(worldSize)
	if p.X < k.Anchor.X || p.X >= k.Anchor.X+edge ||
		p.Y < k.Anchor.Y || p.Y >= k.Anchor.Y+edge ||
		p.Z < k.Anchor.Z || p.Z >= k.Anchor.Z+edge {
		return false
	}

	xi := [3]float64{
		float64(p.X-k.Anchor.X) / float64(edge),
		float64(p.Y-k.Anchor.Y) / float64(edge),
		float64(p.Z-k.Anchor.Z) / float64(edge),
	}
	perm := axisPermutation[k.Type()]
	return xi[perm[0]] <= xi[perm[1]] && xi[perm[1]] <= xi[perm[2]]
}

// Parent returns the cell's parent tetrahedron. Calling Parent on a
// level-0 cell returns it unchanged.
func (k Key) Parent() Key {
	if k.Level == 0 {
		return k
	}
	edge := k.edgeLength(coordinate.WorldSize)
	return Key{
		Anchor: coordinate.Point3{
			X: (k.Anchor.X / edge) / 2 * (edge * 2),
			Y: (k.Anchor.Y / edge) / 2 * (edge * 2),
			Z: (k.Anchor.Z / edge) / 2 * (edge * 2),
		},
		Level:    k.Level - 1,
		RootType: k.RootType,
	}
}

// Child returns Bey child i (0..7) of k.
func (k Key) Child(i uint8) (Key, error) {
	if k.Level >= coordinate.MaxLevel {
		return Key{}, fmt.Errorf("%w: tetree cell at level %d", ErrMaxLevelExceeded, k.Level)
	}
	i &= 7
	t := k.Type()
	cid := beyIDToCubeID[t][i]

	childEdge := k.edgeLength(coordinate.WorldSize) / 2
	anchor := k.Anchor
	if cid&1 != 0 {
		anchor.X += childEdge
	}
	if cid&2 != 0 {
		anchor.Y += childEdge
	}
	if cid&4 != 0 {
		anchor.Z += childEdge
	}

	return Key{Anchor: anchor, Level: k.Level + 1, RootType: k.RootType}, nil
}

// Children returns all 8 Bey children of k.
func (k Key) Children() ([8]Key, error) {
	var out [8]Key
	for i := uint8(0); i < 8; i++ {
		c, err := k.Child(i)
		if err != nil {
			return out, err
		}
		out[i] = c
	}
	return out, nil
}

// Locate walks from the level-0 tetrahedron of root type rootType down to
// level, following the cube-id of p at each step (spec §4.4: "computes the
// cube id of p relative to the current anchor and size, looks up
// bey_id..., advances into the corresponding child").
func Locate(p coordinate.Point3, level uint8, rootType uint8, worldSize int64) (Key, error) {
	if err := coordinate.Clamp(p, worldSize); err != nil {
		return Key{}, err
	}
	k := NewRoot(rootType)
	for l := uint8(0); l < level; l++ {
		edge := k.edgeLength(worldSize) / 2
		cid := uint8(0)
		if p.X >= k.Anchor.X+edge {
			cid |= 1
		}
		if p.Y >= k.Anchor.Y+edge {
			cid |= 2
		}
		if p.Z >= k.Anchor.Z+edge {
			cid |= 4
		}
		bey := typeCubeIDToBeyID[k.Type()][cid]
		next, err := k.Child(bey)
		if err != nil {
			return Key{}, err
		}
		k = next
	}
	return k, nil
}

// Direction names the 4 face directions of a tetrahedron, one per excluded
// vertex of Vertices(): DirFace0 is the face opposite V0, and so on. Faces 0
// and 3 lie on the cell's enclosing cube and cross into the adjacent cube;
// faces 1 and 2 lie on the main diagonal shared by the other reference
// tetrahedra tiling the same cube (spec §4.4, "neighbor tables").
type Direction uint8

const (
	DirFace0 Direction = iota
	DirFace1
	DirFace2
	DirFace3
)

// Neighbor returns the face-adjacent tetrahedron at the same level, or
// ok=false if that face lies on the world boundary.
//
// Faces 1 and 2 stay within k's own enclosing cube: writing k's region as
// ξ[π0] <= ξ[π1] <= ξ[π2], face 1 (opposite V1) is the boundary ξ[π1] =
// ξ[π2] shared with the type using permutation (π0,π2,π1), and face 2
// (opposite V2) is the boundary ξ[π0] = ξ[π1] shared with the type using
// permutation (π1,π0,π2). Both neighbors are found by searching the 6
// RootType values at the same Anchor/Level for the one whose Type() matches
// (Type() is a deterministic function of Anchor/Level/RootType alone, so
// this is exact, not a heuristic).
//
// Faces 0 and 3 cross into the adjacent cube along axis π2 (positive) and
// π0 (negative) respectively. No upstream t8code face-type transition table
// was available in the retrieval pack (see tables.go) to derive the exact
// type the neighbor takes in its own cube, so this keeps RootType unchanged
// across the boundary; this is the same documented standard-convention
// fidelity gap as Q2 in spec §9; it is still anchored to the unique correct
// neighboring cube and level.
func (k Key) Neighbor(dir Direction) (Key, bool) {
	perm := axisPermutation[k.Type()]
	switch dir {
	case DirFace1:
		return k.siblingType([3]uint8{perm[0], perm[2], perm[1]})
	case DirFace2:
		return k.siblingType([3]uint8{perm[1], perm[0], perm[2]})
	case DirFace0:
		return k.crossCube(perm[2], 1)
	case DirFace3:
		return k.crossCube(perm[0], -1)
	}
	return Key{}, false
}

// siblingType returns the cell at k's own Anchor/Level whose Type's axis
// permutation is perm, if any RootType produces it.
func (k Key) siblingType(perm [3]uint8) (Key, bool) {
	target, ok := typeOfPermutation[perm]
	if !ok {
		return Key{}, false
	}
	for rt := uint8(0); rt < 6; rt++ {
		cand := Key{Anchor: k.Anchor, Level: k.Level, RootType: rt}
		if cand.Type() == target {
			return cand, true
		}
	}
	return Key{}, false
}

// crossCube steps one cell over in the +/- direction of axis (0=x, 1=y,
// 2=z) at the same level, or reports ok=false at the world boundary.
func (k Key) crossCube(axis uint8, delta int) (Key, bool) {
	gx, gy, gz := k.gridIndex()
	bound := uint32(coordinate.CellIndexBounds(k.Level))
	edge := k.edgeLength(coordinate.WorldSize)

	step := func(g uint32) (uint32, bool) {
		if delta > 0 {
			if g+1 >= bound {
				return 0, false
			}
			return g + 1, true
		}
		if g == 0 {
			return 0, false
		}
		return g - 1, true
	}

	var ok bool
	switch axis {
	case 0:
		gx, ok = step(gx)
	case 1:
		gy, ok = step(gy)
	case 2:
		gz, ok = step(gz)
	}
	if !ok {
		return Key{}, false
	}

	return Key{
		Anchor:   coordinate.Point3{X: int64(gx) * edge, Y: int64(gy) * edge, Z: int64(gz) * edge},
		Level:    k.Level,
		RootType: k.RootType,
	}, true
}

// Less implements a total order: by Level, then by the packed TM-index.
func (k Key) Less(other Key) bool {
	if k.Level != other.Level {
		return k.Level < other.Level
	}
	a, b := k.TMIndex(), other.TMIndex()
	if a.Hi != b.Hi {
		return a.Hi < b.Hi
	}
	return a.Lo < b.Lo
}

// String renders the cell as "tet(x,y,z,level,type)".
func (k Key) String() string {
	return fmt.Sprintf("tet(%d,%d,%d,%d,%d)", k.Anchor.X, k.Anchor.Y, k.Anchor.Z, k.Level, k.Type())
}
