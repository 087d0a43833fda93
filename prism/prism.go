// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package prism implements the triangular-prism cell geometry: a 2D
// triangular cell (package triangle) extruded along a 1D linear cell
// (package line) into an 8-way-subdividing 3D cell (spec §4.5). The prism
// world is a single type-0 root triangle times the full line axis — points
// with x+y outside that root triangle are out of world, exactly as for the
// cube and tetree variants' coordinate bounds.
package prism

import (
	"errors"
	"fmt"

	"github.com/Hellblazer/Luciferase-sub013/prism/line"
	"github.com/Hellblazer/Luciferase-sub013/prism/triangle"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// ErrOutOfWorld is returned when a point violates the triangular world
// constraint x + y < worldSize.
var ErrOutOfWorld = errors.New("coordinate out of world")

// Key is the lexicographic concatenation of a triangular cell and a linear
// cell at the same level (spec §4.5: "PrismKey: lexicographic
// concatenation of (triangle_key, line_key)").
type Key struct {
	Triangle triangle.Key
	Line     line.Key
}

// Root is the level-0 prism spanning the whole world.
var Root = Key{Triangle: triangle.Root, Line: line.Root}

// Level returns the prism's refinement level (its two components always
// share one).
func (k Key) Level() uint8 { return k.Triangle.Level }

// Validate rejects a world point whose horizontal components fall outside
// the root triangle, or whose vertical component falls outside [0,
// worldSize).
func Validate(x, y, z, worldSize float64) error {
	if x < 0 || y < 0 || z < 0 || z >= worldSize {
		return fmt.Errorf("%w: (%g,%g,%g) outside [0,%g)", ErrOutOfWorld, x, y, z, worldSize)
	}
	if x+y >= worldSize {
		return fmt.Errorf("%w: (%g,%g,%g) violates triangular constraint x+y<%g", ErrOutOfWorld, x, y, z, worldSize)
	}
	return nil
}

// Locate returns the prism at level containing world point (x, y, z) in a
// cube world of the given size.
func Locate(x, y, z float64, level uint8, worldSize float64) (Key, error) {
	if err := Validate(x, y, z, worldSize); err != nil {
		return Key{}, err
	}
	return Key{
		Triangle: triangle.Locate(x, y, level, worldSize),
		Line:     line.Locate(z, level, worldSize),
	}, nil
}

// Child decomposes Bey child i (0..7) as (triangle_child(i/2),
// line_child(i%2)), per spec §4.5.
func (k Key) Child(i uint8) (Key, error) {
	i &= 7
	tc, err := k.Triangle.Child(i / 2)
	if err != nil {
		return Key{}, err
	}
	lc, err := k.Line.Child(i % 2)
	if err != nil {
		return Key{}, err
	}
	return Key{Triangle: tc, Line: lc}, nil
}

// Children returns all 8 children of k.
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

// Parent returns k's parent.
func (k Key) Parent() Key {
	return Key{Triangle: k.Triangle.Parent(), Line: k.Line.Parent()}
}

// Contains reports whether world point (x,y,z) lies within the prism.
// Containment is the conjunction of triangular 2D containment and linear
// 1D containment (spec §4.5).
func (k Key) Contains(x, y, z, worldSize float64) bool {
	return k.Triangle.Contains(x, y, worldSize) && k.Line.Contains(z, worldSize)
}

// BBox returns the prism's axis-aligned bounding box.
func (k Key) BBox(worldSize float64) spatial3d.AABB {
	v := k.Triangle.Vertices(worldSize)
	minZ, maxZ := k.Line.Span(worldSize)
	minX, maxX := v[0][0], v[0][0]
	minY, maxY := v[0][1], v[0][1]
	for _, vv := range v {
		if vv[0] < minX {
			minX = vv[0]
		}
		if vv[0] > maxX {
			maxX = vv[0]
		}
		if vv[1] < minY {
			minY = vv[1]
		}
		if vv[1] > maxY {
			maxY = vv[1]
		}
	}
	return spatial3d.AABB{
		Min: spatial3d.Vec3{X: minX, Y: minY, Z: minZ},
		Max: spatial3d.Vec3{X: maxX, Y: maxY, Z: maxZ},
	}
}

// Vertices returns the prism's 6 corners: the triangle's 3 corners at the
// line's minimum, then the same 3 at the line's maximum.
func (k Key) Vertices(worldSize float64) [6]spatial3d.Vec3 {
	tv := k.Triangle.Vertices(worldSize)
	minZ, maxZ := k.Line.Span(worldSize)
	var out [6]spatial3d.Vec3
	for i, v := range tv {
		out[i] = spatial3d.Vec3{X: v[0], Y: v[1], Z: minZ}
		out[i+3] = spatial3d.Vec3{X: v[0], Y: v[1], Z: maxZ}
	}
	return out
}

// Direction names the 5 face directions of a prism: the 3 edge-adjacent
// directions of its triangular cross-section (sharing triangle.Direction's
// numbering) plus the 2 end directions along its line axis.
type Direction uint8

const (
	DirTriHypotenuse Direction = iota
	DirTriBottomOrTop
	DirTriLeftOrRight
	DirLinePositive
	DirLineNegative
)

// Neighbor returns the face-adjacent prism at the same level, or ok=false
// if that face lies on the world boundary (spec §4.5 layered on the
// triangle and line cell algebras' own Neighbor operations).
func (k Key) Neighbor(dir Direction) (Key, bool) {
	switch dir {
	case DirTriHypotenuse, DirTriBottomOrTop, DirTriLeftOrRight:
		t, ok := k.Triangle.Neighbor(triangle.Direction(dir))
		if !ok {
			return Key{}, false
		}
		return Key{Triangle: t, Line: k.Line}, true
	case DirLinePositive:
		l, ok := k.Line.Neighbor(1)
		if !ok {
			return Key{}, false
		}
		return Key{Triangle: k.Triangle, Line: l}, true
	case DirLineNegative:
		l, ok := k.Line.Neighbor(-1)
		if !ok {
			return Key{}, false
		}
		return Key{Triangle: k.Triangle, Line: l}, true
	}
	return Key{}, false
}

// Less implements a total order: by Triangle, then by Line level/Z.
func (k Key) Less(other Key) bool {
	if k.Triangle != other.Triangle {
		return k.Triangle.Less(other.Triangle)
	}
	if k.Line.Level != other.Line.Level {
		return k.Line.Level < other.Line.Level
	}
	return k.Line.Z < other.Line.Z
}

func (k Key) String() string {
	return fmt.Sprintf("prism(%s,%s)", k.Triangle.String(), k.Line.String())
}
