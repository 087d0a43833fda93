// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package cube implements the octree cell geometry: a cube cell's SFC key
// is its level-ℓ grid-index Morton code plus the level itself (spec §4.3).
// Grid indices run [0, 2^ℓ) per axis; the world anchor of a cell is its
// grid index scaled by the level's edge length.
package cube

import (
	"fmt"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/morton"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Key identifies a cube cell: the Morton interleave of its level-ℓ grid
// index, plus the level. Total order is by Level then Morton (documented;
// see the Octree open question in spec §9).
type Key struct {
	Morton uint64
	Level  uint8
}

// Root is the single level-0 cell spanning the whole world.
var Root = Key{Morton: 0, Level: 0}

// New constructs a Key from a level-ℓ grid index. gx, gy, gz must each be
// in [0, 2^level).
func New(gx, gy, gz uint32, level uint8) Key {
	return Key{Morton: morton.Encode(gx, gy, gz), Level: level}
}

// GridIndex decodes the cell's (gx, gy, gz) grid index.
func (k Key) GridIndex() (gx, gy, gz uint32) {
	return morton.Decode(k.Morton)
}

// Anchor returns the cell's world-space minimum corner for a world of the
// given size.
func (k Key) Anchor(worldSize int64) coordinate.Point3 {
	gx, gy, gz := k.GridIndex()
	edge := coordinate.LengthAtLevel(worldSize, k.Level)
	return coordinate.Point3{X: int64(gx) * edge, Y: int64(gy) * edge, Z: int64(gz) * edge}
}

// BBox returns the cell's axis-aligned bounding box in world space.
func (k Key) BBox(worldSize int64) spatial3d.AABB {
	a := k.Anchor(worldSize)
	edge := float64(coordinate.LengthAtLevel(worldSize, k.Level))
	min := spatial3d.Vec3{X: float64(a.X), Y: float64(a.Y), Z: float64(a.Z)}
	max := spatial3d.Vec3{X: min.X + edge, Y: min.Y + edge, Z: min.Z + edge}
	return spatial3d.AABB{Min: min, Max: max}
}

// Vertices returns the 8 corners of the cell's cube.
func (k Key) Vertices(worldSize int64) [8]spatial3d.Vec3 {
	box := k.BBox(worldSize)
	return [8]spatial3d.Vec3{
		{box.Min.X, box.Min.Y, box.Min.Z},
		{box.Max.X, box.Min.Y, box.Min.Z},
		{box.Min.X, box.Max.Y, box.Min.Z},
		{box.Max.X, box.Max.Y, box.Min.Z},
		{box.Min.X, box.Min.Y, box.Max.Z},
		{box.Max.X, box.Min.Y, box.Max.Z},
		{box.Min.X, box.Max.Y, box.Max.Z},
		{box.Max.X, box.Max.Y, box.Max.Z},
	}
}

// Contains reports whether p (a world coordinate) lies within the cell,
// inclusive-min exclusive-max (spec I3).
func (k Key) Contains(p coordinate.Point3, worldSize int64) bool {
	a := k.Anchor(worldSize)
	edge := coordinate.LengthAtLevel(worldSize, k.Level)
	return p.X >= a.X && p.X < a.X+edge &&
		p.Y >= a.Y && p.Y < a.Y+edge &&
		p.Z >= a.Z && p.Z < a.Z+edge
}

// Parent returns the cell's parent. Calling Parent on the root cell is a
// no-op (it returns Root again), matching Morton's code>>3 saturating at 0.
func (k Key) Parent() Key {
	if k.Level == 0 {
		return k
	}
	return Key{Morton: morton.Parent(k.Morton), Level: k.Level - 1}
}

// Child returns child i (0..7) of k, or an error wrapping
// ErrMaxLevelExceeded if k is already at coordinate.MaxLevel.
func (k Key) Child(i uint8) (Key, error) {
	if k.Level >= coordinate.MaxLevel {
		return Key{}, fmt.Errorf("%w: cube cell at level %d", ErrMaxLevelExceeded, k.Level)
	}
	return Key{Morton: morton.Child(k.Morton, i), Level: k.Level + 1}, nil
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

// Neighbor returns the face-adjacent cell in direction dir at the same
// level, or ok=false if that neighbor would cross the world boundary.
func (k Key) Neighbor(dir morton.Direction) (neighbor Key, ok bool) {
	gx, gy, gz := k.GridIndex()
	bound := uint32(coordinate.CellIndexBounds(k.Level))

	switch dir {
	case morton.DirPosX:
		if gx+1 >= bound {
			return Key{}, false
		}
		gx++
	case morton.DirNegX:
		if gx == 0 {
			return Key{}, false
		}
		gx--
	case morton.DirPosY:
		if gy+1 >= bound {
			return Key{}, false
		}
		gy++
	case morton.DirNegY:
		if gy == 0 {
			return Key{}, false
		}
		gy--
	case morton.DirPosZ:
		if gz+1 >= bound {
			return Key{}, false
		}
		gz++
	case morton.DirNegZ:
		if gz == 0 {
			return Key{}, false
		}
		gz--
	}
	return New(gx, gy, gz, k.Level), true
}

// Less implements the documented total order: by Level, then by Morton.
func (k Key) Less(other Key) bool {
	if k.Level != other.Level {
		return k.Level < other.Level
	}
	return k.Morton < other.Morton
}

// String renders the cell as "cube(gx,gy,gz,level)".
func (k Key) String() string {
	gx, gy, gz := k.GridIndex()
	return fmt.Sprintf("cube(%d,%d,%d,%d)", gx, gy, gz, k.Level)
}

// Locate returns the cell at level containing world point p.
func Locate(p coordinate.Point3, level uint8, worldSize int64) Key {
	edge := coordinate.LengthAtLevel(worldSize, level)
	gx := uint32(p.X / edge)
	gy := uint32(p.Y / edge)
	gz := uint32(p.Z / edge)
	return New(gx, gy, gz, level)
}
