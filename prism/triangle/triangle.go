// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package triangle implements the 2D right-triangle cell used by the prism
// variant: a unit square split along its diagonal into a type-0 (lower-left)
// and type-1 (upper-right) triangle, each subdividing 4-way with type flips
// on the center child (spec §4.5).
package triangle

import (
	"errors"
	"fmt"
)

// ErrMaxLevelExceeded is returned when subdivision is requested at the
// deepest supported level.
var ErrMaxLevelExceeded = errors.New("max level exceeded")

// MaxLevel bounds triangle grid indices to fit in a uint32 per axis.
const MaxLevel = 30

// Key identifies a triangular cell: grid position (X, Y) at Level, with
// Type 0 (lower-left half of the (X,Y) unit square) or 1 (upper-right
// half). N = 2^Level - 1 - X - Y is the auxiliary coordinate enforcing the
// triangular constraint X+Y < 2^Level (spec §4.5's "(x,y,n,ℓ,τ)"); it is
// exposed via N() rather than stored, since it is always derivable.
type Key struct {
	X, Y  uint32
	Level uint8
	Type  uint8 // 0 or 1
}

// Root is the level-0 cell of type 0, spanning one half of the unit world
// square. Root of type 1 is Key{0, 0, 0, 1}.
var Root = Key{0, 0, 0, 0}

// N returns the auxiliary coordinate 2^Level - 1 - X - Y.
func (k Key) N() int64 {
	return int64(uint64(1)<<k.Level) - 1 - int64(k.X) - int64(k.Y)
}

// Valid reports whether the cell satisfies the triangular constraint
// X + Y < 2^Level.
func (k Key) Valid() bool {
	return uint64(k.X)+uint64(k.Y) < uint64(1)<<k.Level
}

// childOffset[type][i] gives (dx, dy, childType) for Bey-style child i of a
// cell of the given type (spec: "4 children per level; type flips on
// subdivision per a fixed parity table"). Derived from the edge-midpoint
// subdivision of a right triangle: 3 corner children keep the parent's
// type, the 4th (center) child is the complementary half of the same
// subdivided square and so always carries the opposite type.
var childOffset = [2][4]struct{ dx, dy, t uint32 }{
	0: {{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	1: {{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {1, 1, 0}},
}

// parentOf[childType][quadrant] gives (parentType, childIndex), the exact
// inverse of childOffset, where quadrant = (Y&1)<<1 | (X&1).
var parentOf = [2][4]struct{ parentType, childIndex uint8 }{
	0: {{0, 0}, {0, 1}, {0, 2}, {1, 3}},
	1: {{0, 3}, {1, 0}, {1, 2}, {1, 1}},
}

// Child returns Bey child i (0..3) of k.
func (k Key) Child(i uint8) (Key, error) {
	if k.Level >= MaxLevel {
		return Key{}, fmt.Errorf("%w: triangle cell at level %d", ErrMaxLevelExceeded, k.Level)
	}
	off := childOffset[k.Type][i&3]
	return Key{
		X:     2*k.X + off.dx,
		Y:     2*k.Y + off.dy,
		Level: k.Level + 1,
		Type:  uint8(off.t),
	}, nil
}

// Children returns all 4 children of k.
func (k Key) Children() ([4]Key, error) {
	var out [4]Key
	for i := uint8(0); i < 4; i++ {
		c, err := k.Child(i)
		if err != nil {
			return out, err
		}
		out[i] = c
	}
	return out, nil
}

// Parent returns k's parent. Calling Parent on a level-0 cell is a no-op.
func (k Key) Parent() Key {
	if k.Level == 0 {
		return k
	}
	quadrant := (k.Y&1)<<1 | (k.X & 1)
	info := parentOf[k.Type][quadrant]
	return Key{X: k.X >> 1, Y: k.Y >> 1, Level: k.Level - 1, Type: info.parentType}
}

// Direction names the 3 possible edge-adjacency directions of a triangle.
type Direction uint8

const (
	DirHypotenuse Direction = iota
	DirBottomOrTop
	DirLeftOrRight
)

// Neighbor returns the edge-adjacent cell across dir, or ok=false if that
// edge lies on the world or triangular-constraint boundary.
func (k Key) Neighbor(dir Direction) (neighbor Key, ok bool) {
	bound := uint32(1) << k.Level
	if k.Type == 0 {
		switch dir {
		case DirHypotenuse:
			return Key{X: k.X, Y: k.Y, Level: k.Level, Type: 1}, true
		case DirBottomOrTop: // bottom
			if k.Y == 0 {
				return Key{}, false
			}
			return Key{X: k.X, Y: k.Y - 1, Level: k.Level, Type: 1}, true
		case DirLeftOrRight: // left
			if k.X == 0 {
				return Key{}, false
			}
			return Key{X: k.X - 1, Y: k.Y, Level: k.Level, Type: 1}, true
		}
	} else {
		switch dir {
		case DirHypotenuse:
			return Key{X: k.X, Y: k.Y, Level: k.Level, Type: 0}, true
		case DirBottomOrTop: // top
			if k.Y+1 >= bound || k.X+k.Y+1 >= bound {
				return Key{}, false
			}
			return Key{X: k.X, Y: k.Y + 1, Level: k.Level, Type: 0}, true
		case DirLeftOrRight: // right
			if k.X+1 >= bound || k.X+k.Y+1 >= bound {
				return Key{}, false
			}
			return Key{X: k.X + 1, Y: k.Y, Level: k.Level, Type: 0}, true
		}
	}
	return Key{}, false
}

// Vertices returns the cell's 3 corners in a unit square of the given
// world size (edge length at level = size / 2^Level).
func (k Key) Vertices(size float64) [3][2]float64 {
	edge := size / float64(uint64(1)<<k.Level)
	x0, y0 := float64(k.X)*edge, float64(k.Y)*edge
	if k.Type == 0 {
		return [3][2]float64{{x0, y0}, {x0 + edge, y0}, {x0, y0 + edge}}
	}
	return [3][2]float64{{x0 + edge, y0}, {x0 + edge, y0 + edge}, {x0, y0 + edge}}
}

// Contains reports whether local point (x, y) in [0,size)^2 lies within
// the triangle.
func (k Key) Contains(x, y, size float64) bool {
	edge := size / float64(uint64(1)<<k.Level)
	x0, y0 := float64(k.X)*edge, float64(k.Y)*edge
	if x < x0 || x >= x0+edge || y < y0 || y >= y0+edge {
		return false
	}
	lx, ly := (x-x0)/edge, (y-y0)/edge
	if k.Type == 0 {
		return lx+ly <= 1
	}
	return lx+ly >= 1
}

// Less implements a total order: by Level, then Y, then X, then Type.
func (k Key) Less(other Key) bool {
	if k.Level != other.Level {
		return k.Level < other.Level
	}
	if k.Y != other.Y {
		return k.Y < other.Y
	}
	if k.X != other.X {
		return k.X < other.X
	}
	return k.Type < other.Type
}

func (k Key) String() string {
	return fmt.Sprintf("tri(%d,%d,%d,%d)", k.X, k.Y, k.Level, k.Type)
}

// Locate returns the cell at level containing local point (x, y) in a
// world of the given size.
func Locate(x, y float64, level uint8, size float64) Key {
	edge := size / float64(uint64(1)<<level)
	gx := uint32(x / edge)
	gy := uint32(y / edge)
	lx, ly := x/edge-float64(gx), y/edge-float64(gy)
	t := uint8(0)
	if lx+ly >= 1 {
		t = 1
	}
	return Key{X: gx, Y: gy, Level: level, Type: t}
}
