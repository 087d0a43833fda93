// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package tetree

import (
	"fmt"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/index"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Geometry adapts the tetrahedral cell algebra to index.Geometry[Key].
// Unlike cube/prism, tetree has six level-0 roots (one per root type
// tiling the world cube); Locate tries each in turn to find the one
// containing the query point before descending (spec §4.4).
func Geometry(worldSize int64) index.Geometry[Key] {
	toPoint := func(p coordinate.Float3) coordinate.Point3 {
		return coordinate.Point3{X: int64(p.X), Y: int64(p.Y), Z: int64(p.Z)}
	}

	roots := make([]Key, 6)
	for t := uint8(0); t < 6; t++ {
		roots[t] = NewRoot(t)
	}

	return index.Geometry[Key]{
		Roots: roots,
		Level: func(k Key) uint8 { return k.Level },
		Locate: func(p coordinate.Float3, level uint8) (Key, error) {
			pt := toPoint(p)
			if err := coordinate.Clamp(pt, worldSize); err != nil {
				return Key{}, err
			}
			for t := uint8(0); t < 6; t++ {
				if NewRoot(t).Contains(pt, worldSize) {
					return Locate(pt, level, t, worldSize)
				}
			}
			return Key{}, fmt.Errorf("%w: point not contained by any root tetrahedron", ErrInvalidKey)
		},
		Contains: func(k Key, p coordinate.Float3) bool {
			return k.Contains(toPoint(p), worldSize)
		},
		BBox:     func(k Key) spatial3d.AABB { return k.BBox(worldSize) },
		Children: func(k Key) ([8]Key, error) { return k.Children() },
		Neighbors: func(k Key) []Key {
			var out []Key
			for d := DirFace0; d <= DirFace3; d++ {
				if n, ok := k.Neighbor(d); ok {
					out = append(out, n)
				}
			}
			return out
		},
		RayIntersect: func(k Key, ray spatial3d.Ray3D, _ spatial3d.AABB) (spatial3d.Hit, bool) {
			t, ok := k.IntersectRay(ray, worldSize)
			if !ok {
				return spatial3d.Hit{}, false
			}
			return spatial3d.Hit{TNear: t, TFar: t}, true
		},
	}
}
