// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package prism

import (
	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/index"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Geometry adapts the triangle-prism cell algebra to index.Geometry[Key].
// worldSize is accepted as the same fixed-point int64 currency the cube and
// tetree adapters use even though the prism cell algebra itself is
// natively floating-point (spec §4.5); the conversion happens once here.
func Geometry(worldSize int64) index.Geometry[Key] {
	ws := float64(worldSize)

	return index.Geometry[Key]{
		Roots: []Key{Root},
		Level: func(k Key) uint8 { return k.Level() },
		Locate: func(p coordinate.Float3, level uint8) (Key, error) {
			return Locate(p.X, p.Y, p.Z, level, ws)
		},
		Contains: func(k Key, p coordinate.Float3) bool {
			return k.Contains(p.X, p.Y, p.Z, ws)
		},
		BBox:     func(k Key) spatial3d.AABB { return k.BBox(ws) },
		Children: func(k Key) ([8]Key, error) { return k.Children() },
		Neighbors: func(k Key) []Key {
			var out []Key
			for d := DirTriHypotenuse; d <= DirLineNegative; d++ {
				if n, ok := k.Neighbor(d); ok {
					out = append(out, n)
				}
			}
			return out
		},
		// Unlike cube/tetree's grid adjacency, two prisms that are
		// neighbors on the triangle or line grid may not actually share a
		// face once both components are composed; confirm with the real
		// SAT test (spec §4.5) before treating them as touching.
		CellsOverlap: func(a, b Key) bool { return a.Intersects(b, ws) },
		RayIntersect: func(k Key, ray spatial3d.Ray3D, _ spatial3d.AABB) (spatial3d.Hit, bool) {
			t, ok := k.IntersectRay(ray, ws)
			if !ok {
				return spatial3d.Hit{}, false
			}
			return spatial3d.Hit{TNear: t, TFar: t}, true
		},
	}
}
