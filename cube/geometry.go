// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package cube

import (
	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/index"
	"github.com/Hellblazer/Luciferase-sub013/morton"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Geometry adapts the cube cell algebra to index.Geometry[Key], closing
// over a fixed world size so query/index code never has to thread it
// through separately (spec §4.3 layered on §4.1's fixed-point world).
func Geometry(worldSize int64) index.Geometry[Key] {
	toPoint := func(p coordinate.Float3) coordinate.Point3 {
		return coordinate.Point3{X: int64(p.X), Y: int64(p.Y), Z: int64(p.Z)}
	}

	return index.Geometry[Key]{
		Roots: []Key{Root},
		Level: func(k Key) uint8 { return k.Level },
		Locate: func(p coordinate.Float3, level uint8) (Key, error) {
			pt := toPoint(p)
			if err := coordinate.Clamp(pt, worldSize); err != nil {
				return Key{}, err
			}
			return Locate(pt, level, worldSize), nil
		},
		Contains: func(k Key, p coordinate.Float3) bool {
			return k.Contains(toPoint(p), worldSize)
		},
		BBox:     func(k Key) spatial3d.AABB { return k.BBox(worldSize) },
		Children: func(k Key) ([8]Key, error) { return k.Children() },
		Neighbors: func(k Key) []Key {
			dirs := [6]morton.Direction{
				morton.DirPosX, morton.DirNegX,
				morton.DirPosY, morton.DirNegY,
				morton.DirPosZ, morton.DirNegZ,
			}
			var out []Key
			for _, d := range dirs {
				if n, ok := k.Neighbor(d); ok {
					out = append(out, n)
				}
			}
			return out
		},
		// Face-adjacent cube cells always share a face by construction, so
		// grid adjacency alone is sufficient (slab test is exact for cube,
		// spec §4.11).
		RayIntersect: func(k Key, ray spatial3d.Ray3D, box spatial3d.AABB) (spatial3d.Hit, bool) {
			return ray.IntersectAABB(box)
		},
	}
}
