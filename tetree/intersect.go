// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package tetree

import "github.com/Hellblazer/Luciferase-sub013/spatial3d"

// Faces returns the tetrahedron's 4 triangular faces, each the 3 vertices
// opposite one of Vertices()'s 4 corners, winding order arbitrary (only the
// two-sided Möller-Trumbore test in IntersectRay is used against them).
func (k Key) Faces(worldSize int64) [4][3]spatial3d.Vec3 {
	v := k.Vertices(worldSize)
	return [4][3]spatial3d.Vec3{
		{v[1], v[2], v[3]}, // opposite V0
		{v[0], v[2], v[3]}, // opposite V1
		{v[0], v[1], v[3]}, // opposite V2
		{v[0], v[1], v[2]}, // opposite V3
	}
}

// IntersectRay returns the nearest hit parameter of ray against the
// tetrahedron's 4 faces, or ok=false if the ray misses every face (spec
// §4.11: "tetrahedron: four triangles").
func (k Key) IntersectRay(ray spatial3d.Ray3D, worldSize int64) (t float64, ok bool) {
	for _, f := range k.Faces(worldSize) {
		if ht, hitOk := ray.IntersectTriangle(f[0], f[1], f[2]); hitOk {
			if !ok || ht < t {
				t, ok = ht, true
			}
		}
	}
	return t, ok
}
