// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package prism

import "github.com/Hellblazer/Luciferase-sub013/spatial3d"

// triangleFace is 3 world-space vertices.
type triangleFace [3]spatial3d.Vec3

// Faces returns the prism's 5 faces as triangles: the 2 triangular caps
// (bottom, top) followed by the 3 quad side faces, each quad split into 2
// triangles (spec §4.5: "ray/prism using Möller–Trumbore on the five faces
// (2 triangles + 3 quads)").
func (k Key) Faces(worldSize float64) []triangleFace {
	v := k.Vertices(worldSize)
	// v[0..2] = bottom triangle, v[3..5] = top triangle (same XY, offset Z).
	bottom := triangleFace{v[0], v[1], v[2]}
	top := triangleFace{v[3], v[5], v[4]}

	quad := func(a, b, c, d spatial3d.Vec3) [2]triangleFace {
		return [2]triangleFace{{a, b, c}, {a, c, d}}
	}

	side01 := quad(v[0], v[1], v[4], v[3])
	side12 := quad(v[1], v[2], v[5], v[4])
	side20 := quad(v[2], v[0], v[3], v[5])

	return []triangleFace{bottom, top, side01[0], side01[1], side12[0], side12[1], side20[0], side20[1]}
}

// IntersectRay returns the nearest hit parameter of ray against the
// prism's 5 faces, or ok=false if the ray misses every face.
func (k Key) IntersectRay(ray spatial3d.Ray3D, worldSize float64) (t float64, ok bool) {
	for _, f := range k.Faces(worldSize) {
		if ht, hitOk := ray.IntersectTriangle(f[0], f[1], f[2]); hitOk {
			if !ok || ht < t {
				t, ok = ht, true
			}
		}
	}
	return t, ok
}

// satAxes returns the 4 face-normal axes (the 2 caps share one) plus the 6
// edge-direction axes used by SAT.
func (k Key) satAxes(worldSize float64) []spatial3d.Vec3 {
	v := k.Vertices(worldSize)
	normal := func(a, b, c spatial3d.Vec3) spatial3d.Vec3 {
		return b.Sub(a).Cross(c.Sub(a))
	}
	axes := []spatial3d.Vec3{
		normal(v[0], v[1], v[2]), // cap normal (+/-z)
		normal(v[0], v[1], v[3]), // side01 normal
		normal(v[1], v[2], v[4]), // side12 normal
		normal(v[2], v[0], v[5]), // side20 normal
	}
	edges := [6][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 4}, {2, 5}}
	for _, e := range edges {
		axes = append(axes, v[e[1]].Sub(v[e[0]]))
	}
	return axes
}

// projectOnto returns the [min, max] scalar projection of the prism's 6
// vertices onto axis.
func (k Key) projectOnto(axis spatial3d.Vec3, worldSize float64) (min, max float64) {
	v := k.Vertices(worldSize)
	min, max = v[0].Dot(axis), v[0].Dot(axis)
	for _, p := range v[1:] {
		d := p.Dot(axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// Intersects reports whether k and other overlap, via the Separating Axis
// Theorem over face normals and edge directions (spec §4.5: "SAT-based
// prism/prism collision with face-normal + edge-cross axes").
func (k Key) Intersects(other Key, worldSize float64) bool {
	axes := append(k.satAxes(worldSize), other.satAxes(worldSize)...)
	for _, axis := range axes {
		if axis.IsZero() {
			continue
		}
		aMin, aMax := k.projectOnto(axis, worldSize)
		bMin, bMax := other.projectOnto(axis, worldSize)
		if aMax < bMin || bMax < aMin {
			return false
		}
	}
	return true
}
