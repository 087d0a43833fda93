// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package spatial3d

import "math"

// AABB is an axis-aligned bounding box, the common currency every node and
// every bounded entity is filtered against before an expensive exact
// geometric test is attempted (spec §4.11).
type AABB struct {
	Min, Max Vec3
}

// NewAABB returns the AABB spanning a and b regardless of their relative
// order.
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: Min(a, b), Max: Max(a, b)}
}

// Contains reports whether p lies within the box, inclusive-min,
// exclusive-max on every axis (spec I3's convention, applied uniformly).
func (b AABB) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// ContainsInclusive reports whether p lies within the box with both bounds
// inclusive; used for vertex-against-box checks where exclusive-max would
// incorrectly reject a cell's own far corner.
func (b AABB) ContainsInclusive(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether b and o overlap on every axis.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// ContainsAABB reports whether o is fully contained within b.
func (b AABB) ContainsAABB(o AABB) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y &&
		o.Min.Z >= b.Min.Z && o.Max.Z <= b.Max.Z
}

// Union returns the smallest AABB containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: Min(b.Min, o.Min), Max: Max(b.Max, o.Max)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns the half-size of the box along each axis.
func (b AABB) Extents() Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// ClosestPoint returns the point within b closest to p, used by the
// AABB-against-sphere intersection test (spec §4.11).
func (b AABB) ClosestPoint(p Vec3) Vec3 {
	return Vec3{
		X: clampF(p.X, b.Min.X, b.Max.X),
		Y: clampF(p.Y, b.Min.Y, b.Max.Y),
		Z: clampF(p.Z, b.Min.Z, b.Max.Z),
	}
}

// DistanceSquared returns the squared distance from p to the closest point
// on or in b; zero if p is inside b.
func (b AABB) DistanceSquared(p Vec3) float64 {
	return p.Sub(b.ClosestPoint(p)).LengthSquared()
}

func clampF(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// IntersectsSphere reports whether b overlaps a sphere centered at c with
// radius r, using the closest-point distance test named in spec §4.11.
func (b AABB) IntersectsSphere(center Vec3, radius float64) bool {
	return b.DistanceSquared(center) <= radius*radius
}
