// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package spatial3d

// Spatial is the query-volume sum type named in spec §6: every concrete
// volume a range query can be shaped as (Cube, Sphere, AABB, AABT,
// Parallelepiped, Tetrahedron) implements it identically, so query engines
// never need a type switch to run the cheap-bound-then-exact-test pattern.
type Spatial interface {
	// Bounds returns the volume's own axis-aligned bounding box, used for
	// the cheap first-pass node filter.
	Bounds() AABB

	// Intersects reports whether the volume overlaps an AABB.
	Intersects(box AABB) bool

	// Contains reports whether the volume contains a point.
	Contains(p Vec3) bool
}

// Cube is an axis-aligned cube query volume.
type Cube struct {
	Center Vec3
	// HalfExtent is half the cube's edge length.
	HalfExtent float64
}

func (c Cube) box() AABB {
	e := Vec3{c.HalfExtent, c.HalfExtent, c.HalfExtent}
	return AABB{Min: c.Center.Sub(e), Max: c.Center.Add(e)}
}

func (c Cube) Bounds() AABB { return c.box() }

func (c Cube) Intersects(box AABB) bool { return c.box().Intersects(box) }

func (c Cube) Contains(p Vec3) bool { return c.box().ContainsInclusive(p) }

// Sphere is a spherical query volume.
type Sphere struct {
	Center Vec3
	Radius float64
}

func (s Sphere) Bounds() AABB {
	e := Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: s.Center.Sub(e), Max: s.Center.Add(e)}
}

func (s Sphere) Intersects(box AABB) bool {
	return box.IntersectsSphere(s.Center, s.Radius)
}

func (s Sphere) Contains(p Vec3) bool {
	return p.Sub(s.Center).LengthSquared() <= s.Radius*s.Radius
}

// AABBVolume adapts a plain AABB to the Spatial interface.
type AABBVolume struct {
	Box AABB
}

func (a AABBVolume) Bounds() AABB { return a.Box }

func (a AABBVolume) Intersects(box AABB) bool { return a.Box.Intersects(box) }

func (a AABBVolume) Contains(p Vec3) bool { return a.Box.ContainsInclusive(p) }

// AABT is an axis-aligned bounded triangular volume: a 2D triangle in the
// XY plane extruded along Z between ZMin and ZMax, the query-volume
// analogue of the prism cell geometry (spec §4.5).
type AABT struct {
	A, B, C  Vec3 // triangle vertices; Z components ignored
	ZMin, ZMax float64
}

func (t AABT) Bounds() AABB {
	lo := Min(Min(t.A, t.B), t.C)
	hi := Max(Max(t.A, t.B), t.C)
	lo.Z, hi.Z = t.ZMin, t.ZMax
	return AABB{Min: lo, Max: hi}
}

func (t AABT) Intersects(box AABB) bool {
	return t.Bounds().Intersects(box)
}

func (t AABT) Contains(p Vec3) bool {
	if p.Z < t.ZMin || p.Z > t.ZMax {
		return false
	}
	return pointInTriangle2D(p, t.A, t.B, t.C)
}

func pointInTriangle2D(p, a, b, c Vec3) bool {
	sign := func(p1, p2, p3 Vec3) float64 {
		return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
	}
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0

	return !(hasNeg && hasPos)
}

// Parallelepiped is a (possibly skewed) parallelepiped query volume
// spanned by an origin and three edge vectors.
type Parallelepiped struct {
	Origin     Vec3
	EdgeU, EdgeV, EdgeW Vec3
}

func (p Parallelepiped) Bounds() AABB {
	corners := p.corners()
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = Min(lo, c)
		hi = Max(hi, c)
	}
	return AABB{Min: lo, Max: hi}
}

func (p Parallelepiped) corners() [8]Vec3 {
	var c [8]Vec3
	for i := 0; i < 8; i++ {
		v := p.Origin
		if i&1 != 0 {
			v = v.Add(p.EdgeU)
		}
		if i&2 != 0 {
			v = v.Add(p.EdgeV)
		}
		if i&4 != 0 {
			v = v.Add(p.EdgeW)
		}
		c[i] = v
	}
	return c
}

func (p Parallelepiped) Intersects(box AABB) bool {
	return p.Bounds().Intersects(box)
}

func (p Parallelepiped) Contains(pt Vec3) bool {
	// Solve pt = Origin + a*U + b*V + c*W via Cramer's rule and test
	// a, b, c in [0, 1].
	d := pt.Sub(p.Origin)
	det := p.EdgeU.Dot(p.EdgeV.Cross(p.EdgeW))
	if det == 0 {
		return false
	}
	a := d.Dot(p.EdgeV.Cross(p.EdgeW)) / det
	b := p.EdgeU.Dot(d.Cross(p.EdgeW)) / det
	c := p.EdgeU.Dot(p.EdgeV.Cross(d)) / det
	return a >= 0 && a <= 1 && b >= 0 && b <= 1 && c >= 0 && c <= 1
}

// Tetrahedron is a general (not necessarily cell-aligned) tetrahedral query
// volume spanned by four vertices.
type Tetrahedron struct {
	V0, V1, V2, V3 Vec3
}

func (t Tetrahedron) Bounds() AABB {
	lo := Min(Min(t.V0, t.V1), Min(t.V2, t.V3))
	hi := Max(Max(t.V0, t.V1), Max(t.V2, t.V3))
	return AABB{Min: lo, Max: hi}
}

func (t Tetrahedron) Intersects(box AABB) bool {
	return t.Bounds().Intersects(box)
}

func (t Tetrahedron) Contains(p Vec3) bool {
	// Barycentric sign test: p is inside iff it is on the same side of
	// every face as the opposite vertex.
	sameSide := func(v0, v1, v2, v3, p Vec3) bool {
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		dot3 := normal.Dot(v3.Sub(v0))
		dotP := normal.Dot(p.Sub(v0))
		return (dot3 >= 0) == (dotP >= 0)
	}
	return sameSide(t.V0, t.V1, t.V2, t.V3, p) &&
		sameSide(t.V1, t.V2, t.V3, t.V0, p) &&
		sameSide(t.V2, t.V3, t.V0, t.V1, p) &&
		sameSide(t.V3, t.V0, t.V1, t.V2, p)
}
