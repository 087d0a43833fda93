// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package spatial3d

import "math"

// Plane3D is a plane in Hessian normal form: {p : Normal . p + D = 0}.
type Plane3D struct {
	Normal Vec3
	D      float64
}

// NewPlaneFromPoints constructs the plane through three non-collinear
// points, with the normal following the right-hand winding a,b,c.
func NewPlaneFromPoints(a, b, c Vec3) Plane3D {
	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane3D{Normal: normal, D: -normal.Dot(a)}
}

// DistanceToPoint returns the signed distance from p to the plane:
// positive on the side the normal points to.
func (pl Plane3D) DistanceToPoint(p Vec3) float64 {
	return pl.Normal.Dot(p) + pl.D
}

// Frustum3D is a six-plane convex view-culling region (spec §6).
type Frustum3D struct {
	Planes [6]Plane3D
}

// Plane indices within Frustum3D.Planes.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// IntersectsAABB reports whether box intersects or lies inside the
// frustum, using the standard "AABB outside if fully on the negative side
// of any plane" rejection test.
func (f Frustum3D) IntersectsAABB(box AABB) bool {
	for _, pl := range f.Planes {
		// Positive vertex: the box corner furthest along the plane normal.
		positive := Vec3{
			X: pickMax(pl.Normal.X, box.Min.X, box.Max.X),
			Y: pickMax(pl.Normal.Y, box.Min.Y, box.Max.Y),
			Z: pickMax(pl.Normal.Z, box.Min.Z, box.Max.Z),
		}
		if pl.DistanceToPoint(positive) < 0 {
			return false
		}
	}
	return true
}

func pickMax(n, lo, hi float64) float64 {
	if n >= 0 {
		return hi
	}
	return lo
}

// NewPerspectiveFrustum builds a frustum from a camera position/orientation
// and perspective parameters. forward/up/right must be an orthonormal
// basis; fovY is the vertical field of view in radians.
func NewPerspectiveFrustum(eye, forward, up, right Vec3, fovY, aspect, near, far float64) Frustum3D {
	halfH := math.Tan(fovY/2) * far
	halfW := halfH * aspect

	nearCenter := eye.Add(forward.Scale(near))
	farCenter := eye.Add(forward.Scale(far))

	nearNormal := forward
	farNormal := forward.Scale(-1)

	// Side planes pass through the eye; their normals are derived from the
	// frustum's far-plane half extents, matching the standard perspective
	// frustum construction.
	rightNormal := up.Cross(forward.Scale(far).Add(right.Scale(halfW))).Normalize()
	leftNormal := forward.Scale(far).Sub(right.Scale(halfW)).Cross(up).Normalize()
	topNormal := right.Cross(forward.Scale(far).Add(up.Scale(halfH))).Normalize()
	bottomNormal := forward.Scale(far).Sub(up.Scale(halfH)).Cross(right).Normalize()

	mk := func(n Vec3, p Vec3) Plane3D {
		n = n.Normalize()
		return Plane3D{Normal: n, D: -n.Dot(p)}
	}

	var fr Frustum3D
	fr.Planes[FrustumNear] = mk(nearNormal, nearCenter)
	fr.Planes[FrustumFar] = mk(farNormal, farCenter)
	fr.Planes[FrustumLeft] = mk(leftNormal, eye)
	fr.Planes[FrustumRight] = mk(rightNormal, eye)
	fr.Planes[FrustumTop] = mk(topNormal, eye)
	fr.Planes[FrustumBottom] = mk(bottomNormal, eye)
	return fr
}

// NewOrthographicFrustum builds an axis-aligned orthographic frustum given
// a center, orthonormal basis and half extents along each axis.
func NewOrthographicFrustum(eye, forward, up, right Vec3, halfWidth, halfHeight, near, far float64) Frustum3D {
	nearCenter := eye.Add(forward.Scale(near))
	farCenter := eye.Add(forward.Scale(far))

	mk := func(n Vec3, p Vec3) Plane3D {
		n = n.Normalize()
		return Plane3D{Normal: n, D: -n.Dot(p)}
	}

	var fr Frustum3D
	fr.Planes[FrustumNear] = mk(forward, nearCenter)
	fr.Planes[FrustumFar] = mk(forward.Scale(-1), farCenter)
	fr.Planes[FrustumLeft] = mk(right, eye.Add(right.Scale(-halfWidth)))
	fr.Planes[FrustumRight] = mk(right.Scale(-1), eye.Add(right.Scale(halfWidth)))
	fr.Planes[FrustumTop] = mk(up.Scale(-1), eye.Add(up.Scale(halfHeight)))
	fr.Planes[FrustumBottom] = mk(up, eye.Add(up.Scale(-halfHeight)))
	return fr
}
