// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package sfcrange decomposes an axis-aligned grid box into a minimal
// ordered list of non-overlapping Morton-code intervals that exactly cover
// the box's cells, using the classic LITMAX/BIGMIN scan-and-jump algorithm
// (spec §4.6). Only the cube variant consumes this directly; tetree and
// prism use it only to prune a cube-level bounding box before applying
// their own exact containment test.
package sfcrange

import "github.com/Hellblazer/Luciferase-sub013/morton"

// Box is an inclusive grid-index range on all three axes, clamped to
// [0, 2^level).
type Box struct {
	MinX, MaxX uint32
	MinY, MaxY uint32
	MinZ, MaxZ uint32
}

// Interval is an inclusive Morton-code range.
type Interval struct {
	Start, End uint64
}

// contains reports whether (x,y,z) lies within b.
func (b Box) contains(x, y, z uint32) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY &&
		z >= b.MinZ && z <= b.MaxZ
}

// Empty reports whether b covers no cells.
func (b Box) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY || b.MinZ > b.MaxZ
}

// bigmin finds the smallest Morton code >= current that decodes inside b.
// Per spec §4.6: clamp any below-range axis up to its minimum; if any axis
// still exceeds the box after clamping, step forward by one code and let
// the caller's scan loop retry — this is not the closed-form Tropf/Herzog
// BIGMIN but the simpler per-axis clamp-and-retry variant spec.md
// describes, and it is still strictly monotonic (each call returns a code
// > current) so the scan always terminates.
func bigmin(current uint64, b Box) uint64 {
	x, y, z := morton.Decode(current)

	clamped := false
	if x < b.MinX {
		x = b.MinX
		clamped = true
	}
	if y < b.MinY {
		y = b.MinY
		clamped = true
	}
	if z < b.MinZ {
		z = b.MinZ
		clamped = true
	}

	if x > b.MaxX || y > b.MaxY || z > b.MaxZ {
		return current + 1
	}

	if clamped {
		next := morton.Encode(x, y, z)
		if next > current {
			return next
		}
	}
	return current + 1
}

// Decompose returns the ordered list of maximal contiguous Morton-code
// intervals exactly covering b's cells. An empty box yields an empty list.
func Decompose(b Box) []Interval {
	if b.Empty() {
		return nil
	}

	current := morton.Encode(b.MinX, b.MinY, b.MinZ)
	upper := morton.Encode(b.MaxX, b.MaxY, b.MaxZ)

	var intervals []Interval
	for current <= upper {
		x, y, z := morton.Decode(current)
		if !b.contains(x, y, z) {
			current = bigmin(current, b)
			continue
		}

		start := current
		end := current
		for end < upper {
			nx, ny, nz := morton.Decode(end + 1)
			if !b.contains(nx, ny, nz) {
				break
			}
			end++
		}
		intervals = append(intervals, Interval{Start: start, End: end})
		if end == ^uint64(0) {
			break
		}
		current = end + 1
	}
	return intervals
}
