// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package index

import "github.com/Hellblazer/Luciferase-sub013/spatial3d"

// SpanningPolicy returns the set of target node keys at the candidate
// level for a bounded entity (spec §4.10). K is the variant's cell-key
// type; candidates carries a node's candidate children with their bounding
// boxes so the policy can test them against the entity.
type SpanningPolicy[K any] interface {
	Span(entityBounds spatial3d.AABB, candidates []KeyedBox[K]) []K
}

// KeyedBox pairs a cell key with its world-space bounding box, the shape
// every variant's BBox(worldSize) method already produces.
type KeyedBox[K any] struct {
	Key K
	Box spatial3d.AABB
}

// PointSpanning always returns exactly the single cell containing the
// entity's position (spec: "Point: span = { cell_containing(position,
// ℓ) }"); callers pass candidates with exactly that one entry.
type PointSpanning[K any] struct{}

func (PointSpanning[K]) Span(_ spatial3d.AABB, candidates []KeyedBox[K]) []K {
	if len(candidates) == 0 {
		return nil
	}
	return []K{candidates[0].Key}
}

// StandardSpanning returns every candidate (child) whose box intersects
// the entity's bounds (spec: "Standard spanning: span = cells of the
// node's children whose AABB intersects bounds").
type StandardSpanning[K any] struct{}

func (StandardSpanning[K]) Span(entityBounds spatial3d.AABB, candidates []KeyedBox[K]) []K {
	var out []K
	for _, c := range candidates {
		if c.Box.Intersects(entityBounds) {
			out = append(out, c.Key)
		}
	}
	return out
}

// AdaptiveSpanning narrows StandardSpanning's result to at most MaxSpan
// keys, preferring the candidates whose boxes overlap the entity most,
// and always returns at least one key when any candidate intersects
// (spec: "returns at least one key; never more than
// max_span_nodes(...); must be deterministic for identical inputs").
type AdaptiveSpanning[K any] struct {
	MaxSpan func(entitySize, nodeSize float64, nodeCount int) int
	NodeSize    float64
	NodeCount   int
}

func (a AdaptiveSpanning[K]) Span(entityBounds spatial3d.AABB, candidates []KeyedBox[K]) []K {
	type scored struct {
		key   K
		score float64
	}

	var matches []scored
	for _, c := range candidates {
		if !c.Box.Intersects(entityBounds) {
			continue
		}
		overlap := overlapVolume(c.Box, entityBounds)
		matches = append(matches, scored{key: c.Key, score: overlap})
	}
	if len(matches) == 0 {
		return nil
	}

	entitySize := entityBounds.Max.X - entityBounds.Min.X
	limit := len(matches)
	if a.MaxSpan != nil {
		if m := a.MaxSpan(entitySize, a.NodeSize, a.NodeCount); m > 0 && m < limit {
			limit = m
		}
	}

	// Deterministic partial selection: stable sort descending by score,
	// ties broken by original candidate order (already stable).
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].score > matches[j-1].score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}

	out := make([]K, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, matches[i].key)
	}
	return out
}

func overlapVolume(a, b spatial3d.AABB) float64 {
	dx := min(a.Max.X, b.Max.X) - max(a.Min.X, b.Min.X)
	dy := min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	dz := min(a.Max.Z, b.Max.Z) - max(a.Min.Z, b.Min.Z)
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return 0
	}
	return dx * dy * dz
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// MemoryOptimizedMaxSpan and PerformanceOptimizedMaxSpan are the two
// presets spec §4.10 names ("Memory-optimized / performance-optimized
// presets tune the thresholds but obey the same contract"): the former
// favors fewer, coarser spans; the latter allows more, finer spans to
// reduce per-query filtering cost.
func MemoryOptimizedMaxSpan(entitySize, nodeSize float64, nodeCount int) int {
	if entitySize <= 0 || nodeSize <= 0 {
		return 1
	}
	ratio := entitySize / nodeSize
	if ratio < 0.5 {
		return 2
	}
	return 4
}

func PerformanceOptimizedMaxSpan(entitySize, nodeSize float64, nodeCount int) int {
	base := 8
	if nodeCount > 100_000 {
		base = 4
	}
	return base
}
