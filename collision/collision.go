// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package collision implements the broad-phase collision engine (spec
// §4.12): pairwise and all-pairs candidate enumeration over a Tree's node
// store, deduplicated by canonical ordered pair, followed by an exact
// AABB/point narrow-phase test.
package collision

import (
	"github.com/Hellblazer/Luciferase-sub013/index"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// DefaultPointThreshold is the point-to-point collision distance threshold
// in world units, preserved from the source as a documented constant and
// exposed as configuration on Engine (spec §9 Q4, §4.12).
const DefaultPointThreshold = 0.1

// Pair is a canonically ordered (min id, max id) colliding entity pair
// with its narrow-phase result.
type Pair struct {
	A, B             index.EntityId
	PenetrationDepth float64
}

// Engine runs broad- and narrow-phase collision queries against one Tree.
type Engine[K index.Cell[K], V any] struct {
	Tree *index.Tree[K, V]

	// PointThreshold is the Euclidean distance below which two point
	// entities are considered colliding (spec §9 Q4).
	PointThreshold float64
}

// New constructs an Engine with the default point threshold.
func New[K index.Cell[K], V any](tree *index.Tree[K, V]) *Engine[K, V] {
	return &Engine[K, V]{Tree: tree, PointThreshold: DefaultPointThreshold}
}

// canonicalize orders a pair so (a,a) is impossible and each unordered
// pair is produced exactly once regardless of scan order (spec I8).
func canonicalize(a, b index.EntityId) (index.EntityId, index.EntityId, bool) {
	if a == b {
		return 0, 0, false
	}
	if a > b {
		a, b = b, a
	}
	return a, b, true
}

// CheckCollision runs the exact narrow-phase test between two named
// entities: AABB-vs-AABB if both are bounded, AABB-vs-point if one is
// bounded, else point-vs-point against PointThreshold (spec §4.12).
// Returns ok=false if either id is unknown or they do not collide
// (collision queries never error on unknown ids, spec §4.12/§7).
func (e *Engine[K, V]) CheckCollision(a, b index.EntityId) (pair Pair, ok bool) {
	ea, found := e.Tree.Get(a)
	if !found {
		return Pair{}, false
	}
	eb, found := e.Tree.Get(b)
	if !found {
		return Pair{}, false
	}
	lo, hi, distinct := canonicalize(a, b)
	if !distinct {
		return Pair{}, false
	}

	pa := spatial3d.Vec3{X: ea.Position.X, Y: ea.Position.Y, Z: ea.Position.Z}
	pb := spatial3d.Vec3{X: eb.Position.X, Y: eb.Position.Y, Z: eb.Position.Z}

	threshold := e.PointThreshold
	if threshold <= 0 {
		threshold = DefaultPointThreshold
	}

	switch {
	case ea.Bounds != nil && eb.Bounds != nil:
		if !ea.Bounds.Intersects(*eb.Bounds) {
			return Pair{}, false
		}
		overlap := overlapExtent(*ea.Bounds, *eb.Bounds)
		return Pair{A: lo, B: hi, PenetrationDepth: nonNegative(overlap)}, true

	case ea.Bounds != nil || eb.Bounds != nil:
		box, point := ea.Bounds, pb
		if ea.Bounds == nil {
			box, point = eb.Bounds, pa
		}
		if !box.ContainsInclusive(point) {
			d := box.DistanceSquared(point)
			return Pair{}, d == 0
		}
		return Pair{A: lo, B: hi, PenetrationDepth: 0}, true

	default:
		dist := pa.Distance(pb)
		if dist > threshold {
			return Pair{}, false
		}
		return Pair{A: lo, B: hi, PenetrationDepth: nonNegative(threshold - dist)}, true
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// overlapExtent returns the minimum penetration depth across axes for two
// intersecting AABBs (the smallest positive axis overlap, the standard SAT
// penetration-depth estimate for axis-aligned boxes).
func overlapExtent(a, b spatial3d.AABB) float64 {
	dx := minF(a.Max.X, b.Max.X) - maxF(a.Min.X, b.Min.X)
	dy := minF(a.Max.Y, b.Max.Y) - maxF(a.Min.Y, b.Min.Y)
	dz := minF(a.Max.Z, b.Max.Z) - maxF(a.Min.Z, b.Min.Z)
	min := dx
	if dy < min {
		min = dy
	}
	if dz < min {
		min = dz
	}
	return min
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// FindCollisions returns every colliding pair involving id: for each key in
// the entity's span, it pairs with every other resident of that node, every
// entity resident in a same-level neighboring node, and every entity
// resident in a spanning ancestor node (spec §4.12: "pair with co-located
// and neighbor entities; dedupe"). Unknown ids yield an empty slice, never
// an error.
func (e *Engine[K, V]) FindCollisions(id index.EntityId) []Pair {
	entity, ok := e.Tree.Get(id)
	if !ok {
		return nil
	}

	e.Tree.RLock()
	geom := e.Tree.Geometry()
	seen := make(map[index.EntityId]struct{})
	var others []index.EntityId
	collect := func(key K, node *index.Node[V]) {
		for other := range node.EntityIDs {
			if other == id {
				continue
			}
			if _, dup := seen[other]; !dup {
				seen[other] = struct{}{}
				others = append(others, other)
			}
		}
	}
	for _, key := range entity.Span {
		if node, ok := e.Tree.Store().Get(key); ok {
			collect(key, node)
		}
		e.neighborEntities(geom, key, &collect)
		e.ancestorEntities(key, id, seen, &others)
	}
	e.Tree.RUnlock()

	var pairs []Pair
	for _, other := range others {
		if p, ok := e.CheckCollision(id, other); ok {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// neighborEntities visits every same-level node adjacent to key (per
// Geometry.Neighbors) that is present in the store and actually touches
// key (per Geometry.CellsOverlap, when the variant provides one), calling
// collect for each. Caller holds the tree's read lock.
func (e *Engine[K, V]) neighborEntities(geom index.Geometry[K], key K, collect *func(K, *index.Node[V])) {
	if geom.Neighbors == nil {
		return
	}
	for _, n := range geom.Neighbors(key) {
		if geom.CellsOverlap != nil && !geom.CellsOverlap(key, n) {
			continue
		}
		if node, ok := e.Tree.Store().Get(n); ok {
			(*collect)(n, node)
		}
	}
}

// ancestorEntities walks from key's parent to the root, collecting ids
// resident in any structurally-retained ancestor (entities whose span was
// narrowed to the parent rather than the leaf still count as neighbors of
// every descendant, spec §4.12 "higher-level ancestors that carry spanning
// entities"). Caller holds the tree's read lock.
func (e *Engine[K, V]) ancestorEntities(key K, exclude index.EntityId, seen map[index.EntityId]struct{}, out *[]index.EntityId) {
	level := e.Tree.Geometry().Level(key)
	cur := key
	for level > 0 {
		cur = cur.Parent()
		level = e.Tree.Geometry().Level(cur)
		node, ok := e.Tree.Store().Get(cur)
		if !ok {
			continue
		}
		for other := range node.EntityIDs {
			if other == exclude {
				continue
			}
			if _, dup := seen[other]; !dup {
				seen[other] = struct{}{}
				*out = append(*out, other)
			}
		}
	}
}

// FindAllCollisions scans every occupied node and pairs its entities with
// every other entity sharing that node, a same-level neighboring node, or
// an ancestor node, deduplicating by canonical ordered pair (spec §4.12,
// I8).
func (e *Engine[K, V]) FindAllCollisions() []Pair {
	e.Tree.RLock()
	type bucket struct {
		key K
		ids []index.EntityId
	}
	var buckets []bucket
	byKey := make(map[K][]index.EntityId)
	e.Tree.Store().All(func(key K, node *index.Node[V]) bool {
		if len(node.EntityIDs) == 0 {
			return true
		}
		ids := make([]index.EntityId, 0, len(node.EntityIDs))
		for id := range node.EntityIDs {
			ids = append(ids, id)
		}
		buckets = append(buckets, bucket{key: key, ids: ids})
		byKey[key] = ids
		return true
	})
	e.Tree.RUnlock()

	seenPair := make(map[[2]index.EntityId]struct{})
	var pairs []Pair
	tryPair := func(a, b index.EntityId) {
		lo, hi, distinct := canonicalize(a, b)
		if !distinct {
			return
		}
		key := [2]index.EntityId{lo, hi}
		if _, dup := seenPair[key]; dup {
			return
		}
		seenPair[key] = struct{}{}
		if p, ok := e.CheckCollision(lo, hi); ok {
			pairs = append(pairs, p)
		}
	}

	for _, bk := range buckets {
		for i := 0; i < len(bk.ids); i++ {
			for j := i + 1; j < len(bk.ids); j++ {
				tryPair(bk.ids[i], bk.ids[j])
			}
		}
	}

	// Same-level neighbor pairs: entities in face-adjacent cells can
	// straddle a shared boundary within the point threshold even though
	// neither node is an ancestor of the other (spec §4.12, "neighboring
	// node at the same level").
	geom := e.Tree.Geometry()
	if geom.Neighbors != nil {
		seenNeighborPair := make(map[[2]K]struct{})
		for _, bk := range buckets {
			for _, n := range geom.Neighbors(bk.key) {
				if geom.CellsOverlap != nil && !geom.CellsOverlap(bk.key, n) {
					continue
				}
				otherIDs, ok := byKey[n]
				if !ok {
					continue
				}
				if _, dup := seenNeighborPair[[2]K{n, bk.key}]; dup {
					continue
				}
				seenNeighborPair[[2]K{bk.key, n}] = struct{}{}
				for _, a := range bk.ids {
					for _, b := range otherIDs {
						tryPair(a, b)
					}
				}
			}
		}
	}

	// Ancestor-spanning pairs: an entity resident directly in a
	// structurally-retained ancestor collides with descendants too.
	e.Tree.RLock()
	for _, bk := range buckets {
		seen := make(map[index.EntityId]struct{})
		var ancestors []index.EntityId
		e.ancestorEntities(bk.key, 0, seen, &ancestors)
		e.Tree.RUnlock()
		for _, id := range bk.ids {
			for _, anc := range ancestors {
				tryPair(id, anc)
			}
		}
		e.Tree.RLock()
	}
	e.Tree.RUnlock()

	return pairs
}
