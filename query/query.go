// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package query implements the point/range/k-NN/ray/frustum/plane query
// engines shared across the cube, tetree and prism variants (spec §4.11):
// each engine computes a candidate-key stream via the variant's Geometry
// adapter, filters by exact geometric predicate, then consults the entity
// manager for payloads.
package query

import (
	"container/heap"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/index"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Engine runs queries against one Tree.
type Engine[K index.Cell[K], V any] struct {
	Tree *index.Tree[K, V]
}

// New constructs a query Engine over tree.
func New[K index.Cell[K], V any](tree *index.Tree[K, V]) Engine[K, V] {
	return Engine[K, V]{Tree: tree}
}

func vec3Of(p coordinate.Float3) spatial3d.Vec3 { return spatial3d.Vec3{X: p.X, Y: p.Y, Z: p.Z} }

// Locate returns the cell at level containing p (spec §4.11 "locate(p,
// level) -> key").
func (e Engine[K, V]) Locate(p coordinate.Float3, level uint8) (K, error) {
	return e.Tree.Geometry().Locate(p, level)
}

// Enclosing returns the node at level containing p and its resident
// entity ids, or ok=false if p is out of world or the node is unoccupied
// (spec §4.11 "enclosing(p, level) -> (key, entity_ids) or NONE").
func (e Engine[K, V]) Enclosing(p coordinate.Float3, level uint8) (key K, ids []index.EntityId, ok bool) {
	key, err := e.Tree.Geometry().Locate(p, level)
	if err != nil {
		return key, nil, false
	}
	e.Tree.RLock()
	defer e.Tree.RUnlock()
	node, found := e.Tree.Store().Get(key)
	if !found {
		return key, nil, false
	}
	for id := range node.EntityIDs {
		ids = append(ids, id)
	}
	return key, ids, true
}

// Range returns the ids of every entity intersecting vol, following spec
// §4.11's "filter node AABB against the volume first ... then include all
// entities [if contained] ... else entities whose own AABB intersects the
// volume". Every matching node is visited exactly once.
func (e Engine[K, V]) Range(vol spatial3d.Spatial) []index.EntityId {
	e.Tree.RLock()
	defer e.Tree.RUnlock()

	seen := make(map[index.EntityId]struct{})
	var out []index.EntityId
	add := func(id index.EntityId) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	geom := e.Tree.Geometry()
	e.Tree.Store().All(func(key K, node *index.Node[V]) bool {
		box := geom.BBox(key)
		if !vol.Intersects(box) {
			return true
		}
		contained := vol.Bounds().ContainsAABB(box)
		for id := range node.EntityIDs {
			if contained {
				add(id)
				continue
			}
			entity, ok := e.Tree.Manager().Get(id)
			if !ok {
				continue
			}
			if entity.Bounds != nil {
				if vol.Intersects(*entity.Bounds) {
					add(id)
				}
			} else if vol.Contains(vec3Of(entity.Position)) {
				add(id)
			}
		}
		return true
	})
	return out
}

// nodeCandidate is a k-NN search frontier entry: a node key with its
// admissible lower-bound distance to the query point.
type nodeCandidate[K any] struct {
	key   K
	lower float64
}

type nodeHeap[K any] []nodeCandidate[K]

func (h nodeHeap[K]) Len() int            { return len(h) }
func (h nodeHeap[K]) Less(i, j int) bool  { return h[i].lower < h[j].lower }
func (h nodeHeap[K]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap[K]) Push(x any)         { *h = append(*h, x.(nodeCandidate[K])) }
func (h *nodeHeap[K]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// resultCandidate is a k-NN finalist: an entity id with its exact distance
// to the query point.
type resultCandidate struct {
	id   index.EntityId
	dist float64
}

// resultHeap is a bounded max-heap (root = farthest), so KNN can evict the
// worst finalist in O(log k) when a closer one arrives.
type resultHeap []resultCandidate

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[i].dist > h[j].dist }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)        { *h = append(*h, x.(resultCandidate)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNN returns the k nearest entity ids to p, nearest first. k=0 returns an
// empty list (spec B2). Traversal is a priority-queue BFS over nodes
// seeded by every occupied node, using AABB-closest-point distance as an
// admissible lower bound and terminating once the k-th best finalist is no
// farther than the best remaining lower bound (spec §4.11).
func (e Engine[K, V]) KNN(p coordinate.Float3, k int) []index.EntityId {
	if k <= 0 {
		return nil
	}
	e.Tree.RLock()
	defer e.Tree.RUnlock()

	pv := vec3Of(p)
	geom := e.Tree.Geometry()

	frontier := &nodeHeap[K]{}
	heap.Init(frontier)
	e.Tree.Store().All(func(key K, node *index.Node[V]) bool {
		box := geom.BBox(key)
		heap.Push(frontier, nodeCandidate[K]{key: key, lower: box.DistanceSquared(pv)})
		return true
	})

	best := &resultHeap{}
	heap.Init(best)
	seen := make(map[index.EntityId]struct{})

	for frontier.Len() > 0 {
		if best.Len() >= k && (*frontier)[0].lower > (*best)[0].dist {
			break
		}
		top := heap.Pop(frontier).(nodeCandidate[K])
		node, ok := e.Tree.Store().Get(top.key)
		if !ok {
			continue
		}
		for id := range node.EntityIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			entity, ok := e.Tree.Manager().Get(id)
			if !ok {
				continue
			}
			d := entity.Position.X - p.X
			dy := entity.Position.Y - p.Y
			dz := entity.Position.Z - p.Z
			dist := d*d + dy*dy + dz*dz
			if best.Len() < k {
				heap.Push(best, resultCandidate{id: id, dist: dist})
			} else if dist < (*best)[0].dist {
				heap.Pop(best)
				heap.Push(best, resultCandidate{id: id, dist: dist})
			}
		}
	}

	out := make([]index.EntityId, 0, best.Len())
	for best.Len() > 0 {
		out = append(out, heap.Pop(best).(resultCandidate).id)
	}
	// heap.Pop on a max-heap yields farthest-first; reverse for nearest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// RayHit pairs a Hit with the ids resident in the node it struck.
type RayHit struct {
	Key       any
	Hit       spatial3d.Hit
	EntityIDs []index.EntityId
}

// RayIntersectAll returns every node the ray crosses, ordered by
// increasing TNear (spec §4.11: "ray traversal is by increasing t_near").
// Each node is first rejected by its AABB slab test, then by the variant's
// exact geometry via Geometry.RayIntersect (four triangles for tetree, five
// faces for prism; the slab test alone is already exact for cube, so its
// RayIntersect is just that same test).
func (e Engine[K, V]) RayIntersectAll(ray spatial3d.Ray3D) []RayHit {
	e.Tree.RLock()
	defer e.Tree.RUnlock()

	geom := e.Tree.Geometry()
	var hits []RayHit
	e.Tree.Store().All(func(key K, node *index.Node[V]) bool {
		box := geom.BBox(key)
		if _, ok := ray.IntersectAABB(box); !ok {
			return true
		}
		var hit spatial3d.Hit
		var ok bool
		if geom.RayIntersect != nil {
			hit, ok = geom.RayIntersect(key, ray, box)
		} else {
			hit, ok = ray.IntersectAABB(box)
		}
		if !ok {
			return true
		}
		ids := make([]index.EntityId, 0, len(node.EntityIDs))
		for id := range node.EntityIDs {
			ids = append(ids, id)
		}
		hits = append(hits, RayHit{Key: key, Hit: hit, EntityIDs: ids})
		return true
	})

	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Hit.TNear < hits[j-1].Hit.TNear; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	return hits
}

// RayIntersectFirst returns the nearest node the ray crosses, if any.
func (e Engine[K, V]) RayIntersectFirst(ray spatial3d.Ray3D) (RayHit, bool) {
	all := e.RayIntersectAll(ray)
	if len(all) == 0 {
		return RayHit{}, false
	}
	return all[0], true
}

// FrustumCull returns the ids of every entity resident in a node that
// intersects frustum.
func (e Engine[K, V]) FrustumCull(frustum spatial3d.Frustum3D) []index.EntityId {
	e.Tree.RLock()
	defer e.Tree.RUnlock()

	geom := e.Tree.Geometry()
	var out []index.EntityId
	e.Tree.Store().All(func(key K, node *index.Node[V]) bool {
		if !frustum.IntersectsAABB(geom.BBox(key)) {
			return true
		}
		for id := range node.EntityIDs {
			out = append(out, id)
		}
		return true
	})
	return out
}

// PlaneStraddle returns the keys of every node whose bounding-box corners
// lie on both sides of plane (spec §4.11: "any-positive AND any-negative
// rule to decide straddling").
func (e Engine[K, V]) PlaneStraddle(plane spatial3d.Plane3D) []K {
	e.Tree.RLock()
	defer e.Tree.RUnlock()

	geom := e.Tree.Geometry()
	var out []K
	e.Tree.Store().All(func(key K, node *index.Node[V]) bool {
		box := geom.BBox(key)
		corners := [8]spatial3d.Vec3{
			{box.Min.X, box.Min.Y, box.Min.Z}, {box.Max.X, box.Min.Y, box.Min.Z},
			{box.Min.X, box.Max.Y, box.Min.Z}, {box.Max.X, box.Max.Y, box.Min.Z},
			{box.Min.X, box.Min.Y, box.Max.Z}, {box.Max.X, box.Min.Y, box.Max.Z},
			{box.Min.X, box.Max.Y, box.Max.Z}, {box.Max.X, box.Max.Y, box.Max.Z},
		}
		hasPos, hasNeg := false, false
		for _, c := range corners {
			d := plane.DistanceToPoint(c)
			if d > 0 {
				hasPos = true
			} else if d < 0 {
				hasNeg = true
			}
		}
		if hasPos && hasNeg {
			out = append(out, key)
		}
		return true
	})
	return out
}
