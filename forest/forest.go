// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package forest implements the C14 forest: a named collection of
// independent trees sharing one entity-id generator, cross-tree entity
// reassignment on out-of-bounds moves, and merged multi-tree queries (spec
// §3 "Forest", §4.13). Each per-tree query dispatches independently and
// concurrently via golang.org/x/sync/errgroup (spec §4.13: "Each per-tree
// query MUST be independent"), the teacher's multipool.go shape (a thin
// coordinator fanning work out to independently owned sub-objects)
// generalized from a pool-of-pools to a tree-of-trees.
package forest

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	luciferase "github.com/Hellblazer/Luciferase-sub013"
	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/index"
	"github.com/Hellblazer/Luciferase-sub013/query"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// TreeID names one tree within a Forest.
type TreeID string

// Forest holds N independent trees of the same cell-key variant, an entity
// assignment table mapping each live entity to the tree that owns it, and
// the single generator shared across every member tree so ids stay unique
// forest-wide (spec §3: "Identifier generation is monotonic within a
// forest").
type Forest[K index.Cell[K], V any] struct {
	mu     sync.RWMutex
	order  []TreeID
	trees  map[TreeID]*index.Tree[K, V]
	owner  map[index.EntityId]TreeID
	gen    index.EntityIdGenerator
}

// New constructs an empty Forest. A nil gen defaults to a fresh
// SequentialGenerator shared by every tree added afterward.
func New[K index.Cell[K], V any](gen index.EntityIdGenerator) *Forest[K, V] {
	if gen == nil {
		gen = &index.SequentialGenerator{}
	}
	return &Forest[K, V]{
		trees: make(map[TreeID]*index.Tree[K, V]),
		owner: make(map[index.EntityId]TreeID),
		gen:   gen,
	}
}

// AddTree registers a new tree under id, constructed over geom with the
// forest's shared generator injected ahead of any caller-supplied options
// (a later WithGenerator option would override it, which callers should not
// do for trees joining a forest).
func (f *Forest[K, V]) AddTree(id TreeID, geom index.Geometry[K], opts ...index.Option[K, V]) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.trees[id]; exists {
		return fmt.Errorf("forest: tree %q already registered", id)
	}
	allOpts := append([]index.Option[K, V]{index.WithGenerator[K, V](f.gen)}, opts...)
	f.trees[id] = index.NewTree[K, V](geom, allOpts...)
	f.order = append(f.order, id)
	return nil
}

// RemoveTree unregisters id. Entities still owned by it become orphaned in
// the assignment table; callers should drain a tree (move or remove every
// entity) before removing it.
func (f *Forest[K, V]) RemoveTree(id TreeID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.trees, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Tree returns the tree registered under id.
func (f *Forest[K, V]) Tree(id TreeID) (*index.Tree[K, V], bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.trees[id]
	return t, ok
}

// Insert places a new entity into the named tree and records its
// ownership.
func (f *Forest[K, V]) Insert(tree TreeID, pos coordinate.Float3, bounds *spatial3d.AABB, content V) (index.EntityId, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.trees[tree]
	if !ok {
		return 0, fmt.Errorf("forest: unknown tree %q", tree)
	}
	id, err := t.Insert(pos, bounds, content)
	if err != nil {
		return 0, err
	}
	f.owner[id] = tree
	return id, nil
}

// Remove deletes id from its owning tree.
func (f *Forest[K, V]) Remove(id index.EntityId) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tree, ok := f.owner[id]
	if !ok {
		return fmt.Errorf("%w: entity %d", luciferase.ErrEntityNotFound, id)
	}
	if err := f.trees[tree].Remove(id); err != nil {
		return err
	}
	delete(f.owner, id)
	return nil
}

// UpdatePosition moves id to newPos/newBounds. It first tries the owning
// tree; if newPos falls outside that tree's world, it probes every other
// member tree and reassigns the entity atomically (remove from old, insert
// into new) to the first one whose geometry accepts the point (spec §4.13:
// "reassignment on updatePosition moves the entity atomically"). Returns
// ErrCoordinateOutOfWorld (wrapped) if no tree accepts the new position.
func (f *Forest[K, V]) UpdatePosition(id index.EntityId, newPos coordinate.Float3, newBounds *spatial3d.AABB) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	owning, ok := f.owner[id]
	if !ok {
		return fmt.Errorf("%w: entity %d", luciferase.ErrEntityNotFound, id)
	}
	tree := f.trees[owning]
	if err := tree.UpdatePosition(id, newPos, newBounds); err == nil {
		return nil
	}

	entity, ok := tree.Get(id)
	if !ok {
		return fmt.Errorf("%w: entity %d", luciferase.ErrEntityNotFound, id)
	}
	content := entity.Content

	for _, candidate := range f.order {
		if candidate == owning {
			continue
		}
		t := f.trees[candidate]
		newID, err := t.Insert(newPos, newBounds, content)
		if err != nil {
			continue
		}
		_ = tree.Remove(id)
		delete(f.owner, id)
		f.owner[newID] = candidate
		return nil
	}
	return fmt.Errorf("%w: position %+v accepted by no tree in forest", luciferase.ErrCoordinateOutOfWorld, newPos)
}

// Get returns the entity record for id and the tree that owns it.
func (f *Forest[K, V]) Get(id index.EntityId) (*index.Entity[K, V], TreeID, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	owning, ok := f.owner[id]
	if !ok {
		return nil, "", false
	}
	e, ok := f.trees[owning].Get(id)
	return e, owning, ok
}

// snapshot returns the current tree set for concurrent dispatch without
// holding the forest lock across each per-tree query (spec §4.13: "no
// shared mutable state while querying").
func (f *Forest[K, V]) snapshot() map[TreeID]*index.Tree[K, V] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[TreeID]*index.Tree[K, V], len(f.trees))
	for id, t := range f.trees {
		out[id] = t
	}
	return out
}

// Range returns every entity id across every tree whose bounding volume
// intersects vol, fanning one goroutine per tree via errgroup.
func (f *Forest[K, V]) Range(vol spatial3d.Spatial) []index.EntityId {
	trees := f.snapshot()
	ids := make([]TreeID, 0, len(trees))
	for id := range trees {
		ids = append(ids, id)
	}

	results := make([][]index.EntityId, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, t := i, trees[id]
		g.Go(func() error {
			results[i] = query.New[K, V](t).Range(vol)
			return nil
		})
	}
	_ = g.Wait()

	var merged []index.EntityId
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

type knnHit struct {
	id   index.EntityId
	dist float64
}

// KNN returns the k nearest entity ids to p across every tree in the
// forest, nearest first. Each tree computes its own k-nearest
// independently and concurrently; results are merged by exact distance and
// truncated to k (spec §4.13: "dispatch to each tree, merge by distance").
func (f *Forest[K, V]) KNN(p coordinate.Float3, k int) []index.EntityId {
	if k <= 0 {
		return nil
	}
	trees := f.snapshot()
	ids := make([]TreeID, 0, len(trees))
	for id := range trees {
		ids = append(ids, id)
	}

	perTree := make([][]knnHit, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		i, t := i, trees[id]
		g.Go(func() error {
			hits := query.New[K, V](t).KNN(p, k)
			out := make([]knnHit, 0, len(hits))
			for _, h := range hits {
				entity, ok := t.Get(h)
				if !ok {
					continue
				}
				dx := entity.Position.X - p.X
				dy := entity.Position.Y - p.Y
				dz := entity.Position.Z - p.Z
				out = append(out, knnHit{id: h, dist: dx*dx + dy*dy + dz*dz})
			}
			perTree[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var all []knnHit
	for _, hits := range perTree {
		all = append(all, hits...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	if len(all) > k {
		all = all[:k]
	}
	out := make([]index.EntityId, len(all))
	for i, h := range all {
		out[i] = h.id
	}
	return out
}

// Stats aggregates per-tree Stats across the whole forest.
func (f *Forest[K, V]) Stats() map[TreeID]index.Stats {
	trees := f.snapshot()
	out := make(map[TreeID]index.Stats, len(trees))
	for id, t := range trees {
		out[id] = t.Stats()
	}
	return out
}
