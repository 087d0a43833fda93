// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package index

import (
	"fmt"
	"sync"

	luciferase "github.com/Hellblazer/Luciferase-sub013"
	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Config bundles the per-tree tunables named in spec §4.9/§4.10.
type Config[K Cell[K]] struct {
	MaxLevel           uint8
	MaxEntitiesPerNode int
	Policy             SubdivisionPolicy[K]
	Spanning           SpanningPolicy[K]
	Bulk               bool
	Generator          EntityIdGenerator
}

// Option configures a Tree at construction time, the teacher's functional-
// options idiom applied to NewTree (see SPEC_FULL.md "Configuration").
type Option[K Cell[K], V any] func(*Tree[K, V])

func WithMaxLevel[K Cell[K], V any](level uint8) Option[K, V] {
	return func(t *Tree[K, V]) { t.cfg.MaxLevel = level }
}

func WithMaxEntitiesPerNode[K Cell[K], V any](n int) Option[K, V] {
	return func(t *Tree[K, V]) { t.cfg.MaxEntitiesPerNode = n }
}

func WithPolicy[K Cell[K], V any](p SubdivisionPolicy[K]) Option[K, V] {
	return func(t *Tree[K, V]) { t.cfg.Policy = p }
}

func WithSpanning[K Cell[K], V any](s SpanningPolicy[K]) Option[K, V] {
	return func(t *Tree[K, V]) { t.cfg.Spanning = s }
}

// WithBulk marks the tree as bulk-loading: subdivision may be deferred
// below critical overload (spec §4.9).
func WithBulk[K Cell[K], V any](bulk bool) Option[K, V] {
	return func(t *Tree[K, V]) { t.cfg.Bulk = bulk }
}

func WithGenerator[K Cell[K], V any](gen EntityIdGenerator) Option[K, V] {
	return func(t *Tree[K, V]) { t.cfg.Generator = gen }
}

// Tree is one variant-specific spatial index: a node Store, an entity
// Manager, and the Geometry adapter tying cell-key operations together
// (spec §3, "Forest": "each tree is an independent node store with shared
// EntityManager semantics"). A single sync.RWMutex serializes mutation per
// spec §5's "single-writer-per-tree, multi-reader" discipline; Manager
// keeps its own lock for its slice of entity records so read-only entity
// lookups never block on the node-store writer.
type Tree[K Cell[K], V any] struct {
	mu sync.RWMutex

	store   *Store[K, V]
	manager *Manager[K, V]
	geom    Geometry[K]
	cfg     Config[K]
}

// NewTree constructs a Tree over the given Geometry adapter (cube.Geometry,
// tetree.Geometry or prism.Geometry), defaulting to DefaultPolicy and
// StandardSpanning with a maximum of 8 entities per node.
func NewTree[K Cell[K], V any](geom Geometry[K], opts ...Option[K, V]) *Tree[K, V] {
	t := &Tree[K, V]{
		store: NewStore[K, V](),
		geom:  geom,
		cfg: Config[K]{
			MaxLevel:           coordinate.MaxLevel,
			MaxEntitiesPerNode: 8,
			Policy:             DefaultPolicy[K]{},
			Spanning:           StandardSpanning[K]{},
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.manager = NewManager[K, V](t.cfg.Generator)
	return t
}

// Insert adds a new entity at pos with optional bounds, returning its
// freshly minted id. bounds nil means a point entity (spec §4.10, "Point:
// span = { cell_containing(position, level) }").
func (t *Tree[K, V]) Insert(pos coordinate.Float3, bounds *spatial3d.AABB, content V) (EntityId, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.geom.Locate(pos, 0); err != nil {
		return 0, err
	}

	entity := t.manager.Create(pos, bounds, content)
	span, err := t.place(entity.ID, pos, bounds, content)
	if err != nil {
		t.manager.Delete(entity.ID)
		return 0, err
	}
	t.manager.SetSpan(entity.ID, span)
	return entity.ID, nil
}

// Remove deletes an entity, clearing it from every node in its span.
// Returns ErrEntityNotFound (wrapped) if id is unknown (spec §7).
func (t *Tree[K, V]) Remove(id EntityId) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	span, ok := t.manager.Delete(id)
	if !ok {
		return fmt.Errorf("%w: entity %d", luciferase.ErrEntityNotFound, id)
	}
	for _, key := range span {
		t.detach(key, id)
	}
	return nil
}

// UpdatePosition moves id to newPos/newBounds, keeping its id. It removes
// id from every node of its current span and then places it again from
// the root; it does not compute a span diff, so nodes shared by the old
// and new spans are left and re-entered, and a node emptied on the way out
// is reclaimed and created again.
func (t *Tree[K, V]) UpdatePosition(id EntityId, newPos coordinate.Float3, newBounds *spatial3d.AABB) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entity, ok := t.manager.Get(id)
	if !ok {
		return fmt.Errorf("%w: entity %d", luciferase.ErrEntityNotFound, id)
	}
	if _, err := t.geom.Locate(newPos, 0); err != nil {
		return err
	}

	for _, key := range entity.Span {
		t.detach(key, id)
	}

	t.manager.SetPosition(id, newPos, newBounds)
	span, err := t.place(id, newPos, newBounds, entity.Content)
	if err != nil {
		// Best effort: entity now has an empty span rather than a stale one.
		t.manager.SetSpan(id, nil)
		return err
	}
	t.manager.SetSpan(id, span)
	return nil
}

// Get returns the live entity record for id.
func (t *Tree[K, V]) Get(id EntityId) (*Entity[K, V], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.manager.Get(id)
}

// NodeAt returns the node stored at key, if any.
func (t *Tree[K, V]) NodeAt(key K) (*Node[V], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.Get(key)
}

// Store exposes the underlying node store for query/collision engines that
// need to scan or range over it directly.
func (t *Tree[K, V]) Store() *Store[K, V] { return t.store }

// Manager exposes the underlying entity manager.
func (t *Tree[K, V]) Manager() *Manager[K, V] { return t.manager }

// Geometry exposes the tree's cell-geometry adapter.
func (t *Tree[K, V]) Geometry() Geometry[K] { return t.geom }

// RLock/RUnlock expose the read side of the tree's mutex to collaborators
// (the query and collision engines) that hold it across several
// Store/Manager calls to see one consistent state (spec §5). The write
// side is not exported.
func (t *Tree[K, V]) RLock()   { t.mu.RLock() }
func (t *Tree[K, V]) RUnlock() { t.mu.RUnlock() }

// Stats reports node/entity counts for observability (SPEC_FULL.md
// "Supplemented features").
type Stats struct {
	NodeCount      int
	EntityCount    int
	LiveNodes      int64
	AllocatedNodes int64
}

func (t *Tree[K, V]) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	live, total := t.store.pool.Stats()
	return Stats{
		NodeCount:      t.store.Len(),
		EntityCount:    t.manager.Count(),
		LiveNodes:      live,
		AllocatedNodes: total,
	}
}

// place locates the root containing pos and descends into it.
func (t *Tree[K, V]) place(id EntityId, pos coordinate.Float3, bounds *spatial3d.AABB, content V) ([]K, error) {
	root, ok := t.geom.rootContaining(pos)
	if !ok {
		return nil, fmt.Errorf("%w: position %+v not contained by any root cell", luciferase.ErrCoordinateOutOfWorld, pos)
	}
	return t.insertInto(root, -1, id, pos, bounds, content)
}

// insertInto places id into the subtree rooted at key (idxInParent is key's
// octant index within its parent, or -1 for a root), applying the
// subdivision/spanning policies and recursing as needed (spec §4.9, §4.10).
func (t *Tree[K, V]) insertInto(key K, idxInParent int, id EntityId, pos coordinate.Float3, bounds *spatial3d.AABB, content V) ([]K, error) {
	node := t.store.GetOrCreate(key, idxInParent)

	if node.Children.Count() > 0 {
		return t.descendInto(key, node, id, pos, bounds, content)
	}

	level := t.geom.Level(key)
	ctx := Context[K]{
		NodeLevel:          level,
		MaxLevel:           t.cfg.MaxLevel,
		CurrentSize:        len(node.EntityIDs),
		MaxEntitiesPerNode: t.cfg.MaxEntitiesPerNode,
		IsBulk:             t.cfg.Bulk,
	}
	if bounds != nil {
		if spans, err := t.candidateSpans(key, *bounds); err == nil {
			ctx.NewEntityBoundsSpans = spans
		}
	}

	decision := t.cfg.Policy.Decide(ctx)
	switch decision.Kind {
	case InsertInParent, DeferSubdivision:
		node.EntityIDs[id] = content
		return []K{key}, nil

	case CreateSingleChild, SplitToChildren:
		var span []K
		for _, childKey := range decision.Keys {
			idx, ok := t.childIndexOf(key, childKey)
			if !ok {
				continue
			}
			sub, err := t.insertInto(childKey, idx, id, pos, bounds, content)
			if err != nil {
				return nil, err
			}
			span = append(span, sub...)
		}
		if len(span) == 0 {
			node.EntityIDs[id] = content
			return []K{key}, nil
		}
		return span, nil

	case ForceSubdivision:
		if err := t.subdivide(key, node); err != nil {
			node.EntityIDs[id] = content
			return []K{key}, nil
		}
		return t.descendInto(key, node, id, pos, bounds, content)
	}

	node.EntityIDs[id] = content
	return []K{key}, nil
}

// subdivide redistributes node's resident entities into its children and
// marks it as a structural (entity-free) internal node.
func (t *Tree[K, V]) subdivide(key K, node *Node[V]) error {
	children, err := t.geom.Children(key)
	if err != nil {
		return err
	}

	type resident struct {
		id      EntityId
		content V
	}
	residents := make([]resident, 0, len(node.EntityIDs))
	for id, content := range node.EntityIDs {
		residents = append(residents, resident{id, content})
	}
	for id := range node.EntityIDs {
		delete(node.EntityIDs, id)
	}

	for _, r := range residents {
		entity, ok := t.manager.Get(r.id)
		if !ok {
			continue
		}
		var span []K
		var insErr error
		if entity.Bounds != nil {
			for i, child := range children {
				box := t.geom.BBox(child)
				if box.Intersects(*entity.Bounds) {
					sub, err := t.insertInto(child, i, r.id, entity.Position, entity.Bounds, r.content)
					if err != nil {
						insErr = err
						continue
					}
					span = append(span, sub...)
				}
			}
		} else {
			idx, ok := t.childIndexContaining(children, entity.Position)
			if ok {
				sub, err := t.insertInto(children[idx], idx, r.id, entity.Position, nil, r.content)
				if err != nil {
					insErr = err
				} else {
					span = append(span, sub...)
				}
			}
		}
		if len(span) > 0 {
			t.manager.SetSpan(r.id, span)
		} else if insErr == nil {
			// Could not place in any child (degenerate boundary case);
			// keep it resident in the now-internal node as a fallback.
			node.EntityIDs[r.id] = r.content
			t.manager.SetSpan(r.id, []K{key})
		}
	}
	return nil
}

// descendInto routes a new insertion into the (already subdivided)
// children of key.
func (t *Tree[K, V]) descendInto(key K, node *Node[V], id EntityId, pos coordinate.Float3, bounds *spatial3d.AABB, content V) ([]K, error) {
	children, err := t.geom.Children(key)
	if err != nil {
		return nil, err
	}

	if bounds != nil {
		var span []K
		for i, child := range children {
			box := t.geom.BBox(child)
			if box.Intersects(*bounds) {
				sub, err := t.insertInto(child, i, id, pos, bounds, content)
				if err != nil {
					return nil, err
				}
				span = append(span, sub...)
			}
		}
		if len(span) > 0 {
			return span, nil
		}
	}

	idx, ok := t.childIndexContaining(children, pos)
	if !ok {
		// Position sits structurally in this internal node (boundary case).
		node.EntityIDs[id] = content
		return []K{key}, nil
	}
	return t.insertInto(children[idx], idx, id, pos, bounds, content)
}

// candidateSpans evaluates the spanning policy against key's children for
// a bounded entity, returning the concrete child keys it should occupy.
func (t *Tree[K, V]) candidateSpans(key K, bounds spatial3d.AABB) ([]K, error) {
	children, err := t.geom.Children(key)
	if err != nil {
		return nil, err
	}
	candidates := make([]KeyedBox[K], len(children))
	for i, c := range children {
		candidates[i] = KeyedBox[K]{Key: c, Box: t.geom.BBox(c)}
	}
	return t.cfg.Spanning.Span(bounds, candidates), nil
}

func (t *Tree[K, V]) childIndexContaining(children [8]K, pos coordinate.Float3) (int, bool) {
	for i, c := range children {
		if t.geom.Contains(c, pos) {
			return i, true
		}
	}
	return -1, false
}

func (t *Tree[K, V]) childIndexOf(parent K, target K) (int, bool) {
	children, err := t.geom.Children(parent)
	if err != nil {
		return -1, false
	}
	for i, c := range children {
		if c == target {
			return i, true
		}
	}
	return -1, false
}

// detach removes id from the node at key, reclaiming the node if it is now
// both entity-free and childless.
func (t *Tree[K, V]) detach(key K, id EntityId) {
	node, ok := t.store.Get(key)
	if !ok {
		return
	}
	delete(node.EntityIDs, id)
	if !node.Empty() || node.Children.Count() > 0 {
		return
	}
	if t.geom.Level(key) == 0 {
		t.store.Delete(key, -1)
		return
	}
	parent := key.Parent()
	idx, ok := t.childIndexOf(parent, key)
	if !ok {
		t.store.Delete(key, -1)
		return
	}
	t.store.Delete(key, idx)
}
