// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package index

import (
	"sync"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// Manager is the single source of truth for entity records (spec §4.8):
// position, optional bounds, content and the node-key span currently
// holding the entity. It owns no node-store state; Tree is responsible for
// keeping node.EntityIDs consistent with Manager's records (spec §3,
// "Ownership in design terms").
type Manager[K comparable, V any] struct {
	mu       sync.RWMutex
	entities map[EntityId]*Entity[K, V]
	gen      EntityIdGenerator
}

// NewManager constructs an empty Manager using gen to mint ids. A nil gen
// defaults to a fresh SequentialGenerator (spec §4.8: "the generator is
// injected").
func NewManager[K comparable, V any](gen EntityIdGenerator) *Manager[K, V] {
	if gen == nil {
		gen = &SequentialGenerator{}
	}
	return &Manager[K, V]{
		entities: make(map[EntityId]*Entity[K, V]),
		gen:      gen,
	}
}

// Create mints a new id and records the entity with an empty span; the
// caller (Tree) populates Span after placing the entity in the node store.
func (m *Manager[K, V]) Create(pos coordinate.Float3, bounds *spatial3d.AABB, content V) *Entity[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &Entity[K, V]{
		ID:       m.gen.Generate(),
		Position: pos,
		Bounds:   bounds,
		Content:  content,
	}
	m.entities[e.ID] = e
	return e
}

// Get returns the entity record for id.
func (m *Manager[K, V]) Get(id EntityId) (*Entity[K, V], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[id]
	return e, ok
}

// Delete removes the entity record for id, returning the span it last held
// so the caller can clear it from the node store.
func (m *Manager[K, V]) Delete(id EntityId) ([]K, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok {
		return nil, false
	}
	delete(m.entities, id)
	return e.Span, true
}

// SetSpan replaces id's recorded span. Called by Tree after it has
// reconciled node.EntityIDs so the bidirectional invariant (spec §3) holds.
func (m *Manager[K, V]) SetSpan(id EntityId, span []K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entities[id]; ok {
		e.Span = span
	}
}

// SetPosition updates id's recorded position and bounds without touching
// its span; the caller still owns reconciling the node store.
func (m *Manager[K, V]) SetPosition(id EntityId, pos coordinate.Float3, bounds *spatial3d.AABB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entities[id]; ok {
		e.Position = pos
		e.Bounds = bounds
	}
}

// Count returns the number of live entities.
func (m *Manager[K, V]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}

// All calls fn for every live entity. fn must not mutate the Manager.
func (m *Manager[K, V]) All(fn func(*Entity[K, V]) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entities {
		if !fn(e) {
			return
		}
	}
}
