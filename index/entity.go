// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package index implements the sparse SFC-keyed node store (spec §4.7),
// the entity manager and its update_position protocol (§4.8), subdivision
// policy (§4.9) and entity spanning policy (§4.10), generic over any of
// the three cell-key types (cube.Key, tetree.Key, prism.Key).
package index

import (
	"sync/atomic"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

// EntityId is a stable, tree-unique entity identifier.
type EntityId uint64

// EntityIdGenerator mints identifiers. Sequential or UUID-backed
// generators are both valid collaborators (spec §6).
type EntityIdGenerator interface {
	Generate() EntityId
}

// SequentialGenerator is an atomic monotonic EntityIdGenerator, the
// default injected generator (spec §4.8: "monotonic within a forest").
type SequentialGenerator struct {
	next atomic.Uint64
}

// Generate returns the next sequential id, starting at 1.
func (g *SequentialGenerator) Generate() EntityId {
	return EntityId(g.next.Add(1))
}

// Cloner enables deep cloning of entity content, mirrored from the
// teacher's Cloner[V] (root cloner.go). It is exported for callers; the
// tree and the entity manager store content as given and never call Clone.
type Cloner[V any] interface {
	Clone() V
}

// Entity is the single source of truth for one entity's state (spec §4.8).
// Position is a coordinate.Float3 rather than the fixed-point
// coordinate.Point3 used by the cube/tetree cell algebra, since the prism
// variant's world is natively floating-point (spec §4.5); Geometry.Locate/
// Contains convert as needed per variant.
type Entity[K any, V any] struct {
	ID       EntityId
	Position coordinate.Float3
	Bounds   *spatial3d.AABB // nil for point entities
	Content  V
	Span     []K // cells currently holding this entity
}
