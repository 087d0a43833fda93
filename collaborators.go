// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package luciferase

// NeighborDetector is the collaborator interface a distributed ghost-layer
// implementation plugs in: given an opaque cell key and a direction, it
// returns the neighboring key (if any lies within the partition this
// detector knows about) and whether a cell is a boundary element in that
// direction. The core never implements cross-partition neighbor lookup
// itself (spec §1: distributed 2:1 balancing is out of scope); it only
// names the contract so a collaborator can be attached (spec §6).
type NeighborDetector[K any] interface {
	Neighbor(key K, direction int) (neighbor K, ok bool)
	IsBoundaryElement(key K, direction int) bool
}

// DSOCHooks is the collaborator interface an occlusion-culling/temporal-
// bounding-volume system (DSOC, out of core scope per spec §1) attaches to
// observe tree activity. The core calls these when a collaborator is
// present but never interprets their results (spec §6).
type DSOCHooks[K any] interface {
	OnFrameBegin(frame uint64)
	OnFrameEnd(frame uint64)
	OnEntityTouched(key K)
}

// RefinementDecision is the outcome a RefinementCriterion returns.
type RefinementDecision uint8

const (
	Retain RefinementDecision = iota
	Refine
	Coarsen
)

// RefinementContext carries everything a RefinementCriterion needs to
// judge one node (spec §6).
type RefinementContext[K any] struct {
	NodeKey          K
	Level            uint8
	Bounds           [2][3]float64 // [min,max] world AABB, avoiding an import cycle on spatial3d
	EntityCount      int
	HasChildren      bool
	NodeSpecificData any
}

// RefinementCriterion is an external collaborator that judges whether a
// node should refine, coarsen, or stay as-is; the core exposes the
// interface but makes no refinement decisions of its own beyond the
// subdivision policy in package index (spec §6).
type RefinementCriterion[K any] interface {
	Evaluate(ctx RefinementContext[K]) RefinementDecision
}
