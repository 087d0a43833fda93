// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package index

// DecisionKind enumerates the outcomes a SubdivisionPolicy may return
// (spec §4.9).
type DecisionKind uint8

const (
	InsertInParent DecisionKind = iota
	DeferSubdivision
	ForceSubdivision
	CreateSingleChild
	SplitToChildren
)

// Decision is the outcome of a subdivision policy evaluation.
type Decision[K any] struct {
	Kind   DecisionKind
	Keys   []K // populated for CreateSingleChild (len 1) and SplitToChildren
	Reason string
}

// Context carries everything a SubdivisionPolicy needs to decide where an
// entity insertion lands (spec §4.9).
type Context[K any] struct {
	NodeLevel              uint8
	MaxLevel               uint8
	CurrentSize            int
	MaxEntitiesPerNode     int
	IsBulk                 bool
	NewEntityBoundsSpans   []K // candidate children whose bounds the entity overlaps, if bounded
}

// SubdivisionPolicy decides, for a candidate insertion into a node, how to
// place the entity (spec §4.9).
type SubdivisionPolicy[K any] interface {
	Decide(ctx Context[K]) Decision[K]
}

// IsCriticallyOverloaded reports whether size has reached 2x the
// configured maximum, the tie-break that forces subdivision regardless of
// bulk state (spec §4.9).
func IsCriticallyOverloaded(size, maxEntitiesPerNode int) bool {
	return size >= 2*maxEntitiesPerNode
}

// DefaultPolicy implements the tie-break rules literally: a node at
// MaxLevel never subdivides; critical overload always forces subdivision;
// a bounded entity whose span was already narrowed to specific children
// uses CreateSingleChild/SplitToChildren; a node at or over
// MaxEntitiesPerNode defers subdivision while bulk loading and forces it
// otherwise; below capacity the result is InsertInParent.
type DefaultPolicy[K any] struct{}

func (DefaultPolicy[K]) Decide(ctx Context[K]) Decision[K] {
	if ctx.NodeLevel >= ctx.MaxLevel {
		return Decision[K]{Kind: InsertInParent, Reason: "at max level"}
	}

	critical := IsCriticallyOverloaded(ctx.CurrentSize, ctx.MaxEntitiesPerNode)
	if critical {
		return Decision[K]{Kind: ForceSubdivision, Reason: "critically overloaded"}
	}

	if len(ctx.NewEntityBoundsSpans) == 1 {
		return Decision[K]{Kind: CreateSingleChild, Keys: ctx.NewEntityBoundsSpans, Reason: "single overlapping child"}
	}
	if len(ctx.NewEntityBoundsSpans) > 1 {
		return Decision[K]{Kind: SplitToChildren, Keys: ctx.NewEntityBoundsSpans, Reason: "spans multiple children"}
	}

	if ctx.CurrentSize >= ctx.MaxEntitiesPerNode {
		if ctx.IsBulk {
			return Decision[K]{Kind: DeferSubdivision, Reason: "bulk loading, not critical"}
		}
		return Decision[K]{Kind: ForceSubdivision, Reason: "over capacity"}
	}

	return Decision[K]{Kind: InsertInParent, Reason: "within capacity"}
}

// PrismDirectionalPolicy wraps an inner policy for the prism variant.
// Decide returns Inner's decision unchanged; it does not choose between
// triangular (horizontal) and linear (vertical) refinement.
// PreferHorizontal compares an entity's horizontal/vertical extent ratio
// with HorizontalAspectMin; VerticalAspectMin is read by neither method.
type PrismDirectionalPolicy[K any] struct {
	Inner               SubdivisionPolicy[K]
	HorizontalAspectMin float64 // prefer triangular refinement above this width/height ratio
	VerticalAspectMin   float64 // height/width ratio threshold; not read by PreferHorizontal or Decide
}

// PreferHorizontal reports whether, given an entity of the supplied
// horizontal and vertical extents, the triangular axis should be refined
// before the linear one.
func (p PrismDirectionalPolicy[K]) PreferHorizontal(horizontalExtent, verticalExtent float64) bool {
	if verticalExtent <= 0 {
		return true
	}
	return horizontalExtent/verticalExtent >= p.HorizontalAspectMin
}

func (p PrismDirectionalPolicy[K]) Decide(ctx Context[K]) Decision[K] {
	return p.Inner.Decide(ctx)
}
