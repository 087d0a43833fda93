// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package index

import (
	"sync/atomic"

	"github.com/Hellblazer/Luciferase-sub013/internal/bitset"
)

// Node is the record held for one occupied SFC key: the entity ids
// resident at that cell, a child-presence bitmask (Tree treats a node
// with any child bit set as internal and routes inserts into its
// children), and a monotonically increasing touch frame for the DSOC collaborator
// interface (spec §4.7, §6). Children uses the internal/bitset.BitSet
// 8-bit mask since cube/tetree/prism are all 8-way, so Test/Set/Clear/
// Count need no more than one bit per octant.
type Node[V any] struct {
	EntityIDs map[EntityId]V
	Children  bitset.BitSet

	lastTouchFrame atomic.Uint64
}

// reset clears n's state but retains its map storage capacity for pool
// reuse, mirroring the teacher's node.reset() called from pool.Put.
func (n *Node[V]) reset() {
	for id := range n.EntityIDs {
		delete(n.EntityIDs, id)
	}
	n.Children = 0
	n.lastTouchFrame.Store(0)
}

// Empty reports whether n holds no entities (spec §4.7 invariant: "a node
// exists iff its entity_ids is non-empty OR ... forced retention").
func (n *Node[V]) Empty() bool {
	return len(n.EntityIDs) == 0
}

// Touch bumps the node's last-touch frame to at least frame.
func (n *Node[V]) Touch(frame uint64) {
	for {
		cur := n.lastTouchFrame.Load()
		if cur >= frame {
			return
		}
		if n.lastTouchFrame.CompareAndSwap(cur, frame) {
			return
		}
	}
}

// LastTouchFrame returns the node's most recent touch frame.
func (n *Node[V]) LastTouchFrame() uint64 {
	return n.lastTouchFrame.Load()
}

// HasChild reports whether child octant i is marked present.
func (n *Node[V]) HasChild(i uint) bool {
	return n.Children.Test(i)
}

// MarkChild marks child octant i present.
func (n *Node[V]) MarkChild(i uint) {
	n.Children.Set(i)
}

// UnmarkChild marks child octant i absent.
func (n *Node[V]) UnmarkChild(i uint) {
	n.Children.Clear(i)
}
