// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package index

import (
	"sync"
	"sync/atomic"
)

// pool is a type-safe wrapper around sync.Pool specialized for *Node[V]
// instances, adapted directly from the teacher's root pool.go: it tracks
// allocation/live-use statistics for debugging and performance tuning.
type pool[V any] struct {
	sync.Pool

	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

// newPool creates a pool of *Node[V].
func newPool[V any]() *pool[V] {
	p := &pool[V]{}
	p.New = func() any {
		p.totalAllocated.Add(1)
		return &Node[V]{EntityIDs: make(map[EntityId]V)}
	}
	return p
}

// Get retrieves a *Node[V], allocating fresh if the pool is empty.
func (p *pool[V]) Get() *Node[V] {
	if p == nil {
		return &Node[V]{EntityIDs: make(map[EntityId]V)}
	}
	p.currentLive.Add(1)
	return p.Pool.Get().(*Node[V])
}

// Put returns n to the pool after resetting its state.
func (p *pool[V]) Put(n *Node[V]) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1)
	n.reset()
	p.Pool.Put(n)
}

// Stats returns the number of currently live nodes and the total number
// ever allocated by this pool.
func (p *pool[V]) Stats() (live int64, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
