// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package collision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hellblazer/Luciferase-sub013/collision"
	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/cube"
	"github.com/Hellblazer/Luciferase-sub013/index"
)

func TestCheckCollisionPointPair(t *testing.T) {
	tr := index.NewTree[cube.Key, string](cube.Geometry(coordinate.WorldSize))
	eng := collision.New[cube.Key, string](tr)

	a, err := tr.Insert(coordinate.Float3{X: 10, Y: 10, Z: 10}, nil, "a")
	require.NoError(t, err)
	b, err := tr.Insert(coordinate.Float3{X: 10.05, Y: 10, Z: 10}, nil, "b")
	require.NoError(t, err)
	c, err := tr.Insert(coordinate.Float3{X: 500, Y: 500, Z: 500}, nil, "c")
	require.NoError(t, err)

	pair, ok := eng.CheckCollision(a, b)
	require.True(t, ok)
	assert.Equal(t, a, pair.A)
	assert.Equal(t, b, pair.B)

	_, ok = eng.CheckCollision(a, c)
	assert.False(t, ok)
}

func TestCheckCollisionUnknownEntity(t *testing.T) {
	tr := index.NewTree[cube.Key, string](cube.Geometry(coordinate.WorldSize))
	eng := collision.New[cube.Key, string](tr)

	id, err := tr.Insert(coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "solo")
	require.NoError(t, err)

	_, ok := eng.CheckCollision(id, 99999)
	assert.False(t, ok)
}

func TestCheckCollisionSamePointRejected(t *testing.T) {
	tr := index.NewTree[cube.Key, string](cube.Geometry(coordinate.WorldSize))
	eng := collision.New[cube.Key, string](tr)

	id, err := tr.Insert(coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "solo")
	require.NoError(t, err)

	_, ok := eng.CheckCollision(id, id)
	assert.False(t, ok)
}

func TestFindAllCollisionsDedupesCanonicalPairs(t *testing.T) {
	tr := index.NewTree[cube.Key, string](cube.Geometry(coordinate.WorldSize))
	eng := collision.New[cube.Key, string](tr)

	var ids []index.EntityId
	for i := 0; i < 4; i++ {
		id, err := tr.Insert(coordinate.Float3{X: 20, Y: 20, Z: 20}, nil, "cluster")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	pairs := eng.FindAllCollisions()
	seen := make(map[[2]index.EntityId]int)
	for _, p := range pairs {
		seen[[2]index.EntityId{p.A, p.B}]++
	}
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
	// 4 colocated entities -> C(4,2) = 6 unordered pairs.
	assert.Len(t, pairs, 6)
}

// Two entities straddling a shared cell boundary, each alone in its own
// leaf, are neither co-resident nor in an ancestor relationship to each
// other — only same-level neighbor pairing can catch this (spec §4.12).
func newStraddlingPairTree(t *testing.T) (*index.Tree[cube.Key, string], index.EntityId, index.EntityId) {
	t.Helper()
	tr := index.NewTree[cube.Key, string](cube.Geometry(coordinate.WorldSize), index.WithMaxEntitiesPerNode[cube.Key, string](1))

	mid := float64(coordinate.WorldSize) / 2
	a, err := tr.Insert(coordinate.Float3{X: mid - 0.02, Y: 10, Z: 10}, nil, "a")
	require.NoError(t, err)
	b, err := tr.Insert(coordinate.Float3{X: mid + 0.02, Y: 10, Z: 10}, nil, "b")
	require.NoError(t, err)
	return tr, a, b
}

func TestFindCollisionsAcrossSameLevelNeighbors(t *testing.T) {
	tr, a, b := newStraddlingPairTree(t)
	eng := collision.New[cube.Key, string](tr)

	pairs := eng.FindCollisions(a)
	require.Len(t, pairs, 1, "entities straddling a shared cell boundary within the point threshold must be paired via same-level neighbors")
	assert.Equal(t, a, pairs[0].A)
	assert.Equal(t, b, pairs[0].B)
}

func TestFindAllCollisionsAcrossSameLevelNeighbors(t *testing.T) {
	tr, a, b := newStraddlingPairTree(t)
	eng := collision.New[cube.Key, string](tr)

	pairs := eng.FindAllCollisions()
	require.Len(t, pairs, 1)
	assert.Equal(t, a, pairs[0].A)
	assert.Equal(t, b, pairs[0].B)
}

func TestFindCollisionsUnknownEntityReturnsNilNotError(t *testing.T) {
	tr := index.NewTree[cube.Key, string](cube.Geometry(coordinate.WorldSize))
	eng := collision.New[cube.Key, string](tr)
	assert.Nil(t, eng.FindCollisions(424242))
}
