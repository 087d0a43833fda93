// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hellblazer/Luciferase-sub013/coordinate"
	"github.com/Hellblazer/Luciferase-sub013/cube"
	"github.com/Hellblazer/Luciferase-sub013/forest"
	"github.com/Hellblazer/Luciferase-sub013/spatial3d"
)

func newTwoTreeForest(t *testing.T) *forest.Forest[cube.Key, string] {
	t.Helper()
	f := forest.New[cube.Key, string](nil)
	require.NoError(t, f.AddTree("north", cube.Geometry(coordinate.WorldSize)))
	require.NoError(t, f.AddTree("south", cube.Geometry(coordinate.WorldSize)))
	return f
}

func TestAddTreeRejectsDuplicateID(t *testing.T) {
	f := newTwoTreeForest(t)
	err := f.AddTree("north", cube.Geometry(coordinate.WorldSize))
	assert.Error(t, err)
}

func TestInsertAssignsOwnership(t *testing.T) {
	f := newTwoTreeForest(t)
	id, err := f.Insert("north", coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "scout")
	require.NoError(t, err)

	entity, owner, ok := f.Get(id)
	require.True(t, ok)
	assert.Equal(t, forest.TreeID("north"), owner)
	assert.Equal(t, "scout", entity.Content)
}

func TestInsertUnknownTree(t *testing.T) {
	f := newTwoTreeForest(t)
	_, err := f.Insert("east", coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "lost")
	assert.Error(t, err)
}

func TestEntityIDsUniqueAcrossTrees(t *testing.T) {
	f := newTwoTreeForest(t)
	a, err := f.Insert("north", coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "a")
	require.NoError(t, err)
	b, err := f.Insert("south", coordinate.Float3{X: 2, Y: 2, Z: 2}, nil, "b")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRemoveDropsOwnership(t *testing.T) {
	f := newTwoTreeForest(t)
	id, err := f.Insert("north", coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "gone")
	require.NoError(t, err)

	require.NoError(t, f.Remove(id))
	_, _, ok := f.Get(id)
	assert.False(t, ok)
}

func TestRangeMergesAcrossTrees(t *testing.T) {
	f := newTwoTreeForest(t)
	a, err := f.Insert("north", coordinate.Float3{X: 5, Y: 5, Z: 5}, nil, "a")
	require.NoError(t, err)
	b, err := f.Insert("south", coordinate.Float3{X: 6, Y: 6, Z: 6}, nil, "b")
	require.NoError(t, err)

	vol := spatial3d.Cube{Center: spatial3d.Vec3{X: 5, Y: 5, Z: 5}, HalfExtent: 50}
	hits := f.Range(vol)
	assert.Contains(t, hits, a)
	assert.Contains(t, hits, b)
}

func TestKNNMergesAndTruncates(t *testing.T) {
	f := newTwoTreeForest(t)
	near, err := f.Insert("north", coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "near")
	require.NoError(t, err)
	far, err := f.Insert("south", coordinate.Float3{X: 900000, Y: 900000, Z: 900000}, nil, "far")
	require.NoError(t, err)

	got := f.KNN(coordinate.Float3{X: 0, Y: 0, Z: 0}, 1)
	require.Len(t, got, 1)
	assert.Equal(t, near, got[0])
	assert.NotContains(t, got, far)
}

func TestStatsReportsPerTree(t *testing.T) {
	f := newTwoTreeForest(t)
	_, err := f.Insert("north", coordinate.Float3{X: 1, Y: 1, Z: 1}, nil, "a")
	require.NoError(t, err)

	stats := f.Stats()
	require.Contains(t, stats, forest.TreeID("north"))
	assert.Equal(t, 1, stats["north"].EntityCount)
	assert.Equal(t, 0, stats["south"].EntityCount)
}
