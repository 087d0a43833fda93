// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package line

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentChildInverse(t *testing.T) {
	k := Key{Z: 5, Level: 4}
	children, err := k.Children()
	require.NoError(t, err)
	for _, c := range children {
		assert.Equal(t, k, c.Parent())
	}
}

func TestNeighborBoundary(t *testing.T) {
	origin := Key{Z: 0, Level: 3}
	if _, ok := origin.Neighbor(-1); ok {
		t.Fatal("expected no negative neighbor at Z=0")
	}
	edge := Key{Z: 7, Level: 3}
	if _, ok := edge.Neighbor(1); ok {
		t.Fatal("expected no positive neighbor at grid edge")
	}
}

func TestLocateMatchesContains(t *testing.T) {
	const level = 5
	const length = 1.0
	k := Locate(0.37, level, length)
	assert.True(t, k.Contains(0.37, length))
}
