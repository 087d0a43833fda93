// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package triangle

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentChildInverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 22))
	for trial := 0; trial < 300; trial++ {
		k := Key{Type: uint8(rng.IntN(2))}
		for depth := 0; depth < 6; depth++ {
			children, err := k.Children()
			require.NoError(t, err)
			child := children[rng.IntN(4)]
			assert.Equal(t, k, child.Parent())
			assert.True(t, child.Valid())
			k = child
		}
	}
}

func TestChildrenValid(t *testing.T) {
	k := Key{X: 3, Y: 2, Level: 4, Type: 0}
	require.True(t, k.Valid())
	children, err := k.Children()
	require.NoError(t, err)
	for _, c := range children {
		assert.True(t, c.Valid())
	}
}

func TestNeighborBoundary(t *testing.T) {
	k := Key{X: 0, Y: 0, Level: 3, Type: 0}
	if _, ok := k.Neighbor(DirBottomOrTop); ok {
		t.Fatal("expected no bottom neighbor at Y=0")
	}
	if _, ok := k.Neighbor(DirLeftOrRight); ok {
		t.Fatal("expected no left neighbor at X=0")
	}
	n, ok := k.Neighbor(DirHypotenuse)
	require.True(t, ok)
	assert.Equal(t, uint8(1), n.Type)
}

func TestLocateMatchesContains(t *testing.T) {
	const level = 5
	const size = 1.0
	edge := size / float64(uint64(1)<<level)

	samples := [][2]float64{
		{edge*3 + edge*0.1, edge*2 + edge*0.1},
		{edge*3 + edge*0.8, edge*2 + edge*0.8},
	}
	for _, p := range samples {
		k := Locate(p[0], p[1], level, size)
		assert.True(t, k.Contains(p[0], p[1], size))
	}
}

func TestString(t *testing.T) {
	k := Key{X: 1, Y: 2, Level: 3, Type: 1}
	assert.Equal(t, "tri(1,2,3,1)", k.String())
}
