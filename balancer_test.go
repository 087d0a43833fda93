// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package luciferase

import "testing"

func TestNoopBalancerNeverFires(t *testing.T) {
	var b NoopBalancer[int]

	if b.ShouldBalance(42) {
		t.Fatal("NoopBalancer.ShouldBalance must always report false")
	}
	touched, err := b.Balance(42)
	if err != nil || touched != nil {
		t.Fatalf("NoopBalancer.Balance must be a pure no-op, got (%v, %v)", touched, err)
	}
}

func TestNoopBalancerSatisfiesBalancer(t *testing.T) {
	var _ Balancer[string] = NoopBalancer[string]{}
}
