//
// layout_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"testing"

	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
)

func TestCouplingMap(t *testing.T) {
	cm := LinearCouplingMap(4)
	if cm.NumQubits() != 4 {
		t.Fatalf("NumQubits=%d", cm.NumQubits())
	}
	if !cm.Adjacent(0, 1) || !cm.Adjacent(2, 1) || cm.Adjacent(0, 2) {
		t.Errorf("adjacency broken")
	}
	if cm.Distance(0, 3) != 3 || cm.Distance(1, 1) != 0 {
		t.Errorf("distances broken")
	}
	path := cm.ShortestPath(0, 3)
	want := []int{0, 1, 2, 3}
	if len(path) != len(want) {
		t.Fatalf("path %v", path)
	}
	for i, q := range want {
		if path[i] != q {
			t.Fatalf("path %v", path)
		}
	}
	edges := cm.Edges()
	if len(edges) != 3 || edges[0] != [2]int{0, 1} ||
		edges[2] != [2]int{2, 3} {
		t.Errorf("edges %v", edges)
	}
	if cm.Degree(0) != 1 || cm.Degree(1) != 2 {
		t.Errorf("degrees broken")
	}
	nb := cm.Neighbors(1)
	if len(nb) != 2 || nb[0] != 0 || nb[1] != 2 {
		t.Errorf("neighbors %v", nb)
	}
}

func TestNewCouplingMapInvalid(t *testing.T) {
	if _, err := NewCouplingMap(2, [][2]int{{0, 2}}); err == nil {
		t.Errorf("out-of-range edge accepted")
	}
	if _, err := NewCouplingMap(2, [][2]int{{1, 1}}); err == nil {
		t.Errorf("self-loop accepted")
	}
}

func TestInitialLayout(t *testing.T) {
	// The heaviest pair lands on adjacent physical qubits.
	c := dag.FromOps(3, []gate.Op{
		gate.New(gate.CX, 0, 1),
		gate.New(gate.CX, 0, 1),
		gate.New(gate.CX, 1, 2),
	})
	cm := LinearCouplingMap(3)
	l2p := InitialLayout(c, cm)
	checkPermutation(t, l2p, 3)
	if !cm.Adjacent(l2p[0], l2p[1]) {
		t.Errorf("heaviest pair not adjacent: %v", l2p)
	}
	if !cm.Adjacent(l2p[1], l2p[2]) {
		t.Errorf("second pair not adjacent: %v", l2p)
	}
}

func TestInitialLayoutIdle(t *testing.T) {
	// Idle qubits still get distinct physical slots.
	c := dag.FromOps(4, []gate.Op{
		gate.New(gate.CX, 2, 3),
	})
	l2p := InitialLayout(c, LinearCouplingMap(4))
	checkPermutation(t, l2p, 4)
}

func checkPermutation(t *testing.T, perm []int, n int) {
	t.Helper()
	if len(perm) != n {
		t.Fatalf("permutation %v over %d qubits", perm, n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			t.Fatalf("not a permutation: %v", perm)
		}
		seen[p] = true
	}
}
