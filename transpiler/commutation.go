//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"sort"

	"github.com/markkurossi/qcc/gate"
)

// CommutationChecker decides whether two operations sharing qubits
// commute: first from a table of known commuting gate-kind pairs,
// then by an explicit matrix-commutator check on the union of the
// touched qubits.
type CommutationChecker struct {
	tolerance float64
}

// NewCommutationChecker creates a commutation checker with the given
// numerical tolerance for the matrix fallback.
func NewCommutationChecker(tolerance float64) *CommutationChecker {
	return &CommutationChecker{
		tolerance: tolerance,
	}
}

// diagonalKinds are diagonal in the computational basis.
var diagonalKinds = map[gate.Kind]bool{
	gate.I:     true,
	gate.Z:     true,
	gate.S:     true,
	gate.Sdg:   true,
	gate.T:     true,
	gate.Tdg:   true,
	gate.RZ:    true,
	gate.Phase: true,
	gate.CZ:    true,
}

// xAxisKinds commute with X on the same qubit.
var xAxisKinds = map[gate.Kind]bool{
	gate.I:  true,
	gate.X:  true,
	gate.RX: true,
	gate.SX: true,
}

// Commute tests if swapping the order of the two operations preserves
// the overall unitary.
func (cc *CommutationChecker) Commute(a, b gate.Op) bool {
	shared := sharedQubits(a, b)
	if len(shared) == 0 {
		return true
	}
	if cc.tableCommute(a, b, shared) || cc.tableCommute(b, a, shared) {
		return true
	}
	return cc.matrixCommute(a, b)
}

// tableCommute consults the precomputed rules, restricted to the
// qubits the operations share.
func (cc *CommutationChecker) tableCommute(a, b gate.Op, shared []int) bool {
	// Same operation always commutes with itself.
	if a.Equal(b, cc.tolerance) {
		return true
	}
	// Two diagonal gates commute on any sharing pattern.
	if diagonalKinds[a.Kind] && diagonalKinds[b.Kind] {
		return true
	}
	// Same-axis rotations on the same qubit.
	if len(a.Qubits) == 1 && len(b.Qubits) == 1 && a.Kind == b.Kind {
		switch a.Kind {
		case gate.RX, gate.RY, gate.RZ, gate.X, gate.Y, gate.Z,
			gate.H, gate.S, gate.Sdg, gate.T, gate.Tdg, gate.Phase:
			return true
		}
	}
	if a.Kind == gate.CX && len(b.Qubits) == 1 {
		q := b.Qubits[0]
		if q == a.Qubits[0] && diagonalKinds[b.Kind] {
			// Diagonal gate on the control.
			return true
		}
		if q == a.Qubits[1] && xAxisKinds[b.Kind] {
			// X-axis gate on the target.
			return true
		}
	}
	if a.Kind == gate.CX && b.Kind == gate.CX {
		// Shared control or shared target.
		if a.Qubits[0] == b.Qubits[0] && a.Qubits[1] != b.Qubits[1] &&
			a.Qubits[1] != b.Qubits[0] && b.Qubits[1] != a.Qubits[0] {
			return true
		}
		if a.Qubits[1] == b.Qubits[1] && a.Qubits[0] != b.Qubits[0] &&
			a.Qubits[0] != b.Qubits[1] && b.Qubits[0] != a.Qubits[1] {
			return true
		}
	}
	return false
}

// matrixCommute compares A*B against B*A on the union of the touched
// qubits.
func (cc *CommutationChecker) matrixCommute(a, b gate.Op) bool {
	layout := unionQubits(a, b)
	if len(layout) > 4 {
		// Commutator check beyond 16x16 is not worth caching here.
		return false
	}
	ma, err := a.ExpandTo(layout)
	if err != nil {
		return false
	}
	mb, err := b.ExpandTo(layout)
	if err != nil {
		return false
	}
	return ma.Mul(mb).Equal(mb.Mul(ma), cc.tolerance)
}

func sharedQubits(a, b gate.Op) []int {
	var shared []int
	for _, q := range a.Qubits {
		if b.OnQubit(q) {
			shared = append(shared, q)
		}
	}
	return shared
}

func unionQubits(a, b gate.Op) []int {
	seen := make(map[int]bool)
	var union []int
	for _, q := range a.Qubits {
		if !seen[q] {
			seen[q] = true
			union = append(union, q)
		}
	}
	for _, q := range b.Qubits {
		if !seen[q] {
			seen[q] = true
			union = append(union, q)
		}
	}
	sort.Ints(union)
	return union
}
