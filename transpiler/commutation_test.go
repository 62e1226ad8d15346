//
// commutation_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"testing"

	"github.com/markkurossi/qcc/gate"
)

func TestCommute(t *testing.T) {
	cc := NewCommutationChecker(gate.Tolerance)
	tests := []struct {
		a, b    gate.Op
		commute bool
	}{
		// Disjoint qubits always commute.
		{gate.New(gate.H, 0), gate.New(gate.X, 1), true},
		{gate.New(gate.CX, 0, 1), gate.New(gate.CX, 2, 3), true},

		// Diagonal pairs.
		{gate.NewR(gate.RZ, 0.5, 0), gate.New(gate.T, 0), true},
		{gate.New(gate.CZ, 0, 1), gate.NewR(gate.RZ, 0.3, 1), true},

		// Same-axis rotations.
		{gate.NewR(gate.RX, 0.5, 0), gate.NewR(gate.RX, 1.5, 0), true},
		{gate.NewR(gate.RX, 0.5, 0), gate.NewR(gate.RY, 0.5, 0), false},

		// CX with single-qubit neighbors.
		{gate.New(gate.CX, 0, 1), gate.NewR(gate.RZ, 0.5, 0), true},
		{gate.New(gate.CX, 0, 1), gate.New(gate.T, 0), true},
		{gate.New(gate.CX, 0, 1), gate.NewR(gate.RX, 0.5, 1), true},
		{gate.New(gate.CX, 0, 1), gate.New(gate.X, 1), true},
		{gate.New(gate.CX, 0, 1), gate.New(gate.H, 0), false},
		{gate.New(gate.CX, 0, 1), gate.NewR(gate.RZ, 0.5, 1), false},
		{gate.New(gate.CX, 0, 1), gate.NewR(gate.RX, 0.5, 0), false},

		// CX pairs.
		{gate.New(gate.CX, 0, 1), gate.New(gate.CX, 0, 1), true},
		{gate.New(gate.CX, 0, 1), gate.New(gate.CX, 0, 2), true},
		{gate.New(gate.CX, 0, 2), gate.New(gate.CX, 1, 2), true},
		{gate.New(gate.CX, 0, 1), gate.New(gate.CX, 1, 0), false},
		{gate.New(gate.CX, 0, 1), gate.New(gate.CX, 1, 2), false},

		// Matrix fallback beyond the rule table.
		{gate.New(gate.Swap, 0, 1), gate.New(gate.CZ, 0, 1), true},
		{gate.New(gate.X, 0), gate.New(gate.Z, 0), false},
		{gate.New(gate.Swap, 0, 1), gate.New(gate.X, 0), false},
	}
	for idx, test := range tests {
		if got := cc.Commute(test.a, test.b); got != test.commute {
			t.Errorf("test %d: Commute(%s, %s)=%v, expected %v",
				idx, test.a, test.b, got, test.commute)
		}
		// Commutation is symmetric.
		if got := cc.Commute(test.b, test.a); got != test.commute {
			t.Errorf("test %d: Commute(%s, %s)=%v, expected %v",
				idx, test.b, test.a, got, test.commute)
		}
	}
}
