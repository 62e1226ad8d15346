//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package synth

import (
	"math"

	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

// CoordTolerance separates the canonical gate-count classes. It is
// looser than the element-wise matrix tolerance because the chamber
// coordinates accumulate error through the eigensolver.
const CoordTolerance = 1e-7

// NumEntangling returns the minimal number of entangling (CX-class)
// gates needed to implement a unitary with the given canonical
// coordinates: 0, 1, 2 or 3.
func NumEntangling(a, b, c float64) int {
	switch {
	case a < CoordTolerance && b < CoordTolerance &&
		math.Abs(c) < CoordTolerance:
		return 0
	case math.Abs(a-math.Pi/4) < CoordTolerance && b < CoordTolerance &&
		math.Abs(c) < CoordTolerance:
		return 1
	case math.Abs(c) < CoordTolerance:
		return 2
	default:
		return 3
	}
}

// templateOps builds an entangling skeleton whose canonical
// coordinates are exactly (a,b,c), using n CX gates on qubits 0 and 1.
func templateOps(n int, a, b, c float64) []gate.Op {
	switch n {
	case 1:
		return []gate.Op{gate.New(gate.CX, 0, 1)}
	case 2:
		// CX (Rx(-2a) (x) Rz(-2b)) CX has coordinates (a, b, 0).
		return []gate.Op{
			gate.New(gate.CX, 0, 1),
			gate.NewR(gate.RX, -2*a, 0),
			gate.NewR(gate.RZ, -2*b, 1),
			gate.New(gate.CX, 0, 1),
		}
	default:
		// Mixed-orientation 3-CX skeleton; the rotation angles map
		// linearly onto the chamber coordinates.
		d := math.Pi/2 + 2*c
		t := math.Pi/2 - 2*b
		f := math.Pi/2 - 2*a
		return []gate.Op{
			gate.New(gate.CX, 1, 0),
			gate.NewR(gate.RY, f, 1),
			gate.New(gate.CX, 0, 1),
			gate.NewR(gate.RZ, d, 0),
			gate.NewR(gate.RY, t, 1),
			gate.New(gate.CX, 1, 0),
		}
	}
}

// DecomposeTwoQubit synthesizes an arbitrary 2-qubit unitary into at
// most 3 CX gates plus single-qubit rotations on qubits 0 and 1,
// equivalent to the input up to global phase. The entangling gate
// count is minimal for the unitary's canonical class.
func DecomposeTwoQubit(u *gate.Matrix) ([]gate.Op, error) {
	w, err := DecomposeWeyl(u)
	if err != nil {
		return nil, err
	}
	n := NumEntangling(w.A, w.B, w.C)
	if n == 0 {
		// Purely local: factor K1*K2 once.
		_, a, b := w.K1.Mul(w.K2).KronFactor()
		return append1q(nil, a, 0, b, 1)
	}

	tmpl := templateOps(n, w.A, w.B, w.C)
	tu, err := gate.UnitaryOf(tmpl, []int{0, 1})
	if err != nil {
		return nil, err
	}
	tw, err := DecomposeWeyl(tu)
	if err != nil {
		return nil, err
	}
	if math.Abs(tw.A-w.A) > 1e-6 || math.Abs(tw.B-w.B) > 1e-6 ||
		math.Abs(tw.C-w.C) > 1e-6 {
		return nil, errors.Errorf(
			"entangling skeleton coordinates diverged: "+
				"(%g,%g,%g) vs (%g,%g,%g)",
			tw.A, tw.B, tw.C, w.A, w.B, w.C)
	}

	// U = phase * (K1 L1') * T * (L2' K2) with T the skeleton and
	// L1, L2 its local factors.
	_, c0, d0 := tw.K2.Dagger().Mul(w.K2).KronFactor()
	_, a0, b0 := w.K1.Mul(tw.K1.Dagger()).KronFactor()

	ops, err := append1q(nil, c0, 0, d0, 1)
	if err != nil {
		return nil, err
	}
	ops = append(ops, tmpl...)
	return append1q(ops, a0, 0, b0, 1)
}

func append1q(ops []gate.Op, a *gate.Matrix, qa int, b *gate.Matrix,
	qb int) ([]gate.Op, error) {

	sa, err := DecomposeOneQubit(a, qa)
	if err != nil {
		return nil, err
	}
	sb, err := DecomposeOneQubit(b, qb)
	if err != nil {
		return nil, err
	}
	ops = append(ops, sa...)
	return append(ops, sb...), nil
}
