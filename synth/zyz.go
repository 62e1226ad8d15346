//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package synth implements exact single- and two-qubit unitary
// synthesis: ZYZ Euler-angle extraction and KAK (Cartan)
// decomposition with minimal entangling-gate-count re-synthesis.
package synth

import (
	"math"
	"math/cmplx"

	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

// ErrSingularDecomposition is returned when a supplied matrix is not
// unitary within tolerance. It signals an upstream correctness bug,
// not a user error.
var ErrSingularDecomposition = errors.New("singular decomposition")

// UnitaryTolerance bounds how far a matrix may be from unitary before
// decomposition refuses it.
const UnitaryTolerance = 1e-10

// zeroAngle is the threshold below which a rotation angle is dropped
// from synthesized output.
const zeroAngle = 1e-12

// ZYZ holds the Euler angles of a 2x2 unitary:
//
//	U = e^{i Alpha} Rz(Phi) Ry(Theta) Rz(Lambda)
type ZYZ struct {
	Alpha  float64
	Phi    float64
	Theta  float64
	Lambda float64
}

// DecomposeZYZ extracts the ZYZ Euler angles of a 2x2 unitary in
// closed form.
func DecomposeZYZ(u *gate.Matrix) (ZYZ, error) {
	var r ZYZ
	if u.N != 2 {
		return r, errors.Wrapf(ErrSingularDecomposition,
			"%dx%d matrix", u.N, u.N)
	}
	if !u.IsUnitary(UnitaryTolerance) {
		return r, errors.WithStack(ErrSingularDecomposition)
	}
	sd := cmplx.Sqrt(u.Det())
	a0 := u.At(0, 0) / sd
	a1 := u.At(1, 0) / sd

	r.Theta = 2 * math.Atan2(cmplx.Abs(a1), cmplx.Abs(a0))
	switch {
	case cmplx.Abs(a1) < 1e-13:
		r.Phi = 2 * cmplx.Phase(u.At(1, 1)/sd)
	case cmplx.Abs(a0) < 1e-13:
		r.Phi = 2 * cmplx.Phase(a1)
	default:
		sum := cmplx.Phase(u.At(1, 1) / sd)
		diff := cmplx.Phase(a1)
		r.Phi = sum + diff
		r.Lambda = sum - diff
	}
	r.Alpha = cmplx.Phase(sd)
	return r, nil
}

// Matrix rebuilds the unitary from the Euler angles, including the
// global phase.
func (z ZYZ) Matrix() *gate.Matrix {
	m := gate.MulAll(gate.MatrixRZ(z.Phi), gate.MatrixRY(z.Theta),
		gate.MatrixRZ(z.Lambda))
	return m.Scale(cmplx.Exp(complex(0, z.Alpha)))
}

// Ops emits the rotation sequence for the Euler angles on the given
// qubit in time order, dropping rotations with negligible angle. The
// global phase is not represented.
func (z ZYZ) Ops(qubit int) []gate.Op {
	var ops []gate.Op
	if math.Abs(z.Lambda) > zeroAngle {
		ops = append(ops, gate.NewR(gate.RZ, z.Lambda, qubit))
	}
	if math.Abs(z.Theta) > zeroAngle {
		ops = append(ops, gate.NewR(gate.RY, z.Theta, qubit))
	}
	if math.Abs(z.Phi) > zeroAngle {
		ops = append(ops, gate.NewR(gate.RZ, z.Phi, qubit))
	}
	return ops
}

// DecomposeOneQubit synthesizes a 2x2 unitary into rotations on the
// qubit, equivalent up to global phase.
func DecomposeOneQubit(u *gate.Matrix, qubit int) ([]gate.Op, error) {
	z, err := DecomposeZYZ(u)
	if err != nil {
		return nil, err
	}
	return z.Ops(qubit), nil
}
