//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gate

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// ErrUnsupportedGate is returned when an operation's arity or kind is
// outside what the synthesis machinery can handle.
var ErrUnsupportedGate = errors.New("unsupported gate")

var sqrt2inv = complex(1/math.Sqrt2, 0)

// MatrixI is the 2x2 identity.
func MatrixI() *Matrix {
	return Identity(2)
}

// MatrixX is the Pauli X matrix.
func MatrixX() *Matrix {
	return NewMatrix2(0, 1, 1, 0)
}

// MatrixY is the Pauli Y matrix.
func MatrixY() *Matrix {
	return NewMatrix2(0, -1i, 1i, 0)
}

// MatrixZ is the Pauli Z matrix.
func MatrixZ() *Matrix {
	return NewMatrix2(1, 0, 0, -1)
}

// MatrixH is the Hadamard matrix.
func MatrixH() *Matrix {
	return NewMatrix2(sqrt2inv, sqrt2inv, sqrt2inv, -sqrt2inv)
}

// MatrixS is the S (sqrt-Z) matrix.
func MatrixS() *Matrix {
	return NewMatrix2(1, 0, 0, 1i)
}

// MatrixRX returns the X-rotation matrix exp(-i theta X/2).
func MatrixRX(theta float64) *Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return NewMatrix2(c, s, s, c)
}

// MatrixRY returns the Y-rotation matrix exp(-i theta Y/2).
func MatrixRY(theta float64) *Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return NewMatrix2(c, -s, s, c)
}

// MatrixRZ returns the Z-rotation matrix exp(-i theta Z/2).
func MatrixRZ(theta float64) *Matrix {
	return NewMatrix2(cmplx.Exp(complex(0, -theta/2)), 0,
		0, cmplx.Exp(complex(0, theta/2)))
}

// MatrixCX is the controlled-X matrix with the control on the first
// listed qubit.
func MatrixCX() *Matrix {
	return NewMatrix4(
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0)
}

// MatrixCZ is the controlled-Z matrix.
func MatrixCZ() *Matrix {
	return NewMatrix4(
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1)
}

// MatrixSwap is the 2-qubit swap matrix.
func MatrixSwap() *Matrix {
	return NewMatrix4(
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1)
}

// Matrix returns the operation's unitary matrix over its own qubits in
// listed order: dimension 2^k for a k-qubit operation.
func (op Op) Matrix() (*Matrix, error) {
	switch op.Kind {
	case I:
		return MatrixI(), nil
	case X:
		return MatrixX(), nil
	case Y:
		return MatrixY(), nil
	case Z:
		return MatrixZ(), nil
	case H:
		return MatrixH(), nil
	case S:
		return MatrixS(), nil
	case Sdg:
		return NewMatrix2(1, 0, 0, -1i), nil
	case T:
		return NewMatrix2(1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))), nil
	case Tdg:
		return NewMatrix2(1, 0, 0, cmplx.Exp(complex(0, -math.Pi/4))), nil
	case SX:
		return NewMatrix2(
			0.5+0.5i, 0.5-0.5i,
			0.5-0.5i, 0.5+0.5i), nil
	case RX:
		return MatrixRX(op.Params[0]), nil
	case RY:
		return MatrixRY(op.Params[0]), nil
	case RZ:
		return MatrixRZ(op.Params[0]), nil
	case Phase:
		return NewMatrix2(1, 0, 0, cmplx.Exp(complex(0, op.Params[0]))), nil
	case CX:
		return MatrixCX(), nil
	case CZ:
		return MatrixCZ(), nil
	case Swap:
		return MatrixSwap(), nil
	case CCX:
		m := Identity(8)
		m.Set(6, 6, 0)
		m.Set(7, 7, 0)
		m.Set(6, 7, 1)
		m.Set(7, 6, 1)
		return m, nil
	case Unitary:
		if op.U == nil {
			return nil, errors.WithStack(ErrUnsupportedGate)
		}
		return op.U.Clone(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedGate, "%s", op.Kind)
	}
}

// ExpandTo returns the operation's matrix embedded into a register of
// the given qubits: layout lists the register's qubit indices from
// most significant to least significant.
func (op Op) ExpandTo(layout []int) (*Matrix, error) {
	m, err := op.Matrix()
	if err != nil {
		return nil, err
	}
	pos := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		found := -1
		for j, lq := range layout {
			if lq == q {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, errors.Errorf("qubit q%d not in layout", q)
		}
		pos[i] = found
	}
	return m.Expand(pos, len(layout)), nil
}

// UnitaryOf returns the combined unitary of the operation sequence
// over the given qubit layout, applied in slice order.
func UnitaryOf(ops []Op, layout []int) (*Matrix, error) {
	u := Identity(1 << len(layout))
	for _, op := range ops {
		m, err := op.ExpandTo(layout)
		if err != nil {
			return nil, err
		}
		u = m.Mul(u)
	}
	return u, nil
}
