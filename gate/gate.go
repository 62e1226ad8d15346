//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package gate defines the gate vocabulary and the small-unitary
// algebra the optimizer works with.
package gate

import (
	"fmt"
	"math"
	"strings"
)

// Tolerance is the default numerical tolerance for equality of
// parameters and matrix elements.
const Tolerance = 1e-10

// Kind specifies the gate function.
type Kind byte

// Gate functions. Unitary is the generic variant carrying an explicit
// matrix.
const (
	I Kind = iota
	X
	Y
	Z
	H
	S
	Sdg
	T
	Tdg
	SX
	RX
	RY
	RZ
	Phase
	CX
	CZ
	Swap
	CCX
	Unitary
)

var kindNames = map[Kind]string{
	I:       "id",
	X:       "x",
	Y:       "y",
	Z:       "z",
	H:       "h",
	S:       "s",
	Sdg:     "sdg",
	T:       "t",
	Tdg:     "tdg",
	SX:      "sx",
	RX:      "rx",
	RY:      "ry",
	RZ:      "rz",
	Phase:   "p",
	CX:      "cx",
	CZ:      "cz",
	Swap:    "swap",
	CCX:     "ccx",
	Unitary: "unitary",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if ok {
		return name
	}
	return fmt.Sprintf("{Kind %d}", k)
}

// KindByName maps a gate name to its Kind.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// NumQubits returns the number of qubits the gate kind acts on.
func (k Kind) NumQubits() int {
	switch k {
	case CX, CZ, Swap:
		return 2
	case CCX:
		return 3
	default:
		return 1
	}
}

// NumParams returns the number of real parameters the gate kind takes.
func (k Kind) NumParams() int {
	switch k {
	case RX, RY, RZ, Phase:
		return 1
	default:
		return 0
	}
}

// Op is one operation of a circuit: a gate kind applied to an ordered
// list of qubits with optional real parameters. The first listed qubit
// is the most significant index bit of the operation's matrix; for
// controlled gates it is the control. Ops are treated as immutable
// values.
type Op struct {
	Kind   Kind
	Qubits []int
	Params []float64

	// U is the explicit matrix of the generic Unitary variant. Nil
	// for all other kinds.
	U *Matrix
}

// New creates an operation of the given kind.
func New(kind Kind, qubits ...int) Op {
	return Op{
		Kind:   kind,
		Qubits: qubits,
	}
}

// NewR creates a parameterized rotation operation.
func NewR(kind Kind, theta float64, qubit int) Op {
	return Op{
		Kind:   kind,
		Qubits: []int{qubit},
		Params: []float64{theta},
	}
}

// NewUnitary creates a generic unitary operation from an explicit
// matrix over the listed qubits.
func NewUnitary(u *Matrix, qubits ...int) Op {
	return Op{
		Kind:   Unitary,
		Qubits: qubits,
		U:      u,
	}
}

func (op Op) String() string {
	var sb strings.Builder
	sb.WriteString(op.Kind.String())
	if len(op.Params) > 0 {
		sb.WriteRune('(')
		for i, p := range op.Params {
			if i > 0 {
				sb.WriteRune(',')
			}
			fmt.Fprintf(&sb, "%g", p)
		}
		sb.WriteRune(')')
	}
	for i, q := range op.Qubits {
		if i == 0 {
			sb.WriteRune(' ')
		} else {
			sb.WriteRune(',')
		}
		fmt.Fprintf(&sb, "q%d", q)
	}
	return sb.String()
}

// Equal tests if the operations are equal: same kind, same qubit
// order, and parameters equal within the tolerance.
func (op Op) Equal(o Op, tol float64) bool {
	if op.Kind != o.Kind || len(op.Qubits) != len(o.Qubits) ||
		len(op.Params) != len(o.Params) {
		return false
	}
	for i, q := range op.Qubits {
		if o.Qubits[i] != q {
			return false
		}
	}
	for i, p := range op.Params {
		if math.Abs(o.Params[i]-p) > tol {
			return false
		}
	}
	if op.Kind == Unitary {
		return op.U.Equal(o.U, tol)
	}
	return true
}

// OnQubit tests if the operation acts on the qubit.
func (op Op) OnQubit(qubit int) bool {
	for _, q := range op.Qubits {
		if q == qubit {
			return true
		}
	}
	return false
}

// Basis is a target gateset: the closed set of gate kinds an output
// circuit is restricted to.
type Basis map[Kind]bool

// NewBasis creates a basis from the listed gate kinds.
func NewBasis(kinds ...Kind) Basis {
	b := make(Basis)
	for _, k := range kinds {
		b[k] = true
	}
	return b
}

// DefaultBasis returns the default target gateset.
func DefaultBasis() Basis {
	return NewBasis(RZ, RX, RY, H, CX)
}

// Contains tests if the gate kind is a member of the basis.
func (b Basis) Contains(k Kind) bool {
	return b[k]
}

func (b Basis) String() string {
	var names []string
	for k := Kind(0); k <= Unitary; k++ {
		if b[k] {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, ",")
}

// CliffordKinds are the gate kinds that map Pauli operators to Pauli
// operators under conjugation.
var CliffordKinds = map[Kind]bool{
	I:    true,
	X:    true,
	Y:    true,
	Z:    true,
	H:    true,
	S:    true,
	Sdg:  true,
	SX:   true,
	CX:   true,
	CZ:   true,
	Swap: true,
}

// IsClifford tests if the operation is a Clifford-group gate. A
// rotation whose angle is a multiple of pi/2 within the tolerance
// counts as Clifford.
func (op Op) IsClifford(tol float64) bool {
	if CliffordKinds[op.Kind] {
		return true
	}
	switch op.Kind {
	case RX, RY, RZ, Phase:
		m := math.Mod(op.Params[0], math.Pi/2)
		return math.Abs(m) < tol || math.Abs(m-math.Pi/2) < tol ||
			math.Abs(m+math.Pi/2) < tol
	}
	return false
}
