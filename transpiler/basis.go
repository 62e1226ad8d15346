//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"math"

	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"github.com/markkurossi/qcc/synth"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// BasisTranslator replaces every operation outside the target gateset
// with an equivalent sequence in the target gateset, applying known
// gate equivalences first and falling back to exact synthesis.
type BasisTranslator struct {
	params *Params
}

// NewBasisTranslator creates a basis translation pass.
func NewBasisTranslator(params *Params) *BasisTranslator {
	return &BasisTranslator{
		params: params,
	}
}

// Name implements Pass.Name.
func (t *BasisTranslator) Name() string {
	return "BasisTranslator"
}

// Establishes declares that after this pass the circuit is in the
// target basis.
func (t *BasisTranslator) Establishes() []Property {
	return []Property{InTargetBasis}
}

// Requires implements the conditional interface.
func (t *BasisTranslator) Requires() []Property {
	return nil
}

// Apply implements Pass.Apply.
func (t *BasisTranslator) Apply(c *dag.Circuit) (bool, error) {
	basis := t.params.Basis
	var mutated bool
	for {
		var pending []*dag.Node
		for _, n := range c.TopologicalOrder() {
			if !basis.Contains(n.Op.Kind) {
				pending = append(pending, n)
			}
		}
		if len(pending) == 0 {
			return mutated, nil
		}
		for _, node := range pending {
			repl, err := t.translate(node.Op)
			if err != nil {
				return mutated, err
			}
			t.params.Diagnostics.Debug("translate",
				zap.Stringer("op", node.Op),
				zap.Int("replacement", len(repl)))
			err = c.ReplaceSubgraph([]*dag.Node{node}, repl)
			if err != nil {
				return mutated, err
			}
			mutated = true
		}
	}
}

// translate rewrites one out-of-basis operation into an equivalent
// sequence, one layer at a time: the result may still contain
// out-of-basis gates that later rounds translate further.
func (t *BasisTranslator) translate(op gate.Op) ([]gate.Op, error) {
	if rule, ok := equivalences[op.Kind]; ok {
		ops := rule(op)
		return t.filter(ops)
	}
	switch len(op.Qubits) {
	case 1:
		m, err := op.Matrix()
		if err != nil {
			return nil, err
		}
		ops, err := synth.DecomposeOneQubit(m, op.Qubits[0])
		if err != nil {
			return nil, err
		}
		return t.check1q(ops)
	case 2:
		// Two-qubit synthesis emits CX as its entangler.
		if !t.params.Basis.Contains(gate.CX) {
			return nil, errors.Wrapf(gate.ErrUnsupportedGate,
				"target basis %s has no cx entangler", t.params.Basis)
		}
		m, err := op.Matrix()
		if err != nil {
			return nil, err
		}
		ops, err := synth.DecomposeTwoQubit(m)
		if err != nil {
			return nil, err
		}
		remapped := make([]gate.Op, len(ops))
		for i, o := range ops {
			qubits := make([]int, len(o.Qubits))
			for j, q := range o.Qubits {
				qubits[j] = op.Qubits[q]
			}
			o.Qubits = qubits
			remapped[i] = o
		}
		return t.filter(remapped)
	default:
		return nil, errors.Wrapf(gate.ErrUnsupportedGate,
			"no decomposition rule for %d-qubit %s",
			len(op.Qubits), op.Kind)
	}
}

// filter re-translates any synthesized gate that is still outside the
// basis.
func (t *BasisTranslator) filter(ops []gate.Op) ([]gate.Op, error) {
	var result []gate.Op
	for _, op := range ops {
		if t.params.Basis.Contains(op.Kind) {
			result = append(result, op)
			continue
		}
		sub, err := t.translate(op)
		if err != nil {
			return nil, err
		}
		result = append(result, sub...)
	}
	return result, nil
}

// check1q verifies synthesized rotations are expressible in the
// basis.
func (t *BasisTranslator) check1q(ops []gate.Op) ([]gate.Op, error) {
	for _, op := range ops {
		if !t.params.Basis.Contains(op.Kind) {
			return nil, errors.Wrapf(gate.ErrUnsupportedGate,
				"target basis %s cannot express %s",
				t.params.Basis, op.Kind)
		}
	}
	return ops, nil
}

// equivalences are the known direct gate equivalences, applied before
// falling back to exact synthesis.
var equivalences = map[gate.Kind]func(op gate.Op) []gate.Op{
	gate.I: func(op gate.Op) []gate.Op {
		return nil
	},
	gate.X: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RX, math.Pi, q)}
	},
	gate.Y: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RY, math.Pi, q)}
	},
	gate.Z: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RZ, math.Pi, q)}
	},
	gate.S: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RZ, math.Pi/2, q)}
	},
	gate.Sdg: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RZ, -math.Pi/2, q)}
	},
	gate.T: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RZ, math.Pi/4, q)}
	},
	gate.Tdg: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RZ, -math.Pi/4, q)}
	},
	gate.SX: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RX, math.Pi/2, q)}
	},
	gate.Phase: func(op gate.Op) []gate.Op {
		q := op.Qubits[0]
		return []gate.Op{gate.NewR(gate.RZ, op.Params[0], q)}
	},
	gate.CZ: func(op gate.Op) []gate.Op {
		c, t := op.Qubits[0], op.Qubits[1]
		return []gate.Op{
			gate.New(gate.H, t),
			gate.New(gate.CX, c, t),
			gate.New(gate.H, t),
		}
	},
	gate.Swap: func(op gate.Op) []gate.Op {
		a, b := op.Qubits[0], op.Qubits[1]
		return []gate.Op{
			gate.New(gate.CX, a, b),
			gate.New(gate.CX, b, a),
			gate.New(gate.CX, a, b),
		}
	},
	gate.CCX: func(op gate.Op) []gate.Op {
		a, b, t := op.Qubits[0], op.Qubits[1], op.Qubits[2]
		return []gate.Op{
			gate.New(gate.H, t),
			gate.New(gate.CX, b, t),
			gate.New(gate.Tdg, t),
			gate.New(gate.CX, a, t),
			gate.New(gate.T, t),
			gate.New(gate.CX, b, t),
			gate.New(gate.Tdg, t),
			gate.New(gate.CX, a, t),
			gate.New(gate.T, b),
			gate.New(gate.T, t),
			gate.New(gate.H, t),
			gate.New(gate.CX, a, b),
			gate.New(gate.T, a),
			gate.New(gate.Tdg, b),
			gate.New(gate.CX, a, b),
		}
	},
}
