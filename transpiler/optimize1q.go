//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"github.com/markkurossi/qcc/synth"
	"go.uber.org/zap"
)

// Optimize1qGates collapses maximal runs of consecutive single-qubit
// gates into at most three rotations via Euler-angle re-synthesis.
type Optimize1qGates struct {
	params *Params
}

// NewOptimize1qGates creates a single-qubit run re-synthesis pass.
func NewOptimize1qGates(params *Params) *Optimize1qGates {
	return &Optimize1qGates{
		params: params,
	}
}

// Name implements Pass.Name.
func (p *Optimize1qGates) Name() string {
	return "Optimize1qGates"
}

// Requires declares that synthesis output must be expressible, which
// a basis translation guarantees.
func (p *Optimize1qGates) Requires() []Property {
	return []Property{InTargetBasis}
}

// Establishes implements the conditional interface.
func (p *Optimize1qGates) Establishes() []Property {
	return []Property{InTargetBasis}
}

// Apply implements Pass.Apply.
func (p *Optimize1qGates) Apply(c *dag.Circuit) (bool, error) {
	var mutated bool
	for q := 0; q < c.NumQubits(); q++ {
		var run []*dag.Node
		nodes := c.OperationsOn(q)
		for i := 0; i <= len(nodes); i++ {
			if i < len(nodes) && len(nodes[i].Op.Qubits) == 1 {
				run = append(run, nodes[i])
				continue
			}
			if len(run) > 0 {
				m, err := p.resynth(c, run)
				if err != nil {
					return mutated, err
				}
				mutated = mutated || m
				run = nil
			}
		}
	}
	return mutated, nil
}

// resynth replaces the run when the re-synthesized sequence is
// shorter.
func (p *Optimize1qGates) resynth(c *dag.Circuit, run []*dag.Node) (
	bool, error) {

	qubit := run[0].Op.Qubits[0]
	u := gate.Identity(2)
	for _, n := range run {
		m, err := n.Op.Matrix()
		if err != nil {
			return false, err
		}
		u = m.Mul(u)
	}

	var repl []gate.Op
	if !u.EqualUpToPhase(gate.Identity(2), p.params.Tolerance) {
		var err error
		repl, err = synth.DecomposeOneQubit(u, qubit)
		if err != nil {
			return false, err
		}
	}
	// Euler synthesis emits RZ and RY; a target gateset without them
	// keeps the original run.
	if !p.params.inBasis(repl) {
		return false, nil
	}
	if len(repl) >= len(run) {
		return false, nil
	}
	p.params.Diagnostics.Debug("resynthesize run",
		zap.Int("qubit", qubit),
		zap.Int("ops", len(run)),
		zap.Int("replacement", len(repl)))
	if err := c.ReplaceSubgraph(run, repl); err != nil {
		return false, err
	}
	return true, nil
}
