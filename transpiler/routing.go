//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Routing assigns logical qubits to physical qubits and inserts swap
// sequences so every two-qubit operation acts on adjacent physical
// qubits. The pass rewrites the circuit onto physical indices and
// records the final logical-to-physical permutation.
type Routing struct {
	params *Params

	// Layout is the final logical-to-physical permutation after the
	// last Apply: Layout[l] is the physical qubit holding logical
	// qubit l's state at the end of the circuit.
	Layout []int

	// InitialMapping is the layout chosen before any swaps.
	InitialMapping []int
}

// NewRouting creates a layout/routing pass.
func NewRouting(params *Params) *Routing {
	return &Routing{
		params: params,
	}
}

// Name implements Pass.Name.
func (p *Routing) Name() string {
	return "Routing"
}

// Permutation returns the final logical-to-physical permutation, or
// nil if the pass has not run.
func (p *Routing) Permutation() []int {
	return p.Layout
}

// Apply implements Pass.Apply.
func (p *Routing) Apply(c *dag.Circuit) (bool, error) {
	cm := p.params.Coupling
	if cm == nil {
		// All-to-all: identity permutation, nothing to route.
		p.Layout = identityPermutation(c.NumQubits())
		p.InitialMapping = identityPermutation(c.NumQubits())
		return false, nil
	}
	// The DAG's qubit count is fixed, so the rewrite onto physical
	// indices needs the coupling map to match it exactly.
	if cm.NumQubits() != c.NumQubits() {
		return false, errors.Errorf(
			"coupling map has %d qubits, circuit has %d",
			cm.NumQubits(), c.NumQubits())
	}

	// A circuit whose two-qubit operations already respect the
	// coupling map is left untouched: qubit indices are physical.
	if conforming(c, cm) {
		if p.Layout == nil {
			p.Layout = identityPermutation(c.NumQubits())
			p.InitialMapping = identityPermutation(c.NumQubits())
		}
		return false, nil
	}

	l2p := InitialLayout(c, cm)
	p.InitialMapping = append([]int(nil), l2p...)
	p2l := make([]int, cm.NumQubits())
	for i := range p2l {
		p2l[i] = -1
	}
	for l, ph := range l2p {
		p2l[ph] = l
	}

	var out []gate.Op
	var numSwaps int
	mutated := false

	swapPhys := func(a, b int) {
		out = append(out, gate.New(gate.Swap, a, b))
		numSwaps++
		la, lb := p2l[a], p2l[b]
		p2l[a], p2l[b] = lb, la
		if la >= 0 {
			l2p[la] = b
		}
		if lb >= 0 {
			l2p[lb] = a
		}
	}

	for _, n := range c.TopologicalOrder() {
		op := n.Op
		qs := op.Qubits
		switch len(qs) {
		case 1:
			op.Qubits = []int{l2p[qs[0]]}
			if op.Qubits[0] != qs[0] {
				mutated = true
			}
		case 2:
			pa, pb := l2p[qs[0]], l2p[qs[1]]
			if !cm.Adjacent(pa, pb) {
				route := cm.ShortestPath(pa, pb)
				if len(route) < 2 {
					return mutated, errors.Errorf(
						"physical qubits %d and %d are disconnected",
						pa, pb)
				}
				// Walk the first qubit next to the second.
				for i := 0; i+2 < len(route); i++ {
					swapPhys(route[i], route[i+1])
				}
				pa, pb = l2p[qs[0]], l2p[qs[1]]
				mutated = true
			}
			op.Qubits = []int{pa, pb}
			if pa != qs[0] || pb != qs[1] {
				mutated = true
			}
		default:
			return mutated, errors.Wrapf(gate.ErrUnsupportedGate,
				"cannot route %d-qubit %s", len(qs), op.Kind)
		}
		out = append(out, op)
	}

	if !mutated {
		p.Layout = append([]int(nil), l2p...)
		return false, nil
	}

	p.params.Diagnostics.Debug("routing",
		zap.Int("swaps", numSwaps),
		zap.Ints("layout", l2p))

	// Rebuild the circuit on physical indices.
	c.Reset()
	for _, op := range out {
		c.Append(op)
	}
	p.Layout = l2p
	return true, nil
}

// conforming tests if every two-qubit operation acts on adjacent
// physical qubits under the identity layout.
func conforming(c *dag.Circuit, cm *CouplingMap) bool {
	for _, n := range c.TopologicalOrder() {
		if len(n.Op.Qubits) == 2 &&
			!cm.Adjacent(n.Op.Qubits[0], n.Op.Qubits[1]) {
			return false
		}
		if len(n.Op.Qubits) > 2 {
			return false
		}
	}
	return true
}

func identityPermutation(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}
