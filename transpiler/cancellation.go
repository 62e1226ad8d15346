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
	"go.uber.org/zap"
)

// selfInverseKinds cancel in pairs with identical qubit roles.
var selfInverseKinds = map[gate.Kind]bool{
	gate.X:    true,
	gate.Y:    true,
	gate.Z:    true,
	gate.H:    true,
	gate.CX:   true,
	gate.CZ:   true,
	gate.Swap: true,
	gate.CCX:  true,
}

// additiveKinds merge by adding their angle parameters.
var additiveKinds = map[gate.Kind]bool{
	gate.RX:    true,
	gate.RY:    true,
	gate.RZ:    true,
	gate.Phase: true,
}

// CommutativeCancellation cancels self-inverse pairs and merges
// angle-additive rotations that become adjacent once intervening
// commuting operations are virtually reordered.
type CommutativeCancellation struct {
	params  *Params
	checker *CommutationChecker
}

// NewCommutativeCancellation creates a commutation-based cancellation
// pass.
func NewCommutativeCancellation(params *Params) *CommutativeCancellation {
	return &CommutativeCancellation{
		params:  params,
		checker: NewCommutationChecker(params.Tolerance),
	}
}

// Name implements Pass.Name.
func (p *CommutativeCancellation) Name() string {
	return "CommutativeCancellation"
}

// Apply implements Pass.Apply.
func (p *CommutativeCancellation) Apply(c *dag.Circuit) (bool, error) {
	var mutated bool

outer:
	for {
		for _, n := range c.TopologicalOrder() {
			if !selfInverseKinds[n.Op.Kind] && !additiveKinds[n.Op.Kind] {
				continue
			}
			partner := p.findPartner(n)
			if partner == nil {
				continue
			}
			p.merge(c, n, partner)
			mutated = true
			continue outer
		}
		return mutated, nil
	}
}

// findPartner walks forward from the node looking for a same-kind,
// same-qubit-role operation, with every intervening operation on the
// node's qubits commuting with the node.
func (p *CommutativeCancellation) findPartner(n *dag.Node) *dag.Node {
	q := n.Op.Qubits[0]
	for cur := n.Succs[q]; cur.Kind == dag.OpNode; cur = cur.Succs[q] {
		if cur.Op.Kind == n.Op.Kind && sameQubits(cur.Op, n.Op) {
			if p.clearBetween(n, cur) {
				return cur
			}
			return nil
		}
		if !p.checker.Commute(n.Op, cur.Op) {
			return nil
		}
	}
	return nil
}

// clearBetween verifies that on every qubit of n, each operation
// strictly between n and m commutes with n.
func (p *CommutativeCancellation) clearBetween(n, m *dag.Node) bool {
	for _, q := range n.Op.Qubits {
		cur := n.Succs[q]
		for cur.Kind == dag.OpNode && cur != m {
			if !p.checker.Commute(n.Op, cur.Op) {
				return false
			}
			cur = cur.Succs[q]
		}
		if cur != m {
			// Chain reached the output sentinel without meeting m.
			return false
		}
	}
	return true
}

// merge cancels or merges the pair.
func (p *CommutativeCancellation) merge(c *dag.Circuit, n, m *dag.Node) {
	diag := p.params.Diagnostics
	if selfInverseKinds[n.Op.Kind] {
		diag.Debug("cancel pair",
			zap.Stringer("op", n.Op))
		c.Remove(n)
		c.Remove(m)
		return
	}
	sum := n.Op.Params[0] + m.Op.Params[0]
	c.Remove(m)
	if zeroMod2Pi(sum, p.params.Tolerance) {
		diag.Debug("merge to identity",
			zap.Stringer("op", n.Op))
		c.Remove(n)
		return
	}
	diag.Debug("merge rotations",
		zap.Stringer("op", n.Op),
		zap.Float64("angle", sum))
	merged := gate.NewR(n.Op.Kind, sum, n.Op.Qubits[0])
	// Replace in place, keeping the node's position.
	if err := c.ReplaceSubgraph([]*dag.Node{n}, []gate.Op{merged}); err != nil {
		// Single-node cuts are always contiguous.
		panic(err)
	}
}

func sameQubits(a, b gate.Op) bool {
	if len(a.Qubits) != len(b.Qubits) {
		return false
	}
	for i, q := range a.Qubits {
		if b.Qubits[i] != q {
			return false
		}
	}
	return true
}

func zeroMod2Pi(angle, tol float64) bool {
	m := math.Mod(angle, 2*math.Pi)
	return math.Abs(m) < tol || math.Abs(m-2*math.Pi) < tol ||
		math.Abs(m+2*math.Pi) < tol
}
