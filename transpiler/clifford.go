//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"go.uber.org/zap"
)

// pauliAxis indexes the Pauli operators X, Y, Z.
type pauliAxis byte

const (
	axisX pauliAxis = iota
	axisY
	axisZ
)

// tableau1q is the symbolic action of a single-qubit Clifford on the
// Pauli operators under conjugation: X -> xs*axis(xp), Z -> zs*axis(zp).
// Global phase is not tracked; the group has 24 elements.
type tableau1q struct {
	xp, zp pauliAxis
	xs, zs int8
}

var tableauIdentity = tableau1q{xp: axisX, zp: axisZ, xs: 1, zs: 1}

// conjugations is the Pauli conjugation action of the Clifford
// generators: image and sign per axis.
var conjugations = map[gate.Kind][3]struct {
	axis pauliAxis
	sign int8
}{
	gate.I:   {{axisX, 1}, {axisY, 1}, {axisZ, 1}},
	gate.X:   {{axisX, 1}, {axisY, -1}, {axisZ, -1}},
	gate.Y:   {{axisX, -1}, {axisY, 1}, {axisZ, -1}},
	gate.Z:   {{axisX, -1}, {axisY, -1}, {axisZ, 1}},
	gate.H:   {{axisZ, 1}, {axisY, -1}, {axisX, 1}},
	gate.S:   {{axisY, 1}, {axisX, -1}, {axisZ, 1}},
	gate.Sdg: {{axisY, -1}, {axisX, 1}, {axisZ, 1}},
	gate.SX:  {{axisX, 1}, {axisZ, 1}, {axisY, -1}},
}

// then returns the tableau of the Clifford gate applied after the
// tableau.
func (t tableau1q) then(kind gate.Kind) tableau1q {
	c := conjugations[kind]
	return tableau1q{
		xp: c[t.xp].axis,
		xs: t.xs * c[t.xp].sign,
		zp: c[t.zp].axis,
		zs: t.zs * c[t.zp].sign,
	}
}

// normalForms maps each single-qubit Clifford tableau to a shortest
// gate sequence realizing it, generated once by breadth-first closure
// over the generators.
var normalForms = buildNormalForms()

func buildNormalForms() map[tableau1q][]gate.Kind {
	gens := []gate.Kind{gate.H, gate.S, gate.Sdg, gate.X, gate.Z}
	forms := map[tableau1q][]gate.Kind{
		tableauIdentity: {},
	}
	frontier := []tableau1q{tableauIdentity}
	for len(frontier) > 0 {
		var next []tableau1q
		for _, t := range frontier {
			for _, g := range gens {
				nt := t.then(g)
				if _, ok := forms[nt]; ok {
					continue
				}
				word := make([]gate.Kind, len(forms[t])+1)
				copy(word, forms[t])
				word[len(word)-1] = g
				forms[nt] = word
				next = append(next, nt)
			}
		}
		frontier = next
	}
	return forms
}

// CollectCliffords identifies maximal Clifford subcircuits: it
// rewrites single-qubit Clifford runs into their group normal form
// and tags multi-qubit Clifford regions for inspection through the
// pass diagnostics.
type CollectCliffords struct {
	params *Params

	// NumRegions counts the Clifford subcircuits found by the last
	// Apply.
	NumRegions int
}

// NewCollectCliffords creates a Clifford collection pass.
func NewCollectCliffords(params *Params) *CollectCliffords {
	return &CollectCliffords{
		params: params,
	}
}

// Name implements Pass.Name.
func (p *CollectCliffords) Name() string {
	return "CollectCliffords"
}

// Apply implements Pass.Apply.
func (p *CollectCliffords) Apply(c *dag.Circuit) (bool, error) {
	var mutated bool
	for q := 0; q < c.NumQubits(); q++ {
		var run []*dag.Node
		nodes := c.OperationsOn(q)
		for i := 0; i <= len(nodes); i++ {
			if i < len(nodes) && len(nodes[i].Op.Qubits) == 1 {
				if _, ok := conjugations[nodes[i].Op.Kind]; ok {
					run = append(run, nodes[i])
					continue
				}
			}
			if len(run) > 1 {
				m, err := p.normalize(c, run)
				if err != nil {
					return mutated, err
				}
				mutated = mutated || m
			}
			run = nil
		}
	}
	p.tagRegions(c)
	return mutated, nil
}

// normalize replaces a single-qubit Clifford run with its group
// normal form when that is shorter.
func (p *CollectCliffords) normalize(c *dag.Circuit, run []*dag.Node) (
	bool, error) {

	qubit := run[0].Op.Qubits[0]
	t := tableauIdentity
	for _, n := range run {
		t = t.then(n.Op.Kind)
	}
	word := normalForms[t]
	if len(word) >= len(run) {
		return false, nil
	}
	repl := make([]gate.Op, len(word))
	for i, k := range word {
		repl[i] = gate.New(k, qubit)
	}
	p.params.Diagnostics.Debug("normalize clifford run",
		zap.Int("qubit", qubit),
		zap.Int("ops", len(run)),
		zap.Int("replacement", len(repl)))
	if err := c.ReplaceSubgraph(run, repl); err != nil {
		return false, err
	}
	return true, nil
}

// tagRegions counts the maximal connected Clifford subcircuits.
func (p *CollectCliffords) tagRegions(c *dag.Circuit) {
	tol := p.params.Tolerance
	var regions int
	inRegion := make(map[int]bool)
	for _, n := range c.TopologicalOrder() {
		clifford := n.Op.IsClifford(tol)
		touching := false
		for _, q := range n.Op.Qubits {
			if inRegion[q] {
				touching = true
			}
		}
		if clifford && !touching {
			regions++
		}
		for _, q := range n.Op.Qubits {
			inRegion[q] = clifford
		}
	}
	p.NumRegions = regions
	p.params.Diagnostics.Debug("clifford regions",
		zap.Int("count", regions))
}
