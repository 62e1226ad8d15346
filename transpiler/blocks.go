//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"sort"

	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"github.com/markkurossi/qcc/synth"
	"go.uber.org/zap"
)

// Block is a maximal connected run of operations acting on one qubit
// pair, in time order.
type Block struct {
	Qubits [2]int
	Nodes  []*dag.Node
}

// numTwoQubit counts the entangling operations of the block.
func (b *Block) numTwoQubit() int {
	var count int
	for _, n := range b.Nodes {
		if len(n.Op.Qubits) == 2 {
			count++
		}
	}
	return count
}

// ConsolidateBlocks partitions the circuit into maximal two-qubit
// blocks, computes each block's combined unitary, and replaces the
// block with a minimal entangling-gate re-synthesis. This is the
// primary two-qubit gate-count reduction mechanism.
type ConsolidateBlocks struct {
	params *Params
}

// NewConsolidateBlocks creates a block consolidation pass.
func NewConsolidateBlocks(params *Params) *ConsolidateBlocks {
	return &ConsolidateBlocks{
		params: params,
	}
}

// Name implements Pass.Name.
func (p *ConsolidateBlocks) Name() string {
	return "ConsolidateBlocks"
}

// Requires declares that the circuit must already be in the target
// basis so gate counts compare like against like.
func (p *ConsolidateBlocks) Requires() []Property {
	return []Property{InTargetBasis}
}

// Establishes implements the conditional interface.
func (p *ConsolidateBlocks) Establishes() []Property {
	return []Property{InTargetBasis}
}

// Apply implements Pass.Apply.
func (p *ConsolidateBlocks) Apply(c *dag.Circuit) (bool, error) {
	var mutated bool
	for _, block := range CollectBlocks(c) {
		m, err := p.consolidate(c, block)
		if err != nil {
			return mutated, err
		}
		mutated = mutated || m
	}
	return mutated, nil
}

// CollectBlocks partitions the circuit into maximal two-qubit blocks
// with a single topological traversal and per-qubit frontier
// tracking. Single-qubit operations between a pair's entangling gates
// join the pair's block; leading single-qubit operations attach to
// the next entangling gate on their qubit.
func CollectBlocks(c *dag.Circuit) []*Block {
	var blocks []*Block
	// owner maps qubits to their active block, pending holds
	// unattached single-qubit prefixes.
	owner := make(map[int]*Block)
	pending := make(map[int][]*dag.Node)

	flush := func(q int) {
		b := owner[q]
		if b == nil {
			return
		}
		blocks = append(blocks, b)
		delete(owner, b.Qubits[0])
		delete(owner, b.Qubits[1])
	}

	for _, n := range c.TopologicalOrder() {
		qs := n.Op.Qubits
		switch len(qs) {
		case 1:
			q := qs[0]
			if b := owner[q]; b != nil {
				b.Nodes = append(b.Nodes, n)
			} else {
				pending[q] = append(pending[q], n)
			}
		case 2:
			a, b := qs[0], qs[1]
			if blk := owner[a]; blk != nil && blk == owner[b] {
				blk.Nodes = append(blk.Nodes, n)
				continue
			}
			flush(a)
			flush(b)
			blk := &Block{
				Qubits: [2]int{min(a, b), max(a, b)},
			}
			blk.Nodes = append(blk.Nodes, pending[a]...)
			blk.Nodes = append(blk.Nodes, pending[b]...)
			delete(pending, a)
			delete(pending, b)
			blk.Nodes = append(blk.Nodes, n)
			owner[a] = blk
			owner[b] = blk
		default:
			// Wider operations break every block they touch.
			for _, q := range qs {
				flush(q)
				delete(pending, q)
			}
		}
	}
	seen := make(map[*Block]bool)
	for _, b := range blocks {
		seen[b] = true
	}
	for _, b := range owner {
		if !seen[b] {
			seen[b] = true
			blocks = append(blocks, b)
		}
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Nodes[0].ID < blocks[j].Nodes[0].ID
	})
	return blocks
}

// consolidate re-synthesizes one block when that lowers its gate
// count.
func (p *ConsolidateBlocks) consolidate(c *dag.Circuit, b *Block) (
	bool, error) {

	if b.numTwoQubit() == 0 || len(b.Nodes) < 2 {
		return false, nil
	}
	layout := []int{b.Qubits[0], b.Qubits[1]}
	u := gate.Identity(4)
	for _, n := range b.Nodes {
		m, err := n.Op.ExpandTo(layout)
		if err != nil {
			return false, err
		}
		u = m.Mul(u)
	}
	ops, err := synth.DecomposeTwoQubit(u)
	if err != nil {
		return false, err
	}
	// Remap the synthesis output onto the block's qubits.
	repl := make([]gate.Op, len(ops))
	for i, op := range ops {
		qubits := make([]int, len(op.Qubits))
		for j, q := range op.Qubits {
			qubits[j] = layout[q]
		}
		op.Qubits = qubits
		repl[i] = op
	}

	// The synthesized locals may use rotations outside the target
	// gateset; the block then stays as is.
	if !p.params.inBasis(repl) {
		return false, nil
	}

	oldTwoQ := b.numTwoQubit()
	var newTwoQ int
	for _, op := range repl {
		if len(op.Qubits) == 2 {
			newTwoQ++
		}
	}
	if newTwoQ > oldTwoQ ||
		(newTwoQ == oldTwoQ && len(repl) >= len(b.Nodes)) {
		return false, nil
	}
	p.params.Diagnostics.Debug("consolidate block",
		zap.Ints("qubits", layout),
		zap.Int("ops", len(b.Nodes)),
		zap.Int("twoQubit", oldTwoQ),
		zap.Int("newTwoQubit", newTwoQ))
	if err := c.ReplaceSubgraph(b.Nodes, repl); err != nil {
		return false, err
	}
	return true, nil
}
