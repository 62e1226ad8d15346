//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package dag

import (
	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

// ReplaceSubgraph atomically excises the given nodes and splices the
// new operations in their place, preserving per-qubit order. The node
// set must form a contiguous cut: no path may leave the set and
// re-enter it, and on every qubit the selected nodes must be
// consecutive. The new operations may only touch qubits the removed
// nodes touch. On failure the DAG is left untouched and
// ErrDisconnectedSubgraph is returned.
func (c *Circuit) ReplaceSubgraph(nodes []*Node, ops []gate.Op) error {
	if len(nodes) == 0 {
		return errors.Wrap(ErrDisconnectedSubgraph, "empty node set")
	}
	sel := make(map[*Node]bool)
	for _, n := range nodes {
		if n.Kind != OpNode || n.circuit != c {
			return errors.Wrapf(ErrDisconnectedSubgraph,
				"node %s not a circuit operation", n)
		}
		sel[n] = true
	}

	// Qubits covered by the cut, with per-qubit boundary nodes.
	first := make(map[int]*Node)
	last := make(map[int]*Node)
	for _, n := range nodes {
		for _, q := range n.Op.Qubits {
			// Per-qubit contiguity: scan the chain segment.
			if _, ok := first[q]; ok {
				continue
			}
			f := n
			for f.Preds[q].Kind == OpNode && sel[f.Preds[q]] {
				f = f.Preds[q]
			}
			l := n
			for l.Succs[q].Kind == OpNode && sel[l.Succs[q]] {
				l = l.Succs[q]
			}
			first[q], last[q] = f, l
		}
	}
	// Every selected node touching q must be inside the [first, last]
	// segment.
	count := make(map[int]int)
	for q, f := range first {
		cnt := 0
		for n := f; ; n = n.Succs[q] {
			if !sel[n] {
				return errors.Wrapf(ErrDisconnectedSubgraph,
					"qubit q%d chain not contiguous", q)
			}
			cnt++
			if n == last[q] {
				break
			}
		}
		count[q] = cnt
	}
	var selQubitRefs int
	for _, n := range nodes {
		selQubitRefs += len(n.Op.Qubits)
	}
	var segQubitRefs int
	for _, cnt := range count {
		segQubitRefs += cnt
	}
	if selQubitRefs != segQubitRefs {
		return errors.Wrap(ErrDisconnectedSubgraph,
			"selection splits a qubit chain")
	}

	// No path may leave the cut and come back: walk forward from the
	// cut's external successors; reaching a selected node means an
	// external operation is ordered between selected ones.
	var frontier []*Node
	seen := make(map[*Node]bool)
	for _, n := range nodes {
		for _, q := range n.Op.Qubits {
			s := n.Succs[q]
			if s.Kind == OpNode && !sel[s] && !seen[s] {
				seen[s] = true
				frontier = append(frontier, s)
			}
		}
	}
	for len(frontier) > 0 {
		n := frontier[0]
		frontier = frontier[1:]
		if sel[n] {
			return errors.Wrap(ErrDisconnectedSubgraph,
				"external path re-enters the cut")
		}
		for _, q := range n.Op.Qubits {
			s := n.Succs[q]
			if s.Kind == OpNode && !seen[s] {
				seen[s] = true
				frontier = append(frontier, s)
			}
		}
	}

	// New operations must stay on covered qubits.
	for _, op := range ops {
		if repeatsQubit(op) {
			return errors.Wrapf(ErrDisconnectedSubgraph,
				"replacement op %s repeats a qubit", op)
		}
		for _, q := range op.Qubits {
			if _, ok := first[q]; !ok {
				return errors.Wrapf(ErrDisconnectedSubgraph,
					"replacement op %s leaves the cut's qubits", op)
			}
		}
	}

	// Splice: remember per-qubit boundary, excise, then thread the
	// new operations.
	pred := make(map[int]*Node)
	succ := make(map[int]*Node)
	for q := range first {
		pred[q] = first[q].Preds[q]
		succ[q] = last[q].Succs[q]
	}
	for _, n := range nodes {
		n.circuit = nil
	}
	c.numOps -= len(nodes)

	cur := pred
	for _, op := range ops {
		n := c.newNode(OpNode, op)
		for _, q := range op.Qubits {
			cur[q].Succs[q] = n
			n.Preds[q] = cur[q]
			cur[q] = n
		}
		c.numOps++
	}
	for q := range first {
		cur[q].Succs[q] = succ[q]
		succ[q].Preds[q] = cur[q]
	}
	return nil
}
