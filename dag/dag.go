//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package dag implements the circuit intermediate representation the
// rewrite passes operate on: a directed acyclic graph whose nodes are
// operations and whose edges are per-qubit wires in program order.
package dag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

// ErrDisconnectedSubgraph is returned when a replace-subgraph call
// names a node set that is not a valid contiguous cut. It indicates a
// pass bug, not a user error.
var ErrDisconnectedSubgraph = errors.New("disconnected subgraph")

// NodeKind specifies the node function.
type NodeKind byte

// Node kinds. Input and Output are the synthetic per-qubit sentinels.
const (
	OpNode NodeKind = iota
	Input
	Output
)

// Node is one vertex of the circuit DAG: an operation plus its wire
// links. Wires are stored per qubit: Succs[q] is the next node
// touching qubit q, Preds[q] the previous one.
type Node struct {
	ID    int
	Kind  NodeKind
	Op    gate.Op
	Succs map[int]*Node
	Preds map[int]*Node

	circuit *Circuit
}

func (n *Node) String() string {
	switch n.Kind {
	case Input:
		return fmt.Sprintf("in[%d]", n.Op.Qubits[0])
	case Output:
		return fmt.Sprintf("out[%d]", n.Op.Qubits[0])
	default:
		return n.Op.String()
	}
}

// Qubits returns the qubits the node touches.
func (n *Node) Qubits() []int {
	return n.Op.Qubits
}

// Circuit owns the full set of DAG nodes and the per-qubit wire
// chains. The qubit count is fixed for the circuit's lifetime.
type Circuit struct {
	numQubits int
	inputs    []*Node
	outputs   []*Node
	numOps    int
	nextID    int
}

// New creates an empty circuit DAG over the given number of qubits.
func New(numQubits int) *Circuit {
	c := &Circuit{
		numQubits: numQubits,
	}
	for q := 0; q < numQubits; q++ {
		in := c.newNode(Input, gate.Op{Qubits: []int{q}})
		out := c.newNode(Output, gate.Op{Qubits: []int{q}})
		in.Succs[q] = out
		out.Preds[q] = in
		c.inputs = append(c.inputs, in)
		c.outputs = append(c.outputs, out)
	}
	return c
}

// FromOps creates a circuit DAG from an operation sequence in time
// order.
func FromOps(numQubits int, ops []gate.Op) *Circuit {
	c := New(numQubits)
	for _, op := range ops {
		c.Append(op)
	}
	return c
}

func (c *Circuit) newNode(kind NodeKind, op gate.Op) *Node {
	n := &Node{
		ID:      c.nextID,
		Kind:    kind,
		Op:      op,
		Succs:   make(map[int]*Node),
		Preds:   make(map[int]*Node),
		circuit: c,
	}
	c.nextID++
	return n
}

// NumQubits returns the number of qubits.
func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// NumOps returns the number of operation nodes.
func (c *Circuit) NumOps() int {
	return c.numOps
}

// Input returns the input sentinel of the qubit.
func (c *Circuit) Input(qubit int) *Node {
	return c.inputs[qubit]
}

// Output returns the output sentinel of the qubit.
func (c *Circuit) Output(qubit int) *Node {
	return c.outputs[qubit]
}

// repeatsQubit tests if the operation lists the same qubit twice.
// Such an operation has no place in the wire chains.
func repeatsQubit(op gate.Op) bool {
	for i, q := range op.Qubits {
		for _, r := range op.Qubits[i+1:] {
			if q == r {
				return true
			}
		}
	}
	return false
}

// Append adds an operation at the end of its qubits' wire chains.
func (c *Circuit) Append(op gate.Op) *Node {
	if repeatsQubit(op) {
		panic(fmt.Sprintf("dag: repeated qubit in %s", op))
	}
	n := c.newNode(OpNode, op)
	for _, q := range op.Qubits {
		out := c.outputs[q]
		prev := out.Preds[q]
		prev.Succs[q] = n
		n.Preds[q] = prev
		n.Succs[q] = out
		out.Preds[q] = n
	}
	c.numOps++
	return n
}

// InsertAfter splices a new operation immediately after the given
// node on every qubit the operation touches. The reference node must
// touch all of the operation's qubits, or be an input sentinel whose
// qubit the operation touches.
func (c *Circuit) InsertAfter(ref *Node, op gate.Op) (*Node, error) {
	if ref.circuit != c {
		return nil, errors.Errorf("node %s not owned by circuit", ref)
	}
	if repeatsQubit(op) {
		return nil, errors.Errorf("repeated qubit in %s", op)
	}
	n := c.newNode(OpNode, op)
	for _, q := range op.Qubits {
		succ, ok := ref.Succs[q]
		if !ok {
			return nil, errors.Errorf("node %s does not touch qubit q%d",
				ref, q)
		}
		ref.Succs[q] = n
		n.Preds[q] = ref
		n.Succs[q] = succ
		succ.Preds[q] = n
	}
	c.numOps++
	return n, nil
}

// Remove excises an operation node, reconnecting its qubits' wires.
func (c *Circuit) Remove(n *Node) {
	if n.Kind != OpNode || n.circuit != c {
		panic("dag: removing sentinel or foreign node")
	}
	for _, q := range n.Op.Qubits {
		prev, succ := n.Preds[q], n.Succs[q]
		prev.Succs[q] = succ
		succ.Preds[q] = prev
	}
	n.circuit = nil
	c.numOps--
}

// OperationsOn returns the operation nodes touching the qubit in
// program order.
func (c *Circuit) OperationsOn(qubit int) []*Node {
	var nodes []*Node
	for n := c.inputs[qubit].Succs[qubit]; n.Kind != Output; n = n.Succs[qubit] {
		nodes = append(nodes, n)
	}
	return nodes
}

// TopologicalOrder returns the operation nodes in a time-respecting
// order. The slice is a snapshot; a fresh call is required after any
// mutation.
func (c *Circuit) TopologicalOrder() []*Node {
	seen := make(map[*Node]bool)
	for q := 0; q < c.numQubits; q++ {
		for _, n := range c.OperationsOn(q) {
			seen[n] = true
		}
	}
	// A node becomes ready when all of its qubit predecessors have
	// been emitted.
	pending := make(map[*Node]int)
	var ready []*Node
	for n := range seen {
		cnt := 0
		for _, q := range n.Op.Qubits {
			if n.Preds[q].Kind != Input {
				cnt++
			}
		}
		pending[n] = cnt
		if cnt == 0 {
			ready = append(ready, n)
		}
	}
	sort.Slice(ready, func(i, j int) bool {
		return ready[i].ID < ready[j].ID
	})
	var order []*Node
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, q := range n.Op.Qubits {
			s := n.Succs[q]
			if s.Kind != OpNode {
				continue
			}
			pending[s]--
			if pending[s] == 0 {
				ready = append(ready, s)
			}
		}
	}
	return order
}

// Ops returns the circuit's operations in a time-respecting order.
func (c *Circuit) Ops() []gate.Op {
	var ops []gate.Op
	for _, n := range c.TopologicalOrder() {
		ops = append(ops, n.Op)
	}
	return ops
}

// CountKind returns the number of operations of the given kind.
func (c *Circuit) CountKind(kind gate.Kind) int {
	var count int
	for _, n := range c.TopologicalOrder() {
		if n.Op.Kind == kind {
			count++
		}
	}
	return count
}

// NumTwoQubit returns the number of operations touching two or more
// qubits.
func (c *Circuit) NumTwoQubit() int {
	var count int
	for _, n := range c.TopologicalOrder() {
		if len(n.Op.Qubits) >= 2 {
			count++
		}
	}
	return count
}

// Depth returns the circuit depth: the longest wire chain of
// operations.
func (c *Circuit) Depth() int {
	depth := make(map[*Node]int)
	var max int
	for _, n := range c.TopologicalOrder() {
		d := 0
		for _, q := range n.Op.Qubits {
			p := n.Preds[q]
			if p.Kind == OpNode && depth[p] > d {
				d = depth[p]
			}
		}
		depth[n] = d + 1
		if d+1 > max {
			max = d + 1
		}
	}
	return max
}

// Stats counts the operations by gate kind.
func (c *Circuit) Stats() map[gate.Kind]int {
	stats := make(map[gate.Kind]int)
	for _, n := range c.TopologicalOrder() {
		stats[n.Op.Kind]++
	}
	return stats
}

// Unitary computes the circuit's full unitary matrix. Feasible only
// for small qubit counts.
func (c *Circuit) Unitary() (*gate.Matrix, error) {
	layout := make([]int, c.numQubits)
	for i := range layout {
		layout[i] = i
	}
	return gate.UnitaryOf(c.Ops(), layout)
}

// Reset drops all operation nodes, leaving empty wire chains.
func (c *Circuit) Reset() {
	for q := 0; q < c.numQubits; q++ {
		in, out := c.inputs[q], c.outputs[q]
		in.Succs[q] = out
		out.Preds[q] = in
	}
	c.numOps = 0
}

func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "circuit %d qubits, %d ops:", c.numQubits, c.numOps)
	for _, n := range c.TopologicalOrder() {
		sb.WriteString(" ")
		sb.WriteString(n.Op.String())
		sb.WriteString(";")
	}
	return sb.String()
}
