//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"sort"

	"github.com/markkurossi/qcc/dag"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// CouplingMap is an undirected connectivity constraint over physical
// qubit indices.
type CouplingMap struct {
	numQubits int
	g         *simple.UndirectedGraph
	paths     path.AllShortest
}

// NewCouplingMap creates a coupling map over the given number of
// physical qubits from an adjacency list of undirected edges.
func NewCouplingMap(numQubits int, edges [][2]int) (*CouplingMap, error) {
	g := simple.NewUndirectedGraph()
	for q := 0; q < numQubits; q++ {
		g.AddNode(simple.Node(q))
	}
	for _, e := range edges {
		if e[0] < 0 || e[0] >= numQubits || e[1] < 0 || e[1] >= numQubits ||
			e[0] == e[1] {
			return nil, errors.Errorf("invalid edge (%d,%d)", e[0], e[1])
		}
		g.SetEdge(simple.Edge{
			F: simple.Node(e[0]),
			T: simple.Node(e[1]),
		})
	}
	return &CouplingMap{
		numQubits: numQubits,
		g:         g,
		paths:     path.DijkstraAllPaths(g),
	}, nil
}

// LinearCouplingMap creates a path-graph coupling map.
func LinearCouplingMap(numQubits int) *CouplingMap {
	var edges [][2]int
	for q := 0; q+1 < numQubits; q++ {
		edges = append(edges, [2]int{q, q + 1})
	}
	cm, err := NewCouplingMap(numQubits, edges)
	if err != nil {
		panic(err)
	}
	return cm
}

// NumQubits returns the number of physical qubits.
func (cm *CouplingMap) NumQubits() int {
	return cm.numQubits
}

// Adjacent tests if the physical qubits are directly connected.
func (cm *CouplingMap) Adjacent(a, b int) bool {
	return cm.g.HasEdgeBetween(int64(a), int64(b))
}

// Distance returns the shortest-path length between the physical
// qubits, or a negative value if they are disconnected.
func (cm *CouplingMap) Distance(a, b int) int {
	if a == b {
		return 0
	}
	p, _, _ := cm.paths.Between(int64(a), int64(b))
	if p == nil {
		return -1
	}
	return len(p) - 1
}

// ShortestPath returns the physical qubits along a shortest path from
// a to b, inclusive.
func (cm *CouplingMap) ShortestPath(a, b int) []int {
	p, _, _ := cm.paths.Between(int64(a), int64(b))
	result := make([]int, len(p))
	for i, n := range p {
		result[i] = int(n.ID())
	}
	return result
}

// Edges returns the undirected edges of the coupling map.
func (cm *CouplingMap) Edges() [][2]int {
	var result [][2]int
	it := cm.g.Edges()
	for it.Next() {
		e := it.Edge()
		a, b := int(e.From().ID()), int(e.To().ID())
		if a > b {
			a, b = b, a
		}
		result = append(result, [2]int{a, b})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i][0] != result[j][0] {
			return result[i][0] < result[j][0]
		}
		return result[i][1] < result[j][1]
	})
	return result
}

// Degree returns the number of neighbors of the physical qubit.
func (cm *CouplingMap) Degree(q int) int {
	var count int
	it := cm.g.From(int64(q))
	for it.Next() {
		count++
	}
	return count
}

// Neighbors returns the physical qubits adjacent to q.
func (cm *CouplingMap) Neighbors(q int) []int {
	var result []int
	it := cm.g.From(int64(q))
	for it.Next() {
		result = append(result, int(it.Node().ID()))
	}
	sort.Ints(result)
	return result
}

// InitialLayout assigns logical qubits to physical qubits by maximum
// overlap between the circuit's two-qubit interaction graph and the
// coupling map: the heaviest interacting pairs are greedily placed on
// adjacent physical qubits.
func InitialLayout(c *dag.Circuit, cm *CouplingMap) []int {
	n := c.NumQubits()
	type pair struct {
		a, b   int
		weight int
	}
	weights := make(map[[2]int]int)
	for _, node := range c.TopologicalOrder() {
		if len(node.Op.Qubits) != 2 {
			continue
		}
		a, b := node.Op.Qubits[0], node.Op.Qubits[1]
		if a > b {
			a, b = b, a
		}
		weights[[2]int{a, b}]++
	}
	var pairs []pair
	for k, w := range weights {
		pairs = append(pairs, pair{a: k[0], b: k[1], weight: w})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].weight != pairs[j].weight {
			return pairs[i].weight > pairs[j].weight
		}
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	l2p := make([]int, n)
	for i := range l2p {
		l2p[i] = -1
	}
	usedPhys := make([]bool, cm.NumQubits())

	place := func(logical, phys int) {
		l2p[logical] = phys
		usedPhys[phys] = true
	}
	// Nearest free physical qubit to the anchor, by coupling
	// distance.
	nearestFree := func(anchor int) int {
		best, bestDist := -1, 1<<30
		for p := 0; p < cm.NumQubits(); p++ {
			if usedPhys[p] {
				continue
			}
			d := cm.Distance(anchor, p)
			if d >= 0 && d < bestDist {
				best, bestDist = p, d
			}
		}
		return best
	}

	for _, pr := range pairs {
		pa, pb := l2p[pr.a], l2p[pr.b]
		switch {
		case pa < 0 && pb < 0:
			// Fresh pair: take the free edge with the highest degree
			// sum.
			var ea, eb, bestDeg int = -1, -1, -1
			for _, e := range cm.Edges() {
				if usedPhys[e[0]] || usedPhys[e[1]] {
					continue
				}
				deg := cm.Degree(e[0]) + cm.Degree(e[1])
				if deg > bestDeg {
					ea, eb, bestDeg = e[0], e[1], deg
				}
			}
			if ea < 0 {
				continue
			}
			place(pr.a, ea)
			place(pr.b, eb)
		case pa >= 0 && pb < 0:
			if p := bestNeighbor(cm, pa, usedPhys); p >= 0 {
				place(pr.b, p)
			} else if p := nearestFree(pa); p >= 0 {
				place(pr.b, p)
			}
		case pa < 0 && pb >= 0:
			if p := bestNeighbor(cm, pb, usedPhys); p >= 0 {
				place(pr.a, p)
			} else if p := nearestFree(pb); p >= 0 {
				place(pr.a, p)
			}
		}
	}
	// Idle logical qubits take the remaining physical qubits in
	// order.
	next := 0
	for l := 0; l < n; l++ {
		if l2p[l] >= 0 {
			continue
		}
		for next < cm.NumQubits() && usedPhys[next] {
			next++
		}
		place(l, next)
	}
	return l2p
}

func bestNeighbor(cm *CouplingMap, anchor int, used []bool) int {
	for _, p := range cm.Neighbors(anchor) {
		if !used[p] {
			return p
		}
	}
	return -1
}
