//
// dag_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package dag

import (
	"math"
	"testing"

	"github.com/markkurossi/qcc/gate"
)

func TestAppend(t *testing.T) {
	c := New(3)
	if c.NumQubits() != 3 || c.NumOps() != 0 {
		t.Fatalf("empty circuit: %d qubits, %d ops",
			c.NumQubits(), c.NumOps())
	}
	c.Append(gate.New(gate.H, 0))
	c.Append(gate.New(gate.CX, 0, 1))
	c.Append(gate.New(gate.CX, 1, 2))
	if c.NumOps() != 3 {
		t.Errorf("NumOps=%d", c.NumOps())
	}
	if len(c.OperationsOn(0)) != 2 || len(c.OperationsOn(1)) != 2 ||
		len(c.OperationsOn(2)) != 1 {
		t.Errorf("wire chains malformed")
	}
	order := c.TopologicalOrder()
	if len(order) != 3 {
		t.Fatalf("topological order has %d nodes", len(order))
	}
	if order[0].Op.Kind != gate.H || order[1].Op.Kind != gate.CX ||
		order[2].Op.Kind != gate.CX {
		t.Errorf("topological order: %s", c)
	}
}

func TestAppendRepeatedQubit(t *testing.T) {
	// An operation listing the same qubit twice would link a node to
	// itself and drop it from the topological order.
	c := New(2)
	defer func() {
		if recover() == nil {
			t.Errorf("repeated qubit accepted")
		}
		if c.NumOps() != 0 || len(c.TopologicalOrder()) != 0 {
			t.Errorf("rejected append mutated the circuit: %s", c)
		}
	}()
	c.Append(gate.New(gate.CX, 0, 0))
}

func TestInsertAfterRepeatedQubit(t *testing.T) {
	c := New(2)
	h := c.Append(gate.New(gate.H, 0))
	if _, err := c.InsertAfter(h, gate.New(gate.CX, 0, 0)); err == nil {
		t.Errorf("repeated qubit accepted")
	}
	if c.NumOps() != 1 {
		t.Errorf("rejected insert mutated the circuit: %s", c)
	}
}

func TestInsertAfter(t *testing.T) {
	c := New(2)
	h := c.Append(gate.New(gate.H, 0))
	c.Append(gate.New(gate.CX, 0, 1))

	// Between H and CX on qubit 0.
	if _, err := c.InsertAfter(h, gate.NewR(gate.RZ, 0.5, 0)); err != nil {
		t.Fatal(err)
	}
	ops := c.Ops()
	if len(ops) != 3 || ops[1].Kind != gate.RZ {
		t.Errorf("insert misplaced: %s", c)
	}

	// At the front of qubit 1 using the input sentinel.
	if _, err := c.InsertAfter(c.Input(1), gate.New(gate.X, 1)); err != nil {
		t.Fatal(err)
	}
	if got := c.OperationsOn(1)[0].Op.Kind; got != gate.X {
		t.Errorf("front insert misplaced: %s", c)
	}

	// The reference must touch the operation's qubits.
	if _, err := c.InsertAfter(h, gate.New(gate.X, 1)); err == nil {
		t.Errorf("insert on untouched qubit accepted")
	}
}

func TestRemove(t *testing.T) {
	c := New(2)
	c.Append(gate.New(gate.H, 0))
	cx := c.Append(gate.New(gate.CX, 0, 1))
	c.Append(gate.New(gate.H, 1))

	c.Remove(cx)
	if c.NumOps() != 2 {
		t.Errorf("NumOps=%d", c.NumOps())
	}
	// The wires reconnect around the removed node.
	if len(c.OperationsOn(0)) != 1 || len(c.OperationsOn(1)) != 1 {
		t.Errorf("wires not reconnected: %s", c)
	}
}

func TestDepth(t *testing.T) {
	c := New(3)
	c.Append(gate.New(gate.H, 0))
	c.Append(gate.New(gate.H, 1))
	c.Append(gate.New(gate.H, 2))
	if c.Depth() != 1 {
		t.Errorf("parallel depth=%d", c.Depth())
	}
	c.Append(gate.New(gate.CX, 0, 1))
	c.Append(gate.New(gate.CX, 1, 2))
	if c.Depth() != 3 {
		t.Errorf("chained depth=%d", c.Depth())
	}
}

func TestCounts(t *testing.T) {
	c := FromOps(3, []gate.Op{
		gate.New(gate.H, 0),
		gate.New(gate.CX, 0, 1),
		gate.New(gate.CX, 1, 2),
		gate.NewR(gate.RZ, 0.25, 2),
	})
	if c.CountKind(gate.CX) != 2 || c.CountKind(gate.H) != 1 {
		t.Errorf("CountKind broken")
	}
	if c.NumTwoQubit() != 2 {
		t.Errorf("NumTwoQubit=%d", c.NumTwoQubit())
	}
	stats := c.Stats()
	if stats[gate.CX] != 2 || stats[gate.RZ] != 1 {
		t.Errorf("Stats broken: %v", stats)
	}
}

func TestUnitary(t *testing.T) {
	// H then CX produces the Bell-state preparation matrix.
	c := FromOps(2, []gate.Op{
		gate.New(gate.H, 0),
		gate.New(gate.CX, 0, 1),
	})
	u, err := c.Unitary()
	if err != nil {
		t.Fatal(err)
	}
	want := gate.MatrixCX().Mul(gate.MatrixH().Kron(gate.Identity(2)))
	if !u.Equal(want, gate.Tolerance) {
		t.Errorf("circuit unitary diverged")
	}
	s := 1 / math.Sqrt2
	if math.Abs(real(u.At(0, 0))-s) > 1e-12 ||
		math.Abs(real(u.At(3, 0))-s) > 1e-12 {
		t.Errorf("Bell column malformed:\n%s", u)
	}
}

func TestReset(t *testing.T) {
	c := FromOps(2, []gate.Op{
		gate.New(gate.H, 0),
		gate.New(gate.CX, 0, 1),
	})
	c.Reset()
	if c.NumOps() != 0 || len(c.TopologicalOrder()) != 0 {
		t.Errorf("reset left operations behind")
	}
	c.Append(gate.New(gate.X, 1))
	if len(c.OperationsOn(1)) != 1 {
		t.Errorf("append after reset broken")
	}
}
