//
// manager_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

func TestPassOrderValidation(t *testing.T) {
	params := NewParams()
	// Optimize1qGates requires a basis translation before it.
	_, err := NewPassManager(params, NewOptimize1qGates(params))
	if !errors.Is(err, ErrInvalidPassOrder) {
		t.Errorf("invalid order accepted: err=%v", err)
	}
	_, err = NewPassManager(params,
		NewBasisTranslator(params), NewOptimize1qGates(params))
	if err != nil {
		t.Errorf("valid order rejected: %s", err)
	}
}

func TestCompile(t *testing.T) {
	params := NewParams()
	c := dag.FromOps(2, []gate.Op{
		gate.New(gate.H, 0),
		gate.New(gate.CX, 0, 1),
		gate.New(gate.CX, 0, 1),
		gate.New(gate.T, 1),
		gate.New(gate.Tdg, 1),
	})
	pm, err := NewDefaultPassManager(params)
	if err != nil {
		t.Fatal(err)
	}
	result, err := pm.Compile(c)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Converged {
		t.Errorf("did not converge in %d iterations", result.Iterations)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings: %v", result.Warnings)
	}
	// Everything cancels except the leading H.
	ops := result.Circuit.Ops()
	if len(ops) != 1 || ops[0].Kind != gate.H {
		t.Errorf("compile result: %s", result.Circuit)
	}
	// No routing requested: identity permutation.
	if result.Permutation[0] != 0 || result.Permutation[1] != 1 {
		t.Errorf("permutation %v", result.Permutation)
	}
}

func TestCompilePreservesUnitary(t *testing.T) {
	params := NewParams()
	c := dag.FromOps(3, []gate.Op{
		gate.New(gate.H, 0),
		gate.New(gate.T, 0),
		gate.New(gate.CX, 0, 1),
		gate.New(gate.S, 1),
		gate.New(gate.CZ, 1, 2),
		gate.New(gate.Swap, 0, 2),
		gate.NewR(gate.RY, 0.3, 2),
		gate.New(gate.CX, 1, 2),
	})
	want, err := c.Unitary()
	if err != nil {
		t.Fatal(err)
	}
	twoQ := c.NumTwoQubit()

	pm, err := NewDefaultPassManager(params)
	if err != nil {
		t.Fatal(err)
	}
	result, err := pm.Compile(c)
	if err != nil {
		t.Fatal(err)
	}
	for _, op := range result.Circuit.Ops() {
		if !params.Basis.Contains(op.Kind) {
			t.Errorf("out-of-basis gate %s in output", op)
		}
	}
	// Swap counts as one entangler before translation but three
	// after; consolidation must keep the total from growing past
	// that.
	if got := result.Circuit.NumTwoQubit(); got > twoQ+2 {
		t.Errorf("entangler count grew: %d vs %d", got, twoQ)
	}
	u, err := result.Circuit.Unitary()
	if err != nil {
		t.Fatal(err)
	}
	if !u.EqualUpToPhase(want, 1e-7) {
		t.Errorf("compilation changed the unitary")
	}
}

func TestCompileRestrictedBasis(t *testing.T) {
	// A valid gateset without RY: the 1-qubit optimizer must not
	// introduce gates a later basis translation cannot express.
	params := NewParams()
	params.Basis = gate.NewBasis(gate.Z, gate.H, gate.RZ, gate.RX,
		gate.CX)
	c := dag.FromOps(1, []gate.Op{
		gate.New(gate.Z, 0),
		gate.New(gate.H, 0),
	})
	pm, err := NewDefaultPassManager(params)
	if err != nil {
		t.Fatal(err)
	}
	result, err := pm.Compile(c)
	if err != nil {
		t.Fatalf("compile of in-basis circuit failed: %s", err)
	}
	if !result.Converged {
		t.Errorf("did not converge in %d iterations", result.Iterations)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings: %v", result.Warnings)
	}
	for _, op := range result.Circuit.Ops() {
		if !params.Basis.Contains(op.Kind) {
			t.Errorf("out-of-basis gate %s in output", op)
		}
	}
}

func TestCompileAlreadyOptimal(t *testing.T) {
	params := NewParams()
	c := dag.FromOps(2, []gate.Op{
		gate.New(gate.H, 0),
		gate.New(gate.CX, 0, 1),
	})
	pm, err := NewDefaultPassManager(params)
	if err != nil {
		t.Fatal(err)
	}
	result, err := pm.Compile(c)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Converged || result.Iterations != 1 {
		t.Errorf("converged=%v in %d iterations",
			result.Converged, result.Iterations)
	}
	if result.Circuit.NumOps() != 2 {
		t.Errorf("optimal circuit changed: %s", result.Circuit)
	}
}

func TestCompileConvergenceLimit(t *testing.T) {
	params := NewParams()
	params.MaxIterations = 1
	c := dag.FromOps(2, []gate.Op{
		gate.New(gate.T, 0),
		gate.New(gate.CX, 0, 1),
		gate.New(gate.CX, 0, 1),
	})
	pm, err := NewDefaultPassManager(params)
	if err != nil {
		t.Fatal(err)
	}
	result, err := pm.Compile(c)
	if err != nil {
		t.Fatal(err)
	}
	if result.Converged {
		t.Errorf("converged within a single iteration")
	}
	found := false
	for _, w := range result.Warnings {
		if errors.Is(w, ErrConvergenceLimit) {
			found = true
		}
	}
	if !found {
		t.Errorf("missing convergence warning: %v", result.Warnings)
	}
}

func TestCompileWithRouting(t *testing.T) {
	params := NewParams()
	params.Coupling = LinearCouplingMap(3)
	c := dag.FromOps(3, []gate.Op{
		gate.New(gate.H, 0),
		gate.New(gate.CX, 0, 1),
		gate.New(gate.CX, 1, 2),
		gate.New(gate.CX, 0, 2),
	})
	pm, err := NewDefaultPassManager(params)
	if err != nil {
		t.Fatal(err)
	}
	result, err := pm.Compile(c)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Converged {
		t.Errorf("did not converge in %d iterations", result.Iterations)
	}
	checkPermutation(t, result.Permutation, 3)
	for _, op := range result.Circuit.Ops() {
		if !params.Basis.Contains(op.Kind) {
			t.Errorf("out-of-basis gate %s in output", op)
		}
	}
	checkConforming(t, result.Circuit, params.Coupling)
}

func TestStatsPrint(t *testing.T) {
	params := NewParams()
	c := dag.FromOps(2, []gate.Op{
		gate.New(gate.T, 0),
		gate.New(gate.CX, 0, 1),
	})
	pm, err := NewDefaultPassManager(params)
	if err != nil {
		t.Fatal(err)
	}
	result, err := pm.Compile(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Stats.Samples) == 0 {
		t.Fatalf("no samples recorded")
	}
	var buf bytes.Buffer
	result.Stats.Print(&buf)
	report := buf.String()
	for _, want := range []string{
		"BasisTranslator", "CommutativeCancellation", "Total",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
