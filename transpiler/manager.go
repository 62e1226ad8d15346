//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"time"

	"github.com/markkurossi/qcc/dag"
	"go.uber.org/zap"
)

// PassManager sequences rewrite passes over a circuit DAG until a
// fixed point or the iteration cap.
type PassManager struct {
	params *Params
	passes []Pass
}

// NewPassManager creates a pass manager running the given passes in
// order. The sequence is validated against the passes' declared
// preconditions; a violation fails with ErrInvalidPassOrder before
// any circuit is touched.
func NewPassManager(params *Params, passes ...Pass) (*PassManager, error) {
	if err := validateOrder(passes); err != nil {
		return nil, err
	}
	return &PassManager{
		params: params,
		passes: passes,
	}, nil
}

// NewDefaultPassManager creates a pass manager with the default
// optimization pipeline, plus routing when the params carry a
// coupling map and the given extra passes at the end.
func NewDefaultPassManager(params *Params, extra ...Pass) (
	*PassManager, error) {

	passes := []Pass{
		NewCollectCliffords(params),
		NewBasisTranslator(params),
		NewOptimize1qGates(params),
		NewCommutativeCancellation(params),
		NewConsolidateBlocks(params),
	}
	if params.Coupling != nil {
		passes = append(passes,
			NewRouting(params),
			NewBasisTranslator(params))
	}
	passes = append(passes, extra...)
	return NewPassManager(params, passes...)
}

// Result is the outcome of a compile invocation.
type Result struct {
	// Circuit is the rewritten DAG.
	Circuit *dag.Circuit

	// Permutation is the final logical-to-physical qubit permutation;
	// identity when no routing was requested.
	Permutation []int

	// Converged reports whether the pass sequence reached a fixed
	// point within the iteration cap.
	Converged bool

	// Iterations is the number of full pass-sequence iterations run.
	Iterations int

	// Warnings holds the non-fatal conditions hit during the
	// compile, such as ErrConvergenceLimit.
	Warnings []error

	// Stats records per-pass statistics.
	Stats *Stats
}

// Compile applies the pass sequence repeatedly until one full
// iteration reports zero mutations or the iteration cap is hit. The
// circuit is mutated in place and returned inside the result. Hitting
// the cap is a warning, not a failure: the circuit is still valid and
// equivalence-preserving.
func (pm *PassManager) Compile(c *dag.Circuit) (*Result, error) {
	diag := pm.params.Diagnostics
	result := &Result{
		Circuit: c,
		Stats:   NewStats(),
	}

	for iter := 0; iter < pm.params.MaxIterations; iter++ {
		anyMutated := false
		for _, pass := range pm.passes {
			start := time.Now()
			mutated, err := pass.Apply(c)
			elapsed := time.Since(start)
			result.Stats.Sample(pass.Name(), iter, mutated, elapsed, c)
			if err != nil {
				return nil, err
			}
			diag.Debug("pass applied",
				zap.String("pass", pass.Name()),
				zap.Int("iteration", iter),
				zap.Bool("mutated", mutated),
				zap.Int("ops", c.NumOps()),
				zap.Duration("elapsed", elapsed))
			anyMutated = anyMutated || mutated
		}
		result.Iterations = iter + 1
		if !anyMutated {
			result.Converged = true
			break
		}
	}
	if !result.Converged {
		diag.Warn("convergence limit reached",
			zap.Int("iterations", result.Iterations))
		result.Warnings = append(result.Warnings, ErrConvergenceLimit)
	}

	result.Permutation = identityPermutation(c.NumQubits())
	for _, pass := range pm.passes {
		if r, ok := pass.(interface{ Permutation() []int }); ok {
			if perm := r.Permutation(); perm != nil {
				result.Permutation = perm
			}
		}
	}
	return result, nil
}
