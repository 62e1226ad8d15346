//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package transpiler implements the pass-based circuit rewriting
// engine: basis translation, gate fusion and cancellation, two-qubit
// block consolidation, layout/routing, and the orchestrating pass
// manager.
package transpiler

import (
	"go.uber.org/zap"

	"github.com/markkurossi/qcc/gate"
)

// Params specify transpiler parameters.
type Params struct {
	Verbose bool

	// Tolerance is the numerical tolerance for parameter and matrix
	// equality.
	Tolerance float64

	// MaxIterations caps the number of full pass-sequence iterations
	// the pass manager runs before giving up on convergence.
	MaxIterations int

	// Basis is the target gateset.
	Basis gate.Basis

	// Coupling is the optional connectivity constraint; nil means
	// all-to-all.
	Coupling *CouplingMap

	// Diagnostics receives structured pass diagnostics.
	Diagnostics *zap.Logger
}

// NewParams returns new transpiler params, initialized with the
// default values.
func NewParams() *Params {
	return &Params{
		Tolerance:     gate.Tolerance,
		MaxIterations: 10,
		Basis:         gate.DefaultBasis(),
		Diagnostics:   zap.NewNop(),
	}
}

// inBasis tests if every operation is in the target gateset.
func (p *Params) inBasis(ops []gate.Op) bool {
	for _, op := range ops {
		if !p.Basis.Contains(op.Kind) {
			return false
		}
	}
	return true
}
