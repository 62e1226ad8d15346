//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package transpiler

import (
	"fmt"

	"github.com/markkurossi/qcc/dag"
	"github.com/pkg/errors"
)

// ErrInvalidPassOrder is returned at configuration time when a pass
// sequence violates a pass's declared precondition.
var ErrInvalidPassOrder = errors.New("invalid pass order")

// ErrConvergenceLimit reports that the pass sequence did not reach a
// fixed point within the iteration cap. It is a warning: the circuit
// is still valid and equivalence-preserving, just not guaranteed
// locally optimal.
var ErrConvergenceLimit = errors.New("convergence limit reached")

// Property names a circuit condition a pass can require or establish.
type Property byte

// Pass properties.
const (
	// InTargetBasis holds when every operation is a member of the
	// target gateset.
	InTargetBasis Property = iota
)

func (p Property) String() string {
	switch p {
	case InTargetBasis:
		return "in-target-basis"
	default:
		return fmt.Sprintf("{Property %d}", p)
	}
}

// Pass is one rewrite over the circuit DAG. Apply mutates the DAG in
// place and reports whether anything changed; it is idempotent when
// the DAG is already a fixed point for the pass.
type Pass interface {
	Name() string
	Apply(c *dag.Circuit) (bool, error)
}

// conditional is implemented by passes with ordering preconditions or
// postconditions.
type conditional interface {
	Requires() []Property
	Establishes() []Property
}

// validateOrder checks pass preconditions against the properties
// established by earlier passes in the sequence.
func validateOrder(passes []Pass) error {
	have := make(map[Property]bool)
	for _, p := range passes {
		cond, ok := p.(conditional)
		if !ok {
			continue
		}
		for _, req := range cond.Requires() {
			if !have[req] {
				return errors.Wrapf(ErrInvalidPassOrder,
					"pass %s requires %s, not established by any earlier pass",
					p.Name(), req)
			}
		}
		for _, est := range cond.Establishes() {
			have[est] = true
		}
	}
	return nil
}
