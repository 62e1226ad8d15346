//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package qasm

import (
	"fmt"
	"io"

	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

// Write serializes the circuit as an OpenQASM 2.0 program over a
// single register q.
func Write(w io.Writer, c *dag.Circuit) error {
	if _, err := fmt.Fprintf(w, "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "qreg q[%d];\n", c.NumQubits()); err != nil {
		return err
	}
	for _, op := range c.Ops() {
		if err := writeOp(w, op); err != nil {
			return err
		}
	}
	return nil
}

func writeOp(w io.Writer, op gate.Op) error {
	if op.Kind == gate.Unitary {
		return errors.Wrap(gate.ErrUnsupportedGate,
			"generic unitary has no qasm form; translate to a basis first")
	}
	name := op.Kind.String()
	if op.Kind == gate.Phase {
		name = "u1"
	}
	if _, err := fmt.Fprintf(w, "%s", name); err != nil {
		return err
	}
	for i, p := range op.Params {
		var err error
		if i == 0 {
			_, err = fmt.Fprintf(w, "(%.17g", p)
		} else {
			_, err = fmt.Fprintf(w, ",%.17g", p)
		}
		if err != nil {
			return err
		}
	}
	if len(op.Params) > 0 {
		if _, err := fmt.Fprint(w, ")"); err != nil {
			return err
		}
	}
	for i, q := range op.Qubits {
		sep := " "
		if i > 0 {
			sep = ","
		}
		if _, err := fmt.Fprintf(w, "%sq[%d]", sep, q); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, ";")
	return err
}
