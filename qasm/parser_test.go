//
// parser_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package qasm

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

var bellProgram = `
OPENQASM 2.0;
include "qelib1.inc";
// Bell-state preparation.
qreg q[2];
h q[0];
cx q[0],q[1];
`

func TestParse(t *testing.T) {
	prog, err := Parse(strings.NewReader(bellProgram))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Circuit.NumQubits() != 2 {
		t.Errorf("NumQubits=%d", prog.Circuit.NumQubits())
	}
	ops := prog.Circuit.Ops()
	if len(ops) != 2 {
		t.Fatalf("%d ops", len(ops))
	}
	if ops[0].Kind != gate.H || ops[0].Qubits[0] != 0 {
		t.Errorf("op 0: %s", ops[0])
	}
	if ops[1].Kind != gate.CX || ops[1].Qubits[0] != 0 ||
		ops[1].Qubits[1] != 1 {
		t.Errorf("op 1: %s", ops[1])
	}
}

func TestParseRegisters(t *testing.T) {
	prog, err := Parse(strings.NewReader(`
OPENQASM 2.0;
qreg a[2];
qreg b[3];
x b[1];
`))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Circuit.NumQubits() != 5 {
		t.Errorf("NumQubits=%d", prog.Circuit.NumQubits())
	}
	// b[1] follows register a in the flat numbering.
	ops := prog.Circuit.Ops()
	if len(ops) != 1 || ops[0].Qubits[0] != 3 {
		t.Errorf("register offsets broken: %v", ops)
	}
}

func TestParseParams(t *testing.T) {
	prog, err := Parse(strings.NewReader(`
OPENQASM 2.0;
qreg q[1];
rz(pi/2) q[0];
rx(-pi/4) q[0];
ry(3*pi/4) q[0];
u1(0.5) q[0];
rz(pi/2 + pi/4) q[0];
`))
	if err != nil {
		t.Fatal(err)
	}
	ops := prog.Circuit.Ops()
	want := []struct {
		kind  gate.Kind
		param float64
	}{
		{gate.RZ, math.Pi / 2},
		{gate.RX, -math.Pi / 4},
		{gate.RY, 3 * math.Pi / 4},
		{gate.Phase, 0.5},
		{gate.RZ, 3 * math.Pi / 4},
	}
	if len(ops) != len(want) {
		t.Fatalf("%d ops", len(ops))
	}
	for i, w := range want {
		if ops[i].Kind != w.kind ||
			math.Abs(ops[i].Params[0]-w.param) > 1e-15 {
			t.Errorf("op %d: %s", i, ops[i])
		}
	}
}

func TestParseControlFlow(t *testing.T) {
	for _, stmt := range []string{
		"measure q[0] -> c[0]",
		"reset q[0]",
		"if (c == 1) x q[0]",
	} {
		src := "OPENQASM 2.0;\nqreg q[1];\ncreg c[1];\n" + stmt + ";\n"
		_, err := Parse(strings.NewReader(src))
		if !errors.Is(err, ErrUnsupportedControlFlow) {
			t.Errorf("%q: err=%v", stmt, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
		err error
	}{
		{"OPENQASM 3.0;\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[0];\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[1];\nx q[5];\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[1];\nx r[0];\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[2];\ncx q[0];\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[2];\ncx q[0],q[0];\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[3];\nccx q[0],q[2],q[2];\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[1];\nrz q[0];\n", ErrSyntax},
		{"OPENQASM 2.0;\nqreg q[1];\nfrobnicate q[0];\n",
			gate.ErrUnsupportedGate},
	}
	for idx, test := range tests {
		_, err := Parse(strings.NewReader(test.src))
		if !errors.Is(err, test.err) {
			t.Errorf("test %d: err=%v", idx, err)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	prog, err := Parse(strings.NewReader(`
OPENQASM 2.0;
qreg q[3];
h q[0];
rz(0.25) q[1];
cx q[0],q[2];
u1(1.5) q[2];
swap q[1],q[2];
`))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, prog.Circuit); err != nil {
		t.Fatal(err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	ops := prog.Circuit.Ops()
	bops := back.Circuit.Ops()
	if len(ops) != len(bops) {
		t.Fatalf("%d ops, expected %d", len(bops), len(ops))
	}
	for i := range ops {
		if !ops[i].Equal(bops[i], gate.Tolerance) {
			t.Errorf("op %d: %s vs %s", i, bops[i], ops[i])
		}
	}
}

func TestWriteUnitary(t *testing.T) {
	prog, err := Parse(strings.NewReader(
		"OPENQASM 2.0;\nqreg q[1];\n"))
	if err != nil {
		t.Fatal(err)
	}
	prog.Circuit.Append(gate.NewUnitary(gate.MatrixH(), 0))
	var buf bytes.Buffer
	if !errors.Is(Write(&buf, prog.Circuit), gate.ErrUnsupportedGate) {
		t.Errorf("generic unitary serialized")
	}
}

func TestEvalExpr(t *testing.T) {
	tests := []struct {
		expr string
		v    float64
	}{
		{"pi", math.Pi},
		{"-pi/2", -math.Pi / 2},
		{"2*pi", 2 * math.Pi},
		{"pi/2 - pi/4", math.Pi / 4},
		{"(1 + 2) * 0.5", 1.5},
		{"--1", 1},
		{"1e-5", 1e-5},
		{"2.5e+2", 250},
		{"1E-2 * pi", math.Pi / 100},
		{"1e-5 - 2", 1e-5 - 2},
	}
	for _, test := range tests {
		v, err := evalExpr(test.expr)
		if err != nil {
			t.Errorf("%q: %s", test.expr, err)
			continue
		}
		if math.Abs(v-test.v) > 1e-15 {
			t.Errorf("%q = %v, expected %v", test.expr, v, test.v)
		}
	}
	if _, err := evalExpr("pi +"); err == nil {
		t.Errorf("trailing operator accepted")
	}
	if _, err := evalExpr("frob"); err == nil {
		t.Errorf("unknown symbol accepted")
	}
}
