//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package qasm translates between OpenQASM 2.0 programs and circuit
// DAGs. It covers the unitary subset the optimizer works on;
// classical control is rejected at this boundary.
package qasm

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/markkurossi/qcc/dag"
	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

// ErrUnsupportedControlFlow is returned for programs using
// measurement, reset, or classical conditions: those must be handled
// upstream of the optimizer.
var ErrUnsupportedControlFlow = errors.New("unsupported control flow")

// ErrSyntax is returned for malformed input programs.
var ErrSyntax = errors.New("syntax error")

// Program is a parsed circuit plus its register naming.
type Program struct {
	Circuit   *dag.Circuit
	Registers []Register
}

// Register names a contiguous range of qubit indices.
type Register struct {
	Name   string
	Size   int
	Offset int
}

// qubit resolves a register reference "name[idx]" to a flat qubit
// index.
func (p *Program) qubit(name string, idx int) (int, error) {
	for _, r := range p.Registers {
		if r.Name == name {
			if idx < 0 || idx >= r.Size {
				return 0, errors.Wrapf(ErrSyntax,
					"index %d out of range for %s[%d]", idx, r.Name, r.Size)
			}
			return r.Offset + idx, nil
		}
	}
	return 0, errors.Wrapf(ErrSyntax, "unknown register %s", name)
}

// Parse parses an OpenQASM 2.0 program.
func Parse(r io.Reader) (*Program, error) {
	var stmts []string
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteRune('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for _, stmt := range strings.Split(sb.String(), ";") {
		stmt = strings.TrimSpace(stmt)
		if len(stmt) > 0 {
			stmts = append(stmts, stmt)
		}
	}

	prog := &Program{}
	var ops []gate.Op
	var numQubits int

	for _, stmt := range stmts {
		switch {
		case strings.HasPrefix(stmt, "OPENQASM"):
			version := strings.TrimSpace(strings.TrimPrefix(stmt, "OPENQASM"))
			if version != "2.0" {
				return nil, errors.Wrapf(ErrSyntax,
					"unsupported version %s", version)
			}
		case strings.HasPrefix(stmt, "include"):
			// Standard library include; the gate vocabulary is
			// built in.
		case strings.HasPrefix(stmt, "qreg"):
			name, size, err := parseReg(strings.TrimPrefix(stmt, "qreg"))
			if err != nil {
				return nil, err
			}
			prog.Registers = append(prog.Registers, Register{
				Name:   name,
				Size:   size,
				Offset: numQubits,
			})
			numQubits += size
		case strings.HasPrefix(stmt, "creg"):
			// Classical registers are only used by control flow,
			// which is rejected below.
		case strings.HasPrefix(stmt, "measure"),
			strings.HasPrefix(stmt, "reset"),
			strings.HasPrefix(stmt, "if"):
			return nil, errors.Wrapf(ErrUnsupportedControlFlow,
				"%q", stmt)
		case strings.HasPrefix(stmt, "barrier"):
			// Barriers carry no unitary semantics.
		default:
			op, err := prog.parseOp(stmt)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	prog.Circuit = dag.FromOps(numQubits, ops)
	return prog, nil
}

// parseReg parses "name[size]".
func parseReg(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexRune(s, '[')
	end := strings.IndexRune(s, ']')
	if open <= 0 || end != len(s)-1 {
		return "", 0, errors.Wrapf(ErrSyntax, "bad register %q", s)
	}
	size, err := strconv.Atoi(s[open+1 : end])
	if err != nil || size <= 0 {
		return "", 0, errors.Wrapf(ErrSyntax, "bad register size %q", s)
	}
	return strings.TrimSpace(s[:open]), size, nil
}

// parseOp parses a gate application "name(params) arg, arg".
func (p *Program) parseOp(stmt string) (gate.Op, error) {
	var op gate.Op

	name := stmt
	rest := ""
	for i, r := range stmt {
		if r == ' ' || r == '\t' || r == '(' {
			name = stmt[:i]
			rest = stmt[i:]
			break
		}
	}
	var params []float64
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "(") {
		end := strings.IndexRune(rest, ')')
		if end < 0 {
			return op, errors.Wrapf(ErrSyntax, "unterminated params: %q",
				stmt)
		}
		for _, expr := range strings.Split(rest[1:end], ",") {
			v, err := evalExpr(expr)
			if err != nil {
				return op, err
			}
			params = append(params, v)
		}
		rest = rest[end+1:]
	}

	var qubits []int
	for _, arg := range strings.Split(rest, ",") {
		arg = strings.TrimSpace(arg)
		if len(arg) == 0 {
			continue
		}
		open := strings.IndexRune(arg, '[')
		end := strings.IndexRune(arg, ']')
		if open <= 0 || end != len(arg)-1 {
			return op, errors.Wrapf(ErrSyntax, "bad argument %q", arg)
		}
		idx, err := strconv.Atoi(arg[open+1 : end])
		if err != nil {
			return op, errors.Wrapf(ErrSyntax, "bad argument %q", arg)
		}
		q, err := p.qubit(strings.TrimSpace(arg[:open]), idx)
		if err != nil {
			return op, err
		}
		for _, seen := range qubits {
			if q == seen {
				return op, errors.Wrapf(ErrSyntax,
					"repeated qubit argument in %q", stmt)
			}
		}
		qubits = append(qubits, q)
	}

	kind, ok := gate.KindByName(strings.ToLower(name))
	if !ok {
		// OpenQASM u1 is a phase gate.
		if strings.ToLower(name) == "u1" {
			kind = gate.Phase
		} else {
			return op, errors.Wrapf(gate.ErrUnsupportedGate, "%q", name)
		}
	}
	if len(qubits) != kind.NumQubits() {
		return op, errors.Wrapf(ErrSyntax,
			"%s needs %d qubits, got %d", kind, kind.NumQubits(),
			len(qubits))
	}
	if len(params) != kind.NumParams() {
		return op, errors.Wrapf(ErrSyntax,
			"%s needs %d params, got %d", kind, kind.NumParams(),
			len(params))
	}
	op.Kind = kind
	op.Qubits = qubits
	op.Params = params
	return op, nil
}

// evalExpr evaluates a parameter expression: float literals, pi, and
// the operators + - * / with unary minus.
func evalExpr(s string) (float64, error) {
	e := &exprParser{input: strings.TrimSpace(s)}
	v, err := e.addSub()
	if err != nil {
		return 0, err
	}
	e.skipSpace()
	if e.pos != len(e.input) {
		return 0, errors.Wrapf(ErrSyntax, "trailing input in %q", s)
	}
	return v, nil
}

type exprParser struct {
	input string
	pos   int
}

func (e *exprParser) skipSpace() {
	for e.pos < len(e.input) && (e.input[e.pos] == ' ' ||
		e.input[e.pos] == '\t') {
		e.pos++
	}
}

func (e *exprParser) addSub() (float64, error) {
	v, err := e.mulDiv()
	if err != nil {
		return 0, err
	}
	for {
		e.skipSpace()
		if e.pos >= len(e.input) {
			return v, nil
		}
		switch e.input[e.pos] {
		case '+':
			e.pos++
			r, err := e.mulDiv()
			if err != nil {
				return 0, err
			}
			v += r
		case '-':
			e.pos++
			r, err := e.mulDiv()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

func (e *exprParser) mulDiv() (float64, error) {
	v, err := e.unary()
	if err != nil {
		return 0, err
	}
	for {
		e.skipSpace()
		if e.pos >= len(e.input) {
			return v, nil
		}
		switch e.input[e.pos] {
		case '*':
			e.pos++
			r, err := e.unary()
			if err != nil {
				return 0, err
			}
			v *= r
		case '/':
			e.pos++
			r, err := e.unary()
			if err != nil {
				return 0, err
			}
			v /= r
		default:
			return v, nil
		}
	}
}

func (e *exprParser) unary() (float64, error) {
	e.skipSpace()
	if e.pos < len(e.input) && e.input[e.pos] == '-' {
		e.pos++
		v, err := e.unary()
		return -v, err
	}
	return e.atom()
}

func (e *exprParser) atom() (float64, error) {
	e.skipSpace()
	if e.pos >= len(e.input) {
		return 0, errors.Wrapf(ErrSyntax, "unexpected end of %q", e.input)
	}
	if e.input[e.pos] == '(' {
		e.pos++
		v, err := e.addSub()
		if err != nil {
			return 0, err
		}
		e.skipSpace()
		if e.pos >= len(e.input) || e.input[e.pos] != ')' {
			return 0, errors.Wrapf(ErrSyntax, "missing ) in %q", e.input)
		}
		e.pos++
		return v, nil
	}
	if strings.HasPrefix(e.input[e.pos:], "pi") {
		e.pos += 2
		return math.Pi, nil
	}
	start := e.pos
	for e.pos < len(e.input) {
		c := e.input[e.pos]
		if c >= '0' && c <= '9' || c == '.' {
			e.pos++
			continue
		}
		// Exponent, with an optional sign.
		if (c == 'e' || c == 'E') && e.pos > start {
			e.pos++
			if e.pos < len(e.input) &&
				(e.input[e.pos] == '+' || e.input[e.pos] == '-') {
				e.pos++
			}
			continue
		}
		break
	}
	if start == e.pos {
		return 0, errors.Wrapf(ErrSyntax, "bad expression %q", e.input)
	}
	return strconv.ParseFloat(e.input[start:e.pos], 64)
}
