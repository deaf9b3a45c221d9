/*
NAME
  ast.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package expr

import (
	"fmt"
	"math"
)

// nodeKind tags the arms of the Node sum type: constant, the variable t,
// unary minus, or a binary operator.
type nodeKind int

const (
	nodeConst nodeKind = iota
	nodeVar
	nodeNeg
	nodeBinary
)

// op identifies a binary operator.
type op int

const (
	opAdd op = iota
	opSub
	opMul
	opDiv
	opMod
	opPow
)

func (o op) String() string {
	switch o {
	case opAdd:
		return "+"
	case opSub:
		return "-"
	case opMul:
		return "*"
	case opDiv:
		return "/"
	case opMod:
		return "%"
	case opPow:
		return "^"
	default:
		return "?"
	}
}

// Node is one immutable AST node. The tree is pure data; evaluation is a
// straight recursive walk.
type Node struct {
	kind  nodeKind
	value float64 // nodeConst
	op    op       // nodeBinary
	a, b  *Node    // nodeNeg uses a only; nodeBinary uses a and b.
}

// Expr is a parsed expression, retaining the source text for diagnostics.
type Expr struct {
	root *Node
	src  string
}

// Source returns the original expression text, for diagnostics.
func (e *Expr) Source() string { return e.src }

// eval recursively evaluates n at the given t, returning an error naming
// the offending expression on division/modulo by a zero-magnitude divisor.
func (e *Expr) eval(n *Node, t float64) (float64, error) {
	switch n.kind {
	case nodeConst:
		return n.value, nil
	case nodeVar:
		return t, nil
	case nodeNeg:
		v, err := e.eval(n.a, t)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case nodeBinary:
		a, err := e.eval(n.a, t)
		if err != nil {
			return 0, err
		}
		b, err := e.eval(n.b, t)
		if err != nil {
			return 0, err
		}
		switch n.op {
		case opAdd:
			return a + b, nil
		case opSub:
			return a - b, nil
		case opMul:
			return a * b, nil
		case opDiv:
			if b == 0 {
				return 0, fmt.Errorf("division by zero evaluating expression %q at t=%g", e.src, t)
			}
			return a / b, nil
		case opMod:
			if b == 0 {
				return 0, fmt.Errorf("modulo by zero evaluating expression %q at t=%g", e.src, t)
			}
			return math.Mod(a, b), nil
		case opPow:
			return math.Pow(a, b), nil
		}
	}
	return 0, fmt.Errorf("internal error: unknown node kind evaluating %q", e.src)
}

// Eval evaluates the expression at the given frame t, returning a finite
// floating-point value or a runtime error.
func (e *Expr) Eval(t float64) (float64, error) {
	v, err := e.eval(e.root, t)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expression %q produced non-finite value at t=%g", e.src, t)
	}
	return v, nil
}
