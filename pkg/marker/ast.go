// Copyright 2026 The pypimirror Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package marker evaluates PEP 508 environment marker expressions
// (e.g. `python_version < "3.0" and extra == "test"`) against a
// user-supplied environment, without invoking a general-purpose
// expression evaluator on the untrusted marker text.
package marker

// Expr is a boolean-valued marker expression node.
type Expr interface{ isExpr() }

// Or is a disjunction of clauses.
type Or struct{ Clauses []Expr }

// And is a conjunction of clauses.
type And struct{ Clauses []Expr }

// Compare is a single comparison: Left OP Right, where each operand is
// either a Var or a Literal.
type Compare struct {
	Left  Operand
	Op    string // "==", "!=", "<", "<=", ">", ">=", "in", "not in"
	Right Operand
}

func (Or) isExpr()      {}
func (And) isExpr()     {}
func (Compare) isExpr() {}

// Operand is either a marker Var or a string Literal.
type Operand interface{ isOperand() }

// Var is a marker environment variable reference, e.g. python_version.
type Var string

// Literal is a quoted string constant in the marker text.
type Literal string

func (Var) isOperand()     {}
func (Literal) isOperand() {}

// vars returns the set of Var names appearing anywhere in expr, in the
// order of their first appearance.
func vars(expr Expr) []string {
	var out []string
	seen := map[string]bool{}
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Or:
			for _, c := range n.Clauses {
				walk(c)
			}
		case And:
			for _, c := range n.Clauses {
				walk(c)
			}
		case Compare:
			if v, ok := n.Left.(Var); ok {
				add(string(v))
			}
			if v, ok := n.Right.(Var); ok {
				add(string(v))
			}
		}
	}
	walk(expr)
	return out
}

// firstComparisonFor returns the first Compare node (in textual/tree
// order) referencing the given variable, and whether the variable
// appears on the left or right of that comparison. Per spec, witness
// synthesis for an unbound variable is driven by the *first* matching
// comparison only.
func firstComparisonFor(expr Expr, name string) (cmp Compare, literal string, op string, found bool) {
	var walk func(Expr) bool
	walk = func(e Expr) bool {
		switch n := e.(type) {
		case Or:
			for _, c := range n.Clauses {
				if walk(c) {
					return true
				}
			}
		case And:
			for _, c := range n.Clauses {
				if walk(c) {
					return true
				}
			}
		case Compare:
			if v, ok := n.Left.(Var); ok && string(v) == name {
				if lit, ok := n.Right.(Literal); ok {
					cmp, literal, op, found = n, string(lit), n.Op, true
					return true
				}
			}
			if v, ok := n.Right.(Var); ok && string(v) == name {
				if lit, ok := n.Left.(Literal); ok {
					cmp, literal, op, found = n, string(lit), invertOp(n.Op), true
					return true
				}
			}
		}
		return false
	}
	walk(expr)
	return
}

// invertOp flips an operator for a `literal OP var` comparison so witness
// synthesis can treat it uniformly as `var OP' literal`.
func invertOp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	default:
		return op
	}
}
