package shaderast

import (
	"fmt"

	"github.com/gogpu/cx/shadervar"
)

// exprWalk invokes visit for every expression node reachable from e,
// including e itself, in a pre-order traversal.
func exprWalk(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case Call:
		for _, a := range n.Args {
			exprWalk(a, visit)
		}
	case BinOp:
		exprWalk(n.Left, visit)
		exprWalk(n.Right, visit)
	case Field:
		exprWalk(n.Base, visit)
	}
}

// stmtWalk invokes visit for every expression reachable from body.
func stmtWalk(body []Stmt, visit func(Expr)) {
	for _, s := range body {
		switch n := s.(type) {
		case ExprStmt:
			exprWalk(n.Expr, visit)
		case VarDecl:
			exprWalk(n.Value, visit)
		case Assign:
			exprWalk(n.Target, visit)
			exprWalk(n.Value, visit)
		case Return:
			exprWalk(n.Value, visit)
		}
	}
}

// CallsOf returns the names of every function called directly within
// body, in first-appearance order, deduplicated.
func CallsOf(body []Stmt) []string {
	seen := map[string]bool{}
	var out []string
	stmtWalk(body, func(e Expr) {
		if c, ok := e.(Call); ok && !seen[c.Func] {
			seen[c.Func] = true
			out = append(out, c.Func)
		}
	})
	return out
}

// VarRefsOf returns the names of every variable referenced anywhere
// within body, in first-appearance order, deduplicated.
func VarRefsOf(body []Stmt) []string {
	seen := map[string]bool{}
	var out []string
	stmtWalk(body, func(e Expr) {
		if v, ok := e.(VarRef); ok && !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v.Name)
		}
	})
	return out
}

// OrderedFunctions walks the dependency graph rooted at the function
// named entryName, depth-first, and returns the helper functions it
// transitively calls followed by the entry function itself, so that
// callees are emitted before their callers. Functions already present in
// emitted are skipped and not re-emitted; every function this call does
// emit is recorded into emitted before returning, so that a second
// traversal rooted at a different entry (e.g. pixel after vertex) does
// not duplicate shared helpers.
func OrderedFunctions(shader *Shader, entryName string, emitted map[string]bool) ([]*Function, error) {
	entry := shader.FindFunction(entryName)
	if entry == nil {
		return nil, fmt.Errorf("shaderast: shader %q has no %q function", shader.Name, entryName)
	}
	var order []*Function
	var visit func(name string, stack map[string]bool) error
	visit = func(name string, stack map[string]bool) error {
		if emitted[name] {
			return nil
		}
		if stack[name] {
			return fmt.Errorf("shaderast: cyclic shader function call through %q", name)
		}
		fn := shader.FindFunction(name)
		if fn == nil {
			// Not a user function: treat as a built-in (e.g. sample2d) with
			// no further dependencies.
			return nil
		}
		stack[name] = true
		for _, callee := range CallsOf(fn.Body) {
			if err := visit(callee, stack); err != nil {
				return err
			}
		}
		delete(stack, name)
		emitted[name] = true
		order = append(order, fn)
		return nil
	}
	if err := visit(entryName, map[string]bool{}); err != nil {
		return nil, err
	}
	return order, nil
}

// pixelCone returns the pixel entry function plus every helper function it
// transitively calls, independent of any emitted-function bookkeeping
// from a prior vertex traversal. Used to scope auto-varying detection to
// exactly the pixel dependency cone, per the transpiler's auto-varying
// lift rule.
func pixelCone(shader *Shader, pixelEntryName string) ([]*Function, error) {
	return OrderedFunctions(shader, pixelEntryName, map[string]bool{})
}

// AutoVaryings returns the names of every Geometry- or Instance-stored
// variable referenced anywhere within the pixel entry's dependency cone,
// deduplicated, in the order the cone is walked: callee bodies before
// their callers, each body in first-appearance order. These are the
// varyings the transpiler must
// synthesize (auto-lift) because the pixel stage has no direct access to
// per-vertex buffers.
func AutoVaryings(shader *Shader, pixelEntryName string) ([]string, error) {
	cone, err := pixelCone(shader, pixelEntryName)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, fn := range cone {
		for _, name := range VarRefsOf(fn.Body) {
			v, ok := shader.FindVar(name)
			if !ok {
				continue
			}
			if v.Store != shadervar.Geometry && v.Store != shadervar.Instance {
				continue
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}
