// Package shaderast defines the parsed shader tree consumed by the
// transpiler: variable declarations tagged by store, function bodies, and
// the small expression/statement grammar needed to walk call dependencies
// and detect which per-vertex variables a pixel-stage function touches.
//
// shaderast does not itself parse shader source text; it is the target
// type a front-end (outside this module's scope) builds, and the type the
// transpile package consumes.
package shaderast

import "github.com/gogpu/cx/shadervar"

// Shader is a parsed, classified shader: its flat variable list plus the
// vertex/pixel entry points and any helper functions they call.
type Shader struct {
	Name      string
	Vars      []shadervar.Variable
	Functions []*Function
}

// FindVar returns the variable declared with the given name, or false if
// none exists.
func (s *Shader) FindVar(name string) (shadervar.Variable, bool) {
	for _, v := range s.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return shadervar.Variable{}, false
}

// FindFunction returns the function declared with the given name, or nil
// if none exists.
func (s *Shader) FindFunction(name string) *Function {
	for _, f := range s.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Function is one shader function: the two required entries are named
// "vertex" (returns a clip-space position) and "pixel" (returns a vec4
// color); any other function is a helper reachable from one or both.
type Function struct {
	Name       string
	ReturnType shadervar.Type
	Body       []Stmt
}

// Expr is a shader expression node.
type Expr interface{ isExpr() }

// VarRef references a declared variable by name; its store is resolved by
// looking it up on the enclosing Shader.
type VarRef struct{ Name string }

// Lit is a literal constant.
type Lit struct{ Value float64 }

// Call invokes a named function (a helper, or a built-in such as
// "sample2d") with the given argument expressions.
type Call struct {
	Func string
	Args []Expr
}

// BinOp is a binary operation; Op is the literal operator text ("+", "*",
// ...), carried through unchanged to the target source.
type BinOp struct {
	Op          string
	Left, Right Expr
}

// Field accesses a member of a struct-valued expression (e.g. swizzles,
// or fields of a user-defined struct variable).
type Field struct {
	Base Expr
	Name string
}

func (VarRef) isExpr() {}
func (Lit) isExpr()    {}
func (Call) isExpr()   {}
func (BinOp) isExpr()  {}
func (Field) isExpr()  {}

// Stmt is a shader statement node.
type Stmt interface{ isStmt() }

// ExprStmt evaluates an expression for its side effects (typically a Call).
type ExprStmt struct{ Expr Expr }

// VarDecl declares and initializes a local variable.
type VarDecl struct {
	Name  string
	Type  shadervar.Type
	Value Expr
}

// Assign assigns a new value to an already-declared local or to a field of
// one.
type Assign struct {
	Target Expr
	Value  Expr
}

// Return returns a value from the enclosing function.
type Return struct{ Value Expr }

func (ExprStmt) isStmt() {}
func (VarDecl) isStmt()  {}
func (Assign) isStmt()   {}
func (Return) isStmt()   {}
