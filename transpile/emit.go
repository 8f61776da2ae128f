package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/cx/shaderast"
	"github.com/gogpu/cx/shadervar"
)

type stage int

const (
	stageVertex stage = iota
	stagePixel
)

// slCx is the rewrite context threaded through expression emission: it
// knows which stage is currently being emitted (so Geometry/Instance
// references resolve to _inst/_geom in vertex but _vary in pixel) and
// carries the call-rewrite table.
type slCx struct {
	shader   *shaderast.Shader
	stage    stage
	autoVary []string
	rewrites map[string]CallRewriteFunc
}

func (sc *slCx) isAutoVary(name string) bool {
	for _, v := range sc.autoVary {
		if v == name {
			return true
		}
	}
	return false
}

func wgslType(t shadervar.Type) string {
	switch t {
	case shadervar.Float:
		return "f32"
	case shadervar.Vec2:
		return "vec2<f32>"
	case shadervar.Vec3:
		return "vec3<f32>"
	case shadervar.Vec4:
		return "vec4<f32>"
	case shadervar.Mat2:
		return "mat2x2<f32>"
	case shadervar.Mat3:
		return "mat3x3<f32>"
	case shadervar.Mat4:
		return "mat4x4<f32>"
	default:
		return "f32"
	}
}

func scopeFieldsByStore(shader *shaderast.Shader, store shadervar.Store) []shadervar.Variable {
	var out []shadervar.Variable
	for _, v := range shader.Vars {
		if v.Store == store {
			out = append(out, v)
		}
	}
	return out
}

func writeStruct(b *strings.Builder, name string, fields []shadervar.Variable) {
	fmt.Fprintf(b, "struct %s {\n", name)
	for _, f := range fields {
		fmt.Fprintf(b, "    %s: %s,\n", f.Name, wgslType(f.Type))
	}
	b.WriteString("}\n\n")
}

// writeScopeStructs emits _Geom, _Inst, _UniCx, _UniDl, _UniDr, _Loc, and
// _Vary (auto-varyings plus the obligatory clip-space position).
func writeScopeStructs(b *strings.Builder, shader *shaderast.Shader, autoVary []string) {
	writeStruct(b, "_Geom", scopeFieldsByStore(shader, shadervar.Geometry))
	writeStruct(b, "_Inst", scopeFieldsByStore(shader, shadervar.Instance))
	writeStruct(b, "_UniCx", scopeFieldsByStore(shader, shadervar.UniformCx))
	writeStruct(b, "_UniDl", scopeFieldsByStore(shader, shadervar.UniformDl))
	writeStruct(b, "_UniDr", scopeFieldsByStore(shader, shadervar.Uniform))
	writeStruct(b, "_Loc", scopeFieldsByStore(shader, shadervar.Local))

	b.WriteString("struct _Vary {\n")
	b.WriteString("    @builtin(position) _pos: vec4<f32>,\n")
	for i, name := range autoVary {
		v, ok := shader.FindVar(name)
		if !ok {
			continue
		}
		fmt.Fprintf(b, "    @location(%d) %s: %s,\n", i, name, wgslType(v.Type))
	}
	b.WriteString("}\n\n")
}

// writeUniformBindings binds _UniCx/_UniDl/_UniDr as real module-scope
// uniform resources at the bind group indices exec.CreatePipeline builds
// layouts for (group 0/1/2, binding 0) and exec.execCall binds buffers
// to (BindGroupCx/BindGroupDl/BindGroupDr) — the only way a WGSL
// function can actually read the uniform data the executor uploads,
// since a plain function parameter with no @group/@binding attribute
// is not bound to anything.
func writeUniformBindings(b *strings.Builder) {
	b.WriteString("@group(0) @binding(0) var<uniform> _uni_cx: _UniCx;\n")
	b.WriteString("@group(1) @binding(0) var<uniform> _uni_dl: _UniDl;\n")
	b.WriteString("@group(2) @binding(0) var<uniform> _uni_dr: _UniDr;\n")
	b.WriteString("\n")
}

// writeTextureBindings binds each texture variable to a module-scope
// resource at an increasing slot index, since the target SL (WGSL) can
// only address textures and samplers as global bindings, not struct
// fields.
func writeTextureBindings(b *strings.Builder, shader *shaderast.Shader) {
	slot := uint32(0)
	for _, v := range shader.Vars {
		if v.Store != shadervar.Texture {
			continue
		}
		fmt.Fprintf(b, "@group(3) @binding(%d) var _tex_%s: texture_2d<f32>;\n", slot, v.Name)
		slot++
		fmt.Fprintf(b, "@group(3) @binding(%d) var _tex_%s_sampler: sampler;\n", slot, v.Name)
		slot++
	}
	b.WriteString("\n")
}

// fixedParams threads the geometry/instance/varying/local scopes through
// every user function. _uni_cx/_uni_dl/_uni_dr are deliberately not part
// of this list: they are module-scope var<uniform> bindings (see
// writeUniformBindings), visible to every function without being passed
// down, the same way WGSL's own global resource bindings work.
const fixedParams = "_geom: _Geom, _inst: _Inst, _vary: _Vary, _loc: _Loc"

// writeFunction emits fn as a plain WGSL function, threading the fixed
// scope parameter list ahead of its own arguments. User function names
// are prefixed with _fn_ to avoid colliding with WGSL reserved words such
// as "vertex".
func writeFunction(b *strings.Builder, sc *slCx, fn *shaderast.Function) {
	fmt.Fprintf(b, "fn _fn_%s(%s) -> %s {\n", fn.Name, fixedParams, wgslType(fn.ReturnType))
	for _, s := range fn.Body {
		b.WriteString("    ")
		b.WriteString(stmtString(sc, s))
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func callArgs() string {
	return "_geom, _inst, _vary, _loc"
}

func exprString(sc *slCx, e shaderast.Expr) string {
	switch n := e.(type) {
	case shaderast.Lit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case shaderast.VarRef:
		return varRefString(sc, n.Name)
	case shaderast.BinOp:
		return fmt.Sprintf("(%s %s %s)", exprString(sc, n.Left), n.Op, exprString(sc, n.Right))
	case shaderast.Field:
		return fmt.Sprintf("%s.%s", exprString(sc, n.Base), n.Name)
	case shaderast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprString(sc, a)
		}
		if rw, ok := sc.rewrites[n.Func]; ok {
			return rw(args)
		}
		allArgs := append([]string{callArgs()}, args...)
		return fmt.Sprintf("_fn_%s(%s)", n.Func, strings.Join(allArgs, ", "))
	default:
		return "/* unknown expr */"
	}
}

// varRefString applies the per-store rewrite rule from the transpiler
// contract: uniforms cast through their aligned type, instance/geometry
// references resolve to _inst/_geom in the vertex stage and to the
// synthesized varying in the pixel stage, textures and locals address
// their own scope.
func varRefString(sc *slCx, name string) string {
	v, ok := sc.shader.FindVar(name)
	if !ok {
		return name
	}
	switch v.Store {
	case shadervar.UniformCx:
		return fmt.Sprintf("%s(_uni_cx.%s)", wgslType(v.Type), name)
	case shadervar.UniformDl:
		return fmt.Sprintf("%s(_uni_dl.%s)", wgslType(v.Type), name)
	case shadervar.Uniform:
		return fmt.Sprintf("%s(_uni_dr.%s)", wgslType(v.Type), name)
	case shadervar.Instance:
		if sc.stage == stagePixel {
			return "_vary." + name
		}
		return "_inst." + name
	case shadervar.Geometry:
		if sc.stage == stagePixel {
			return "_vary." + name
		}
		return "_geom." + name
	case shadervar.Texture:
		return "_tex." + name
	case shadervar.Local:
		return "_loc." + name
	case shadervar.Varying:
		return "_vary." + name
	default:
		return name
	}
}

func stmtString(sc *slCx, s shaderast.Stmt) string {
	switch n := s.(type) {
	case shaderast.ExprStmt:
		return exprString(sc, n.Expr) + ";"
	case shaderast.VarDecl:
		return fmt.Sprintf("var %s: %s = %s;", n.Name, wgslType(n.Type), exprString(sc, n.Value))
	case shaderast.Assign:
		return fmt.Sprintf("%s = %s;", exprString(sc, n.Target), exprString(sc, n.Value))
	case shaderast.Return:
		return fmt.Sprintf("return %s;", exprString(sc, n.Value))
	default:
		return "/* unknown stmt */"
	}
}

// writeVertexEntry synthesizes the @vertex entry point: it unpacks _Geom
// and _Inst from the attribute buffers, calls the user vertex function,
// stores the clip-space position, copies each auto-varying from its
// geometry/instance source, and returns the varying struct.
func writeVertexEntry(b *strings.Builder, shader *shaderast.Shader, autoVary []string) {
	b.WriteString("@vertex\n")
	b.WriteString("fn _vertex_shader(_geom: _Geom, _inst: _Inst) -> _Vary {\n")
	b.WriteString("    var _vary: _Vary;\n")
	b.WriteString("    var _loc: _Loc;\n")
	b.WriteString("    _vary._pos = _fn_vertex(_geom, _inst, _vary, _loc);\n")
	for _, name := range autoVary {
		v, ok := shader.FindVar(name)
		if !ok {
			continue
		}
		src := "_inst." + name
		if v.Store == shadervar.Geometry {
			src = "_geom." + name
		}
		fmt.Fprintf(b, "    _vary.%s = %s;\n", name, src)
	}
	b.WriteString("    return _vary;\n")
	b.WriteString("}\n\n")
}

// writeFragmentEntry synthesizes the @fragment entry point: declare
// locals, return the user pixel function's result. _uni_cx/_uni_dl/
// _uni_dr are not declared here: _fn_pixel reads them straight off the
// module-scope var<uniform> bindings (writeUniformBindings), the same
// buffers the vertex stage reads, not a zero-initialized stand-in.
// _geom/_inst stay as zero locals: pixel-stage references to a
// Geometry/Instance variable are rewritten to _vary.<name> by
// varRefString, so _fn_pixel's _geom/_inst parameters go unread, but the
// fixed parameter list still requires values to pass.
func writeFragmentEntry(b *strings.Builder) {
	b.WriteString("@fragment\n")
	b.WriteString("fn _fragment_shader(_vary: _Vary) -> @location(0) vec4<f32> {\n")
	b.WriteString("    var _loc: _Loc;\n")
	b.WriteString("    var _geom: _Geom;\n")
	b.WriteString("    var _inst: _Inst;\n")
	b.WriteString("    return _fn_pixel(_geom, _inst, _vary, _loc);\n")
	b.WriteString("}\n")
}
