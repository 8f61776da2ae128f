// Package transpile turns a classified shaderast.Shader into WGSL source
// plus the metadata the frame executor needs to bind buffers against it:
// instance slot count, cached rect/named attribute offsets, and the list
// of auto-lifted varyings.
//
// The emission pipeline mirrors the scope-struct calling convention every
// shader in this runtime shares: the scope structs _Geom, _Inst, _Vary and
// _Loc threaded through every user function, the uniform scopes _UniCx,
// _UniDl and _UniDr bound as module-scope var<uniform> resources, plus
// module-scope texture bindings addressed as _tex_<name>.
package transpile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/cx/shaderast"
	"github.com/gogpu/cx/shadervar"
	"github.com/gogpu/naga"
)

// ErrShaderCompile wraps a target-SL compilation failure. Transpile still
// returns a usable (empty-pipeline) Compiled alongside this error so that
// shader-id indices stay stable; see package cx's drop-forward handling.
var ErrShaderCompile = errors.New("transpile: shader compile failed")

// Compiled is the transpiler's output: the emitted source plus the
// metadata the executor and Area need to address instance/uniform data.
type Compiled struct {
	Source             string
	InstanceSlots      int
	RectInstanceProps  shadervar.RectProps
	NamedInstanceProps []shadervar.NamedProp
	InstanceAttrs      []shadervar.InstanceAttr
	TextureNames       []string
	AutoVaryings       []string
	// Valid is false when compilation failed; the executor must treat the
	// draw-calls bound to this shader as no-ops.
	Valid bool
}

// CallRewriteFunc rewrites a shader-level function call into target-SL
// text given its already-emitted argument expressions.
type CallRewriteFunc func(args []string) string

// Transpiler holds the call-rewrite table used while emitting function
// bodies; sample2d is pre-wired so widget shaders can sample textures
// without the transpiler needing built-in-function special-casing beyond
// this table.
type Transpiler struct {
	CallRewrites map[string]CallRewriteFunc
}

// New returns a Transpiler with the standard built-in call rewrites
// (currently just sample2d) wired in.
func New() *Transpiler {
	t := &Transpiler{CallRewrites: map[string]CallRewriteFunc{}}
	t.CallRewrites["sample2d"] = func(args []string) string {
		if len(args) != 2 {
			return "vec4<f32>(0.0, 0.0, 0.0, 0.0)"
		}
		tex := strings.TrimPrefix(args[0], "_tex.")
		return fmt.Sprintf("textureSample(_tex_%s, _tex_%s_sampler, %s)", tex, tex, args[1])
	}
	return t
}

func textureNames(vars []shadervar.Variable) []string {
	var names []string
	for _, v := range vars {
		if v.Store == shadervar.Texture {
			names = append(names, v.Name)
		}
	}
	return names
}

func defaultCompiled(shader *shaderast.Shader) *Compiled {
	named, rect := shadervar.ComputeInstanceProps(shader.Vars)
	return &Compiled{
		InstanceSlots:      shadervar.InstanceSlots(shader.Vars),
		RectInstanceProps:  rect,
		NamedInstanceProps: named,
		InstanceAttrs:      shadervar.ComputeInstanceAttrs(shader.Vars),
		TextureNames:       textureNames(shader.Vars),
		Valid:              false,
	}
}

// Transpile runs the full emission pipeline for shader and validates the
// result through naga. On compile failure it returns a non-nil, Valid:
// false Compiled (so indices remain stable) alongside a wrapped
// ErrShaderCompile.
func (t *Transpiler) Transpile(shader *shaderast.Shader) (*Compiled, error) {
	fallback := defaultCompiled(shader)

	autoVary, err := shaderast.AutoVaryings(shader, "pixel")
	if err != nil {
		return fallback, fmt.Errorf("%w: %v", ErrShaderCompile, err)
	}

	emitted := map[string]bool{}
	vertOrder, err := shaderast.OrderedFunctions(shader, "vertex", emitted)
	if err != nil {
		return fallback, fmt.Errorf("%w: %v", ErrShaderCompile, err)
	}
	pixOrder, err := shaderast.OrderedFunctions(shader, "pixel", emitted)
	if err != nil {
		return fallback, fmt.Errorf("%w: %v", ErrShaderCompile, err)
	}

	sc := &slCx{shader: shader, autoVary: autoVary, rewrites: t.CallRewrites}

	var b strings.Builder
	writeScopeStructs(&b, shader, autoVary)
	writeUniformBindings(&b)
	writeTextureBindings(&b, shader)

	sc.stage = stageVertex
	for _, fn := range vertOrder {
		writeFunction(&b, sc, fn)
	}
	sc.stage = stagePixel
	for _, fn := range pixOrder {
		writeFunction(&b, sc, fn)
	}

	writeVertexEntry(&b, shader, autoVary)
	writeFragmentEntry(&b)

	source := b.String()
	if _, err := naga.Compile(source); err != nil {
		return fallback, fmt.Errorf("%w: %v", ErrShaderCompile, err)
	}

	named, rect := shadervar.ComputeInstanceProps(shader.Vars)
	return &Compiled{
		Source:             source,
		InstanceSlots:      shadervar.InstanceSlots(shader.Vars),
		RectInstanceProps:  rect,
		NamedInstanceProps: named,
		InstanceAttrs:      shadervar.ComputeInstanceAttrs(shader.Vars),
		TextureNames:       textureNames(shader.Vars),
		AutoVaryings:       autoVary,
		Valid:              true,
	}, nil
}
