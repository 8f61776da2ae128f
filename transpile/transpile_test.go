package transpile

import (
	"strings"
	"testing"

	"github.com/gogpu/cx/shaderast"
	"github.com/gogpu/cx/shadervar"
)

func quadShader() *shaderast.Shader {
	return &shaderast.Shader{
		Name: "quad",
		Vars: []shadervar.Variable{
			{Name: "x", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "y", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "w", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "h", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "uv", Type: shadervar.Vec2, Store: shadervar.Instance},
			{Name: "color", Type: shadervar.Vec4, Store: shadervar.Instance},
			{Name: "mvp", Type: shadervar.Mat4, Store: shadervar.UniformCx},
		},
		Functions: []*shaderast.Function{
			{
				Name:       "vertex",
				ReturnType: shadervar.Vec4,
				Body: []shaderast.Stmt{
					shaderast.Return{Value: shaderast.BinOp{Op: "*", Left: shaderast.VarRef{Name: "mvp"}, Right: shaderast.VarRef{Name: "color"}}},
				},
			},
			{
				Name:       "pixel",
				ReturnType: shadervar.Vec4,
				Body: []shaderast.Stmt{
					shaderast.VarDecl{Name: "tint", Type: shadervar.Vec2, Value: shaderast.VarRef{Name: "uv"}},
					shaderast.Return{Value: shaderast.VarRef{Name: "color"}},
				},
			},
		},
	}
}

func TestTranspileProducesVaryAndVertexCopy(t *testing.T) {
	tr := New()
	compiled, err := tr.Transpile(quadShader())
	if err != nil {
		t.Fatalf("transpile: %v", err)
	}
	if !compiled.Valid {
		t.Fatal("expected valid compiled shader")
	}
	if !strings.Contains(compiled.Source, "struct _Vary {") {
		t.Fatal("expected a _Vary struct in the emitted source")
	}
	if !strings.Contains(compiled.Source, "uv: vec2<f32>") {
		t.Error("expected _Vary to contain a uv field")
	}
	if !strings.Contains(compiled.Source, "_vary.uv = _inst.uv;") {
		t.Error("expected vertex entry to copy _inst.uv into _vary.uv")
	}
	if !strings.Contains(compiled.Source, "@group(0) @binding(0) var<uniform> _uni_cx: _UniCx;") {
		t.Error("expected _uni_cx to be bound as a real uniform, not just declared as a struct")
	}
	if !strings.Contains(compiled.Source, "mat4x4<f32>(_uni_cx.mvp)") {
		t.Error("expected mvp to be read off the bound _uni_cx global, not a dangling entry-point parameter")
	}
	found := false
	for _, v := range compiled.AutoVaryings {
		if v == "uv" {
			found = true
		}
	}
	if !found {
		t.Errorf("AutoVaryings = %v, want to contain uv", compiled.AutoVaryings)
	}
}

func TestTranspileInstanceSlotsAndRectProps(t *testing.T) {
	tr := New()
	compiled, err := tr.Transpile(quadShader())
	if err != nil {
		t.Fatalf("transpile: %v", err)
	}
	// x,y,w,h (1 each) + uv (2) + color (4) = 10
	if compiled.InstanceSlots != 10 {
		t.Errorf("InstanceSlots = %d, want 10", compiled.InstanceSlots)
	}
	if !compiled.RectInstanceProps.Present {
		t.Error("expected rect props present")
	}
}

func TestTranspileFailureYieldsInvalidFallback(t *testing.T) {
	tr := New()
	// Missing "pixel" entry point triggers the dependency-walk error path.
	broken := &shaderast.Shader{
		Name: "broken",
		Functions: []*shaderast.Function{
			{Name: "vertex", Body: []shaderast.Stmt{shaderast.Return{Value: shaderast.Lit{Value: 0}}}},
		},
	}
	compiled, err := tr.Transpile(broken)
	if err == nil {
		t.Fatal("expected an error for a shader missing the pixel entry point")
	}
	if compiled == nil || compiled.Valid {
		t.Error("expected a non-nil, invalid fallback Compiled")
	}
}

func TestSample2DRewrite(t *testing.T) {
	shader := &shaderast.Shader{
		Vars: []shadervar.Variable{
			{Name: "uv", Type: shadervar.Vec2, Store: shadervar.Instance},
			{Name: "img", Type: shadervar.Texture2D, Store: shadervar.Texture},
		},
		Functions: []*shaderast.Function{
			{Name: "vertex", ReturnType: shadervar.Vec4, Body: []shaderast.Stmt{
				shaderast.Return{Value: shaderast.BinOp{Op: "*", Left: shaderast.Lit{Value: 1}, Right: shaderast.VarRef{Name: "uv"}}},
			}},
			{
				Name:       "pixel",
				ReturnType: shadervar.Vec4,
				Body: []shaderast.Stmt{
					shaderast.Return{Value: shaderast.Call{
						Func: "sample2d",
						Args: []shaderast.Expr{shaderast.VarRef{Name: "img"}, shaderast.VarRef{Name: "uv"}},
					}},
				},
			},
		},
	}
	tr := New()
	compiled, err := tr.Transpile(shader)
	if err != nil {
		t.Fatalf("transpile: %v", err)
	}
	if !strings.Contains(compiled.Source, "textureSample(_tex_img, _tex_img_sampler,") {
		t.Errorf("expected sample2d rewrite in source, got:\n%s", compiled.Source)
	}
}
