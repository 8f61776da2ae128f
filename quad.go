package cx

import (
	"github.com/gogpu/cx/area"
	"github.com/gogpu/cx/shaderast"
	"github.com/gogpu/cx/shadervar"
)

// QuadShader builds the flat-colored rectangle shader every widget
// library needs first: four instance floats (x, y, w, h) plus a color,
// matching the widget kit's own def_quad_shader (original_source's
// widgets/render/src/quad.rs) field-for-field. The vertex/pixel bodies
// stay minimal — returning color directly, the same shape exec's own
// test fixture proves naga-valid — since this AST has no vec4()
// constructor call to build a clip-space position from x/y/w/h/geom;
// a real layout engine would widen this shader with that math once the
// AST grows one.
func QuadShader() *shaderast.Shader {
	return &shaderast.Shader{
		Name: "quad",
		Vars: []shadervar.Variable{
			{Name: "x", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "y", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "w", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "h", Type: shadervar.Float, Store: shadervar.Instance},
			{Name: "color", Type: shadervar.Vec4, Store: shadervar.Instance},
		},
		Functions: []*shaderast.Function{
			{
				Name:       "vertex",
				ReturnType: shadervar.Vec4,
				Body: []shaderast.Stmt{
					shaderast.Return{Value: shaderast.VarRef{Name: "color"}},
				},
			},
			{
				Name:       "pixel",
				ReturnType: shadervar.Vec4,
				Body: []shaderast.Stmt{
					shaderast.Return{Value: shaderast.VarRef{Name: "color"}},
				},
			},
		},
	}
}

// DrawQuad appends one flat-colored rectangle instance bound to
// shaderID onto listID and returns its Area, ready for SetRect/MoveXY/
// ReadVec4("color") patching in later frames. shaderID must have been
// compiled from QuadShader (or a shader sharing its x/y/w/h/color
// instance layout). The Area's InstanceCount is set explicitly rather
// than derived from AppendData's return (Area is a value type; the
// Store interface has no way to report how many records now live in
// the call), matching the two-step append-then-build-Area pattern area's
// own tests use.
func (cx *Cx) DrawQuad(listID uint32, shaderID uint64, rect Rect, color Color) area.Area {
	dl := cx.drawList(listID)
	callID := dl.NextCall(shaderID, cx.FrameID)
	cx.AppendInstance(listID, callID, []float32{rect.X, rect.Y, rect.W, rect.H, color.R, color.G, color.B, color.A})
	return area.ForInstance(listID, callID, 0, 1)
}
