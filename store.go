package cx

import (
	"github.com/gogpu/cx/shadervar"
)

// InstanceSlice implements area.Store: the live instance vector for one
// draw-call, mutable in place.
func (cx *Cx) InstanceSlice(listID, callID uint32) []float32 {
	return cx.drawCall(listID, callID).Instance
}

// ShaderMeta implements area.Store: the compiled metadata of the shader
// a draw-call is bound to. An out-of-range list/call id panics (via
// indexOrPanic); ok is false when ShaderID references a never-compiled
// shader.
func (cx *Cx) ShaderMeta(listID, callID uint32) (int, shadervar.RectProps, []shadervar.NamedProp, bool) {
	call := cx.drawCall(listID, callID)
	idx := int(call.ShaderID) - 1
	if idx < 0 || idx >= len(cx.Compiled) {
		return 0, shadervar.RectProps{}, nil, false
	}
	c := cx.Compiled[idx]
	return c.InstanceSlots, c.RectInstanceProps, c.NamedInstanceProps, true
}

// DrawListRect implements area.Store: the stored rect of a whole
// draw-list's Area.
func (cx *Cx) DrawListRect(listID uint32) Rect {
	return cx.drawList(listID).Rect
}

// MarkPaintDirty implements area.Store.
func (cx *Cx) MarkPaintDirty() { cx.paintDirty = true }

// AppendInstance implements area.Store: extends a draw-call's instance
// vector and marks the call as updated this frame so the executor
// re-uploads it.
func (cx *Cx) AppendInstance(listID, callID uint32, data []float32) {
	call := cx.drawCall(listID, callID)
	call.Instance = append(call.Instance, data...)
	call.UpdateFrameID = cx.FrameID
	cx.paintDirty = true
}

// PushUniform implements area.Store: appends to a draw-call's own
// uniform vector, in call order.
func (cx *Cx) PushUniform(listID, callID uint32, vals ...float32) {
	call := cx.drawCall(listID, callID)
	call.Uniforms = append(call.Uniforms, vals...)
	cx.paintDirty = true
}

// PushTexture implements area.Store: appends a texture id to a
// draw-call's texture list, in call order (call order, not name,
// determines the bind-group binding slot).
func (cx *Cx) PushTexture(listID, callID uint32, texID uint64) {
	call := cx.drawCall(listID, callID)
	call.Textures = append(call.Textures, texID)
	cx.paintDirty = true
}

// NeedUniformsNow implements area.Store.
func (cx *Cx) NeedUniformsNow(listID, callID uint32) bool {
	return cx.drawCall(listID, callID).NeedUniformsNow
}
