// Package drawlist holds the mutable draw-list/draw-call storage tree:
// the per-frame scene that the frame executor walks and widgets append to
// through Area handles.
package drawlist

import (
	"github.com/gogpu/cx/cxmath"
	"github.com/gogpu/cx/gpubuf"
)

// CallResources holds the GPU buffers bound to one draw-call. They are
// allocated lazily by the executor the first time a call's buffers are
// uploaded, then reused across frames.
type CallResources struct {
	InstVBuf *gpubuf.Buffer
	UniDr    *gpubuf.Buffer
}

// DrawCall is one pipeline-bound draw of N instances against a fixed
// shader, or (if SubListID != 0) a reference to a child draw-list.
type DrawCall struct {
	ShaderID        uint64
	SubListID       uint32
	Instance        []float32
	Uniforms        []float32
	Textures        []uint64
	NeedUniformsNow bool
	UpdateFrameID   uint64
	Resources       CallResources
}

// InstanceCount returns len(Instance)/slots given the shader's instance
// stride, or 0 if slots is 0.
func (d *DrawCall) InstanceCount(slots int) int {
	if slots == 0 {
		return 0
	}
	return len(d.Instance) / slots
}

// ListResources holds the GPU buffer bound to a draw-list's uniform
// vector.
type ListResources struct {
	UniDl *gpubuf.Buffer
}

// DrawList is an ordered sequence of draw-calls, reused across frames by
// index: DrawCallsLen is the live prefix, len(DrawCalls) is the capacity
// seen so far. This lets the hot append path reuse allocated draw-calls
// (and their instance/uniform slice backing arrays) without reallocating
// every frame.
type DrawList struct {
	DrawCalls    []DrawCall
	DrawCallsLen int
	Uniforms     []float32
	Rect         cxmath.Rect
	Resources    ListResources
}

// New returns an empty DrawList.
func New() *DrawList {
	return &DrawList{}
}

// BeginFrame resets the live draw-call count and the list's own uniform
// vector to empty, without discarding allocated capacity.
func (dl *DrawList) BeginFrame() {
	dl.DrawCallsLen = 0
	dl.Uniforms = dl.Uniforms[:0]
}

// NextCall returns the index of the draw-call for the next append in
// frame order: it reuses DrawCalls[DrawCallsLen] if that slot already
// exists (truncating its instance/uniform/texture vectors and marking it
// freshly touched), or appends a new DrawCall otherwise. NeedUniformsNow
// is true exactly when the slot is being (re)claimed for this frame's
// first touch, per the Area contract.
func (dl *DrawList) NextCall(shaderID uint64, frameID uint64) uint32 {
	idx := dl.DrawCallsLen
	if idx < len(dl.DrawCalls) {
		d := &dl.DrawCalls[idx]
		d.ShaderID = shaderID
		d.SubListID = 0
		d.Instance = d.Instance[:0]
		d.Uniforms = d.Uniforms[:0]
		d.Textures = d.Textures[:0]
		d.UpdateFrameID = frameID
		d.NeedUniformsNow = true
	} else {
		dl.DrawCalls = append(dl.DrawCalls, DrawCall{
			ShaderID:        shaderID,
			UpdateFrameID:   frameID,
			NeedUniformsNow: true,
		})
	}
	dl.DrawCallsLen++
	return uint32(idx)
}

// NextSubList returns the index of a draw-call slot referencing a child
// draw-list, using the same reuse-by-watermark policy as NextCall.
func (dl *DrawList) NextSubList(subListID uint32) uint32 {
	idx := dl.DrawCallsLen
	if idx < len(dl.DrawCalls) {
		d := &dl.DrawCalls[idx]
		*d = DrawCall{SubListID: subListID}
	} else {
		dl.DrawCalls = append(dl.DrawCalls, DrawCall{SubListID: subListID})
	}
	dl.DrawCallsLen++
	return uint32(idx)
}

// Live returns the draw-calls in this frame's live prefix.
func (dl *DrawList) Live() []DrawCall {
	return dl.DrawCalls[:dl.DrawCallsLen]
}
