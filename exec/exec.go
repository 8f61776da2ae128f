// Package exec is the frame executor: it walks a compiled draw-list tree
// and turns it into GPU commands. Command recording follows a
// render-session shape (device.CreateCommandEncoder, a single unified
// render pass, per-draw SetPipeline/SetBindGroup/SetVertexBuffer/
// SetIndexBuffer/DrawIndexed, then EndEncoding/CreateFence/Submit/Wait),
// generalized from a fixed set of renderer tiers to a dynamic draw-list
// tree keyed by shader id.
package exec

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cx/cxlog"
	"github.com/gogpu/cx/drawlist"
	"github.com/gogpu/cx/gpubuf"
)

// ErrMissingPipeline is returned by CreatePipeline for a shader that did
// not compile. A draw-call whose shader id has no pipeline bound is logged
// and skipped by the executor rather than failing the frame.
var ErrMissingPipeline = errors.New("exec: shader has no compiled pipeline")

// Bind group indices. 0-2 are per-scope uniform buffers; 3 is the
// per-draw-call texture set. The backend rejects index > 3
// (ErrBindGroupIndexOutOfRange), so textures cannot get their own
// reserved group beyond this.
const (
	BindGroupCx = 0
	BindGroupDl = 1
	BindGroupDr = 2
	BindGroupTex = 3
)

// Vertex buffer slots: 0 is the shared unit-quad geometry, 1 is
// per-instance data.
const (
	VertexSlotGeometry = 0
	VertexSlotInstance = 1
)

// geometryIndexCount is the index count of the shared unit-quad
// geometry: two triangles, six 32-bit indices, per cx.unitQuadIndices.
const geometryIndexCount = 6

// Pipeline is the GPU-side counterpart to a transpile.Compiled: the
// compiled render pipeline plus the bind group layouts needed to build
// per-draw-call bind groups. Cx owns the map from shader id to Pipeline.
type Pipeline struct {
	RenderPipeline hal.RenderPipeline
	CxLayout       hal.BindGroupLayout
	DlLayout       hal.BindGroupLayout
	DrLayout       hal.BindGroupLayout
	TexLayout      hal.BindGroupLayout // nil if the shader has no textures
	InstanceSlots  int
}

// Resolver supplies the executor with the GPU-side state Cx owns:
// compiled pipelines, the shared unit-quad geometry buffer, uniform data
// for the cx-wide scope, and texture/sampler pairs for bind group 3.
type Resolver interface {
	Pipeline(shaderID uint64) (*Pipeline, bool)
	UnitQuad() hal.Buffer
	// UnitQuadIndex returns the shared 32-bit index buffer for the unit
	// quad geometry bound at VertexSlotGeometry, so execCall can issue
	// an indexed-instanced draw per spec.md §4.5/§6.
	UnitQuadIndex() hal.Buffer
	CxUniformBuffer() hal.Buffer
	// TextureView resolves a texture id (as pushed by area.UniformTexture)
	// to the view/sampler pair bound at the draw-call's next available
	// texture binding slot. ok is false if the id is unknown.
	TextureView(id uint64) (hal.TextureView, hal.Sampler, bool)
}

// Executor walks draw-lists and records their draws into a render pass.
type Executor struct {
	device   hal.Device
	queue    hal.Queue
	resolver Resolver
}

// New returns an Executor bound to a device, queue, and pipeline
// resolver.
func New(device hal.Device, queue hal.Queue, resolver Resolver) *Executor {
	return &Executor{device: device, queue: queue, resolver: resolver}
}

// ExecDrawList uploads a draw-list's own uniform vector and records every
// live draw-call in it, recursing into sub-lists. frameID is the
// context's current frame id: a call's instance/uniform buffers are only
// re-uploaded when its UpdateFrameID matches frameID or NeedUniformsNow
// is set.
func (e *Executor) ExecDrawList(rp hal.RenderPassEncoder, dl *drawlist.DrawList, frameID uint64, byID func(listID uint32) *drawlist.DrawList) error {
	if err := e.uploadListUniforms(dl); err != nil {
		return err
	}
	for i := range dl.Live() {
		call := &dl.DrawCalls[i]
		if call.SubListID != 0 {
			sub := byID(call.SubListID)
			if sub == nil {
				continue
			}
			if err := e.ExecDrawList(rp, sub, frameID, byID); err != nil {
				return err
			}
			continue
		}
		if err := e.execCall(rp, dl, call, frameID); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) uploadListUniforms(dl *drawlist.DrawList) error {
	if dl.Resources.UniDl == nil {
		dl.Resources.UniDl = gpubuf.New(e.device, e.queue, gputypes.BufferUsageUniform, "uni_dl")
	}
	if len(dl.Uniforms) == 0 {
		return nil
	}
	return dl.Resources.UniDl.UpdateWithF32Data(dl.Uniforms)
}

func (e *Executor) execCall(rp hal.RenderPassEncoder, dl *drawlist.DrawList, call *drawlist.DrawCall, frameID uint64) error {
	pipe, ok := e.resolver.Pipeline(call.ShaderID)
	if !ok {
		cxlog.MissingBuffer(call.ShaderID, "pipeline")
		return nil
	}
	if pipe.InstanceSlots == 0 {
		return nil
	}
	instanceCount := call.InstanceCount(pipe.InstanceSlots)
	if instanceCount == 0 {
		return nil
	}

	stale := call.UpdateFrameID == frameID || call.NeedUniformsNow
	if call.Resources.InstVBuf == nil {
		call.Resources.InstVBuf = gpubuf.New(e.device, e.queue, gputypes.BufferUsageVertex, "inst_vbuf")
	}
	if call.Resources.UniDr == nil {
		call.Resources.UniDr = gpubuf.New(e.device, e.queue, gputypes.BufferUsageUniform, "uni_dr")
	}
	if stale {
		if err := call.Resources.InstVBuf.UpdateWithF32Data(call.Instance); err != nil {
			return fmt.Errorf("upload instance buffer: %w", err)
		}
		if len(call.Uniforms) > 0 {
			if err := call.Resources.UniDr.UpdateWithF32Data(call.Uniforms); err != nil {
				return fmt.Errorf("upload uni_dr: %w", err)
			}
		}
		call.NeedUniformsNow = false
	}

	cxBind, err := e.bindGroup(pipe.CxLayout, e.resolver.CxUniformBuffer())
	if err != nil {
		return fmt.Errorf("create cx bind group: %w", err)
	}
	dlBind, err := e.bindGroup(pipe.DlLayout, dl.Resources.UniDl.Handle())
	if err != nil {
		return fmt.Errorf("create dl bind group: %w", err)
	}
	drBind, err := e.bindGroup(pipe.DrLayout, call.Resources.UniDr.Handle())
	if err != nil {
		return fmt.Errorf("create dr bind group: %w", err)
	}

	rp.SetPipeline(pipe.RenderPipeline)
	rp.SetBindGroup(BindGroupCx, cxBind, nil)
	rp.SetBindGroup(BindGroupDl, dlBind, nil)
	rp.SetBindGroup(BindGroupDr, drBind, nil)
	if pipe.TexLayout != nil {
		texBind, err := e.textureBindGroup(pipe.TexLayout, call.Textures)
		if err != nil {
			return fmt.Errorf("create tex bind group: %w", err)
		}
		if texBind != nil {
			rp.SetBindGroup(BindGroupTex, texBind, nil)
		}
	}
	rp.SetVertexBuffer(VertexSlotGeometry, e.resolver.UnitQuad(), 0)
	rp.SetVertexBuffer(VertexSlotInstance, call.Resources.InstVBuf.Handle(), 0)
	rp.SetIndexBuffer(e.resolver.UnitQuadIndex(), gputypes.IndexFormatUint32, 0)
	rp.DrawIndexed(geometryIndexCount, uint32(instanceCount), 0, 0, 0)
	return nil
}

// textureBindGroup builds the bind-group-3 entry set for a draw-call's
// texture list, two entries (view, sampler) per texture id in push
// order — matching textureBindGroupLayout's binding(i*2)/binding(i*2+1)
// scheme. A missing or unresolvable texture id is logged and skipped, so
// one bad id degrades that slot rather than aborting the whole
// draw-call.
func (e *Executor) textureBindGroup(layout hal.BindGroupLayout, textures []uint64) (hal.BindGroup, error) {
	if layout == nil || len(textures) == 0 {
		return nil, nil
	}
	entries := make([]gputypes.BindGroupEntry, 0, len(textures)*2)
	for i, id := range textures {
		view, sampler, ok := e.resolver.TextureView(id)
		if !ok {
			cxlog.MissingBuffer(id, "texture")
			continue
		}
		binding := uint32(i * 2)
		entries = append(entries,
			gputypes.BindGroupEntry{Binding: binding, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			gputypes.BindGroupEntry{Binding: binding + 1, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "exec_tex_bind",
		Layout:  layout,
		Entries: entries,
	})
}

func (e *Executor) bindGroup(layout hal.BindGroupLayout, buf hal.Buffer) (hal.BindGroup, error) {
	if layout == nil || buf == nil {
		return nil, nil
	}
	return e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "exec_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: 0}},
		},
	})
}

// RepaintTarget is the swap-chain-facing surface Repaint draws into.
type RepaintTarget struct {
	ColorView hal.TextureView
	Width     uint32
	Height    uint32
}

// Repaint records and submits one full frame: a single render pass that
// clears to clearColor, then ExecDrawList over root. It blocks until the
// GPU signals completion, following the same encode-submit-wait pattern
// used for CPU-readback sessions, generalized here to a present path.
func (e *Executor) Repaint(target RepaintTarget, clearColor gputypes.Color, root *drawlist.DrawList, frameID uint64, byID func(uint32) *drawlist.DrawList) error {
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "cx_frame_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("cx_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rpDesc := &hal.RenderPassDescriptor{
		Label: "cx_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target.ColorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		}},
	}
	rp := encoder.BeginRenderPass(rpDesc)
	if err := e.ExecDrawList(rp, root, frameID, byID); err != nil {
		rp.End()
		encoder.DiscardEncoding()
		return err
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)

	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if _, err := e.device.Wait(fence, 1, 5*time.Second); err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	return nil
}
