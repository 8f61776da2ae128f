package cx

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cx/area"
	"github.com/gogpu/cx/cxlog"
	"github.com/gogpu/cx/drawlist"
	"github.com/gogpu/cx/exec"
	"github.com/gogpu/cx/gpubuf"
	"github.com/gogpu/cx/shaderast"
	"github.com/gogpu/cx/transpile"
)

// unitQuadVerts is the shared per-vertex geometry every shader's vertex
// buffer slot 0 binds: the four corners of [0,1]x[0,1], scaled and
// translated per-instance by the shader's own vertex function using the
// instance's x/y/w/h attributes. Matches exec.CreatePipeline's fixed
// 8-byte (vec2<f32>) geometry stride. unitQuadIndices assembles the two
// triangles covering that square, per spec.md §4.5/§6's indexed-draw
// requirement.
var unitQuadVerts = []float32{
	0, 0, 1, 0, 0, 1, 1, 1,
}

var unitQuadIndices = []uint32{0, 1, 2, 2, 1, 3}

// CxResources holds the GPU buffers bound to the context-wide uniform
// scope: the view-projection matrix and any other cx-level uniforms
// widget shaders read as _uni_cx.
type CxResources struct {
	UniCx         *gpubuf.Buffer
	UnitQuad      *gpubuf.Buffer
	UnitQuadIndex *gpubuf.Buffer
}

// Cx is the drawing-context root: the draw-list tree, the compiled
// shader table, the texture table, and the per-frame dirty-tracking
// state. DrawLists[0] is always the root draw-list.
type Cx struct {
	DrawLists []*drawlist.DrawList
	Shaders   []*shaderast.Shader
	Compiled  []*transpile.Compiled
	Textures  []*Texture
	Uniforms  []float32

	ClearColor      Color
	FrameID         uint64
	DirtyArea       area.Area
	RedrawArea      area.Area
	Animations      []Animation
	TargetSize      Vec2
	TargetDPIFactor float32

	Resources CxResources

	// running and paintDirty back the event.Host Running()/PaintDirty()
	// methods; Go does not allow a field and a method of the same type to
	// share a name, so these stay unexported and are read/written through
	// accessor methods (see host.go).
	running       bool
	paintDirty    bool
	repaintTarget exec.RepaintTarget

	device     hal.Device
	queue      hal.Queue
	executor   *exec.Executor
	pipelines  map[uint64]*exec.Pipeline
	transpiler *transpile.Transpiler
	timeOrigin time.Time
}

// NewCx constructs a Cx bound to a GPU device and queue. DrawLists[0]
// (the root list) is allocated immediately, so DrawLists[0] always
// exists.
func NewCx(cfg Config, device hal.Device, queue hal.Queue) *Cx {
	cx := &Cx{
		ClearColor:      cfg.ClearColor,
		running:         true,
		TargetSize:      Vec2{X: float32(cfg.Width), Y: float32(cfg.Height)},
		TargetDPIFactor: cfg.DPIFactor,
		device:          device,
		queue:           queue,
		pipelines:       map[uint64]*exec.Pipeline{},
		transpiler:      transpile.New(),
		timeOrigin:      time.Now(),
	}
	cx.Resources.UniCx = gpubuf.New(device, queue, gputypes.BufferUsageUniform, "uni_cx")
	cx.Resources.UnitQuad = gpubuf.New(device, queue, gputypes.BufferUsageVertex, "unit_quad")
	cx.Resources.UnitQuadIndex = gpubuf.New(device, queue, gputypes.BufferUsageIndex, "unit_quad_index")
	cx.executor = exec.New(device, queue, cx)
	cx.DrawLists = append(cx.DrawLists, drawlist.New())
	return cx
}

// halProvider is the narrow, duck-typed seam a gpucontext.DeviceProvider
// implementation (e.g. gogpu's App) additionally exposes when it is
// backed by wgpu/hal, matching the SetDeviceProvider idiom
// (internal/gpu/vello_accelerator.go, internal/gpu/sdf_gpu.go):
// HalDevice()/HalQueue() return `any` so the provider's package does not
// need to import wgpu/hal itself just to satisfy this interface.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// FromDeviceProvider builds a Cx sharing an externally owned GPU device,
// for hosts (e.g. a gogpu-embedded widget surface) that already hold a
// gpucontext.DeviceProvider rather than wanting Cx to open its own.
// provider must additionally satisfy halProvider; this mirrors the
// gpu.SetDeviceProvider contract elsewhere in the stack, generalized from "an
// accelerator" to "the whole runtime".
func FromDeviceProvider(cfg Config, provider gpucontext.DeviceProvider) (*Cx, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("cx: device provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("cx: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("cx: provider HalQueue is not hal.Queue")
	}
	return NewCx(cfg, device, queue), nil
}

// CompileShader transpiles shader to WGSL, builds its render pipeline,
// and returns its shader id (a 1-based index into Shaders/Compiled,
// stable for the lifetime of the process). On a transpile or pipeline
// failure the shader id is still returned and remains valid to
// reference from a draw-call: the slot is filled with a defaulted
// (Valid: false) Compiled shader, so the draw-call is simply a no-op
// rather than an index-invalidating error.
func (cx *Cx) CompileShader(shader *shaderast.Shader) uint64 {
	cx.Shaders = append(cx.Shaders, shader)
	shaderID := uint64(len(cx.Shaders))

	compiled, err := cx.transpiler.Transpile(shader)
	cx.Compiled = append(cx.Compiled, compiled)
	if err != nil {
		cxlog.ShaderCompileError(shaderID, shader.Name, err)
		return shaderID
	}

	pipe, err := exec.CreatePipeline(cx.device, shaderID, compiled)
	if err != nil {
		compiled.Valid = false
		cxlog.ShaderCompileError(shaderID, shader.Name, err)
		return shaderID
	}
	cx.pipelines[shaderID] = pipe
	return shaderID
}

// NewDrawList allocates a new (initially empty) draw-list and returns
// its id, for widgets that need a sub-list to reference via
// DrawList.NextSubList.
func (cx *Cx) NewDrawList() uint32 {
	cx.DrawLists = append(cx.DrawLists, drawlist.New())
	return uint32(len(cx.DrawLists) - 1)
}

func (cx *Cx) drawList(id uint32) *drawlist.DrawList {
	indexOrPanic(int(id) < len(cx.DrawLists), "draw-list id %d out of range", id)
	return cx.DrawLists[id]
}

func (cx *Cx) drawCall(listID, callID uint32) *drawlist.DrawCall {
	dl := cx.drawList(listID)
	indexOrPanic(int(callID) < len(dl.DrawCalls), "draw-call id %d out of range in list %d", callID, listID)
	return &dl.DrawCalls[callID]
}

// BeginFrame truncates every draw-list's live draw-call/uniform vectors
// back to their watermark without discarding allocated capacity, and
// bumps FrameID. Widgets call Append/NextCall afterward to repopulate
// the frame.
func (cx *Cx) BeginFrame() {
	cx.FrameID++
	for _, dl := range cx.DrawLists {
		dl.BeginFrame()
	}
}

// AppendQuadCall appends a new leaf draw-call bound to shaderID onto
// draw-list listID and returns an Area over its (initially empty)
// instance slice. Widgets then call Area.AppendData to populate it.
func (cx *Cx) AppendQuadCall(listID uint32, shaderID uint64) area.Area {
	dl := cx.drawList(listID)
	callID := dl.NextCall(shaderID, cx.FrameID)
	return area.ForInstance(listID, callID, 0, 0)
}

// RepaintTo executes one full frame against target: upload dirty
// textures, upload uni_cx, then exec.Executor.Repaint over DrawLists[0]
// in a single encode/submit/wait sequence. The paint-dirty flag is
// cleared on success.
func (cx *Cx) RepaintTo(target exec.RepaintTarget) error {
	if err := cx.uploadDirtyTextures(); err != nil {
		return err
	}
	if err := cx.Resources.UnitQuad.UpdateWithF32Data(unitQuadVerts); err != nil {
		return fmt.Errorf("cx: upload unit quad: %w", err)
	}
	if err := cx.Resources.UnitQuadIndex.UpdateWithU32Data(unitQuadIndices); err != nil {
		return fmt.Errorf("cx: upload unit quad index: %w", err)
	}
	uniCx := cx.Uniforms
	if uniCx == nil {
		id := Identity4()
		uniCx = id[:]
	}
	if err := cx.Resources.UniCx.UpdateWithF32Data(uniCx); err != nil {
		return fmt.Errorf("cx: upload uni_cx: %w", err)
	}

	clear := gputypes.Color{R: float64(cx.ClearColor.R), G: float64(cx.ClearColor.G), B: float64(cx.ClearColor.B), A: float64(cx.ClearColor.A)}
	err := cx.executor.Repaint(target, clear, cx.DrawLists[0], cx.FrameID, cx.drawListByID)
	if err != nil {
		return err
	}
	cx.paintDirty = false
	return nil
}

func (cx *Cx) drawListByID(id uint32) *drawlist.DrawList {
	if int(id) >= len(cx.DrawLists) {
		return nil
	}
	return cx.DrawLists[id]
}

// exec.Resolver implementation.

// Pipeline returns the compiled render pipeline for shaderID.
func (cx *Cx) Pipeline(shaderID uint64) (*exec.Pipeline, bool) {
	p, ok := cx.pipelines[shaderID]
	return p, ok
}

// UnitQuad returns the shared per-vertex geometry buffer bound at vertex
// slot 0 of every shader's pipeline.
func (cx *Cx) UnitQuad() hal.Buffer { return cx.Resources.UnitQuad.Handle() }

// UnitQuadIndex returns the shared 32-bit index buffer every shader's
// pipeline draws through, per spec.md §3's CompiledShader.geom_index_
// buffer and §4.5/§6's indexed-draw requirement. Every compiled shader
// in this runtime draws the same fixed-function unit quad, so one
// shared index buffer (like UnitQuad's shared vertex buffer) serves
// every shader id rather than one per CompiledShader.
func (cx *Cx) UnitQuadIndex() hal.Buffer { return cx.Resources.UnitQuadIndex.Handle() }

// CxUniformBuffer returns the context-wide uniform buffer bound at bind
// group 0 of every shader's pipeline.
func (cx *Cx) CxUniformBuffer() hal.Buffer { return cx.Resources.UniCx.Handle() }

// TextureView resolves a texture id to its view/sampler pair for bind
// group 3, implementing exec.Resolver.
func (cx *Cx) TextureView(id uint64) (hal.TextureView, hal.Sampler, bool) {
	t, ok := cx.textureByID(id)
	if !ok {
		return nil, nil, false
	}
	return t.View, t.Sampler, true
}
