package exec

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/cx/shadervar"
	"github.com/gogpu/cx/transpile"
)

const geometryStride = 8 // unit quad: vec2<f32> position

func vertexFormat(t shadervar.Type) (gputypes.VertexFormat, uint32) {
	switch t {
	case shadervar.Float:
		return gputypes.VertexFormatFloat32, 4
	case shadervar.Vec2:
		return gputypes.VertexFormatFloat32x2, 8
	case shadervar.Vec3:
		return gputypes.VertexFormatFloat32x3, 12
	case shadervar.Vec4:
		return gputypes.VertexFormatFloat32x4, 16
	default:
		return gputypes.VertexFormatFloat32, 4
	}
}

// instanceAttributes builds the vertex-attribute table for a shader's
// per-instance buffer, one entry per Instance-stored variable, skipping
// matrix-typed attributes (Mat2/Mat3/Mat4 instance props are not part of
// this runtime's supported attribute set; widgets needing a matrix per
// instance pass it as a uniform instead). A skipped matrix still occupies
// its slots in the packed record, so later attributes keep their offsets.
func instanceAttributes(attrs []shadervar.InstanceAttr, baseLocation uint32) []gputypes.VertexAttribute {
	out := make([]gputypes.VertexAttribute, 0, len(attrs))
	byteOffset := uint64(0)
	loc := baseLocation
	for _, a := range attrs {
		if a.Type == shadervar.Mat2 || a.Type == shadervar.Mat3 || a.Type == shadervar.Mat4 {
			byteOffset += uint64(a.Type.SlotSize() * 4)
			continue
		}
		format, size := vertexFormat(a.Type)
		out = append(out, gputypes.VertexAttribute{
			Format:         format,
			Offset:         byteOffset,
			ShaderLocation: loc,
		})
		byteOffset += uint64(size)
		loc++
	}
	return out
}

func uniformBindGroupLayout(device hal.Device, label string, visibility gputypes.ShaderStage) (hal.BindGroupLayout, error) {
	return device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
}

func textureBindGroupLayout(device hal.Device, label string, textureCount int) (hal.BindGroupLayout, error) {
	if textureCount == 0 {
		return nil, nil
	}
	entries := make([]gputypes.BindGroupLayoutEntry, 0, textureCount*2)
	for i := 0; i < textureCount; i++ {
		binding := uint32(i * 2)
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    binding,
				Visibility: gputypes.ShaderStageFragment,
				Texture:    &gputypes.TextureBindingLayout{SampleType: gputypes.TextureSampleTypeFloat},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    binding + 1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	return device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{Label: label, Entries: entries})
}

// CreatePipeline builds a render pipeline and bind group layouts from a
// transpiled shader's WGSL source and instance attribute metadata. It
// follows a stencil/convex/SDF pipeline recipe: compile the
// shader module, build bind group layouts per uniform scope plus an
// optional texture scope, assemble a pipeline layout in group order
// [cx, dl, dr, tex], and create the render pipeline with premultiplied
// alpha blending so widget shaders can draw over existing content.
func CreatePipeline(device hal.Device, shaderID uint64, compiled *transpile.Compiled) (*Pipeline, error) {
	if !compiled.Valid {
		return nil, fmt.Errorf("shader %d: %w", shaderID, ErrMissingPipeline)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  fmt.Sprintf("cx_shader_%d", shaderID),
		Source: hal.ShaderSource{WGSL: compiled.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile shader %d: %w", shaderID, err)
	}

	cxLayout, err := uniformBindGroupLayout(device, "cx_uniform_layout", gputypes.ShaderStageVertex|gputypes.ShaderStageFragment)
	if err != nil {
		return nil, fmt.Errorf("cx bind group layout: %w", err)
	}
	dlLayout, err := uniformBindGroupLayout(device, "dl_uniform_layout", gputypes.ShaderStageVertex|gputypes.ShaderStageFragment)
	if err != nil {
		return nil, fmt.Errorf("dl bind group layout: %w", err)
	}
	drLayout, err := uniformBindGroupLayout(device, "dr_uniform_layout", gputypes.ShaderStageVertex|gputypes.ShaderStageFragment)
	if err != nil {
		return nil, fmt.Errorf("dr bind group layout: %w", err)
	}
	texLayout, err := textureBindGroupLayout(device, fmt.Sprintf("tex_layout_%d", shaderID), len(compiled.TextureNames))
	if err != nil {
		return nil, fmt.Errorf("texture bind group layout: %w", err)
	}

	bindGroupLayouts := []hal.BindGroupLayout{cxLayout, dlLayout, drLayout}
	if texLayout != nil {
		bindGroupLayouts = append(bindGroupLayouts, texLayout)
	}
	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            fmt.Sprintf("cx_pipe_layout_%d", shaderID),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline layout: %w", err)
	}

	vertexBuffers := []gputypes.VertexBufferLayout{
		{
			ArrayStride: geometryStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: uint64(compiled.InstanceSlots) * 4,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes:  instanceAttributes(compiled.InstanceAttrs, 1),
		},
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("cx_pipeline_%d", shaderID),
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "_vertex_shader",
			Buffers:    vertexBuffers,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "_fragment_shader",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline %d: %w", shaderID, err)
	}

	return &Pipeline{
		RenderPipeline: pipeline,
		CxLayout:       cxLayout,
		DlLayout:       dlLayout,
		DrLayout:       drLayout,
		TexLayout:      texLayout,
		InstanceSlots:  compiled.InstanceSlots,
	}, nil
}
