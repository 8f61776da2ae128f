// Package shadervar defines the typed variable model shared by the shader
// AST and the target-SL transpiler: the enumerated value types a shader
// variable can hold, the buffer scope ("store") that feeds it each frame,
// and the slot-size arithmetic used to lay out instance and uniform
// buffers.
package shadervar

import "fmt"

// Type enumerates the value types a ShaderVariable can hold.
type Type int

// Recognized shader variable types.
const (
	Float Type = iota
	Vec2
	Vec3
	Vec4
	Mat2
	Mat3
	Mat4
	Texture2D
	Struct
)

// String returns the name of the type as it appears in diagnostics.
func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Mat2:
		return "mat2"
	case Mat3:
		return "mat3"
	case Mat4:
		return "mat4"
	case Texture2D:
		return "texture2d"
	case Struct:
		return "struct"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// SlotSize returns the number of f32 instance/uniform slots a value of
// this type occupies. Texture2D costs no slots: textures are bound
// separately from the packed float buffers. Struct has no fixed size;
// callers must sum the slot sizes of its fields instead.
func (t Type) SlotSize() int {
	switch t {
	case Float:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	case Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	case Texture2D:
		return 0
	default:
		return 0
	}
}

// Store classifies a ShaderVariable by the buffer scope that feeds it.
type Store int

// Recognized variable stores.
const (
	// Geometry is per-vertex data shared by every instance (the unit quad).
	Geometry Store = iota
	// Instance is per-instance data written by widget code through an Area.
	Instance
	// UniformCx is uniform data shared by the whole context, uploaded once
	// per frame.
	UniformCx
	// UniformDl is uniform data shared by a draw-list.
	UniformDl
	// Uniform is uniform data scoped to a single draw-call.
	Uniform
	// Varying is an interpolated value produced by the vertex stage.
	Varying
	// Local is a value computed and consumed entirely within one stage.
	Local
	// Texture is a sampled texture bound to the draw-call.
	Texture
)

// String returns the name of the store as it appears in diagnostics and in
// the emitted scope-struct prefixes.
func (s Store) String() string {
	switch s {
	case Geometry:
		return "geometry"
	case Instance:
		return "instance"
	case UniformCx:
		return "uniform_cx"
	case UniformDl:
		return "uniform_dl"
	case Uniform:
		return "uniform"
	case Varying:
		return "varying"
	case Local:
		return "local"
	case Texture:
		return "texture"
	default:
		return fmt.Sprintf("Store(%d)", int(s))
	}
}

// Variable describes one shader-level declaration: its name, value type,
// and the buffer scope that supplies it each frame.
type Variable struct {
	Name  string
	Type  Type
	Store Store
}

// SlotSize returns the variable's slot cost, per Type.SlotSize.
func (v Variable) SlotSize() int {
	return v.Type.SlotSize()
}

// InstanceSlots sums the slot size of every Instance-stored variable in
// vars, in declaration order. This is the per-instance stride used to
// validate DrawCall.Instance and to compute `instances = len(instance) /
// slots` at draw time.
func InstanceSlots(vars []Variable) int {
	total := 0
	for _, v := range vars {
		if v.Store == Instance {
			total += v.SlotSize()
		}
	}
	return total
}

// RectProps caches the offsets, within one instance record, of attributes
// named exactly x, y, w, h. Present reports whether all four were found.
type RectProps struct {
	X, Y, W, H int
	Present    bool
}

// NamedProp is one entry of the ordered (name, offset) table used for
// attribute lookups by name.
type NamedProp struct {
	Name   string
	Offset int
}

// InstanceAttr is one Instance-stored variable's offset and type, used to
// build the GPU vertex attribute layout for a shader's instance buffer.
type InstanceAttr struct {
	Name   string
	Offset int
	Type   Type
}

// ComputeInstanceAttrs walks vars in declaration order and returns the
// offset and type of every Instance-stored variable, for building a
// vertex buffer's attribute layout. It repeats ComputeInstanceProps'
// offset walk and additionally records each attribute's Type, which
// NamedProp does not carry.
func ComputeInstanceAttrs(vars []Variable) []InstanceAttr {
	var attrs []InstanceAttr
	offset := 0
	for _, v := range vars {
		if v.Store != Instance {
			continue
		}
		attrs = append(attrs, InstanceAttr{Name: v.Name, Offset: offset, Type: v.Type})
		offset += v.SlotSize()
	}
	return attrs
}

// ComputeInstanceProps walks vars in declaration order and returns the
// named-property table for every Instance-stored variable, alongside the
// cached rect-attribute offsets when x, y, w, h are all present. Both
// results are computed once, at shader compile time, and cached on the
// compiled shader (spec: CompiledShader.rect_instance_props /
// named_instance_props).
func ComputeInstanceProps(vars []Variable) ([]NamedProp, RectProps) {
	var (
		named  []NamedProp
		rect   RectProps
		offset int
		hasX, hasY, hasW, hasH bool
	)
	for _, v := range vars {
		if v.Store != Instance {
			continue
		}
		named = append(named, NamedProp{Name: v.Name, Offset: offset})
		switch v.Name {
		case "x":
			rect.X, hasX = offset, true
		case "y":
			rect.Y, hasY = offset, true
		case "w":
			rect.W, hasW = offset, true
		case "h":
			rect.H, hasH = offset, true
		}
		offset += v.SlotSize()
	}
	rect.Present = hasX && hasY && hasW && hasH
	return named, rect
}
