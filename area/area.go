// Package area implements the stable handle that widgets use to read and
// patch instance data after it has been appended: a tagged union over
// Empty, All, a whole draw-list, or a slice of one draw-call's instance
// records.
//
// area does not import drawlist or cx directly: every operation that
// needs to touch actual storage goes through the Store interface, which
// cx.Cx implements. This keeps area a leaf package and avoids the import
// cycle a direct dependency on cx (which must hold Area values for
// DirtyArea/RedrawArea) would create.
package area

import (
	"github.com/gogpu/cx/cxmath"
	"github.com/gogpu/cx/shadervar"
)

// Kind discriminates the Area union.
type Kind int

// Area variants, per spec: Empty | All | DrawList | Instance.
const (
	KindEmpty Kind = iota
	KindAll
	KindDrawList
	KindInstance
)

// Writer is a reserved extension point for a batched instance-writer
// optimization. It is declared, per the data model, but unused by the
// core read/write path; no implementation is wired in.
type Writer interface {
	WriteInstance(offset int, data []float32)
}

// Area is a stable handle into a draw-call's instance storage, or into a
// whole draw-list, or the sentinel Empty/All values.
type Area struct {
	Kind           Kind
	DrawListID     uint32
	DrawCallID     uint32
	InstanceOffset int
	InstanceCount  int
	InstanceWriter Writer
}

// Empty returns the zero Area. Areas are reset to Empty between redraw
// cycles for safety.
func Empty() Area { return Area{} }

// All returns the Area representing the whole context.
func All() Area { return Area{Kind: KindAll} }

// ForDrawList returns an Area identifying an entire draw-list.
func ForDrawList(listID uint32) Area {
	return Area{Kind: KindDrawList, DrawListID: listID}
}

// ForInstance returns an Area identifying a slice of one draw-call's
// instance records.
func ForInstance(listID, callID uint32, offset, count int) Area {
	return Area{
		Kind: KindInstance, DrawListID: listID, DrawCallID: callID,
		InstanceOffset: offset, InstanceCount: count,
	}
}

// Store is the storage surface an Area operates against. cx.Cx
// implements it.
type Store interface {
	// InstanceSlice returns the live instance vector for one draw-call,
	// mutable in place.
	InstanceSlice(listID, callID uint32) []float32
	// ShaderMeta returns the compiled shader metadata bound to a
	// draw-call: its instance slot stride and cached attribute tables.
	// ok is false for an out-of-range or not-yet-compiled shader.
	ShaderMeta(listID, callID uint32) (slots int, rect shadervar.RectProps, named []shadervar.NamedProp, ok bool)
	// DrawListRect returns the stored rect of a DrawList-kind Area's
	// target.
	DrawListRect(listID uint32) cxmath.Rect
	// MarkPaintDirty sets the context's repaint flag.
	MarkPaintDirty()
	// AppendInstance extends a draw-call's instance vector.
	AppendInstance(listID, callID uint32, data []float32)
	// PushUniform appends to a draw-call's uniform vector, in call order.
	PushUniform(listID, callID uint32, vals ...float32)
	// PushTexture appends a texture id to a draw-call's texture list.
	PushTexture(listID, callID uint32, texID uint64)
	// NeedUniformsNow reports whether the draw-call was created this
	// frame and so needs its uniform calls replayed.
	NeedUniformsNow(listID, callID uint32) bool
}

// GetRect returns the Area's rectangle: for Instance, the x/y/w/h fields
// of the first instance record if the shader declares rect props; for
// DrawList, the list's stored rect; otherwise the zero rect.
func (a Area) GetRect(s Store) cxmath.Rect {
	switch a.Kind {
	case KindInstance:
		if a.InstanceCount == 0 {
			return cxmath.Zero()
		}
		_, rect, _, ok := s.ShaderMeta(a.DrawListID, a.DrawCallID)
		if !ok || !rect.Present {
			return cxmath.Zero()
		}
		inst := s.InstanceSlice(a.DrawListID, a.DrawCallID)
		base := a.InstanceOffset
		return cxmath.Rect{
			X: inst[base+rect.X], Y: inst[base+rect.Y],
			W: inst[base+rect.W], H: inst[base+rect.H],
		}
	case KindDrawList:
		return s.DrawListRect(a.DrawListID)
	default:
		return cxmath.Zero()
	}
}

// SetRect patches the first instance record's rect fields. No-op if the
// shader lacks rect props, or the Area is empty.
func (a Area) SetRect(s Store, r cxmath.Rect) {
	if a.Kind != KindInstance || a.InstanceCount == 0 {
		return
	}
	_, rect, _, ok := s.ShaderMeta(a.DrawListID, a.DrawCallID)
	if !ok || !rect.Present {
		return
	}
	inst := s.InstanceSlice(a.DrawListID, a.DrawCallID)
	base := a.InstanceOffset
	inst[base+rect.X] = r.X
	inst[base+rect.Y] = r.Y
	inst[base+rect.W] = r.W
	inst[base+rect.H] = r.H
	s.MarkPaintDirty()
}

// MoveXY increments x and y by (dx, dy) across every instance record the
// Area covers. Requires rect props; no-op otherwise.
func (a Area) MoveXY(s Store, dx, dy float32) {
	if a.Kind != KindInstance || a.InstanceCount == 0 {
		return
	}
	slots, rect, _, ok := s.ShaderMeta(a.DrawListID, a.DrawCallID)
	if !ok || !rect.Present {
		return
	}
	inst := s.InstanceSlice(a.DrawListID, a.DrawCallID)
	for i := 0; i < a.InstanceCount; i++ {
		base := a.InstanceOffset + i*slots
		r := cxmath.Rect{X: inst[base+rect.X], Y: inst[base+rect.Y]}
		r = r.Translate(dx, dy)
		inst[base+rect.X] = r.X
		inst[base+rect.Y] = r.Y
	}
	s.MarkPaintDirty()
}

func (a Area) findNamed(s Store, name string) (shadervar.NamedProp, bool) {
	_, _, named, ok := s.ShaderMeta(a.DrawListID, a.DrawCallID)
	if !ok {
		return shadervar.NamedProp{}, false
	}
	for _, p := range named {
		if p.Name == name {
			return p, true
		}
	}
	return shadervar.NamedProp{}, false
}

func (a Area) writeAt(s Store, name string, vals []float32) {
	if a.Kind != KindInstance {
		return
	}
	prop, ok := a.findNamed(s, name)
	if !ok {
		return
	}
	inst := s.InstanceSlice(a.DrawListID, a.DrawCallID)
	base := a.InstanceOffset + prop.Offset
	copy(inst[base:base+len(vals)], vals)
	s.MarkPaintDirty()
}

func (a Area) readAt(s Store, name string, n int) []float32 {
	out := make([]float32, n)
	if a.Kind != KindInstance {
		return out
	}
	prop, ok := a.findNamed(s, name)
	if !ok {
		return out
	}
	inst := s.InstanceSlice(a.DrawListID, a.DrawCallID)
	base := a.InstanceOffset + prop.Offset
	copy(out, inst[base:base+n])
	return out
}

// WriteFloat writes a single named scalar attribute. Silent no-op if
// name is not a declared instance attribute of the bound shader.
func (a Area) WriteFloat(s Store, name string, v float32) { a.writeAt(s, name, []float32{v}) }

// WriteVec2 writes a named 2-component attribute.
func (a Area) WriteVec2(s Store, name string, v cxmath.Vec2) {
	a.writeAt(s, name, []float32{v.X, v.Y})
}

// WriteVec3 writes a named 3-component attribute.
func (a Area) WriteVec3(s Store, name string, v cxmath.Vec3) {
	a.writeAt(s, name, []float32{v.X, v.Y, v.Z})
}

// WriteVec4 writes a named 4-component attribute.
func (a Area) WriteVec4(s Store, name string, v cxmath.Vec4) {
	a.writeAt(s, name, []float32{v.X, v.Y, v.Z, v.W})
}

// ReadFloat reads a single named scalar attribute, zero if absent.
func (a Area) ReadFloat(s Store, name string) float32 { return a.readAt(s, name, 1)[0] }

// ReadVec2 reads a named 2-component attribute, zero vector if absent.
func (a Area) ReadVec2(s Store, name string) cxmath.Vec2 {
	r := a.readAt(s, name, 2)
	return cxmath.Vec2{X: r[0], Y: r[1]}
}

// ReadVec3 reads a named 3-component attribute, zero vector if absent.
func (a Area) ReadVec3(s Store, name string) cxmath.Vec3 {
	r := a.readAt(s, name, 3)
	return cxmath.Vec3{X: r[0], Y: r[1], Z: r[2]}
}

// ReadVec4 reads a named 4-component attribute, zero vector if absent.
func (a Area) ReadVec4(s Store, name string) cxmath.Vec4 {
	r := a.readAt(s, name, 4)
	return cxmath.Vec4{X: r[0], Y: r[1], Z: r[2], W: r[3]}
}

// AppendData extends the draw-call's instance vector with a whole number
// of instance records. The caller ensures len(data) is a multiple of the
// shader's instance slot count.
func (a Area) AppendData(s Store, data []float32) {
	if a.Kind != KindInstance {
		return
	}
	s.AppendInstance(a.DrawListID, a.DrawCallID, data)
}

// NeedUniformsNow reports whether this draw-call was first created this
// frame, so its uniform_* calls must run to populate the uniform vector.
func (a Area) NeedUniformsNow(s Store) bool {
	if a.Kind != KindInstance {
		return false
	}
	return s.NeedUniformsNow(a.DrawListID, a.DrawCallID)
}

func (a Area) pushUniform(s Store, vals ...float32) {
	if a.Kind == KindInstance {
		s.PushUniform(a.DrawListID, a.DrawCallID, vals...)
	}
}

// UniformTexture appends a texture id to the draw-call's texture list.
// name is accepted but unused: call order, not name, determines the
// binding, so calls must follow the shader's texture declaration order.
func (a Area) UniformTexture(s Store, name string, texID uint64) {
	if a.Kind == KindInstance {
		s.PushTexture(a.DrawListID, a.DrawCallID, texID)
	}
}

// UniformFloat pushes a scalar onto the draw-call's uniform vector.
func (a Area) UniformFloat(s Store, name string, v float32) { a.pushUniform(s, v) }

// UniformVec2f pushes a 2-component value onto the uniform vector.
func (a Area) UniformVec2f(s Store, name string, v cxmath.Vec2) { a.pushUniform(s, v.X, v.Y) }

// UniformVec3f pushes a 3-component value onto the uniform vector.
func (a Area) UniformVec3f(s Store, name string, v cxmath.Vec3) { a.pushUniform(s, v.X, v.Y, v.Z) }

// UniformVec4f pushes a 4-component value onto the uniform vector.
func (a Area) UniformVec4f(s Store, name string, v cxmath.Vec4) {
	a.pushUniform(s, v.X, v.Y, v.Z, v.W)
}

// UniformMat4 pushes a 4x4 matrix, column-major, onto the uniform
// vector.
func (a Area) UniformMat4(s Store, name string, m cxmath.Mat4) { a.pushUniform(s, m[:]...) }

// Contains reports whether (x, y) lies within GetRect(s).
func (a Area) Contains(s Store, x, y float32) bool {
	return a.GetRect(s).Contains(x, y)
}
