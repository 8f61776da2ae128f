package cx

import "github.com/gogpu/cx/cxmath"

// Vec2, Vec3, Vec4, Mat4, Rect, and Color are aliased from cxmath so that
// callers of the root package never need a second import: cxmath is
// split out purely to break the area/drawlist <-> cx import cycle (see
// DESIGN.md), not because it is a separate concern from the caller's
// point of view.
type (
	Vec2  = cxmath.Vec2
	Vec3  = cxmath.Vec3
	Vec4  = cxmath.Vec4
	Mat4  = cxmath.Mat4
	Rect  = cxmath.Rect
	Color = cxmath.Color
)

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 { return cxmath.Identity4() }

// Ortho4 returns the column-major orthographic projection mapping
// [0,w]x[0,h] to clip space. Cx does not upload it by itself: RepaintTo
// uploads Cx.Uniforms as uni_cx, or the identity when Uniforms is nil.
func Ortho4(w, h float32) Mat4 { return cxmath.Ortho4(w, h) }

// ZeroRect is the rect returned for an Area with no geometry.
func ZeroRect() Rect { return cxmath.Zero() }
