// Package cxmath holds the fixed vector/matrix/rect/color value types used
// throughout cx: instance and uniform data is ultimately packed float32,
// so these types use float32 rather than the float64 the 2D canvas math
// types (Point, Vec2, Matrix) elsewhere in the stack use.
//
// It is a leaf package deliberately separated from the cx root so that
// area and drawlist can use Rect/Color without importing cx, which in
// turn imports them — see DESIGN.md.
package cxmath

import "math"

// Vec2 is a 2-component float32 vector.
type Vec2 struct{ X, Y float32 }

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Vec3 is a 3-component float32 vector.
type Vec3 struct{ X, Y, Z float32 }

// Vec4 is a 4-component float32 vector, typically an RGBA color or a
// homogeneous clip-space position.
type Vec4 struct{ X, Y, Z, W float32 }

// Mat4 is a 4x4 matrix stored column-major, matching the layout WGSL's
// mat4x4<f32> expects when uploaded as a uniform.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho4 returns a column-major orthographic projection matrix mapping
// [0,w]x[0,h] (top-left origin, y-down) to clip space, the projection a
// 2D draw-list runtime uploads as `uni_cx`'s view-projection matrix each
// frame.
func Ortho4(w, h float32) Mat4 {
	return Mat4{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, 1, 0,
		-1, 1, 0, 1,
	}
}

// Rect is an axis-aligned rectangle in (x, y, width, height) form.
type Rect struct{ X, Y, W, H float32 }

// Zero is the zero-valued rect returned when an Area has no geometry.
func Zero() Rect { return Rect{} }

// Contains reports whether the point (x, y) lies within r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// Color is a straight (non-premultiplied) RGBA color in [0,1].
type Color struct{ R, G, B, A float32 }

// Approx reports whether c and o are within epsilon componentwise.
func (c Color) Approx(o Color, epsilon float32) bool {
	return approx(c.R, o.R, epsilon) && approx(c.G, o.G, epsilon) &&
		approx(c.B, o.B, epsilon) && approx(c.A, o.A, epsilon)
}

func approx(a, b, epsilon float32) bool {
	return float32(math.Abs(float64(a-b))) < epsilon
}
