package core

import "math"

// Vec2 is a 2D point or extent in pixels.
type Vec2 struct{ X, Y float32 }

func V2(x, y float32) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// DistSq returns the squared distance between v and o.
func (v Vec2) DistSq(o Vec2) float32 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float32
}

func R(x, y, w, h float32) Rect { return Rect{x, y, w, h} }

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent rects never both claim a point.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) Pos() Vec2  { return Vec2{r.X, r.Y} }
func (r Rect) Size() Vec2 { return Vec2{r.W, r.H} }
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Transform is a 2D affine transform in row form:
//
//	x' = A*x + B*y + TX
//	y' = C*x + D*y + TY
type Transform struct {
	A, B, C, D float32
	TX, TY     float32
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{A: 1, D: 1}

func Translate(x, y float32) Transform { return Transform{A: 1, D: 1, TX: x, TY: y} }
func Scale(sx, sy float32) Transform   { return Transform{A: sx, D: sy} }

func Rotate(rad float32) Transform {
	c, s := float32(math.Cos(float64(rad))), float32(math.Sin(float64(rad)))
	return Transform{A: c, B: -s, C: s, D: c}
}

// Mul returns the transform that applies o first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		A:  t.A*o.A + t.B*o.C,
		B:  t.A*o.B + t.B*o.D,
		C:  t.C*o.A + t.D*o.C,
		D:  t.C*o.B + t.D*o.D,
		TX: t.A*o.TX + t.B*o.TY + t.TX,
		TY: t.C*o.TX + t.D*o.TY + t.TY,
	}
}

func (t Transform) Apply(p Vec2) Vec2 {
	return Vec2{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Inverse returns the inverse transform. A singular transform inverts to
// the zero transform, which maps everything onto the origin.
func (t Transform) Inverse() Transform {
	det := t.A*t.D - t.B*t.C
	if det == 0 {
		return Transform{}
	}
	inv := 1 / det
	a, b := t.D*inv, -t.B*inv
	c, d := -t.C*inv, t.A*inv
	return Transform{
		A: a, B: b, C: c, D: d,
		TX: -(a*t.TX + b*t.TY),
		TY: -(c*t.TX + d*t.TY),
	}
}

// Mat4 expands t into a column-major 4x4 matrix (GLSL layout).
func (t Transform) Mat4() [16]float32 {
	return [16]float32{
		t.A, t.C, 0, 0,
		t.B, t.D, 0, 0,
		0, 0, 1, 0,
		t.TX, t.TY, 0, 1,
	}
}

// ---- column-major mat4 helpers ----

// Ortho returns an orthographic projection for a Y-down pixel space with the
// origin at the top-left corner of a w x h target.
func Ortho(w, h float32) [16]float32 {
	return ortho(0, w, h, 0, -1, 1)
}

func ortho(l, r, b, t, n, f float32) [16]float32 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return [16]float32{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}

func MulMat4(a, b [16]float32) [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i+4*j] = a[i+0]*b[0+4*j] + a[i+4]*b[1+4*j] + a[i+8]*b[2+4*j] + a[i+12]*b[3+4*j]
		}
	}
	return out
}
