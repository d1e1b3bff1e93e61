package compositor

import "github.com/chewxy/math32"

// Point represents a 2D point or vector in logical pixel space.
// Components are float32 because the GPU instance contract is float32.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// MulXY returns the component-wise product with (x, y).
func (p Point) MulXY(x, y float32) Point {
	return Point{X: p.X * x, Y: p.Y * y}
}

// Length returns the length of the vector.
func (p Point) Length() float32 {
	return math32.Hypot(p.X, p.Y)
}

// RotateAround returns the point rotated by angle radians around origin.
// The rotation is the standard counter-clockwise-in-math-space formula;
// with Y growing downward it appears clockwise on screen.
func (p Point) RotateAround(origin Point, angle float32) Point {
	sin, cos := math32.Sincos(angle)
	dx := p.X - origin.X
	dy := p.Y - origin.Y
	return Point{
		X: cos*dx - sin*dy + origin.X,
		Y: sin*dx + cos*dy + origin.Y,
	}
}

// IsFinite reports whether both components are finite numbers.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Size represents a 2D extent in logical pixels.
type Size struct {
	W, H float32
}

// Sz is a convenience function to create a Size.
func Sz(w, h float32) Size {
	return Size{W: w, H: h}
}

// Min returns the smaller of the two dimensions.
func (s Size) Min() float32 {
	return math32.Min(s.W, s.H)
}

// IsPositive reports whether both dimensions are strictly positive.
func (s Size) IsPositive() bool {
	return s.W > 0 && s.H > 0
}

// IsFinite reports whether both dimensions are finite numbers.
func (s Size) IsFinite() bool {
	return isFinite(s.W) && isFinite(s.H)
}

// Rect is an axis-aligned rectangle: origin at the top-left corner.
type Rect struct {
	Pos  Point
	Size Size
}

// RectXYWH creates a Rect from position and extent components.
func RectXYWH(x, y, w, h float32) Rect {
	return Rect{Pos: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float32 { return r.Pos.X + r.Size.W }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float32 { return r.Pos.Y + r.Size.H }

// Contains reports whether the point lies inside the rectangle.
// The top and left edges are inclusive, bottom and right exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Pos.X && p.X < r.MaxX() && p.Y >= r.Pos.Y && p.Y < r.MaxY()
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.Pos.X < o.MaxX() && o.Pos.X < r.MaxX() &&
		r.Pos.Y < o.MaxY() && o.Pos.Y < r.MaxY()
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math32.Min(r.Pos.X, o.Pos.X)
	y0 := math32.Min(r.Pos.Y, o.Pos.Y)
	x1 := math32.Max(r.MaxX(), o.MaxX())
	y1 := math32.Max(r.MaxY(), o.MaxY())
	return RectXYWH(x0, y0, x1-x0, y1-y0)
}

// isFinite reports whether v is neither NaN nor an infinity.
func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
