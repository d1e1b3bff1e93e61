package compositor

// Mat4 is a 4x4 transformation matrix in column-major order, matching the
// GPU uniform layout: element (row, col) is at index col*4 + row.
type Mat4 [16]float32

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns an orthographic projection mapping logical pixel space with
// origin at the top-left (Y down) onto clip space (Y up):
//
//	(0, 0)          -> (-1, +1)
//	(width, height) -> (+1, -1)
func Ortho(width, height float32) Mat4 {
	m := Mat4Identity()
	m[0] = 2 / width
	m[5] = -2 / height
	m[12] = -1
	m[13] = 1
	return m
}

// Mul returns the matrix product m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// Transform applies the matrix to a 2D point treated as (x, y, 0, 1) and
// returns the projected (x', y') after perspective divide.
func (m Mat4) Transform(p Point) Point {
	x := m[0]*p.X + m[4]*p.Y + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[13]
	w := m[3]*p.X + m[7]*p.Y + m[15]
	if w != 0 && w != 1 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}
}

// Translate returns m translated by (x, y).
func (m Mat4) Translate(x, y float32) Mat4 {
	t := Mat4Identity()
	t[12] = x
	t[13] = y
	return m.Mul(t)
}

// Scale returns m scaled by (x, y).
func (m Mat4) Scale(x, y float32) Mat4 {
	s := Mat4Identity()
	s[0] = x
	s[5] = y
	return m.Mul(s)
}
