package compositor

import (
	"math"
	"testing"
)

func TestPointOps(t *testing.T) {
	p := Pt(3, 4)
	if got := p.Add(Pt(1, 2)); got != Pt(4, 6) {
		t.Errorf("Add = %v", got)
	}
	if got := p.Sub(Pt(1, 2)); got != Pt(2, 2) {
		t.Errorf("Sub = %v", got)
	}
	if got := p.Mul(2); got != Pt(6, 8) {
		t.Errorf("Mul = %v", got)
	}
	if got := p.MulXY(2, 0.5); got != Pt(6, 2) {
		t.Errorf("MulXY = %v", got)
	}
	if got := p.Length(); got != 5 {
		t.Errorf("Length = %g", got)
	}
}

func TestPointRotateAround(t *testing.T) {
	// Quarter turn about (1, 1) takes (2, 1) to (1, 2) in a Y-down plane.
	got := Pt(2, 1).RotateAround(Pt(1, 1), math.Pi/2)
	if absf(got.X-1) > 1e-5 || absf(got.Y-2) > 1e-5 {
		t.Errorf("RotateAround = %v, want (1, 2)", got)
	}

	// Zero angle is identity.
	if got := Pt(2, 1).RotateAround(Pt(1, 1), 0); got != Pt(2, 1) {
		t.Errorf("zero-angle RotateAround = %v", got)
	}
}

func TestPointIsFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	if !Pt(1, 2).IsFinite() {
		t.Error("finite point reported non-finite")
	}
	if Pt(nan, 0).IsFinite() || Pt(0, inf).IsFinite() {
		t.Error("non-finite point reported finite")
	}
}

func TestSizeMinAndPositive(t *testing.T) {
	if got := Sz(100, 50).Min(); got != 50 {
		t.Errorf("Min = %g", got)
	}
	if !Sz(1, 1).IsPositive() {
		t.Error("positive size reported non-positive")
	}
	if Sz(0, 1).IsPositive() || Sz(1, -1).IsPositive() {
		t.Error("degenerate size reported positive")
	}
}

func TestRectContains(t *testing.T) {
	r := RectXYWH(10, 20, 30, 40)
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(10, 20), true},
		{Pt(25, 40), true},
		{Pt(40, 60), false}, // max edges are exclusive
		{Pt(9, 20), false},
		{Pt(10, 61), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectIntersectsUnion(t *testing.T) {
	a := RectXYWH(0, 0, 10, 10)
	b := RectXYWH(5, 5, 10, 10)
	c := RectXYWH(20, 20, 5, 5)

	if !a.Intersects(b) {
		t.Error("overlapping rects report no intersection")
	}
	if a.Intersects(c) {
		t.Error("disjoint rects report intersection")
	}

	u := a.Union(b)
	if u.Pos != Pt(0, 0) || u.Size != Sz(15, 15) {
		t.Errorf("Union = %+v", u)
	}
}
