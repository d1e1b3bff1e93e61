package compositor

import (
	"errors"
	"math"
	"testing"
)

func TestQuadEffectiveBorderRadiusClamp(t *testing.T) {
	tests := []struct {
		name   string
		size   Size
		radius float32
		want   float32
	}{
		{"unclamped", Sz(100, 50), 10, 10},
		{"clamped to half min dimension", Sz(100, 50), 40, 25},
		{"exactly half", Sz(100, 50), 25, 25},
		{"square", Sz(30, 30), 100, 15},
		{"zero radius", Sz(100, 50), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuadInstance{Size: tt.size, BorderRadius: tt.radius}
			if got := q.EffectiveBorderRadius(); got != tt.want {
				t.Errorf("EffectiveBorderRadius() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestQuadVertexPositionMargin(t *testing.T) {
	q := QuadInstance{Position: Pt(10, 20), Size: Sz(100, 50)}

	// Top-left corner shifts by (-0.5, -0.5).
	tl := q.VertexPosition(QuadVertices[0])
	if tl.X != 9.5 || tl.Y != 19.5 {
		t.Errorf("top-left = (%g, %g), want (9.5, 19.5)", tl.X, tl.Y)
	}

	// Bottom-right corner covers the nominal box plus the margin.
	br := q.VertexPosition(QuadVertices[2])
	if br.X != 10-0.5+101 || br.Y != 20-0.5+51 {
		t.Errorf("bottom-right = (%g, %g), want (110.5, 70.5)", br.X, br.Y)
	}
}

func TestSpriteZeroRotationFastPath(t *testing.T) {
	// With rotation == 0 the offset must be exactly v*atlasSize: no trig,
	// no drift, even with a rotate origin set.
	s := SpriteInstance{
		Position:     Pt(7, 11),
		AtlasPosition: Pt(128, 256),
		AtlasSize:    Sz(64, 32),
		RotateOrigin: Pt(32, 16),
		Rotation:     0,
	}

	for _, v := range QuadVertices {
		got := s.ScreenPosition(v)
		want := Pt(7+v.X*64, 11+v.Y*32)
		if got != want {
			t.Errorf("ScreenPosition(%v) = %v, want exact %v", v, got, want)
		}
	}
}

func TestSpriteRotationRoundTrip(t *testing.T) {
	angles := []float32{0.1, math.Pi / 4, math.Pi / 2, 1.0, 3.0}

	for _, angle := range angles {
		fwd := SpriteInstance{AtlasSize: Sz(64, 32), RotateOrigin: Pt(32, 16), Rotation: angle}
		for _, v := range QuadVertices {
			rotated := fwd.VertexOffset(v)
			back := rotated.RotateAround(fwd.RotateOrigin, -angle)
			want := Pt(v.X*64, v.Y*32)
			if absf(back.X-want.X) > 1e-4 || absf(back.Y-want.Y) > 1e-4 {
				t.Errorf("angle %g: round trip of %v = %v, want %v", angle, v, back, want)
			}
		}
	}
}

func TestSpriteRotationFormula(t *testing.T) {
	// Rotating the far corner of a 10x0 sprite by pi/2 around its top-left
	// corner swings it onto the +Y axis (Y grows downward on screen).
	s := SpriteInstance{AtlasSize: Sz(10, 0), Rotation: math.Pi / 2}
	got := s.VertexOffset(Pt(1, 0))
	if absf(got.X) > 1e-5 || absf(got.Y-10) > 1e-5 {
		t.Errorf("rotated offset = %v, want (0, 10)", got)
	}
}

func TestSpriteHiDPIHalvesFootprint(t *testing.T) {
	s := SpriteInstance{AtlasSize: Sz(64, 32), HiDPI: true}
	got := s.VertexOffset(Pt(1, 1))
	if got.X != 32 || got.Y != 16 {
		t.Errorf("hi-dpi offset = %v, want (32, 16)", got)
	}
}

func TestSpriteTexCoordWholeAtlasNormalization(t *testing.T) {
	// 2048x2048 atlas: atlasScale = 1/2048 per axis.
	scale := Pt(1.0/2048, 1.0/2048)
	s := SpriteInstance{AtlasPosition: Pt(512, 1024), AtlasSize: Sz(256, 128)}

	uv0 := s.TexCoord(Pt(0, 0), scale)
	if uv0.X != 512.0/2048 || uv0.Y != 1024.0/2048 {
		t.Errorf("uv(0,0) = %v", uv0)
	}
	uv1 := s.TexCoord(Pt(1, 1), scale)
	if uv1.X != (512.0+256)/2048 || uv1.Y != (1024.0+128)/2048 {
		t.Errorf("uv(1,1) = %v", uv1)
	}
}

func TestImageTexCoordSubRectNormalization(t *testing.T) {
	im := ImageInstance{AtlasPosition: Pt(100, 200), AtlasSize: Sz(50, 25)}

	uv0 := im.TexCoord(Pt(0, 0))
	if uv0.X != 100.0/50 || uv0.Y != 200.0/25 {
		t.Errorf("uv(0,0) = %v, want (%g, %g)", uv0, 100.0/50, 200.0/25)
	}

	uv1 := im.TexCoord(Pt(1, 1))
	if uv1.X != (100.0+50)/50 || uv1.Y != (200.0+25)/25 {
		t.Errorf("uv(1,1) = %v, want (%g, %g)", uv1, (100.0+50)/50, (200.0+25)/25)
	}
}

func TestImageScreenPosition(t *testing.T) {
	im := ImageInstance{Position: Pt(10, 20), Size: Sz(30, 40)}
	got := im.ScreenPosition(Pt(1, 1))
	if got.X != 40 || got.Y != 60 {
		t.Errorf("ScreenPosition(1,1) = %v, want (40, 60)", got)
	}
}

func TestInstanceValidation(t *testing.T) {
	nan := float32(math.NaN())

	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"valid quad", QuadInstance{Size: Sz(10, 10)}.Validate(), false},
		{"negative quad size", QuadInstance{Size: Sz(-1, 10)}.Validate(), true},
		{"negative radius", QuadInstance{Size: Sz(10, 10), BorderRadius: -1}.Validate(), true},
		{"negative border width", QuadInstance{Size: Sz(10, 10), BorderWidth: -0.5}.Validate(), true},
		{"nan position", QuadInstance{Position: Pt(nan, 0), Size: Sz(1, 1)}.Validate(), true},
		{"valid sprite", SpriteInstance{AtlasSize: Sz(8, 8)}.Validate(), false},
		{"negative sprite size", SpriteInstance{AtlasSize: Sz(8, -8)}.Validate(), true},
		{"nan rotation", SpriteInstance{AtlasSize: Sz(8, 8), Rotation: nan}.Validate(), true},
		{"valid image", ImageInstance{Size: Sz(4, 4), AtlasSize: Sz(4, 4)}.Validate(), false},
		{"zero image atlas size", ImageInstance{Size: Sz(4, 4), AtlasSize: Sz(0, 4)}.Validate(), true},
		{"negative image size", ImageInstance{Size: Sz(-4, 4), AtlasSize: Sz(4, 4)}.Validate(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				if !errors.Is(tt.err, ErrInvalidInstance) {
					t.Errorf("got %v, want ErrInvalidInstance", tt.err)
				}
			} else if tt.err != nil {
				t.Errorf("unexpected error: %v", tt.err)
			}
		})
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
