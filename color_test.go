package compositor

import (
	"image/color"
	"testing"
)

func TestRGBAToColor(t *testing.T) {
	c := RGBAf(1, 0.5, 0, 1).Color()
	nrgba, ok := c.(color.NRGBA)
	if !ok {
		t.Fatalf("Color() returned %T", c)
	}
	if nrgba.R != 255 || nrgba.B != 0 || nrgba.A != 255 {
		t.Errorf("converted = %+v", nrgba)
	}
	// 0.5 lands on 127 or 128 depending on rounding; both are acceptable
	// but the value must be stable.
	if nrgba.G != RGBAf(1, 0.5, 0, 1).Color().(color.NRGBA).G {
		t.Error("conversion not deterministic")
	}
}

func TestFromColorRoundTrip(t *testing.T) {
	orig := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	c := FromColor(orig)
	back, ok := c.Color().(color.NRGBA)
	if !ok {
		t.Fatal("Color() did not return NRGBA")
	}
	if back != orig {
		t.Errorf("round trip = %+v, want %+v", back, orig)
	}
}

func TestFromColorUnpremultiplies(t *testing.T) {
	// Half-transparent pure red: premultiplied channels are halved, the
	// straight-alpha result must restore the full red channel.
	c := FromColor(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	if c.R < 0.99 || c.R > 1.01 {
		t.Errorf("R = %g, want ~1", c.R)
	}
	if c.A < 0.49 || c.A > 0.52 {
		t.Errorf("A = %g, want ~0.5", c.A)
	}
}

func TestLerp(t *testing.T) {
	a := RGBAf(0, 0, 0, 0)
	b := RGBAf(1, 1, 1, 1)
	mid := a.Lerp(b, 0.5)
	if mid.R != 0.5 || mid.A != 0.5 {
		t.Errorf("Lerp midpoint = %+v", mid)
	}
	if a.Lerp(b, 0) != a || a.Lerp(b, 1) != b {
		t.Error("Lerp endpoints not exact")
	}
}
