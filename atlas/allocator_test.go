package atlas

import "testing"

func TestShelfAllocatorBasics(t *testing.T) {
	a := newShelfAllocator(256, 0)

	r1 := a.allocate(100, 50)
	if !r1.IsValid() || r1.X != 0 || r1.Y != 0 {
		t.Errorf("first allocation = %v", r1)
	}

	// Same shelf, to the right.
	r2 := a.allocate(100, 50)
	if r2.X != 100 || r2.Y != 0 {
		t.Errorf("second allocation = %v", r2)
	}

	// No horizontal room left: new shelf below.
	r3 := a.allocate(100, 50)
	if r3.X != 0 || r3.Y != 50 {
		t.Errorf("third allocation = %v", r3)
	}
}

func TestShelfAllocatorPadding(t *testing.T) {
	a := newShelfAllocator(256, 1)

	r1 := a.allocate(50, 50)
	r2 := a.allocate(50, 50)
	if r2.X != r1.X+50+1 {
		t.Errorf("padded neighbor at X=%d, want %d", r2.X, r1.X+51)
	}
}

func TestShelfAllocatorEdgeFit(t *testing.T) {
	a := newShelfAllocator(256, 1)

	// Padding separates neighbors but is not charged against the layer
	// edge: a full-extent rectangle fits an empty allocator.
	r := a.allocate(256, 256)
	if !r.IsValid() || r.X != 0 || r.Y != 0 {
		t.Fatalf("full-extent allocation = %v", r)
	}
	if a.allocate(1, 1).IsValid() {
		t.Error("allocation succeeded beside full-extent region")
	}

	a.reset()
	if !a.allocate(256, 64).IsValid() {
		t.Error("extent-wide allocation failed")
	}
}

func TestShelfAllocatorRejects(t *testing.T) {
	a := newShelfAllocator(256, 0)

	if a.allocate(0, 10).IsValid() {
		t.Error("zero-width allocation succeeded")
	}
	if a.allocate(300, 10).IsValid() {
		t.Error("over-wide allocation succeeded")
	}
	if a.allocate(10, 300).IsValid() {
		t.Error("over-tall allocation succeeded")
	}
}

func TestShelfAllocatorFull(t *testing.T) {
	a := newShelfAllocator(256, 0)

	// Four full-width shelves fill the area exactly.
	for i := 0; i < 4; i++ {
		if !a.allocate(256, 64).IsValid() {
			t.Fatalf("allocation %d failed", i)
		}
	}
	if a.allocate(1, 1).IsValid() {
		t.Error("allocation succeeded on full area")
	}
	if a.utilization() != 1 {
		t.Errorf("utilization = %g, want 1", a.utilization())
	}

	a.reset()
	if !a.allocate(256, 256).IsValid() {
		t.Error("allocation failed after reset")
	}
}

func TestRegionContains(t *testing.T) {
	r := Region{X: 10, Y: 20, Width: 5, Height: 5}
	if !r.Contains(10, 20) || !r.Contains(14, 24) {
		t.Error("interior point not contained")
	}
	if r.Contains(15, 20) || r.Contains(10, 25) {
		t.Error("exclusive edge contained")
	}
}
