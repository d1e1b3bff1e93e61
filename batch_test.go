package compositor

import (
	"errors"
	"testing"
)

func TestBatchAddAndOrder(t *testing.T) {
	b := NewBatch()

	if err := b.AddFlatQuad(RectXYWH(0, 0, 10, 10), RGB(1, 0, 0)); err != nil {
		t.Fatalf("AddFlatQuad: %v", err)
	}
	if err := b.AddQuad(QuadInstance{Size: Sz(5, 5)}); err != nil {
		t.Fatalf("AddQuad: %v", err)
	}
	if err := b.AddSprite(SpriteInstance{AtlasSize: Sz(8, 8)}); err != nil {
		t.Fatalf("AddSprite: %v", err)
	}
	if err := b.AddImage(ImageInstance{Size: Sz(4, 4), AtlasSize: Sz(4, 4)}); err != nil {
		t.Fatalf("AddImage: %v", err)
	}

	if got := len(b.FlatVertices()); got != 4 {
		t.Errorf("flat vertex count = %d, want 4", got)
	}
	if b.IsEmpty() {
		t.Error("populated batch reports empty")
	}
	if got := b.InstanceCount(); got != 4 {
		t.Errorf("InstanceCount = %d, want 4", got)
	}
}

func TestBatchRejectsInvalid(t *testing.T) {
	b := NewBatch()

	if err := b.AddQuad(QuadInstance{Size: Sz(-1, 1)}); !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("AddQuad error = %v, want ErrInvalidInstance", err)
	}
	if err := b.AddImage(ImageInstance{Size: Sz(1, 1)}); !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("AddImage error = %v, want ErrInvalidInstance", err)
	}

	// Rejected records must not land in the batch.
	if !b.IsEmpty() {
		t.Error("batch holds rejected records")
	}
}

func TestBatchFlatQuadWinding(t *testing.T) {
	b := NewBatch()
	if err := b.AddFlatQuad(RectXYWH(10, 20, 30, 40), RGB(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	v := b.FlatVertices()
	want := []Point{Pt(10, 20), Pt(40, 20), Pt(40, 60), Pt(10, 60)}
	for i := range want {
		if v[i].Position != want[i] {
			t.Errorf("vertex %d position = %v, want %v", i, v[i].Position, want[i])
		}
	}
}

func TestBatchValidateLayers(t *testing.T) {
	b := NewBatch()
	if err := b.AddSprite(SpriteInstance{AtlasSize: Sz(8, 8), AtlasLayer: 2}); err != nil {
		t.Fatal(err)
	}

	if err := b.ValidateLayers(3); err != nil {
		t.Errorf("layer 2 of 3 rejected: %v", err)
	}
	if err := b.ValidateLayers(2); !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("layer 2 of 2 accepted: %v", err)
	}
}

func TestBatchReset(t *testing.T) {
	b := NewBatch()
	if err := b.AddQuad(QuadInstance{Size: Sz(1, 1)}); err != nil {
		t.Fatal(err)
	}
	b.Reset()
	if !b.IsEmpty() {
		t.Error("batch not empty after Reset")
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		wantSizes []int
	}{
		{"empty", 0, nil},
		{"single partial", 10, []int{10}},
		{"exact boundary", MaxInstancesPerDraw, []int{MaxInstancesPerDraw}},
		{"one over", MaxInstancesPerDraw + 1, []int{MaxInstancesPerDraw, 1}},
		{"several", 2*MaxInstancesPerDraw + 500, []int{MaxInstancesPerDraw, MaxInstancesPerDraw, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]int, tt.count)
			for i := range records {
				records[i] = i
			}
			chunks := Chunk(records)
			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("chunk count = %d, want %d", len(chunks), len(tt.wantSizes))
			}
			next := 0
			for i, c := range chunks {
				if len(c) != tt.wantSizes[i] {
					t.Errorf("chunk %d size = %d, want %d", i, len(c), tt.wantSizes[i])
				}
				// Order within and across chunks is preserved.
				for _, v := range c {
					if v != next {
						t.Fatalf("chunk %d: record %d out of order", i, v)
					}
					next++
				}
			}
		})
	}
}
