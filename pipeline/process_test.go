package pipeline

import (
	"context"
	"errors"
	"testing"

	"img2worksheet/worksheet"
)

func gradientBuffer(w, h int) []byte {
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 4
			buf[off] = byte(x * 255 / max(1, w-1))
			buf[off+1] = byte(y * 255 / max(1, h-1))
			buf[off+2] = 128
			buf[off+3] = 255
		}
	}
	return buf
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func solidBuffer(w, h int, r, g, b byte) []byte {
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		buf[i*4], buf[i*4+1], buf[i*4+2], buf[i*4+3] = r, g, b, 255
	}
	return buf
}

func TestProcessInvalidDimensions(t *testing.T) {
	_, err := Process(context.Background(), make([]byte, 10), 4, 4, worksheet.DefaultOptions())
	if !errors.Is(err, worksheet.ErrInvalidDimensions) {
		t.Fatalf("got %v, want ErrInvalidDimensions", err)
	}
}

func TestProcessInvalidK(t *testing.T) {
	opts := worksheet.Options{MaxColors: 1}
	_, err := Process(context.Background(), solidBuffer(2, 2, 1, 2, 3), 2, 2, opts)
	if !errors.Is(err, worksheet.ErrInvalidK) {
		t.Fatalf("got %v, want ErrInvalidK", err)
	}
}

func TestProcessCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Process(ctx, solidBuffer(4, 4, 1, 2, 3), 4, 4, worksheet.DefaultOptions())
	if !errors.Is(err, worksheet.ErrCancelled) {
		t.Fatalf("got %v, want ErrCancelled", err)
	}
}

func TestProcessSolidImageProducesOneRegionOnePalette(t *testing.T) {
	buf := solidBuffer(10, 10, 200, 20, 20)
	seed := int64(5)
	opts := worksheet.Options{MaxColors: 4, QuantizeStrategy: worksheet.StrategyKMeans, Seed: &seed}

	img, err := Process(context.Background(), buf, 10, 10, opts)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(img.Palette) != 1 {
		t.Fatalf("got %d palette entries, want 1 for a solid image", len(img.Palette))
	}
	if len(img.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(img.Regions))
	}
	if len(img.Regions[0].BorderPixels) != 2*10+2*10-4 {
		t.Fatalf("got %d border pixels, want the rectangle perimeter", len(img.Regions[0].BorderPixels))
	}
}

func TestProcessInvariants(t *testing.T) {
	buf := gradientBuffer(40, 30)
	seed := int64(99)
	opts := worksheet.Options{MaxColors: 8, QuantizeStrategy: worksheet.StrategyKMeans, Seed: &seed}

	img, err := Process(context.Background(), buf, 40, 30, opts)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	n := 40 * 30
	if len(img.RegionMap) != n {
		t.Fatalf("len(RegionMap) = %d, want %d", len(img.RegionMap), n)
	}

	// Invariant 1 & 5: every pixel belongs to exactly one region, and
	// region sizes sum to width*height.
	totalPixels := 0
	regionByID := make(map[int]*worksheet.Region)
	for i := range img.Regions {
		regionByID[img.Regions[i].ID] = &img.Regions[i]
		totalPixels += len(img.Regions[i].Pixels)
	}
	if totalPixels != n {
		t.Fatalf("sum of region pixel counts = %d, want %d", totalPixels, n)
	}
	for p, id := range img.RegionMap {
		r, ok := regionByID[int(id)]
		if !ok {
			t.Fatalf("RegionMap[%d]=%d references a nonexistent region", p, id)
		}
		found := false
		for _, rp := range r.Pixels {
			if int(rp) == p {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("pixel %d not found in region %d's Pixels despite RegionMap pointing at it", p, id)
		}
	}

	// Invariant 3: centroid belongs to its own region.
	for _, r := range img.Regions {
		idx := r.Centroid.Y*40 + r.Centroid.X
		if int(img.RegionMap[idx]) != r.ID {
			t.Fatalf("region %d centroid (%d,%d) maps to region %d", r.ID, r.Centroid.X, r.Centroid.Y, img.RegionMap[idx])
		}
	}

	// Invariant 6: every surviving region meets the dynamic minimum size,
	// unless it had no neighbor to merge into (can't easily assert the
	// latter generically, so only check the common case holds for most
	// regions).
	minSize := 20 // dynamicMinSize(1200) == 20
	belowThreshold := 0
	for _, r := range img.Regions {
		if len(r.Pixels) < minSize {
			belowThreshold++
		}
	}
	if belowThreshold == len(img.Regions) && len(img.Regions) > 1 {
		t.Fatalf("every region is below the minimum size; merge likely did not run")
	}

	// Invariant 7 & 8: palette ids are contiguous from 1, counts match.
	counted := make(map[int]int)
	for _, r := range img.Regions {
		counted[r.ColorID] += len(r.Pixels)
	}
	for i, p := range img.Palette {
		if p.ID != i+1 {
			t.Fatalf("palette[%d].ID = %d, want %d", i, p.ID, i+1)
		}
		if p.Count != counted[i] {
			t.Fatalf("palette[%d].Count = %d, want %d", i, p.Count, counted[i])
		}
	}
}

func TestProcessDeterministicWithSameSeed(t *testing.T) {
	buf := gradientBuffer(20, 20)
	seed := int64(123)
	opts := worksheet.Options{MaxColors: 6, QuantizeStrategy: worksheet.StrategyKMeans, Seed: &seed}

	img1, err := Process(context.Background(), buf, 20, 20, opts)
	if err != nil {
		t.Fatalf("Process (1): %v", err)
	}
	img2, err := Process(context.Background(), buf, 20, 20, opts)
	if err != nil {
		t.Fatalf("Process (2): %v", err)
	}

	if len(img1.Palette) != len(img2.Palette) {
		t.Fatalf("palette sizes differ across identically-seeded runs: %d vs %d", len(img1.Palette), len(img2.Palette))
	}
	for i := range img1.Palette {
		if img1.Palette[i].RGB != img2.Palette[i].RGB {
			t.Fatalf("palette[%d] differs across identically-seeded runs: %+v vs %+v", i, img1.Palette[i].RGB, img2.Palette[i].RGB)
		}
	}
}
