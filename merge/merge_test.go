package merge

import (
	"testing"

	"img2worksheet/worksheet"
)

func TestDynamicMinSize(t *testing.T) {
	cases := []struct {
		pixels int
		want   int
	}{
		{100, 20},
		{40000, 20},
		{80000, 20},
		{4000000, 100},
	}
	for _, c := range cases {
		if got := DynamicMinSize(c.pixels); got != c.want {
			t.Errorf("DynamicMinSize(%d) = %d, want %d", c.pixels, got, c.want)
		}
	}
}

// buildRegionMap rebuilds a dense regionMap from a region list for test setup.
func buildRegionMap(regions []worksheet.Region, n int) []int32 {
	m := make([]int32, n)
	for _, r := range regions {
		for _, p := range r.Pixels {
			m[p] = int32(r.ID)
		}
	}
	return m
}

func TestRunMergesRegionBelowDynamicMinSize(t *testing.T) {
	// 200x200 image (40000 pixels -> dynamicMinSize == 20). Build one big
	// region and one small (size 3) region adjacent to it; the small one
	// must be absorbed.
	width, height := 200, 200
	n := width * height

	big := make([]int32, 0, n-3)
	for i := 0; i < n; i++ {
		if i >= 3 {
			big = append(big, int32(i))
		}
	}
	small := []int32{0, 1, 2}

	regions := []worksheet.Region{
		{ID: 0, ColorID: 0, Pixels: big},
		{ID: 1, ColorID: 1, Pixels: small},
	}
	regionMap := buildRegionMap(regions, n)
	paletteRGB := []worksheet.RGB{{R: 100, G: 100, B: 100}, {R: 105, G: 105, B: 105}}

	out := Run(regions, regionMap, width, height, paletteRGB)

	if len(out) != 1 {
		t.Fatalf("got %d surviving regions, want 1 (small region absorbed)", len(out))
	}
	if len(out[0].Pixels) != n {
		t.Fatalf("surviving region has %d pixels, want %d", len(out[0].Pixels), n)
	}
	for _, id := range regionMap {
		if int(id) != out[0].ID {
			t.Fatalf("regionMap entry %d does not point at surviving region %d", id, out[0].ID)
		}
	}
}

func TestRunKeepsIsolatedSmallRegionWithNoNeighbor(t *testing.T) {
	// A single-pixel image: one region, no neighbors at all, must survive.
	width, height := 1, 1
	regions := []worksheet.Region{{ID: 0, ColorID: 0, Pixels: []int32{0}}}
	regionMap := []int32{0}
	paletteRGB := []worksheet.RGB{{R: 1, G: 2, B: 3}}

	out := Run(regions, regionMap, width, height, paletteRGB)
	if len(out) != 1 {
		t.Fatalf("got %d regions, want 1 (isolated region preserved)", len(out))
	}
}

func TestCompactRenumbersAndRewritesRegionMap(t *testing.T) {
	regions := []worksheet.Region{
		{ID: 0, Pixels: []int32{0}},
		{ID: 1, Pixels: []int32{1}},
		{ID: 2, Pixels: []int32{2}},
	}
	regionMap := []int32{0, 1, 2}
	active := []bool{true, false, true}

	out := compact(regions, regionMap, active)
	if len(out) != 2 {
		t.Fatalf("got %d regions, want 2", len(out))
	}
	if out[0].ID != 0 || out[1].ID != 1 {
		t.Fatalf("ids not densely renumbered: %d, %d", out[0].ID, out[1].ID)
	}
	if regionMap[0] != 0 || regionMap[2] != 1 {
		t.Fatalf("regionMap not rewritten: %v", regionMap)
	}
}
