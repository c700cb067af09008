package finalize

import (
	"testing"

	"img2worksheet/worksheet"
)

func TestRunComputesBorderPixelsForFullRectangle(t *testing.T) {
	// 3x3 single region: every pixel touches the image edge except the
	// center, so borderPixels should be the 8-pixel perimeter.
	width, height := 3, 3
	regionMap := make([]int32, width*height)
	pixels := make([]int32, width*height)
	for i := range pixels {
		pixels[i] = int32(i)
	}
	regions := []worksheet.Region{{ID: 0, Pixels: pixels}}

	out := Run(regions, regionMap, width, height)
	if len(out[0].BorderPixels) != 8 {
		t.Fatalf("got %d border pixels, want 8 (center excluded)", len(out[0].BorderPixels))
	}
	for _, p := range out[0].BorderPixels {
		if p == 4 { // center of the 3x3 grid
			t.Fatal("center pixel should not be a border pixel")
		}
	}
}

func TestRunCentroidInsideRegion(t *testing.T) {
	// Ring-with-hole: a 3x3 region missing its center pixel (belongs to a
	// different, unlisted region). The raw centroid (1,1) falls outside
	// this region, so anchor must relocate it to a pixel this region owns.
	width, height := 3, 3
	regionMap := []int32{0, 0, 0, 0, 1, 0, 0, 0, 0}
	ringPixels := []int32{0, 1, 2, 3, 5, 6, 7, 8}
	regions := []worksheet.Region{{ID: 0, Pixels: ringPixels}}

	out := Run(regions, regionMap, width, height)
	c := out[0].Centroid
	if regionMap[c.Y*width+c.X] != 0 {
		t.Fatalf("centroid (%d,%d) does not belong to region 0", c.X, c.Y)
	}
}

func TestRunSingleColorImageCentroidIsGeometricCenter(t *testing.T) {
	width, height := 5, 5
	regionMap := make([]int32, width*height)
	pixels := make([]int32, width*height)
	for i := range pixels {
		pixels[i] = int32(i)
	}
	regions := []worksheet.Region{{ID: 0, Pixels: pixels}}

	out := Run(regions, regionMap, width, height)
	if out[0].Centroid.X != 2 || out[0].Centroid.Y != 2 {
		t.Fatalf("centroid = %+v, want {2 2}", out[0].Centroid)
	}
}
