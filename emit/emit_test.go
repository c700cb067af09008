package emit

import (
	"testing"

	"img2worksheet/worksheet"
)

func TestAssembleRecomputesPaletteCounts(t *testing.T) {
	pal := []worksheet.PaletteColor{
		{ID: 1, RGB: worksheet.RGB{R: 1, G: 1, B: 1}, Count: 999},
		{ID: 2, RGB: worksheet.RGB{R: 2, G: 2, B: 2}, Count: 999},
	}
	regions := []worksheet.Region{
		{ID: 0, ColorID: 0, Pixels: []int32{0, 1, 2}},
		{ID: 1, ColorID: 1, Pixels: []int32{3}},
	}
	regionMap := []int32{0, 0, 0, 1}
	pixelData := []byte{1, 1, 1, 255, 1, 1, 1, 255, 1, 1, 1, 255, 2, 2, 2, 255}

	img := Assemble(2, 2, regions, pal, regionMap, pixelData)

	if img.Palette[0].Count != 3 {
		t.Errorf("palette[0].Count = %d, want 3", img.Palette[0].Count)
	}
	if img.Palette[1].Count != 1 {
		t.Errorf("palette[1].Count = %d, want 1", img.Palette[1].Count)
	}
}

func TestAssembleCopiesPixelDataNotAliased(t *testing.T) {
	pixelData := []byte{9, 9, 9, 255}
	img := Assemble(1, 1, nil, nil, []int32{0}, pixelData)

	pixelData[0] = 200
	if img.PixelData[0] == 200 {
		t.Fatal("Assemble must own a copy of pixelData, not alias the caller's buffer")
	}
}
