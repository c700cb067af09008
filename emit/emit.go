// Package emit implements stage 6 of the worksheet pipeline: assembling the
// final worksheet.Image and recomputing each palette entry's pixel count
// from the surviving, finalized regions.
package emit

import "img2worksheet/worksheet"

// Assemble builds the final worksheet.Image. pixelData is copied verbatim
// (never aliased) so the emitted image owns its bytes independent of the
// caller's buffer.
func Assemble(width, height int, regions []worksheet.Region, pal []worksheet.PaletteColor, regionMap []int32, pixelData []byte) *worksheet.Image {
	for i := range pal {
		pal[i].Count = 0
	}
	for _, r := range regions {
		pal[r.ColorID].Count += len(r.Pixels)
	}

	ownedPixels := make([]byte, len(pixelData))
	copy(ownedPixels, pixelData)

	return &worksheet.Image{
		OriginalWidth:  width,
		OriginalHeight: height,
		Regions:        regions,
		Palette:        pal,
		PixelData:      ownedPixels,
		RegionMap:      regionMap,
	}
}
