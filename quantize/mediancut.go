package quantize

import (
	"image/color"
	"math/rand"

	gquantize "github.com/carbocation/go-quantize/quantize"

	"img2worksheet/worksheet"
)

// MedianCut wraps github.com/carbocation/go-quantize's MedianCutQuantizer —
// the library form of the box-splitting algorithm the teacher hand-rolled
// in video2color.tool.go's medianCutQuantize. It implements the standard
// draw.Quantizer interface; this Strategy adapts its output color.Palette
// into centroids and reuses the shared nearest-centroid assignAll pass so
// every MedianCut run still satisfies the full-image assignment invariant.
func MedianCut(pixels []byte, width, height, k int, rng *rand.Rand) (Result, error) {
	n := width * height
	if n == 0 || k <= 0 {
		return Result{}, nil
	}
	img := &rgbaView{pix: pixels, w: width, h: height}

	q := gquantize.MedianCutQuantizer{Aggregation: gquantize.Mean}
	pal := q.Quantize(make(color.Palette, 0, k), img)

	centroids := make([]worksheet.RGB, len(pal))
	for i, c := range pal {
		r, g, b, _ := c.RGBA()
		centroids[i] = worksheet.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
	if len(centroids) == 0 {
		return Result{}, nil
	}

	assignments := assignAll(pixels, width, height, centroids)
	return Result{Centroids: centroids, Assignments: assignments}, nil
}
