// Package pipeline wires the six worksheet stages into the single pure
// entry point spec.md §6 describes, the way video2bas.go wired
// video2color/color2svg/svg2json/json2bas into one generateBas call in the
// teacher repo.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"

	"img2worksheet/emit"
	"img2worksheet/finalize"
	"img2worksheet/merge"
	"img2worksheet/palette"
	"img2worksheet/quantize"
	"img2worksheet/regions"
	"img2worksheet/worksheet"
)

// Process converts an RGBA pixel buffer into a worksheet.Image. pixels must
// have length width*height*4 with channel order R,G,B,A; A is ignored. ctx
// is checked between stages only — Process exposes exactly one cooperative
// cancellation point, as spec.md §5 requires; none of the six stages yields
// internally.
func Process(ctx context.Context, pixels []byte, width, height int, opts worksheet.Options) (*worksheet.Image, error) {
	opts.Resolve()

	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: width=%d height=%d len(pixels)=%d", worksheet.ErrInvalidDimensions, width, height, len(pixels))
	}
	if opts.MaxColors < 2 {
		return nil, fmt.Errorf("%w: maxColors=%d", worksheet.ErrInvalidK, opts.MaxColors)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", worksheet.ErrCancelled, err)
	}

	var rng *rand.Rand
	if opts.Seed != nil {
		rng = rand.New(rand.NewSource(*opts.Seed))
	}

	// Stage 1: quantizer.
	qr, err := quantize.Run(opts.QuantizeStrategy, pixels, width, height, opts.MaxColors, rng)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", worksheet.ErrCancelled, err)
	}

	// Stage 2: palette compactor.
	pal, remapped := palette.Compact(qr.Centroids, qr.Assignments)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", worksheet.ErrCancelled, err)
	}

	// Stage 3: region extractor.
	ext := regions.Extract(remapped, width, height)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", worksheet.ErrCancelled, err)
	}

	// Stage 4: region merger.
	paletteRGB := make([]worksheet.RGB, len(pal))
	for i, p := range pal {
		paletteRGB[i] = p.RGB
	}
	surviving := merge.Run(ext.Regions, ext.RegionMap, width, height, paletteRGB)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", worksheet.ErrCancelled, err)
	}

	// Stage 5: region finalizer.
	finalized := finalize.Run(surviving, ext.RegionMap, width, height)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", worksheet.ErrCancelled, err)
	}

	// Stage 6: emitter.
	return emit.Assemble(width, height, finalized, pal, ext.RegionMap, pixels), nil
}
