package quantize

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/cenkalti/dominantcolor"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"img2worksheet/worksheet"
)

// sampleDownscaleThreshold bounds how many pixels LibKMeans will consider
// when building its observation set; larger buffers are subsampled on a
// grid, mirroring setanarut-layerbuilder/utils.ExtractKMeansPalette's
// maxSamples guard.
const sampleDownscaleThreshold = 20000

// LibKMeans picks a Lab-space-diverse dominant-color sample
// (github.com/cenkalti/dominantcolor + github.com/lucasb-eyer/go-colorful),
// runs github.com/muesli/kmeans over a subsampled observation set, then
// assigns every pixel in the original buffer to its nearest resulting
// centroid. The dominant-color picks are not passed to muesli/kmeans, which
// chooses its own initial centers; they become the centroids only when the
// kmeans step fails or returns no clusters.
func LibKMeans(pixels []byte, width, height, k int, rng *rand.Rand) (Result, error) {
	n := width * height
	if n == 0 || k <= 0 {
		return Result{}, nil
	}
	img := &rgbaView{pix: pixels, w: width, h: height}

	seeds := dominantSeeds(img, k)
	centroids, err := refineCentroids(img, seeds, k)
	if err != nil || len(centroids) == 0 {
		centroids = seeds
	}
	if len(centroids) == 0 {
		return Result{}, fmt.Errorf("quantize: libkmeans produced no centroids")
	}

	assignments := assignAll(pixels, width, height, centroids)
	return Result{Centroids: centroids, Assignments: assignments}, nil
}

// dominantSeeds picks up to k diverse, high-weight colors as initial
// centroids, mirroring utils.ExtractDominantPalette.
func dominantSeeds(img image.Image, k int) []worksheet.RGB {
	nCandidates := k * 8
	if nCandidates < 24 {
		nCandidates = 24
	}
	candidates := dominantcolor.FindWeight(img, nCandidates)
	if len(candidates) == 0 {
		return nil
	}

	type labColor struct {
		rgb    worksheet.RGB
		lab    [3]float64
		weight float64
	}
	items := make([]labColor, 0, len(candidates))
	for _, c := range candidates {
		cc, _ := colorful.MakeColor(c.RGBA)
		l, a, b := cc.Clamped().Lab()
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		items = append(items, labColor{
			rgb:    worksheet.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B},
			lab:    [3]float64{l, a, b},
			weight: w,
		})
	}

	// Greedy farthest-point selection weighted by dominance, same shape as
	// utils.SelectDiverseWeightedColors: always take the heaviest remaining
	// candidate, then keep picking whichever remaining candidate is
	// farthest (in Lab) from everything already chosen.
	chosen := make([]bool, len(items))
	order := make([]int, 0, k)

	best := 0
	for i, it := range items {
		if it.weight > items[best].weight {
			best = i
		}
	}
	order = append(order, best)
	chosen[best] = true

	for len(order) < k && len(order) < len(items) {
		bestIdx := -1
		bestDist := -1.0
		for i, it := range items {
			if chosen[i] {
				continue
			}
			minDist := -1.0
			for _, ci := range order {
				d := labDistance(it.lab, items[ci].lab)
				if minDist < 0 || d < minDist {
					minDist = d
				}
			}
			weighted := minDist * it.weight
			if weighted > bestDist {
				bestDist = weighted
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		order = append(order, bestIdx)
		chosen[bestIdx] = true
	}

	out := make([]worksheet.RGB, len(order))
	for i, idx := range order {
		out[i] = items[idx].rgb
	}
	return out
}

func labDistance(a, b [3]float64) float64 {
	dl := a[0] - b[0]
	da := a[1] - b[1]
	db := a[2] - b[2]
	return dl*dl + da*da + db*db
}

// refineCentroids runs github.com/muesli/kmeans over a subsampled
// observation set, mirroring utils.ExtractKMeansPalette's dataset
// construction and kmeans.New().Partition call. seeds are not used as
// initial centers; they are returned as-is when the image or dataset is
// empty or Partition fails.
func refineCentroids(img image.Image, seeds []worksheet.RGB, k int) ([]worksheet.RGB, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 || len(seeds) == 0 {
		return seeds, nil
	}

	total := w * h
	step := 1
	if total > sampleDownscaleThreshold {
		step = total/sampleDownscaleThreshold + 1
	}

	dataset := make(clusters.Observations, 0, total/(step*step)+1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r>>8) / 255.0,
				float64(g>>8) / 255.0,
				float64(b>>8) / 255.0,
			})
		}
	}
	if len(dataset) == 0 {
		return seeds, nil
	}

	workK := k
	if workK > len(dataset) {
		workK = len(dataset)
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return seeds, err
	}

	out := make([]worksheet.RGB, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		out = append(out, worksheet.RGB{
			R: clamp255(c.Center[0] * 255),
			G: clamp255(c.Center[1] * 255),
			B: clamp255(c.Center[2] * 255),
		})
	}
	return out, nil
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// rgbaView is a minimal image.Image over an interleaved RGBA byte slice,
// avoiding an *image.RGBA copy just to satisfy the image.Image interface
// the dominantcolor/kmeans helpers expect.
type rgbaView struct {
	pix  []byte
	w, h int
}

func (v *rgbaView) ColorModel() color.Model { return color.RGBAModel }
func (v *rgbaView) Bounds() image.Rectangle { return image.Rect(0, 0, v.w, v.h) }
func (v *rgbaView) At(x, y int) color.Color {
	off := (y*v.w + x) * 4
	return color.RGBA{R: v.pix[off], G: v.pix[off+1], B: v.pix[off+2], A: v.pix[off+3]}
}
