package quantize

import (
	"math/rand"
	"time"

	"img2worksheet/worksheet"
)

const maxPasses = 10

// KMeans is the default Strategy: spec-exact k-means in RGB space. Centroids
// are seeded by sampling K pixels uniformly at random with replacement
// tolerated (duplicate initial centroids are possible and are simply left
// as empty clusters, filtered by stage 2 — this mirrors the source's own
// init without the usual de-duplication guard, not a bug to paper over).
//
// Nondeterministic unless rng is a caller-seeded *rand.Rand.
func KMeans(pixels []byte, width, height, k int, rng *rand.Rand) (Result, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	n := width * height
	if n == 0 || k <= 0 {
		return Result{}, nil
	}

	centroids := make([]worksheet.RGB, k)
	for i := range centroids {
		p := rng.Intn(n)
		off := p * 4
		centroids[i] = worksheet.RGB{R: pixels[off], G: pixels[off+1], B: pixels[off+2]}
	}

	assignments := make([]int32, n)
	for pass := 0; pass < maxPasses; pass++ {
		assignPass(pixels, n, centroids, assignments)
		if moved := recomputeCentroids(pixels, assignments, centroids); !moved {
			break
		}
	}

	return Result{Centroids: centroids, Assignments: assignments}, nil
}

// assignPass assigns every pixel to its nearest centroid, writing into
// assignments in place, and reports whether any pixel's assignment changed
// relative to its previous value. KMeans does not stop on this result;
// convergence is judged by centroid movement in recomputeCentroids, per
// spec.md's "no centroid moved" rule.
func assignPass(pixels []byte, n int, centroids []worksheet.RGB, assignments []int32) bool {
	changed := false
	for i := 0; i < n; i++ {
		off := i * 4
		nearest := int32(nearestCentroid(pixels[off], pixels[off+1], pixels[off+2], centroids))
		if assignments[i] != nearest {
			assignments[i] = nearest
			changed = true
		}
	}
	return changed
}

// recomputeCentroids replaces each centroid with the componentwise integer
// mean (rounded) of its assigned pixels, using wide accumulators to avoid
// overflow on multi-megapixel buffers. Empty clusters are left unchanged —
// stage 2 (palette.Compact) filters them out. It reports whether any
// centroid moved.
func recomputeCentroids(pixels []byte, assignments []int32, centroids []worksheet.RGB) bool {
	k := len(centroids)
	sumR := make([]int64, k)
	sumG := make([]int64, k)
	sumB := make([]int64, k)
	count := make([]int64, k)

	for i, cluster := range assignments {
		off := i * 4
		sumR[cluster] += int64(pixels[off])
		sumG[cluster] += int64(pixels[off+1])
		sumB[cluster] += int64(pixels[off+2])
		count[cluster]++
	}

	moved := false
	for c := 0; c < k; c++ {
		if count[c] == 0 {
			continue
		}
		next := worksheet.RGB{
			R: uint8(roundDiv(sumR[c], count[c])),
			G: uint8(roundDiv(sumG[c], count[c])),
			B: uint8(roundDiv(sumB[c], count[c])),
		}
		if next != centroids[c] {
			centroids[c] = next
			moved = true
		}
	}
	return moved
}

func roundDiv(sum, count int64) int64 {
	if count == 0 {
		return 0
	}
	return (sum + count/2) / count
}
