// Package finalize implements stage 5 of the worksheet pipeline: computing
// each surviving region's border pixels, raw centroid, and label anchor
// (the centroid pulled inside the region when it falls outside a concave or
// ring-shaped one).
package finalize

import "img2worksheet/worksheet"

// sampleExhaustiveLimit is the region size below which the nearest-inside-
// pixel search scans every pixel; at or above it, every
// max(1, size/100)-th pixel is sampled instead, trading exactness for a
// bounded constant on large regions, per spec.
const sampleExhaustiveLimit = 512

// Run computes BorderPixels and Centroid for every region in place and
// returns the same slice.
func Run(regions []worksheet.Region, regionMap []int32, width, height int) []worksheet.Region {
	for i := range regions {
		r := &regions[i]
		r.BorderPixels = borderPixels(r.Pixels, regionMap, r.ID, width, height)
		r.Centroid = anchor(r, regionMap, width, height)
	}
	return regions
}

func borderPixels(pixels []int32, regionMap []int32, id, width, height int) []int32 {
	var border []int32
	for _, p := range pixels {
		x := int(p) % width
		y := int(p) / width
		if isBorder(x, y, regionMap, id, width, height) {
			border = append(border, p)
		}
	}
	return border
}

func isBorder(x, y int, regionMap []int32, id, width, height int) bool {
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= width || ny < 0 || ny >= height {
			return true
		}
		if int(regionMap[ny*width+nx]) != id {
			return true
		}
	}
	return false
}

// anchor computes the raw centroid (arithmetic mean of pixel coordinates,
// rounded) and, if it falls outside the region (regionMap disagrees),
// relocates it to the region-internal pixel nearest the raw centroid.
func anchor(r *worksheet.Region, regionMap []int32, width, height int) worksheet.Point {
	var sumX, sumY int64
	for _, p := range r.Pixels {
		sumX += int64(int(p) % width)
		sumY += int64(int(p) / width)
	}
	n := int64(len(r.Pixels))
	cx := int(roundDiv(sumX, n))
	cy := int(roundDiv(sumY, n))

	if regionMap[cy*width+cx] == int32(r.ID) {
		return worksheet.Point{X: cx, Y: cy}
	}
	return nearestInside(r.Pixels, cx, cy, width)
}

// nearestInside finds the pixel of the region closest to (cx, cy).
// Exhaustive for small regions; for large ones it samples every
// max(1, size/100)-th pixel, an explicit speed/accuracy tradeoff the
// contract allows rather than requires exactness.
func nearestInside(pixels []int32, cx, cy, width int) worksheet.Point {
	step := 1
	if len(pixels) >= sampleExhaustiveLimit {
		step = len(pixels) / 100
		if step < 1 {
			step = 1
		}
	}

	best := worksheet.Point{X: int(pixels[0]) % width, Y: int(pixels[0]) / width}
	bestDist := -1
	for i := 0; i < len(pixels); i += step {
		p := pixels[i]
		x := int(p) % width
		y := int(p) / width
		dx := x - cx
		dy := y - cy
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = worksheet.Point{X: x, Y: y}
		}
	}
	return best
}

func roundDiv(sum, count int64) int64 {
	if count == 0 {
		return 0
	}
	if sum >= 0 {
		return (sum + count/2) / count
	}
	return -((-sum + count/2) / count)
}
