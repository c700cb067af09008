// Package regions implements stage 3 of the worksheet pipeline: labeling
// the quantizer's remapped per-pixel color assignment into 4-connected
// regions via an iterative flood fill.
package regions

import "img2worksheet/worksheet"

// Result is the extractor's output: a dense region map and the initial
// region list in extraction order. Centroid and BorderPixels are left zero
// valued — the finalizer (package finalize) fills them in after merging.
type Result struct {
	Regions   []worksheet.Region
	RegionMap []int32 // length width*height, RegionMap[p] == id of the region owning p
}

// Extract performs a 4-connected (up/down/left/right only — diagonal
// neighbors never join a region) flood fill over the remapped assignment
// array, scanning in row-major order and starting a fresh region at every
// unvisited pixel. Uses a preallocated visited bitmap and an explicit LIFO
// stack sized width*height; recursion is never used so stack depth cannot
// blow up on a single large uniform region.
func Extract(assignments []int32, width, height int) Result {
	n := width * height
	regionMap := make([]int32, n)
	for i := range regionMap {
		regionMap[i] = -1
	}
	visited := make([]bool, n)
	stack := make([]int32, 0, n)

	var regions []worksheet.Region
	nextID := 0

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		colorID := assignments[start]
		stack = stack[:0]
		stack = append(stack, int32(start))
		visited[start] = true

		pixels := make([]int32, 0, 16)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			pixels = append(pixels, p)
			regionMap[p] = int32(nextID)

			x := int(p) % width
			y := int(p) / width

			pushIfMatch(&stack, visited, assignments, colorID, x-1, y, width, height)
			pushIfMatch(&stack, visited, assignments, colorID, x+1, y, width, height)
			pushIfMatch(&stack, visited, assignments, colorID, x, y-1, width, height)
			pushIfMatch(&stack, visited, assignments, colorID, x, y+1, width, height)
		}

		regions = append(regions, worksheet.Region{
			ID:      nextID,
			ColorID: int(colorID),
			Pixels:  pixels,
		})
		nextID++
	}

	return Result{Regions: regions, RegionMap: regionMap}
}

func pushIfMatch(stack *[]int32, visited []bool, assignments []int32, colorID int32, x, y, width, height int) {
	if x < 0 || x >= width || y < 0 || y >= height {
		return
	}
	idx := y*width + x
	if visited[idx] || assignments[idx] != colorID {
		return
	}
	visited[idx] = true
	*stack = append(*stack, int32(idx))
}
