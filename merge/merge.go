// Package merge implements stage 4 of the worksheet pipeline: folding
// regions smaller than a size threshold into their most color-similar
// active neighbor so the worksheet doesn't end up a confetti of slivers.
package merge

import (
	"container/heap"

	"img2worksheet/worksheet"
)

// DynamicMinSize returns the minimum region size the merger preserves:
// max(20, floor(pixelCount/40000)). It scales from 20 on small images up to
// larger values on high-resolution ones.
func DynamicMinSize(pixelCount int) int {
	threshold := pixelCount / 40000
	if threshold < 20 {
		return 20
	}
	return threshold
}

// Run merges every region smaller than DynamicMinSize(width*height) into
// its closest-colored active neighbor, cascading: an absorbed region's
// pixels immediately participate in later neighbor searches. Regions with
// no active neighbor (for example the only region of an image smaller than
// the threshold) are left active rather than dropped. regionMap is mutated in place; the returned slice holds only
// surviving regions, compacted and re-identified by index.
func Run(regions []worksheet.Region, regionMap []int32, width, height int, paletteRGB []worksheet.RGB) []worksheet.Region {
	minSize := DynamicMinSize(width * height)

	active := make([]bool, len(regions))
	size := make([]int, len(regions))
	for i, r := range regions {
		active[i] = true
		size[i] = len(r.Pixels)
	}

	pq := &sizeHeap{}
	heap.Init(pq)
	for i, r := range regions {
		if len(r.Pixels) < minSize {
			heap.Push(pq, sizeEntry{id: i, size: size[i]})
		}
	}

	for pq.Len() > 0 {
		entry := heap.Pop(pq).(sizeEntry)
		id := entry.id
		if !active[id] || size[id] != entry.size || size[id] >= minSize {
			continue // stale entry: region already merged away, grown, or no longer below threshold
		}

		neighbors := activeNeighbors(regions[id].Pixels, regionMap, active, id, width, height)
		if len(neighbors) == 0 {
			continue // isolated: no active neighbor to merge with, keep as-is
		}

		winner := closestByColor(regions, regions[id].ColorID, neighbors, paletteRGB)

		regions[winner].Pixels = append(regions[winner].Pixels, regions[id].Pixels...)
		for _, p := range regions[id].Pixels {
			regionMap[p] = int32(winner)
		}
		regions[id].Pixels = nil
		active[id] = false

		size[winner] = len(regions[winner].Pixels)
		if size[winner] < minSize {
			heap.Push(pq, sizeEntry{id: winner, size: size[winner]})
		}
	}

	return compact(regions, regionMap, active)
}

// activeNeighbors collects the distinct active region ids, other than
// selfID, bordering any pixel of candidate (4-connected scan).
func activeNeighbors(pixels []int32, regionMap []int32, active []bool, selfID, width, height int) []int {
	seen := make(map[int32]bool)
	var out []int
	for _, p := range pixels {
		x := int(p) % width
		y := int(p) / width
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			nid := regionMap[ny*width+nx]
			if int(nid) == selfID || seen[nid] || !active[nid] {
				continue
			}
			seen[nid] = true
			out = append(out, int(nid))
		}
	}
	return out
}

// closestByColor picks the neighbor whose palette color has the smallest
// squared Euclidean RGB distance to candidateColorID's. Ties resolve to
// whichever neighbor id sorts first in the scan order (non-deterministic
// across runs is acceptable per spec).
func closestByColor(regions []worksheet.Region, candidateColorID int, neighbors []int, paletteRGB []worksheet.RGB) int {
	target := paletteRGB[candidateColorID]
	best := neighbors[0]
	bestDist := int64(-1)
	for _, nbID := range neighbors {
		c := paletteRGB[regions[nbID].ColorID]
		dr := int64(target.R) - int64(c.R)
		dg := int64(target.G) - int64(c.G)
		db := int64(target.B) - int64(c.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = nbID
		}
	}
	return best
}

func compact(regions []worksheet.Region, regionMap []int32, active []bool) []worksheet.Region {
	newID := make([]int32, len(regions))
	out := make([]worksheet.Region, 0, len(regions))
	for i, r := range regions {
		if !active[i] {
			continue
		}
		newID[i] = int32(len(out))
		r.ID = len(out)
		out = append(out, r)
	}
	for i, v := range regionMap {
		regionMap[i] = newID[v]
	}
	return out
}

type sizeEntry struct {
	id   int
	size int
}

type sizeHeap []sizeEntry

func (h sizeHeap) Len() int            { return len(h) }
func (h sizeHeap) Less(i, j int) bool  { return h[i].size < h[j].size }
func (h sizeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *sizeHeap) Push(x interface{}) { *h = append(*h, x.(sizeEntry)) }
func (h *sizeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
