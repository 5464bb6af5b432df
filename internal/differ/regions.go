package differ

import (
	"sort"

	"github.com/aleister1102/visualreg/internal/models"
)

// rowInterval is a run of consecutive changed pixels inside one row.
type rowInterval struct {
	y        int
	x1, x2   int // inclusive
	count    int
	maxDelta float64
}

// clusterRegions groups changed pixels into contiguous clusters and returns
// their bounding boxes. Input pixels must be in row-major order, which the
// deterministic chunk merge guarantees; output is sorted by (Y, X) so the
// result is reproducible.
func clusterRegions(pixels []changedPixel) []models.DiffRegion {
	if len(pixels) == 0 {
		return nil
	}

	intervals := buildRowIntervals(pixels)

	// Active regions grow row by row; an interval joins every region whose
	// bounding box touched the previous row and overlaps horizontally, and
	// joining several merges them.
	var regions []*regionAccumulator
	for _, iv := range intervals {
		var joined *regionAccumulator
		remaining := regions[:0]

		for _, region := range regions {
			if region.adjacent(iv) {
				if joined == nil {
					region.absorb(iv)
					joined = region
				} else {
					joined.merge(region)
					continue
				}
			}
			remaining = append(remaining, region)
		}
		regions = remaining

		if joined == nil {
			regions = append(regions, newRegionAccumulator(iv))
		}
	}

	out := make([]models.DiffRegion, 0, len(regions))
	for _, region := range regions {
		out = append(out, region.toRegion())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})

	return out
}

// buildRowIntervals collapses row-major pixels into per-row runs
func buildRowIntervals(pixels []changedPixel) []rowInterval {
	var intervals []rowInterval

	current := rowInterval{y: pixels[0].Y, x1: pixels[0].X, x2: pixels[0].X, count: 1, maxDelta: pixels[0].Delta}
	for _, p := range pixels[1:] {
		if p.Y == current.y && p.X == current.x2+1 {
			current.x2 = p.X
			current.count++
			if p.Delta > current.maxDelta {
				current.maxDelta = p.Delta
			}
			continue
		}
		intervals = append(intervals, current)
		current = rowInterval{y: p.Y, x1: p.X, x2: p.X, count: 1, maxDelta: p.Delta}
	}
	intervals = append(intervals, current)

	return intervals
}

// regionAccumulator is a growing cluster of row intervals.
type regionAccumulator struct {
	minX, maxX int
	minY, maxY int
	count      int
	maxDelta   float64
}

func newRegionAccumulator(iv rowInterval) *regionAccumulator {
	return &regionAccumulator{
		minX:     iv.x1,
		maxX:     iv.x2,
		minY:     iv.y,
		maxY:     iv.y,
		count:    iv.count,
		maxDelta: iv.maxDelta,
	}
}

// adjacent reports whether a row interval touches this region vertically and
// overlaps it horizontally
func (ra *regionAccumulator) adjacent(iv rowInterval) bool {
	if iv.y < ra.minY-1 || iv.y > ra.maxY+1 {
		return false
	}
	return iv.x1 <= ra.maxX && iv.x2 >= ra.minX
}

func (ra *regionAccumulator) absorb(iv rowInterval) {
	if iv.x1 < ra.minX {
		ra.minX = iv.x1
	}
	if iv.x2 > ra.maxX {
		ra.maxX = iv.x2
	}
	if iv.y < ra.minY {
		ra.minY = iv.y
	}
	if iv.y > ra.maxY {
		ra.maxY = iv.y
	}
	ra.count += iv.count
	if iv.maxDelta > ra.maxDelta {
		ra.maxDelta = iv.maxDelta
	}
}

func (ra *regionAccumulator) merge(other *regionAccumulator) {
	if other.minX < ra.minX {
		ra.minX = other.minX
	}
	if other.maxX > ra.maxX {
		ra.maxX = other.maxX
	}
	if other.minY < ra.minY {
		ra.minY = other.minY
	}
	if other.maxY > ra.maxY {
		ra.maxY = other.maxY
	}
	ra.count += other.count
	if other.maxDelta > ra.maxDelta {
		ra.maxDelta = other.maxDelta
	}
}

func (ra *regionAccumulator) toRegion() models.DiffRegion {
	return models.DiffRegion{
		X:          ra.minX,
		Y:          ra.minY,
		Width:      ra.maxX - ra.minX + 1,
		Height:     ra.maxY - ra.minY + 1,
		PixelCount: ra.count,
		Delta:      ra.maxDelta,
	}
}
