package differ

import (
	"image"

	"github.com/aleister1102/visualreg/internal/imageutil"
)

// chunk is a contiguous row-range partition of a pixel buffer. endRow is
// exclusive.
type chunk struct {
	index    int
	startRow int
	endRow   int
}

// partitionChunks splits an image height into row-aligned chunks
func partitionChunks(height, chunkRows int) []chunk {
	if height <= 0 {
		return nil
	}
	if chunkRows <= 0 {
		chunkRows = 1
	}

	chunks := make([]chunk, 0, (height+chunkRows-1)/chunkRows)
	for start, index := 0, 0; start < height; start, index = start+chunkRows, index+1 {
		end := start + chunkRows
		if end > height {
			end = height
		}
		chunks = append(chunks, chunk{index: index, startRow: start, endRow: end})
	}
	return chunks
}

// changedPixel is one differing pixel with its normalized color delta.
type changedPixel struct {
	X     int
	Y     int
	Delta float64
}

// chunkJob carries the shared inputs every chunk comparison needs. The images
// are read-only during a run.
type chunkJob struct {
	baseline   *image.RGBA
	comparison *image.RGBA
	width      int
	tolerance  float64
}

// chunkResult is the outcome of comparing one chunk. Pixels are emitted in
// row-major order, sums cover every pixel of the chunk.
type chunkResult struct {
	index    int
	pixels   []changedPixel
	sumDelta float64
	maxDelta float64
}

// compareChunk scans one row range pixel by pixel. It is a pure function of
// its inputs, which is what makes the sequential and parallel executors
// interchangeable.
func compareChunk(job chunkJob, c chunk) chunkResult {
	result := chunkResult{index: c.index}

	for y := c.startRow; y < c.endRow; y++ {
		baseRow := job.baseline.Pix[y*job.baseline.Stride:]
		compRow := job.comparison.Pix[y*job.comparison.Stride:]

		for x := 0; x < job.width; x++ {
			offset := x * 4
			delta := imageutil.ColorDelta(
				baseRow[offset], baseRow[offset+1], baseRow[offset+2], baseRow[offset+3],
				compRow[offset], compRow[offset+1], compRow[offset+2], compRow[offset+3],
			)

			result.sumDelta += delta
			if delta > result.maxDelta {
				result.maxDelta = delta
			}
			if delta > job.tolerance {
				result.pixels = append(result.pixels, changedPixel{X: x, Y: y, Delta: delta})
			}
		}
	}

	return result
}
