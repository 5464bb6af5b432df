package differ

import (
	"image"

	"github.com/aleister1102/visualreg/internal/imageutil"
)

// SSIM stabilizer constants for 8-bit dynamic range.
const (
	ssimC1 = (0.01 * 255) * (0.01 * 255)
	ssimC2 = (0.03 * 255) * (0.03 * 255)

	ssimWindow = 8
)

// structuralSimilarity computes a windowed SSIM score over the luminance
// planes of two same-sized images. The score is clamped to [0,1] with 1
// meaning identical. Spatially concentrated changes depress fewer windows
// than diffuse ones, so two images with the same raw changed-pixel ratio
// can score differently.
func structuralSimilarity(a, b *image.RGBA) float64 {
	width := a.Bounds().Dx()
	height := a.Bounds().Dy()

	if width == 0 || height == 0 {
		// Two empty images are trivially identical.
		return 1
	}

	lumA := luminancePlane(a, width, height)
	lumB := luminancePlane(b, width, height)

	var sum float64
	var windows int

	for wy := 0; wy < height; wy += ssimWindow {
		for wx := 0; wx < width; wx += ssimWindow {
			wEnd := min(wx+ssimWindow, width)
			hEnd := min(wy+ssimWindow, height)
			sum += windowSSIM(lumA, lumB, width, wx, wy, wEnd, hEnd)
			windows++
		}
	}

	score := sum / float64(windows)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// windowSSIM evaluates the SSIM formula on one window
func windowSSIM(lumA, lumB []float64, stride, x1, y1, x2, y2 int) float64 {
	n := float64((x2 - x1) * (y2 - y1))

	var sumA, sumB float64
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			sumA += lumA[y*stride+x]
			sumB += lumB[y*stride+x]
		}
	}
	muA := sumA / n
	muB := sumB / n

	var varA, varB, cov float64
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			da := lumA[y*stride+x] - muA
			db := lumB[y*stride+x] - muB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	numerator := (2*muA*muB + ssimC1) * (2*cov + ssimC2)
	denominator := (muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2)

	return numerator / denominator
}

// luminancePlane extracts the Rec. 601 luma of every pixel
func luminancePlane(img *image.RGBA, width, height int) []float64 {
	plane := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			offset := x * 4
			plane[y*width+x] = imageutil.Luminance(row[offset], row[offset+1], row[offset+2])
		}
	}
	return plane
}
