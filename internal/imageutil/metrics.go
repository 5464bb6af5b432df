package imageutil

import "math"

// maxColorDistance is the Euclidean distance between opposite corners of the
// weighted RGBA color cube, used to normalize deltas into [0,1].
var maxColorDistance = math.Sqrt(3*255*255 + alphaWeight*alphaWeight*255*255)

// alphaWeight reduces the contribution of the alpha channel relative to the
// color channels when computing pixel deltas.
const alphaWeight = 0.5

// ColorDelta computes the normalized Euclidean distance between two RGBA
// pixels. The result is in [0,1]; 0 means identical pixels.
func ColorDelta(r1, g1, b1, a1, r2, g2, b2, a2 uint8) float64 {
	dr := float64(r1) - float64(r2)
	dg := float64(g1) - float64(g2)
	db := float64(b1) - float64(b2)
	da := (float64(a1) - float64(a2)) * alphaWeight

	return math.Sqrt(dr*dr+dg*dg+db*db+da*da) / maxColorDistance
}

// Luminance computes the Rec. 601 luma of an RGB triple in the 0..255 range.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}
