package imageutil

import (
	"image"

	"github.com/nfnt/resize"
)

// Thumbnail downscales an image to fit within maxWidth x maxHeight while
// preserving aspect ratio. Images already within bounds are returned as-is.
func Thumbnail(img image.Image, maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
}
