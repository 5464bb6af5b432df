package capture

import (
	"image"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/imageutil"
	"github.com/aleister1102/visualreg/internal/models"
)

// rgbColorDepth is the bit depth recorded for captured buffers. Chromium
// emits 8 bits per color channel.
const rgbColorDepth = 24

// buildMetadata derives screenshot metadata from a decoded pixel buffer
func buildMetadata(img *image.RGBA, viewport models.Viewport, userAgent string) (models.ScreenshotMetadata, error) {
	bounds := img.Bounds()

	hash, err := imageutil.PerceptualHash(img)
	if err != nil {
		return models.ScreenshotMetadata{}, errorwrapper.WrapError(err, "failed to hash pixel buffer")
	}

	return models.ScreenshotMetadata{
		UserAgent:  userAgent,
		PixelRatio: viewport.DeviceScaleFactor,
		ColorDepth: rgbColorDepth,
		FileSize:   int64(len(img.Pix)),
		Dimensions: models.Dimensions{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
		Hash: hash,
	}, nil
}
