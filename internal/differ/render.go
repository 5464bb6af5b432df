package differ

import (
	"encoding/base64"
	"image"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/imageutil"
)

const dataURIPrefix = "data:image/png;base64,"

// renderDiffArtifact produces the renderable comparison artifact: changed
// pixels highlighted in red over a dimmed baseline, returned as a PNG data
// URI together with a thumbnail variant. Empty images yield empty strings
// since a zero-sized PNG cannot be encoded.
func renderDiffArtifact(baseline *image.RGBA, pixels []changedPixel, thumbnailMaxWidth int) (string, string, error) {
	width := baseline.Bounds().Dx()
	height := baseline.Bounds().Dy()

	if width == 0 || height == 0 {
		return "", "", nil
	}

	highlighted := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(baseline.Pix); i += 4 {
		highlighted.Pix[i] = baseline.Pix[i] / 2
		highlighted.Pix[i+1] = baseline.Pix[i+1] / 2
		highlighted.Pix[i+2] = baseline.Pix[i+2] / 2
		highlighted.Pix[i+3] = 255
	}

	for _, p := range pixels {
		offset := p.Y*highlighted.Stride + p.X*4
		highlighted.Pix[offset] = 255
		highlighted.Pix[offset+1] = 0
		highlighted.Pix[offset+2] = 0
		highlighted.Pix[offset+3] = 255
	}

	full, err := encodeDataURI(highlighted)
	if err != nil {
		return "", "", err
	}

	thumb := imageutil.Thumbnail(highlighted, uint(thumbnailMaxWidth), uint(thumbnailMaxWidth))
	thumbURI, err := encodeDataURI(thumb)
	if err != nil {
		return "", "", err
	}

	return full, thumbURI, nil
}

// encodeDataURI encodes an image as a base64 PNG data URI
func encodeDataURI(img image.Image) (string, error) {
	payload, err := imageutil.EncodePNG(img)
	if err != nil {
		return "", errorwrapper.WrapError(err, "failed to encode diff artifact")
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(payload), nil
}
