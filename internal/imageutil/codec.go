package imageutil

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/aleister1102/visualreg/internal/models"
)

// DecodePNG decodes a PNG payload into an RGBA image.
func DecodePNG(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, errorwrapper.NewValidationError("data", len(data), "pixel payload is empty")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to decode PNG payload")
	}

	return ToRGBA(img), nil
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to encode PNG payload")
	}
	return buf.Bytes(), nil
}

// ToRGBA converts any image into an RGBA image with a zero-origin bounds.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min.X == 0 && rgba.Rect.Min.Y == 0 {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// RGBAFromRaw reconstructs an RGBA image from a raw row-major RGBA buffer.
// The buffer length must be exactly 4*width*height.
func RGBAFromRaw(data []byte, dims models.Dimensions) (*image.RGBA, error) {
	if dims.Width < 0 || dims.Height < 0 {
		return nil, errorwrapper.NewValidationError("dimensions", dims, "dimensions cannot be negative")
	}

	expected := 4 * dims.Width * dims.Height
	if len(data) != expected {
		return nil, errorwrapper.NewValidationError("pixel_data", len(data),
			"pixel buffer length does not match dimensions")
	}

	img := image.NewRGBA(image.Rect(0, 0, dims.Width, dims.Height))
	copy(img.Pix, data)
	return img, nil
}

// RawFromRGBA extracts the raw row-major RGBA buffer from an image. The
// returned slice is a copy; mutating it does not affect the source image.
func RawFromRGBA(img *image.RGBA) []byte {
	out := make([]byte, len(img.Pix))
	copy(out, img.Pix)
	return out
}
