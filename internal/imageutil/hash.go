package imageutil

import (
	"image"

	"github.com/aleister1102/visualreg/internal/common/errorwrapper"
	"github.com/corona10/goimagehash"
)

// PerceptualHash computes a difference-hash fingerprint of an image. The
// returned string is stable for identical pixel content and tolerant of
// encoding differences, which makes it suitable for screenshot metadata.
func PerceptualHash(img image.Image) (string, error) {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return "", errorwrapper.WrapError(err, "failed to compute perceptual hash")
	}
	return hash.ToString(), nil
}
