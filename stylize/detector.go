package stylize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"yourmovie/canvas"
)

// ErrorDetector recognizes the placeholder image the service sends back when
// a drawing uses colors it cannot map to labels.
type ErrorDetector struct {
	raw []byte
	img image.Image
}

// LoadErrorDetector reads the reference error image. A missing file yields a
// detector that never matches.
func LoadErrorDetector(path string) (*ErrorDetector, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ErrorDetector{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read error image: %w", err)
	}
	return NewErrorDetector(data)
}

// NewErrorDetector builds a detector from reference image bytes.
func NewErrorDetector(reference []byte) (*ErrorDetector, error) {
	img, _, err := canvas.Decode(bytes.NewReader(reference))
	if err != nil {
		return nil, err
	}
	return &ErrorDetector{raw: reference, img: img}, nil
}

// Enabled reports whether a reference image is loaded.
func (d *ErrorDetector) Enabled() bool {
	return d != nil && d.img != nil
}

// Matches reports whether result is the error image, either byte for byte or
// pixel for pixel after decoding.
func (d *ErrorDetector) Matches(result []byte) bool {
	if !d.Enabled() {
		return false
	}
	if bytes.Equal(result, d.raw) {
		return true
	}

	img, _, err := canvas.Decode(bytes.NewReader(result))
	if err != nil {
		return false
	}
	return samePixels(img, d.img)
}

func samePixels(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, a1 := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}
