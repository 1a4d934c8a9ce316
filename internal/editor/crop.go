package editor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropToAspect cuts a centered region of the given aspect ratio out of flat.
// The input must already be flattened: the crop result becomes a new base
// image and carries every prior transform baked into its pixels. When the
// image is wider than the target ratio the full height is kept, otherwise
// the full width; offsets round down for pixel-aligned output. An input that
// already matches the ratio degrades to a full-frame copy.
func CropToAspect(flat image.Image, ratio float64) (image.Image, error) {
	if ratio <= 0 {
		return nil, fmt.Errorf("editor: aspect ratio must be positive, got %g", ratio)
	}
	bounds := flat.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("editor: cannot crop empty image")
	}

	cropW, cropH := width, height
	if float64(width)/float64(height) > ratio {
		cropW = int(float64(height) * ratio)
	} else {
		cropH = int(float64(width) / ratio)
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}

	x0 := bounds.Min.X + (width-cropW)/2
	y0 := bounds.Min.Y + (height-cropH)/2
	rect := image.Rect(x0, y0, x0+cropW, y0+cropH)
	return imaging.Crop(flat, rect), nil
}
