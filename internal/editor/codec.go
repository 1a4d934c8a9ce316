package editor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// The host may hand the session WebP uploads alongside the formats
	// imaging registers itself.
	_ "golang.org/x/image/webp"
)

// Decode turns an encoded raster buffer into pixels. The source buffer is an
// opaque byte slice up to this point; an undecodable buffer surfaces an
// explicit error here rather than a surface that never becomes ready.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("editor: empty image buffer")
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("editor: decode image: %w", err)
	}
	return img, nil
}

// EncodePNG produces the encoded buffer handed back to hosts and
// collaborators. PNG keeps the bake lossless.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("editor: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
