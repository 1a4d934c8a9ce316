package editor

import (
	"image"

	"github.com/disintegration/gift"
)

// Render draws base onto a fresh surface with the geometric transforms
// applied. The mirror composes with the rotation, not after it: the image is
// flipped about its vertical axis first and the whole result is then rotated
// in 90 degree steps. Odd multiples of 90 swap the surface dimensions.
func Render(base image.Image, rotation int, flipH bool) image.Image {
	g := gift.New()
	if flipH {
		g.Add(gift.FlipHorizontal())
	}
	// gift rotates counter-clockwise; the accumulated rotation is clockwise.
	switch normalizeRotation(rotation) {
	case 90:
		g.Add(gift.Rotate270())
	case 180:
		g.Add(gift.Rotate180())
	case 270:
		g.Add(gift.Rotate90())
	}
	dst := image.NewNRGBA(g.Bounds(base.Bounds()))
	g.Draw(dst, base)
	return dst
}

// Flatten bakes the photometric adjustments into the rendered surface as a
// single pass, in the fixed order brightness, contrast, saturation,
// grayscale. A photometrically neutral parameter set returns the surface
// unchanged; surfaces are never mutated in place, so sharing is safe.
func Flatten(surface image.Image, p Params) image.Image {
	if p.photometricNeutral() {
		return surface
	}
	g := gift.New(gift.ColorFunc(photometricFunc(p)))
	dst := image.NewNRGBA(g.Bounds(surface.Bounds()))
	g.Draw(dst, surface)
	return dst
}

// Bake renders base with p's geometry and flattens p's photometrics on top.
// It is the only path that turns editor state into concrete pixels; crop,
// the AI bridge and save all go through it.
func Bake(base image.Image, p Params) image.Image {
	return Flatten(Render(base, p.Rotation, p.FlipH), p)
}

// photometricFunc builds the per-pixel transfer function. The math follows
// the CSS filter-function definitions the adjustment percentages are
// documented against: brightness and saturation are linear multipliers,
// contrast pivots around mid-gray, grayscale interpolates toward luma.
func photometricFunc(p Params) func(r, g, b, a float32) (float32, float32, float32, float32) {
	brightness := float32(p.Brightness) / 100
	contrast := float32(p.Contrast) / 100
	saturation := float32(p.Saturation) / 100
	grayscale := float32(p.Grayscale) / 100

	return func(r, g, b, a float32) (float32, float32, float32, float32) {
		if p.Brightness != AdjustNeutral {
			r = clamp01(r * brightness)
			g = clamp01(g * brightness)
			b = clamp01(b * brightness)
		}
		if p.Contrast != AdjustNeutral {
			r = clamp01((r-0.5)*contrast + 0.5)
			g = clamp01((g-0.5)*contrast + 0.5)
			b = clamp01((b-0.5)*contrast + 0.5)
		}
		if p.Saturation != AdjustNeutral {
			lum := 0.213*r + 0.715*g + 0.072*b
			r = clamp01(lum + (r-lum)*saturation)
			g = clamp01(lum + (g-lum)*saturation)
			b = clamp01(lum + (b-lum)*saturation)
		}
		if p.Grayscale != GrayscaleNeutral {
			luma := 0.2126*r + 0.7152*g + 0.0722*b
			r = clamp01(r + (luma-r)*grayscale)
			g = clamp01(g + (luma-g)*grayscale)
			b = clamp01(b + (luma-b)*grayscale)
		}
		return r, g, b, a
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
