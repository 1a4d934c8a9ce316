package editor

import (
	"image"
	"image/color"
	"testing"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

// makeLeftRightNRGBA builds a 2x1 image with a red left pixel and a blue
// right pixel, enough to observe mirror and rotation orientation.
func makeLeftRightNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	setPix(img, 0, 0, color.NRGBA{R: 255, A: 255})
	setPix(img, 1, 0, color.NRGBA{B: 255, A: 255})
	return img
}

func setPix(img *image.NRGBA, x, y int, c color.NRGBA) {
	i := img.PixOffset(x, y)
	img.Pix[i+0] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = c.A
}

func pixAt(t *testing.T, img image.Image, x, y int) color.NRGBA {
	t.Helper()
	n, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("expected *image.NRGBA, got %T", img)
	}
	i := n.PixOffset(x, y)
	return color.NRGBA{R: n.Pix[i+0], G: n.Pix[i+1], B: n.Pix[i+2], A: n.Pix[i+3]}
}

func near(got, want uint8, tolerance int) bool {
	d := int(got) - int(want)
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

func TestRenderRotationParity(t *testing.T) {
	src := makeSolidNRGBA(8, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	cases := []struct {
		rotation int
		wantW    int
		wantH    int
	}{
		{0, 8, 4},
		{90, 4, 8},
		{180, 8, 4},
		{270, 4, 8},
		{360, 8, 4},
		{450, 4, 8},
	}
	for _, tc := range cases {
		out := Render(src, tc.rotation, false)
		b := out.Bounds()
		if b.Dx() != tc.wantW || b.Dy() != tc.wantH {
			t.Fatalf("rotation %d: got %dx%d, want %dx%d", tc.rotation, b.Dx(), b.Dy(), tc.wantW, tc.wantH)
		}
	}
}

func TestRenderRotationIsClockwise(t *testing.T) {
	out := Render(makeLeftRightNRGBA(), 90, false)
	if b := out.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("unexpected bounds %v", b)
	}
	// Clockwise quarter turn moves the left (red) pixel to the top.
	if c := pixAt(t, out, 0, 0); c.R != 255 {
		t.Fatalf("top pixel = %+v, want red", c)
	}
	if c := pixAt(t, out, 0, 1); c.B != 255 {
		t.Fatalf("bottom pixel = %+v, want blue", c)
	}
}

func TestRenderFlipHorizontal(t *testing.T) {
	out := Render(makeLeftRightNRGBA(), 0, true)
	if c := pixAt(t, out, 0, 0); c.B != 255 {
		t.Fatalf("left pixel after flip = %+v, want blue", c)
	}
	if c := pixAt(t, out, 1, 0); c.R != 255 {
		t.Fatalf("right pixel after flip = %+v, want red", c)
	}
}

func TestRenderFlipComposesBeforeRotation(t *testing.T) {
	// Mirror first, quarter turn second: red starts left, mirrors to the
	// right, and the clockwise turn carries it to the bottom.
	out := Render(makeLeftRightNRGBA(), 90, true)
	if c := pixAt(t, out, 0, 0); c.B != 255 {
		t.Fatalf("top pixel = %+v, want blue", c)
	}
	if c := pixAt(t, out, 0, 1); c.R != 255 {
		t.Fatalf("bottom pixel = %+v, want red", c)
	}
}

func TestFlattenNeutralIsIdentity(t *testing.T) {
	src := makeSolidNRGBA(5, 5, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	out := Flatten(src, Neutral())
	b := out.Bounds()
	if b != src.Bounds() {
		t.Fatalf("bounds changed: %v vs %v", b, src.Bounds())
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if got, want := pixAt(t, out, x, y), pixAt(t, src, x, y); got != want {
				t.Fatalf("pixel (%d,%d) changed: %+v vs %+v", x, y, got, want)
			}
		}
	}
}

func TestFlattenBrightness(t *testing.T) {
	src := makeSolidNRGBA(2, 2, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	p := Neutral()
	p.Brightness = 150
	out := Flatten(src, p)
	c := pixAt(t, out, 0, 0)
	if !near(c.R, 150, 1) || !near(c.G, 150, 1) || !near(c.B, 150, 1) {
		t.Fatalf("brightness 150%% of 100 = %+v, want ~150", c)
	}
	if c.A != 255 {
		t.Fatalf("alpha changed: %d", c.A)
	}
}

func TestFlattenContrastPivotsAroundMidGray(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	p := Neutral()
	p.Contrast = 200
	out := Flatten(src, p)
	// (100/255 - 0.5)*2 + 0.5 = 0.2843 -> ~72
	if c := pixAt(t, out, 0, 0); !near(c.R, 72, 1) {
		t.Fatalf("contrast 200%% of 100 = %+v, want ~72", c)
	}

	mid := makeSolidNRGBA(1, 1, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	if c := pixAt(t, Flatten(mid, p), 0, 0); !near(c.R, 128, 2) {
		t.Fatalf("mid-gray moved under contrast: %+v", c)
	}
}

func TestFlattenGrayscaleFull(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	p := Neutral()
	p.Grayscale = 100
	out := Flatten(src, p)
	c := pixAt(t, out, 0, 0)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("full grayscale not achromatic: %+v", c)
	}
	// Rec. 709 luma of pure red.
	if !near(c.R, 54, 1) {
		t.Fatalf("grayscale red luma = %d, want ~54", c.R)
	}
}

func TestFlattenDesaturateMatchesLuminance(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{G: 255, A: 255})
	p := Neutral()
	p.Saturation = 0
	c := pixAt(t, Flatten(src, p), 0, 0)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("desaturated green not achromatic: %+v", c)
	}
	if !near(c.G, 182, 1) {
		t.Fatalf("desaturated green = %d, want ~182", c.G)
	}
}

func TestBakeAppliesGeometryAndPhotometrics(t *testing.T) {
	src := makeLeftRightNRGBA()
	p := Neutral()
	p.Rotation = 90
	p.Grayscale = 100
	out := Bake(src, p)
	if b := out.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("unexpected baked bounds %v", b)
	}
	top := pixAt(t, out, 0, 0)
	if top.R != top.G || top.G != top.B {
		t.Fatalf("baked pixel not grayscale: %+v", top)
	}
}
