package editor

import (
	"image/color"
	"testing"
)

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xde, 0xad, 0xbe, 0xef}); err == nil {
		t.Fatalf("expected decode error for garbage bytes")
	}
	if _, err := Decode(nil); err == nil {
		t.Fatalf("expected decode error for empty buffer")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := makeSolidNRGBA(5, 7, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 5 || b.Dy() != 7 {
		t.Fatalf("round-trip dims = %dx%d, want 5x7", b.Dx(), b.Dy())
	}
	got := color.NRGBAModel.Convert(out.At(2, 3)).(color.NRGBA)
	if got.R != 10 || got.G != 20 || got.B != 30 {
		t.Fatalf("round-trip pixel = %+v", got)
	}
}
