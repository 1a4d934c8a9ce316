package editor

import "fmt"

// Parameter domains exposed for UI binding. Brightness, contrast and
// saturation are integer percentages with 100 as identity; grayscale is an
// integer percentage with 0 as identity. Rotation advances in 90 degree
// steps and accumulates without wrapping.
const (
	AdjustMin     = 0
	AdjustMax     = 200
	AdjustNeutral = 100

	GrayscaleMin     = 0
	GrayscaleMax     = 100
	GrayscaleNeutral = 0

	RotationStep = 90
)

// Params is the live, mutable adjustment state of an editing session.
type Params struct {
	Brightness int  `json:"brightness"`
	Contrast   int  `json:"contrast"`
	Saturation int  `json:"saturation"`
	Grayscale  int  `json:"grayscale"`
	Rotation   int  `json:"rotation"`
	FlipH      bool `json:"flip_h"`
}

// Neutral returns the identity parameter set.
func Neutral() Params {
	return Params{
		Brightness: AdjustNeutral,
		Contrast:   AdjustNeutral,
		Saturation: AdjustNeutral,
		Grayscale:  GrayscaleNeutral,
	}
}

// IsNeutral reports whether applying p would leave an image unchanged.
func (p Params) IsNeutral() bool {
	return p.photometricNeutral() && normalizeRotation(p.Rotation) == 0 && !p.FlipH
}

func (p Params) photometricNeutral() bool {
	return p.Brightness == AdjustNeutral &&
		p.Contrast == AdjustNeutral &&
		p.Saturation == AdjustNeutral &&
		p.Grayscale == GrayscaleNeutral
}

// SwapsDimensions reports whether the rotation turns the image on its side,
// i.e. whether rendered width and height are swapped relative to the source.
func (p Params) SwapsDimensions() bool {
	return normalizeRotation(p.Rotation)%180 != 0
}

// normalizeRotation reduces the accumulated rotation to [0, 360).
func normalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}

// AspectRatio is a crop preset expressed as a width/height pair.
type AspectRatio struct {
	Name   string
	Width  int
	Height int
}

// Value returns the ratio as width divided by height.
func (a AspectRatio) Value() float64 {
	return float64(a.Width) / float64(a.Height)
}

// AspectRatios lists the crop presets exposed to the host UI.
var AspectRatios = []AspectRatio{
	{"1:1", 1, 1},
	{"4:3", 4, 3},
	{"3:4", 3, 4},
	{"16:9", 16, 9},
	{"9:16", 9, 16},
	{"21:9", 21, 9},
}

// AspectRatioByName resolves a preset such as "16:9".
func AspectRatioByName(name string) (AspectRatio, error) {
	for _, a := range AspectRatios {
		if a.Name == name {
			return a, nil
		}
	}
	return AspectRatio{}, fmt.Errorf("editor: unknown aspect ratio %q", name)
}
