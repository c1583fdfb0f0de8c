package palette

import (
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the name of the built-in palette.
const DefaultName = "default"

const (
	grays   = 16
	hues    = 24
	ramps   = 10 // (saturation, value) steps per hue
	rampLen = hues * ramps
)

var defaultPalette = sync.OnceValue(buildDefault)

// Default returns the built-in palette: 16 grays followed by 24 hues in 10 shades each.
func Default() *Palette { return defaultPalette() }

func buildDefault() *Palette {
	colors := make([]color.RGBA, 0, grays+rampLen)
	for i := 0; i < grays; i++ {
		v := uint8(i * 255 / (grays - 1))
		colors = append(colors, color.RGBA{R: v, G: v, B: v, A: 0xff})
	}
	shades := [ramps][2]float64{
		{1.00, 0.25}, {1.00, 0.40}, {1.00, 0.55}, {1.00, 0.70}, {1.00, 0.85},
		{1.00, 1.00}, {0.75, 1.00}, {0.55, 1.00}, {0.35, 1.00}, {0.20, 1.00},
	}
	for h := 0; h < hues; h++ {
		hue := float64(h) * 360.0 / hues
		for _, sv := range shades {
			r, g, b := colorful.Hsv(hue, sv[0], sv[1]).Clamped().RGB255()
			colors = append(colors, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return MustNew(DefaultName, colors)
}
