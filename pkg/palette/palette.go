package palette

import (
	"fmt"
	"image/color"
)

// MaxColors is the number of entries an 8-bit index can address.
const MaxColors = 256

// Palette is an immutable ordered list of colors. The position of a color is its index.
type Palette struct {
	name   string
	colors []color.RGBA
}

// New copies colors into a palette.
func New(name string, colors []color.RGBA) (*Palette, error) {
	if len(colors) > MaxColors {
		return nil, fmt.Errorf("%w: %d", ErrTooManyColors, len(colors))
	}
	c := make([]color.RGBA, len(colors))
	copy(c, colors)
	return &Palette{name: name, colors: c}, nil
}

// MustNew is New for palettes known to fit.
func MustNew(name string, colors []color.RGBA) *Palette {
	p, err := New(name, colors)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Palette) Name() string { return p.name }

// Len is the number of entries.
func (p *Palette) Len() int { return len(p.colors) }

// Color returns the entry at i.
func (p *Palette) Color(i int) (color.RGBA, error) {
	if i < 0 || i >= len(p.colors) {
		return color.RGBA{}, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfBounds, i, len(p.colors))
	}
	return p.colors[i], nil
}

// Colors returns a copy of the entries in index order.
func (p *Palette) Colors() []color.RGBA {
	c := make([]color.RGBA, len(p.colors))
	copy(c, p.colors)
	return c
}
