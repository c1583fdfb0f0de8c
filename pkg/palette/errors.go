package palette

import "errors"

var (
	// ErrTooManyColors is returned when a palette is built from more than MaxColors entries.
	ErrTooManyColors = errors.New("palette exceeds 256 colors")
	// ErrIndexOutOfBounds is returned for indices outside the palette.
	ErrIndexOutOfBounds = errors.New("palette index out of bounds")
	// ErrPaletteNotFound is returned when no palette file matches a name.
	ErrPaletteNotFound = errors.New("palette not found")
	// ErrEmptyPalette is returned when an image yields no colors.
	ErrEmptyPalette = errors.New("palette has no colors")
)
