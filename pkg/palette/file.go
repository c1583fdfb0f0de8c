package palette

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/voxgen/pkg/ports"

	// Decoders for the palette image formats.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/png"
)

const filePrefix = "palette-"

// Extensions are the image formats a palette file may use, in lookup order.
var Extensions = []string{"png", "bmp", "tiff", "webp"}

// ExtractName returns the palette name encoded in a file name, or "" when the file is not a palette.
// "palette-nippon.png" yields "nippon".
func ExtractName(file string) string {
	base := path.Base(file)
	if !strings.HasPrefix(base, filePrefix) {
		return ""
	}
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if !knownExt(ext) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), "."+ext)
}

func knownExt(ext string) bool {
	for _, e := range Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// List returns the sorted, de-duplicated names of the palette files in the root of fsys.
func List(fsys ports.FileSystem) ([]string, error) {
	entries, err := fsys.List(".", filePrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		name := ExtractName(e.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load reads palette-<name>.<ext> from fsys, trying each of Extensions.
// The name "default" always resolves to the built-in palette.
func Load(fsys ports.FileSystem, name string) (*Palette, error) {
	if name == DefaultName || name == "" {
		return Default(), nil
	}
	for _, ext := range Extensions {
		data, err := fsys.Load(filePrefix + name + "." + ext)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load palette %q: %w", name, err)
		}
		return Decode(name, bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %s", ErrPaletteNotFound, name)
}

// Decode builds a palette from an image. Pixels are read row by row and the first 256 are kept.
func Decode(name string, r io.Reader) (*Palette, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode palette %q: %w", name, err)
	}
	b := img.Bounds()
	colors := make([]color.RGBA, 0, MaxColors)
	for y := b.Min.Y; y < b.Max.Y && len(colors) < MaxColors; y++ {
		for x := b.Min.X; x < b.Max.X && len(colors) < MaxColors; x++ {
			colors = append(colors, color.RGBAModel.Convert(img.At(x, y)).(color.RGBA))
		}
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPalette, name)
	}
	return New(name, colors)
}
