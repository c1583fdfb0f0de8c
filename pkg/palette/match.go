package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// NoMatch is returned by ClosestMatch for an empty palette.
const NoMatch = -1

// Distance is the Euclidean distance between two colors with every channel scaled to [0,1].
func Distance(a, b color.RGBA) float64 {
	ca, cb := toColorful(a), toColorful(b)
	rgb := ca.DistanceRgb(cb)
	da := float64(a.A)/255.0 - float64(b.A)/255.0
	return math.Sqrt(rgb*rgb + da*da)
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

// ClosestMatch returns the index of the entry nearest to c. Ties go to the lowest index.
func ClosestMatch(c color.RGBA, p *Palette) int {
	return closest(c, p.colors, nil)
}

// closest scans colors, skipping indices marked in excluded.
func closest(c color.RGBA, colors []color.RGBA, excluded []bool) int {
	best := NoMatch
	bestDist := math.MaxFloat64
	for i, entry := range colors {
		if excluded != nil && excluded[i] {
			continue
		}
		if d := Distance(c, entry); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// SimilarSet returns up to count indices whose colors are nearest to the seed entry,
// closest first. The seed itself is never included.
func SimilarSet(seed, count int, p *Palette) ([]int, error) {
	target, err := p.Color(seed)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	excluded := make([]bool, p.Len())
	excluded[seed] = true

	out := make([]int, 0, min(count, p.Len()-1))
	for len(out) < count {
		idx := closest(target, p.colors, excluded)
		if idx == NoMatch {
			break
		}
		excluded[idx] = true
		out = append(out, idx)
	}
	return out, nil
}

// Converter maps colors coming from a foreign palette (a voxel file, an image) into the target palette.
type Converter struct {
	target  *Palette
	foreign []color.RGBA
	cache   map[color.RGBA]uint8
}

// NewConverter prepares a mapping from foreign into target.
func NewConverter(target *Palette, foreign []color.RGBA) *Converter {
	return &Converter{target: target, foreign: foreign, cache: make(map[color.RGBA]uint8)}
}

// FindClosestIndex returns the target index nearest to c. An empty target yields 0.
func (cv *Converter) FindClosestIndex(c color.RGBA) uint8 {
	if idx, ok := cv.cache[c]; ok {
		return idx
	}
	idx := ClosestMatch(c, cv.target)
	if idx == NoMatch {
		idx = 0
	}
	cv.cache[c] = uint8(idx)
	return uint8(idx)
}

// ConvertIndex maps an index of the foreign palette to the target palette.
func (cv *Converter) ConvertIndex(foreign uint32) (uint8, error) {
	if int(foreign) >= len(cv.foreign) {
		return 0, fmt.Errorf("%w: foreign index %d (size %d)", ErrIndexOutOfBounds, foreign, len(cv.foreign))
	}
	return cv.FindClosestIndex(cv.foreign[foreign]), nil
}
