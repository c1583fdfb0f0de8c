// Package noise provides the coherent noise functions exposed to generator scripts.
//
// Simplex evaluation comes from opensimplex-go; fractal sums and cellular noise are built on top.
// All functions are pure for a given seed.
package noise

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Defaults for the fractal functions.
const (
	DefaultOctaves     = 4
	DefaultLacunarity  = 2.0
	DefaultGain        = 0.5
	DefaultRidgeOffset = 1.0
)

// Noise evaluates simplex, fractal and cellular noise for one seed. Safe for concurrent use.
type Noise struct {
	seed    int64
	simplex opensimplex.Noise
}

// New creates a noise source.
func New(seed int64) *Noise {
	return &Noise{seed: seed, simplex: opensimplex.New(seed)}
}

func (n *Noise) Seed() int64 { return n.seed }

// Simplex2 returns simplex noise in about [-1, 1].
func (n *Noise) Simplex2(x, y float64) float64 { return n.simplex.Eval2(x, y) }

func (n *Noise) Simplex3(x, y, z float64) float64 { return n.simplex.Eval3(x, y, z) }

func (n *Noise) Simplex4(x, y, z, w float64) float64 { return n.simplex.Eval4(x, y, z, w) }

// Fractal sets the octave parameters of FBm and RidgedMF.
type Fractal struct {
	Octaves     int
	Lacunarity  float64
	Gain        float64
	RidgeOffset float64
}

// DefaultFractal returns the defaults used when a script omits parameters.
func DefaultFractal() Fractal {
	return Fractal{
		Octaves:     DefaultOctaves,
		Lacunarity:  DefaultLacunarity,
		Gain:        DefaultGain,
		RidgeOffset: DefaultRidgeOffset,
	}
}

func (f Fractal) octaves() int {
	if f.Octaves < 1 {
		return 1
	}
	return min(f.Octaves, 32)
}

// fbm sums octaves of eval scaled by frequency. The result is normalized by the total amplitude.
func fbm(f Fractal, eval func(freq float64) float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < f.octaves(); i++ {
		sum += eval(freq) * amp
		norm += amp
		freq *= f.Lacunarity
		amp *= f.Gain
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// ridged is Musgrave's ridged multifractal: each octave is weighted by the previous one.
func ridged(f Fractal, eval func(freq float64) float64) float64 {
	var sum float64
	amp, freq, weight := 1.0, 1.0, 1.0
	for i := 0; i < f.octaves(); i++ {
		signal := f.RidgeOffset - math.Abs(eval(freq))
		signal *= signal * weight
		weight = math.Min(math.Max(signal*2, 0), 1)
		sum += signal * amp
		freq *= f.Lacunarity
		amp *= f.Gain
	}
	return sum
}

func (n *Noise) FBm2(x, y float64, f Fractal) float64 {
	return fbm(f, func(s float64) float64 { return n.simplex.Eval2(x*s, y*s) })
}

func (n *Noise) FBm3(x, y, z float64, f Fractal) float64 {
	return fbm(f, func(s float64) float64 { return n.simplex.Eval3(x*s, y*s, z*s) })
}

func (n *Noise) FBm4(x, y, z, w float64, f Fractal) float64 {
	return fbm(f, func(s float64) float64 { return n.simplex.Eval4(x*s, y*s, z*s, w*s) })
}

func (n *Noise) RidgedMF2(x, y float64, f Fractal) float64 {
	return ridged(f, func(s float64) float64 { return n.simplex.Eval2(x*s, y*s) })
}

func (n *Noise) RidgedMF3(x, y, z float64, f Fractal) float64 {
	return ridged(f, func(s float64) float64 { return n.simplex.Eval3(x*s, y*s, z*s) })
}

func (n *Noise) RidgedMF4(x, y, z, w float64, f Fractal) float64 {
	return ridged(f, func(s float64) float64 { return n.simplex.Eval4(x*s, y*s, z*s, w*s) })
}
