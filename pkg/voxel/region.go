package voxel

import (
	"errors"
	"fmt"
)

// ErrInvalidRegion is returned when a corner update would leave Lower > Upper on any axis.
var ErrInvalidRegion = errors.New("invalid region")

// ErrRegionTooLarge is returned when a region holds more than MaxCells cells.
var ErrRegionTooLarge = errors.New("region too large")

// MaxCells bounds the volumes built from caller-supplied regions (256^3).
const MaxCells = 1 << 24

// Vec3i is an integer 3D coordinate.
type Vec3i struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// LessOrEqual reports whether v <= o on every axis.
func (v Vec3i) LessOrEqual(o Vec3i) bool {
	return v.X <= o.X && v.Y <= o.Y && v.Z <= o.Z
}

// Region is an axis-aligned box. Both corners are inclusive.
type Region struct {
	lower Vec3i
	upper Vec3i
}

// NewRegion creates a region from its two corners.
func NewRegion(lower, upper Vec3i) (Region, error) {
	if !lower.LessOrEqual(upper) {
		return Region{}, fmt.Errorf("%w: lower %v exceeds upper %v", ErrInvalidRegion, lower, upper)
	}
	return Region{lower: lower, upper: upper}, nil
}

// MustRegion is NewRegion for literals known to be valid.
func MustRegion(x1, y1, z1, x2, y2, z2 int) Region {
	r, err := NewRegion(Vec3i{x1, y1, z1}, Vec3i{x2, y2, z2})
	if err != nil {
		panic(err)
	}
	return r
}

// Cube returns the region [0,0,0]-[size-1,size-1,size-1].
func Cube(size int) Region {
	if size < 1 {
		size = 1
	}
	return Region{upper: Vec3i{size - 1, size - 1, size - 1}}
}

func (r Region) Lower() Vec3i { return r.lower }
func (r Region) Upper() Vec3i { return r.upper }

// Width is the number of voxels along X.
func (r Region) Width() int { return r.upper.X - r.lower.X + 1 }

// Height is the number of voxels along Y.
func (r Region) Height() int { return r.upper.Y - r.lower.Y + 1 }

// Depth is the number of voxels along Z.
func (r Region) Depth() int { return r.upper.Z - r.lower.Z + 1 }

// Volume is the number of cells in the region. It wraps for regions past
// MaxCells; use CheckedVolume on untrusted input.
func (r Region) Volume() int { return r.Width() * r.Height() * r.Depth() }

// CheckedVolume is Volume bounded by MaxCells.
func (r Region) CheckedVolume() (int, error) {
	n := uint64(1)
	for _, span := range [3][2]int{
		{r.lower.X, r.upper.X},
		{r.lower.Y, r.upper.Y},
		{r.lower.Z, r.upper.Z},
	} {
		// Exact for any lower <= upper, even when upper-lower overflows int.
		d := uint64(span[1]) - uint64(span[0])
		if d >= MaxCells {
			return 0, fmt.Errorf("%w: %s exceeds %d cells", ErrRegionTooLarge, r, MaxCells)
		}
		n *= d + 1
		if n > MaxCells {
			return 0, fmt.Errorf("%w: %s exceeds %d cells", ErrRegionTooLarge, r, MaxCells)
		}
	}
	return int(n), nil
}

// Contains reports whether the coordinate lies inside the region.
func (r Region) Contains(x, y, z int) bool {
	return x >= r.lower.X && x <= r.upper.X &&
		y >= r.lower.Y && y <= r.upper.Y &&
		z >= r.lower.Z && z <= r.upper.Z
}

// SetLower moves the lower corner. The update is rejected if it would exceed Upper.
func (r *Region) SetLower(v Vec3i) error {
	if !v.LessOrEqual(r.upper) {
		return fmt.Errorf("%w: lower %v exceeds upper %v", ErrInvalidRegion, v, r.upper)
	}
	r.lower = v
	return nil
}

// SetUpper moves the upper corner. The update is rejected if it would fall below Lower.
func (r *Region) SetUpper(v Vec3i) error {
	if !r.lower.LessOrEqual(v) {
		return fmt.Errorf("%w: upper %v below lower %v", ErrInvalidRegion, v, r.lower)
	}
	r.upper = v
	return nil
}

// Intersect returns the overlap of two regions, or false when they are disjoint.
func (r Region) Intersect(o Region) (Region, bool) {
	lo := Vec3i{max(r.lower.X, o.lower.X), max(r.lower.Y, o.lower.Y), max(r.lower.Z, o.lower.Z)}
	hi := Vec3i{min(r.upper.X, o.upper.X), min(r.upper.Y, o.upper.Y), min(r.upper.Z, o.upper.Z)}
	if !lo.LessOrEqual(hi) {
		return Region{}, false
	}
	return Region{lower: lo, upper: hi}, true
}

func (r Region) String() string {
	return fmt.Sprintf("region: [%d:%d:%d]/[%d:%d:%d]",
		r.lower.X, r.lower.Y, r.lower.Z, r.upper.X, r.upper.Y, r.upper.Z)
}

// regionJSON is the wire form used by adapters.
type regionJSON struct {
	Mins Vec3i `json:"mins"`
	Maxs Vec3i `json:"maxs"`
}
