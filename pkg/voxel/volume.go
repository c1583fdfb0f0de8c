package voxel

// Volume is a mutable voxel container. Implementations are not safe for concurrent use.
type Volume interface {
	// Region returns the bounds of the stored data.
	Region() Region
	// Voxel returns the cell at the coordinate, or Air outside the bounds.
	Voxel(x, y, z int) Voxel
	// SetVoxel stores v and reports whether the coordinate was inside the bounds.
	SetVoxel(x, y, z int, v Voxel) bool
}

// RawVolume stores every cell of its region in a flat slice.
type RawVolume struct {
	region Region
	data   []Voxel
}

// AllocRawVolume is NewRawVolume for untrusted regions. It fails with
// ErrRegionTooLarge instead of allocating more than MaxCells cells.
func AllocRawVolume(region Region) (*RawVolume, error) {
	if _, err := region.CheckedVolume(); err != nil {
		return nil, err
	}
	return NewRawVolume(region), nil
}

// NewRawVolume allocates an empty (all air) volume covering region.
func NewRawVolume(region Region) *RawVolume {
	return &RawVolume{
		region: region,
		data:   make([]Voxel, region.Volume()),
	}
}

func (v *RawVolume) Region() Region { return v.region }

func (v *RawVolume) index(x, y, z int) int {
	lo := v.region.lower
	w, h := v.region.Width(), v.region.Height()
	return (x - lo.X) + (y-lo.Y)*w + (z-lo.Z)*w*h
}

func (v *RawVolume) Voxel(x, y, z int) Voxel {
	if !v.region.Contains(x, y, z) {
		return Voxel{}
	}
	return v.data[v.index(x, y, z)]
}

func (v *RawVolume) SetVoxel(x, y, z int, vx Voxel) bool {
	if !v.region.Contains(x, y, z) {
		return false
	}
	v.data[v.index(x, y, z)] = vx
	return true
}

// Cell is a non-air voxel with its position.
type Cell struct {
	Pos   Vec3i `json:"pos"`
	Voxel Voxel `json:"voxel"`
}

// Cells lists every non-air voxel in x, then y, then z order.
func (v *RawVolume) Cells() []Cell {
	var out []Cell
	lo, hi := v.region.lower, v.region.upper
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				vx := v.data[v.index(x, y, z)]
				if vx.IsAir() {
					continue
				}
				out = append(out, Cell{Pos: Vec3i{x, y, z}, Voxel: vx})
			}
		}
	}
	return out
}

// Count returns the number of non-air voxels.
func (v *RawVolume) Count() int {
	n := 0
	for _, vx := range v.data {
		if !vx.IsAir() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (v *RawVolume) Clone() *RawVolume {
	data := make([]Voxel, len(v.data))
	copy(data, v.data)
	return &RawVolume{region: v.region, data: data}
}
