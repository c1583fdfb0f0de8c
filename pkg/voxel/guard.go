package voxel

// Guard restricts reads and writes on a Volume to one Region.
// It performs no locking and assumes exclusive access for the duration of a run.
type Guard struct {
	volume   Volume
	region   Region
	written  int
	rejected int
}

// NewGuard wraps volume. The effective region is the part of region the volume can store.
// It returns false when the two do not overlap.
func NewGuard(volume Volume, region Region) (*Guard, bool) {
	effective, ok := region.Intersect(volume.Region())
	if !ok {
		return nil, false
	}
	return &Guard{volume: volume, region: effective}, true
}

// Voxel returns the palette index at the coordinate, with air reported separately.
func (g *Guard) Voxel(x, y, z int) (color uint8, air bool) {
	if !g.region.Contains(x, y, z) {
		return 0, true
	}
	v := g.volume.Voxel(x, y, z)
	return v.Color, v.IsAir()
}

// Region returns a copy of the region writes are confined to.
func (g *Guard) Region() Region { return g.region }

// SetVoxel writes a Generic voxel. Coordinates outside the region are rejected, not clamped.
func (g *Guard) SetVoxel(x, y, z int, color uint8) bool {
	if !g.region.Contains(x, y, z) {
		g.rejected++
		return false
	}
	if !g.volume.SetVoxel(x, y, z, New(Generic, color)) {
		g.rejected++
		return false
	}
	g.written++
	return true
}

// Written is the number of accepted writes.
func (g *Guard) Written() int { return g.written }

// Rejected is the number of writes refused for falling outside the region.
func (g *Guard) Rejected() int { return g.rejected }
