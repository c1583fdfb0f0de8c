package noise

import "math"

// Worley2 returns the distance to the nearest feature point, one point per unit cell.
func (n *Noise) Worley2(x, y float64) float64 {
	cx, cy := math.Floor(x), math.Floor(y)
	best := math.MaxFloat64
	for dy := -1.0; dy <= 1; dy++ {
		for dx := -1.0; dx <= 1; dx++ {
			h := n.hash(int64(cx+dx), int64(cy+dy), 0)
			px := cx + dx + unit(h)
			py := cy + dy + unit(h>>21)
			best = math.Min(best, math.Hypot(px-x, py-y))
		}
	}
	return best
}

// Worley3 is Worley2 in three dimensions.
func (n *Noise) Worley3(x, y, z float64) float64 {
	cx, cy, cz := math.Floor(x), math.Floor(y), math.Floor(z)
	best := math.MaxFloat64
	for dz := -1.0; dz <= 1; dz++ {
		for dy := -1.0; dy <= 1; dy++ {
			for dx := -1.0; dx <= 1; dx++ {
				h := n.hash(int64(cx+dx), int64(cy+dy), int64(cz+dz))
				px := cx + dx + unit(h) - x
				py := cy + dy + unit(h>>21) - y
				pz := cz + dz + unit(h>>42) - z
				best = math.Min(best, math.Sqrt(px*px+py*py+pz*pz))
			}
		}
	}
	return best
}

// hash mixes a cell coordinate with the seed (splitmix64 finalizer).
func (n *Noise) hash(x, y, z int64) uint64 {
	h := uint64(n.seed) ^ uint64(x)*0x9E3779B97F4A7C15 ^ uint64(y)*0xC2B2AE3D27D4EB4F ^ uint64(z)*0x165667B19E3779F9
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return h
}

// unit maps the low 21 bits of h to [0, 1).
func unit(h uint64) float64 {
	return float64(h&0x1FFFFF) / float64(0x200000)
}
