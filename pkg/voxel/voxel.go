package voxel

// Material tags a voxel. Air is the empty sentinel.
type Material uint8

const (
	Air Material = iota
	Generic
)

func (m Material) String() string {
	switch m {
	case Air:
		return "air"
	case Generic:
		return "generic"
	default:
		return "unknown"
	}
}

// Voxel is a materialized cell. Color is an index into the active palette.
type Voxel struct {
	Material Material `json:"material"`
	Color    uint8    `json:"color"`
}

// New creates a voxel of the given material and palette index.
func New(m Material, color uint8) Voxel {
	return Voxel{Material: m, Color: color}
}

// IsAir reports whether the voxel is empty.
func (v Voxel) IsAir() bool { return v.Material == Air }
