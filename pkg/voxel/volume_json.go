package voxel

import (
	"encoding/json"
	"fmt"
)

type rawVolumeJSON struct {
	Region Region `json:"region"`
	Voxels []Cell `json:"voxels"`
}

// MarshalJSON encodes the bounds and the non-air cells only.
func (v *RawVolume) MarshalJSON() ([]byte, error) {
	cells := v.Cells()
	if cells == nil {
		cells = []Cell{}
	}
	return json.Marshal(rawVolumeJSON{Region: v.region, Voxels: cells})
}

// UnmarshalJSON rebuilds a volume. Cells outside the region are an error.
func (v *RawVolume) UnmarshalJSON(data []byte) error {
	var raw rawVolumeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out, err := AllocRawVolume(raw.Region)
	if err != nil {
		return err
	}
	for _, c := range raw.Voxels {
		if !out.SetVoxel(c.Pos.X, c.Pos.Y, c.Pos.Z, c.Voxel) {
			return fmt.Errorf("voxel %v outside %s", c.Pos, raw.Region)
		}
	}
	*v = *out
	return nil
}
