package voxel

import "encoding/json"

// MarshalJSON encodes the region as {"mins": {...}, "maxs": {...}}.
func (r Region) MarshalJSON() ([]byte, error) {
	return json.Marshal(regionJSON{Mins: r.lower, Maxs: r.upper})
}

// UnmarshalJSON decodes and validates the region.
func (r *Region) UnmarshalJSON(data []byte) error {
	var raw regionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewRegion(raw.Mins, raw.Maxs)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
