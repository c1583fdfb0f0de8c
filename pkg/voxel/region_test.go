package voxel

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion_Dimensions(t *testing.T) {
	r := MustRegion(0, 0, 0, 1, 2, 3)
	assert.Equal(t, 2, r.Width())
	assert.Equal(t, 3, r.Height())
	assert.Equal(t, 4, r.Depth())
	assert.Equal(t, 24, r.Volume())
	assert.Equal(t, "region: [0:0:0]/[1:2:3]", r.String())
}

func TestRegion_RejectsInvalidCorners(t *testing.T) {
	_, err := NewRegion(Vec3i{2, 0, 0}, Vec3i{1, 1, 1})
	assert.ErrorIs(t, err, ErrInvalidRegion)

	r := MustRegion(0, 0, 0, 4, 4, 4)

	t.Run("SetLower beyond upper", func(t *testing.T) {
		err := r.SetLower(Vec3i{5, 0, 0})
		assert.ErrorIs(t, err, ErrInvalidRegion)
		assert.Equal(t, Vec3i{0, 0, 0}, r.Lower(), "region must be unchanged")
	})

	t.Run("SetUpper below lower", func(t *testing.T) {
		err := r.SetUpper(Vec3i{4, -1, 4})
		assert.ErrorIs(t, err, ErrInvalidRegion)
		assert.Equal(t, Vec3i{4, 4, 4}, r.Upper())
	})

	t.Run("Valid updates", func(t *testing.T) {
		require.NoError(t, r.SetLower(Vec3i{1, 1, 1}))
		require.NoError(t, r.SetUpper(Vec3i{1, 1, 1}))
		assert.Equal(t, 1, r.Volume())
	})
}

func TestRegion_CheckedVolume(t *testing.T) {
	n, err := MustRegion(-1, -1, -1, 1, 1, 1).CheckedVolume()
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	n, err = Cube(256).CheckedVolume()
	require.NoError(t, err)
	assert.Equal(t, MaxCells, n)

	tooLarge := []Region{
		Cube(257),
		MustRegion(0, 0, 0, 100000, 100000, 10),
		MustRegion(0, 0, 0, 1<<32-1, 1<<32-1, 0),
		MustRegion(math.MinInt, 0, 0, math.MaxInt, 0, 0),
	}
	for _, r := range tooLarge {
		_, err := r.CheckedVolume()
		assert.ErrorIs(t, err, ErrRegionTooLarge, r.String())
	}
}

func TestAllocRawVolume(t *testing.T) {
	vol, err := AllocRawVolume(Cube(2))
	require.NoError(t, err)
	assert.Equal(t, Cube(2), vol.Region())

	_, err = AllocRawVolume(MustRegion(0, 0, 0, 100000, 100000, 10))
	assert.ErrorIs(t, err, ErrRegionTooLarge)

	var decoded RawVolume
	err = json.Unmarshal([]byte(`{"region":{"mins":{"x":0,"y":0,"z":0},"maxs":{"x":100000,"y":100000,"z":10}},"voxels":[]}`), &decoded)
	assert.ErrorIs(t, err, ErrRegionTooLarge)
}

func TestRegion_Intersect(t *testing.T) {
	a := MustRegion(0, 0, 0, 9, 9, 9)
	b := MustRegion(5, -5, 5, 15, 5, 15)

	got, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, MustRegion(5, 0, 5, 9, 5, 9), got)

	_, ok = a.Intersect(MustRegion(10, 10, 10, 11, 11, 11))
	assert.False(t, ok)
}

func TestRegion_JSON(t *testing.T) {
	r := MustRegion(-1, 0, 1, 2, 3, 4)
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mins":{"x":-1,"y":0,"z":1},"maxs":{"x":2,"y":3,"z":4}}`, string(data))

	var back Region
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)

	err = json.Unmarshal([]byte(`{"mins":{"x":3,"y":0,"z":0},"maxs":{"x":0,"y":0,"z":0}}`), &back)
	assert.ErrorIs(t, err, ErrInvalidRegion)
}
