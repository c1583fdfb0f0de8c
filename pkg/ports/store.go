package ports

import (
	"context"
	"errors"

	"github.com/aretw0/voxgen/pkg/voxel"
)

// ErrVolumeNotFound is returned when a volume ID is not present in the store.
var ErrVolumeNotFound = errors.New("volume not found")

// VolumeStore keeps named volumes alive between generation requests.
type VolumeStore interface {
	// Put stores or replaces the volume under id.
	Put(ctx context.Context, id string, volume *voxel.RawVolume) error

	// Get returns the volume stored under id.
	// Returns ErrVolumeNotFound if the id does not exist.
	Get(ctx context.Context, id string) (*voxel.RawVolume, error)

	// Delete removes the volume. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all stored ids in sorted order.
	List(ctx context.Context) ([]string, error)
}
