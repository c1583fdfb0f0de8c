/*
Package voxel contains the volume model the generator mutates.

# Key Types

  - Region: an inclusive integer box. Lower is component-wise <= Upper at all times.
  - Voxel: a material tag and a palette index. Voxels never carry raw colors.
  - RawVolume: a dense in-memory volume covering one Region.
  - Guard: the bounds-checked wrapper that is the only mutation path scripts see.
*/
package voxel
