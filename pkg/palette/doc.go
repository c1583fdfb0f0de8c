/*
Package palette owns the 256-entry color table voxels index into.

Voxels never carry raw colors. Anything that starts from RGB (guest scripts,
voxel file codecs, image importers) goes through ClosestMatch to obtain an
index. The process-wide Store holds the active palette and only swaps it
between runs.
*/
package palette
