/*
Package ports defines the driven ports (interfaces) for the voxgen generator.

These interfaces decouple the generator core from external implementations, allowing
it to work with various file sources, volume stores and lock backends.

# Key Interfaces

  - FileSystem: Responsible for loading scripts and palette resources (e.g., from a directory or memory).
  - VolumeStore: Keeps named volumes between requests for long-running servers.
  - Locker: Serializes runs that target the same volume, in-process or across replicas.
*/
package ports
