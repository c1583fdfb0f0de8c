// Package registry holds host functions that embedding applications expose to generator scripts.
package registry
