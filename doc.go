/*
Package voxgen runs sandboxed Lua scripts that generate voxel content into a region of a volume.

A generator script optionally declares its parameters with arguments() and must define
main(volume, region, color, ...). The host extracts the parameters, coerces the caller's
string arguments, and calls main with handles that can only write inside the region.
Colors are palette indices; the palette capability maps RGB values to the closest index.

# Script format

	function arguments()
		return {
			{ name = 'height', desc = 'tower height', type = 'int', default = '8', min = '1', max = '64' },
		}
	end

	function main(volume, region, color, height)
		for y = region:y(), math.min(region:y() + height - 1, region:maxs().y) do
			volume:setVoxel(region:x(), y, region:z(), color)
		end
	end

# Usage

New reads scripts/ and palette-<name>.<ext> files from a directory, or from any ports.FileSystem.

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/voxgen"
		"github.com/aretw0/voxgen/pkg/voxel"
	)

	func main() {
		gen, err := voxgen.New("./content")
		if err != nil {
			log.Fatal(err)
		}

		vol := voxel.NewRawVolume(voxel.Cube(16))
		res, err := gen.Run(context.Background(), "tower", vol, vol.Region(), 1, []string{"12"})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("%s wrote %d voxels", res.State, res.Written)
	}

Passing "help" as the first argument returns the parameter documentation in Result.Help
instead of running main.
*/
package voxgen
