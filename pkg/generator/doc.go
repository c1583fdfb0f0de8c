/*
Package generator runs Lua generator scripts against a voxel volume.

A run moves through Idle, SchemaExtracted, Running and ends in Succeeded or
Failed. The script is executed twice, each time in a fresh sandboxed runtime:
first to harvest the parameters declared by arguments(), then to call
main(volume, region, color, ...) with the coerced arguments.

	eng := generator.NewEngine(generator.WithTimeout(5 * time.Second))
	res, err := eng.Exec(ctx, generator.Request{
		Name:   "tower",
		Script: src,
		Volume: vol,
		Region: voxel.Cube(16),
		Color:  5,
		Args:   []string{"12"},
	})

Passing "help" as the first argument returns the parameter documentation in
Result.Help without calling main.

The Catalog lists the scripts available under scripts/ and loads them by name.
*/
package generator
