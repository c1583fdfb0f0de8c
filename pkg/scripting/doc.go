/*
Package scripting is the bridge between generator scripts and the host.

Every run gets a fresh Runtime: a gopher-lua state with only the base, table,
string and math libraries, no file or module loading, and the voxgen
capabilities registered as globals:

  - palette: colors(), color(i), match(r, g, b), similar(i, n)
  - noise: noise2/3/4, fBm2/3/4, ridgedMF2/3/4, worley2/3
  - vec2, vec3, vec4, ivec3 constructors with arithmetic metamethods

Host objects cross the boundary as typed handles. A handle is userdata
carrying a tag, a reference and the session that created it. Every method
call checks the tag and refuses handles whose session has been closed, so a
handle can never outlive the run it was made for.
*/
package scripting
