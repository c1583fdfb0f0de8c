package scripting

import (
	"fmt"

	"github.com/aretw0/voxgen/pkg/voxel"
	lua "github.com/yuin/gopher-lua"
)

var volumeMethods = map[string]lua.LGFunction{
	"voxel":    volumeVoxel,
	"region":   volumeRegion,
	"setVoxel": volumeSetVoxel,
}

// volume:voxel(x, y, z) -> palette index, or -1 for air
func volumeVoxel(L *lua.LState) int {
	g := CheckVolume(L, 1)
	x, y, z := L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	color, air := g.Voxel(x, y, z)
	if air {
		L.Push(lua.LNumber(-1))
	} else {
		L.Push(lua.LNumber(color))
	}
	return 1
}

// volume:region() -> read-only region handle of the writable area
func volumeRegion(L *lua.LState) int {
	h := checkHandle(L, 1, VolumeTag)
	region := h.ref.(*voxel.Guard).Region()
	L.Push(pushHandle(L, h.session, RegionTag, &region, true))
	return 1
}

// volume:setVoxel(x, y, z, color) -> true if the write landed inside the region
func volumeSetVoxel(L *lua.LState) int {
	g := CheckVolume(L, 1)
	x, y, z := L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)
	color := L.CheckInt(5)
	if color < 0 || color > 255 {
		L.ArgError(5, fmt.Sprintf("palette index %d out of range 0..255", color))
		return 0
	}
	L.Push(lua.LBool(g.SetVoxel(x, y, z, uint8(color))))
	return 1
}

func volumeToString(L *lua.LState) int {
	g := CheckVolume(L, 1)
	L.Push(lua.LString("volume: " + g.Region().String()))
	return 1
}
