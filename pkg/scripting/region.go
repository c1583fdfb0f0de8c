package scripting

import (
	"github.com/aretw0/voxgen/pkg/voxel"
	lua "github.com/yuin/gopher-lua"
)

var regionMethods = map[string]lua.LGFunction{
	"width":   regionInt(func(r *voxel.Region) int { return r.Width() }),
	"height":  regionInt(func(r *voxel.Region) int { return r.Height() }),
	"depth":   regionInt(func(r *voxel.Region) int { return r.Depth() }),
	"x":       regionInt(func(r *voxel.Region) int { return r.Lower().X }),
	"y":       regionInt(func(r *voxel.Region) int { return r.Lower().Y }),
	"z":       regionInt(func(r *voxel.Region) int { return r.Lower().Z }),
	"mins":    regionMins,
	"maxs":    regionMaxs,
	"setMins": regionSet(func(r *voxel.Region, v voxel.Vec3i) error { return r.SetLower(v) }),
	"setMaxs": regionSet(func(r *voxel.Region, v voxel.Vec3i) error { return r.SetUpper(v) }),
}

func regionInt(get func(*voxel.Region) int) lua.LGFunction {
	return func(L *lua.LState) int {
		r, _ := CheckRegion(L, 1)
		L.Push(lua.LNumber(get(r)))
		return 1
	}
}

func regionMins(L *lua.LState) int {
	r, _ := CheckRegion(L, 1)
	L.Push(newIVec3(L, r.Lower()))
	return 1
}

func regionMaxs(L *lua.LState) int {
	r, _ := CheckRegion(L, 1)
	L.Push(newIVec3(L, r.Upper()))
	return 1
}

func regionSet(set func(*voxel.Region, voxel.Vec3i) error) lua.LGFunction {
	return func(L *lua.LState) int {
		r, writable := CheckRegion(L, 1)
		if !writable {
			L.RaiseError("region is read-only")
			return 0
		}
		v := checkVec(L, 2, 3)
		if err := set(r, voxel.Vec3i{X: int(v[0]), Y: int(v[1]), Z: int(v[2])}); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}
}

func regionToString(L *lua.LState) int {
	r, _ := CheckRegion(L, 1)
	L.Push(lua.LString(r.String()))
	return 1
}
