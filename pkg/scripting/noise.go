package scripting

import (
	"github.com/aretw0/voxgen/pkg/noise"
	lua "github.com/yuin/gopher-lua"
)

func registerNoise(L *lua.LState, n *noise.Noise) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"noise2": func(L *lua.LState) int {
			v := checkVec(L, 1, 2)
			return pushNumber(L, n.Simplex2(v[0], v[1]))
		},
		"noise3": func(L *lua.LState) int {
			v := checkVec(L, 1, 3)
			return pushNumber(L, n.Simplex3(v[0], v[1], v[2]))
		},
		"noise4": func(L *lua.LState) int {
			v := checkVec(L, 1, 4)
			return pushNumber(L, n.Simplex4(v[0], v[1], v[2], v[3]))
		},
		"fBm2": func(L *lua.LState) int {
			v := checkVec(L, 1, 2)
			return pushNumber(L, n.FBm2(v[0], v[1], optFractal(L, 2, false)))
		},
		"fBm3": func(L *lua.LState) int {
			v := checkVec(L, 1, 3)
			return pushNumber(L, n.FBm3(v[0], v[1], v[2], optFractal(L, 2, false)))
		},
		"fBm4": func(L *lua.LState) int {
			v := checkVec(L, 1, 4)
			return pushNumber(L, n.FBm4(v[0], v[1], v[2], v[3], optFractal(L, 2, false)))
		},
		"ridgedMF2": func(L *lua.LState) int {
			v := checkVec(L, 1, 2)
			return pushNumber(L, n.RidgedMF2(v[0], v[1], optFractal(L, 2, true)))
		},
		"ridgedMF3": func(L *lua.LState) int {
			v := checkVec(L, 1, 3)
			return pushNumber(L, n.RidgedMF3(v[0], v[1], v[2], optFractal(L, 2, true)))
		},
		"ridgedMF4": func(L *lua.LState) int {
			v := checkVec(L, 1, 4)
			return pushNumber(L, n.RidgedMF4(v[0], v[1], v[2], v[3], optFractal(L, 2, true)))
		},
		"worley2": func(L *lua.LState) int {
			v := checkVec(L, 1, 2)
			return pushNumber(L, n.Worley2(v[0], v[1]))
		},
		"worley3": func(L *lua.LState) int {
			v := checkVec(L, 1, 3)
			return pushNumber(L, n.Worley3(v[0], v[1], v[2]))
		},
	})
	L.SetGlobal("noise", mod)
}

// optFractal reads the optional fractal arguments starting at n.
// Ridged functions take (ridgeOffset, octaves, lacunarity, gain); fBm takes (octaves, lacunarity, gain).
func optFractal(L *lua.LState, n int, ridged bool) noise.Fractal {
	f := noise.DefaultFractal()
	if ridged {
		f.RidgeOffset = float64(L.OptNumber(n, lua.LNumber(f.RidgeOffset)))
		n++
	}
	f.Octaves = L.OptInt(n, f.Octaves)
	f.Lacunarity = float64(L.OptNumber(n+1, lua.LNumber(f.Lacunarity)))
	f.Gain = float64(L.OptNumber(n+2, lua.LNumber(f.Gain)))
	return f
}

func pushNumber(L *lua.LState, v float64) int {
	L.Push(lua.LNumber(v))
	return 1
}
