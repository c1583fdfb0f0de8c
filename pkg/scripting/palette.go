package scripting

import (
	"fmt"
	"image/color"

	"github.com/aretw0/voxgen/pkg/palette"
	lua "github.com/yuin/gopher-lua"
)

func registerPalette(L *lua.LState, p *palette.Palette) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		// palette.colors() -> { vec4, ... } in index order, 1-based
		"colors": func(L *lua.LState) int {
			colors := p.Colors()
			tbl := L.CreateTable(len(colors), 0)
			for _, c := range colors {
				tbl.Append(newVec4(L, float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255))
			}
			L.Push(tbl)
			return 1
		},
		// palette.color(i) -> vec4 of the 0-based entry i
		"color": func(L *lua.LState) int {
			c, err := p.Color(L.CheckInt(1))
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			L.Push(newVec4(L, float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255))
			return 1
		},
		// palette.match(r, g, b) -> index of the closest entry
		"match": func(L *lua.LState) int {
			var rgb [3]uint8
			for i := range rgb {
				v := L.CheckInt(i + 1)
				if v < 0 || v > 255 {
					L.ArgError(i+1, fmt.Sprintf("channel %d out of range 0..255", v))
					return 0
				}
				rgb[i] = uint8(v)
			}
			idx := palette.ClosestMatch(rgba(rgb), p)
			if idx == palette.NoMatch {
				L.RaiseError("palette is empty")
				return 0
			}
			L.Push(lua.LNumber(idx))
			return 1
		},
		// palette.similar(i, n) -> up to n indices close to entry i, or nil
		"similar": func(L *lua.LState) int {
			seed, count := L.CheckInt(1), L.CheckInt(2)
			set, err := palette.SimilarSet(seed, count, p)
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			if len(set) == 0 {
				L.Push(lua.LNil)
				return 1
			}
			tbl := L.CreateTable(len(set), 0)
			for _, idx := range set {
				tbl.Append(lua.LNumber(idx))
			}
			L.Push(tbl)
			return 1
		},
	})
	L.SetGlobal("palette", mod)
}

func rgba(c [3]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}
