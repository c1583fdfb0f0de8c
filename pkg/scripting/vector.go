package scripting

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/voxgen/pkg/voxel"
	lua "github.com/yuin/gopher-lua"
)

var vecFields = [4]string{"x", "y", "z", "w"}

type vecType struct {
	name    string
	dims    int
	integer bool
}

var vecTypes = []vecType{
	{"vec2", 2, false},
	{"vec3", 3, false},
	{"vec4", 4, false},
	{"ivec3", 3, true},
}

func metaName(t vecType) string { return "voxgen." + t.name }

func registerVectors(L *lua.LState) {
	for _, t := range vecTypes {
		mt := L.NewTypeMetatable(metaName(t))
		L.SetField(mt, "__add", L.NewFunction(vecArith(t, func(a, b float64) float64 { return a + b })))
		L.SetField(mt, "__sub", L.NewFunction(vecArith(t, func(a, b float64) float64 { return a - b })))
		L.SetField(mt, "__mul", L.NewFunction(vecArith(t, func(a, b float64) float64 { return a * b })))
		L.SetField(mt, "__unm", L.NewFunction(func(L *lua.LState) int {
			c := checkVec(L, 1, t.dims)
			for i := range c {
				c[i] = -c[i]
			}
			L.Push(newVec(L, t, c))
			return 1
		}))
		L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
			a, b := checkVec(L, 1, t.dims), checkVec(L, 2, t.dims)
			eq := true
			for i := range a {
				eq = eq && a[i] == b[i]
			}
			L.Push(lua.LBool(eq))
			return 1
		}))
		L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LString(formatVec(t, checkVec(L, 1, t.dims))))
			return 1
		}))
		L.SetGlobal(t.name, L.NewFunction(vecConstructor(t)))
	}
}

// vecConstructor builds vecN(x, y, ...) or vecN(other). Missing components are 0.
func vecConstructor(t vecType) lua.LGFunction {
	return func(L *lua.LState) int {
		if tbl, ok := L.Get(1).(*lua.LTable); ok {
			L.Push(newVec(L, t, checkVecValue(L, 1, tbl, t.dims)))
			return 1
		}
		c := make([]float64, t.dims)
		for i := range c {
			c[i] = float64(L.OptNumber(i+1, 0))
		}
		L.Push(newVec(L, t, c))
		return 1
	}
}

// vecArith applies op component-wise. One side may be a number, which is broadcast.
func vecArith(t vecType, op func(a, b float64) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		a, b := arithOperand(L, 1, t.dims), arithOperand(L, 2, t.dims)
		out := make([]float64, t.dims)
		for i := range out {
			out[i] = op(a[i], b[i])
		}
		L.Push(newVec(L, t, out))
		return 1
	}
}

func arithOperand(L *lua.LState, n, dims int) []float64 {
	if num, ok := L.Get(n).(lua.LNumber); ok {
		out := make([]float64, dims)
		for i := range out {
			out[i] = float64(num)
		}
		return out
	}
	return checkVec(L, n, dims)
}

func newVec(L *lua.LState, t vecType, c []float64) *lua.LTable {
	tbl := L.CreateTable(0, t.dims)
	for i := 0; i < t.dims; i++ {
		v := c[i]
		if t.integer {
			v = math.Trunc(v)
		}
		tbl.RawSetString(vecFields[i], lua.LNumber(v))
	}
	L.SetMetatable(tbl, L.GetTypeMetatable(metaName(t)))
	return tbl
}

func newIVec3(L *lua.LState, v voxel.Vec3i) *lua.LTable {
	return newVec(L, vecTypes[3], []float64{float64(v.X), float64(v.Y), float64(v.Z)})
}

func newVec4(L *lua.LState, c ...float64) *lua.LTable {
	return newVec(L, vecTypes[2], c)
}

// checkVec reads argument n as a vector of dims components.
// Both {x=1, y=2, z=3} and {1, 2, 3} are accepted; extra components are ignored.
func checkVec(L *lua.LState, n, dims int) []float64 {
	tbl, ok := L.Get(n).(*lua.LTable)
	if !ok {
		L.ArgError(n, fmt.Sprintf("vector of %d components expected, got %s", dims, L.Get(n).Type()))
		return nil
	}
	return checkVecValue(L, n, tbl, dims)
}

func checkVecValue(L *lua.LState, n int, tbl *lua.LTable, dims int) []float64 {
	out := make([]float64, dims)
	for i := 0; i < dims; i++ {
		v := tbl.RawGetString(vecFields[i])
		if v == lua.LNil {
			v = tbl.RawGetInt(i + 1)
		}
		num, ok := v.(lua.LNumber)
		if !ok {
			L.ArgError(n, fmt.Sprintf("vector component %s is not a number", vecFields[i]))
			return nil
		}
		out[i] = float64(num)
	}
	return out
}

func formatVec(t vecType, c []float64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return t.name + "(" + strings.Join(parts, ", ") + ")"
}
