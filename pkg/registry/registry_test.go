package registry_test

import (
	"testing"

	"github.com/aretw0/voxgen/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestRegistry(t *testing.T) {
	r := registry.NewRegistry()
	double := func(L *lua.LState) int {
		L.Push(lua.LNumber(L.CheckNumber(1) * 2))
		return 1
	}

	require.NoError(t, r.Register("double", double))
	require.NoError(t, r.Register("answer", func(L *lua.LState) int {
		L.Push(lua.LNumber(42))
		return 1
	}))
	assert.Equal(t, []string{"answer", "double"}, r.Names())

	_, ok := r.Lookup("double")
	assert.True(t, ok)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	t.Run("Reserved names", func(t *testing.T) {
		for _, name := range []string{"palette", "print", "string", "table", "math", "_G", "pairs"} {
			assert.ErrorIs(t, r.Register(name, double), registry.ErrReserved, name)
		}
		assert.Error(t, r.Register("", double))
		assert.Error(t, r.Register("nil", nil))
	})

	t.Run("Install", func(t *testing.T) {
		L := lua.NewState()
		defer L.Close()
		r.Install(L)
		require.NoError(t, L.DoString(`result = double(answer())`))
		assert.Equal(t, lua.LNumber(84), L.GetGlobal("result"))
	})

	t.Run("Nil registry installs nothing", func(t *testing.T) {
		var none *registry.Registry
		L := lua.NewState()
		defer L.Close()
		none.Install(L)
		assert.Equal(t, lua.LNil, L.GetGlobal("double"))
	})
}
