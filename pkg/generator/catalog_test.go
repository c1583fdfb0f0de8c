package generator_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/voxgen/pkg/adapters/memory"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptPath(t *testing.T) {
	tests := map[string]string{
		"cover":              "scripts/cover.lua",
		"cover.lua":          "scripts/cover.lua",
		"scripts/cover":      "scripts/cover.lua",
		`scripts\cover.lua`:  "scripts/cover.lua",
		"other/dir/tree":     "other/dir/tree.lua",
		"./scripts/grid.lua": "scripts/grid.lua",
	}
	for in, want := range tests {
		assert.Equal(t, want, generator.ScriptPath(in), in)
	}
}

func TestParseMode(t *testing.T) {
	m, err := generator.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, generator.ModeExec, m)

	m, err = generator.ParseMode("static")
	require.NoError(t, err)
	assert.Equal(t, generator.ModeStatic, m)

	_, err = generator.ParseMode("lazy")
	assert.ErrorIs(t, err, generator.ErrUnknownMode)
}

func catalogFS() *memory.FileSystem {
	return memory.NewFileSystem(map[string]string{
		"scripts/cover.lua":     `function main(volume, region, color) end`,
		"scripts/assigned.lua":  `main = function(volume, region, color) end`,
		"scripts/helper.lua":    `function helper() end`,
		"scripts/local.lua":     `local function main() end`,
		"scripts/broken.lua":    `function main(`,
		"scripts/raises.lua":    "function main() end\nerror('top level')",
		"scripts/computed.lua":  `local f = function() end; _G["ma" .. "in"] = f`,
		"scripts/readme.txt":    "not a script",
		"scripts/sub/inner.lua": `function main() end`,
	})
}

func TestCatalog_Load(t *testing.T) {
	c := generator.NewCatalog(catalogFS())

	src, err := c.Load("cover")
	require.NoError(t, err)
	assert.Contains(t, src, "function main")

	_, err = c.Load("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scripts/missing.lua")
}

func listed(t *testing.T, c *generator.Catalog) map[string]bool {
	t.Helper()
	scripts, err := c.List(context.Background())
	require.NoError(t, err)
	out := make(map[string]bool, len(scripts))
	for _, s := range scripts {
		out[s.Name] = s.HasMain
	}
	return out
}

func TestCatalog_ListExec(t *testing.T) {
	got := listed(t, generator.NewCatalog(catalogFS()))
	assert.Equal(t, map[string]bool{
		"assigned.lua": true,
		"broken.lua":   false,
		"computed.lua": true,
		"cover.lua":    true,
		"helper.lua":   false,
		"local.lua":    false,
		"raises.lua":   false,
	}, got)
}

func TestCatalog_ListStatic(t *testing.T) {
	c := generator.NewCatalog(catalogFS(), generator.WithMode(generator.ModeStatic))
	assert.Equal(t, generator.ModeStatic, c.Mode())

	got := listed(t, c)
	assert.Equal(t, map[string]bool{
		"assigned.lua": true,
		"broken.lua":   false,
		"computed.lua": false,
		"cover.lua":    true,
		"helper.lua":   false,
		"local.lua":    false,
		"raises.lua":   true,
	}, got)
}

func TestCatalog_ListTimeout(t *testing.T) {
	fsys := memory.NewFileSystem(map[string]string{
		"scripts/spin.lua": "while true do end",
	})
	c := generator.NewCatalog(fsys, generator.WithListTimeout(50*time.Millisecond))
	assert.Equal(t, map[string]bool{"spin.lua": false}, listed(t, c))
}

func TestCatalog_ListIsolatesScripts(t *testing.T) {
	fsys := memory.NewFileSystem(map[string]string{
		"scripts/a.lua": `function main() end`,
		"scripts/b.lua": `x = 1`,
	})
	got := listed(t, generator.NewCatalog(fsys))
	assert.True(t, got["a.lua"])
	assert.False(t, got["b.lua"], "main from a.lua must not leak into b.lua")
}

func TestCatalog_ListCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := generator.NewCatalog(catalogFS()).List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
