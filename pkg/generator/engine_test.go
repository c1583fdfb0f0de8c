package generator_test

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/registry"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/aretw0/voxgen/pkg/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func request(script string, args ...string) (generator.Request, *voxel.RawVolume) {
	vol := voxel.NewRawVolume(voxel.Cube(4))
	return generator.Request{
		Name:   "test",
		Script: script,
		Volume: vol,
		Region: voxel.MustRegion(0, 0, 0, 1, 1, 1),
		Color:  1,
		Args:   args,
	}, vol
}

func TestExec_SingleVoxel(t *testing.T) {
	req, vol := request(`
		function main(volume, region, color)
			volume:setVoxel(region:x(), region:y(), region:z(), 5)
		end
	`)

	res, err := generator.NewEngine().Exec(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, generator.Succeeded, res.State)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 0, res.Rejected)

	cells := vol.Cells()
	require.Len(t, cells, 1)
	assert.Equal(t, voxel.Vec3i{X: 0, Y: 0, Z: 0}, cells[0].Pos)
	assert.Equal(t, voxel.New(voxel.Generic, 5), cells[0].Voxel)
}

func TestExec_GuardRejectsOutsideRegion(t *testing.T) {
	req, vol := request(`
		function main(volume, region, color)
			assert(volume:setVoxel(3, 3, 3, color) == false)
			region:setMaxs(ivec3(3, 3, 3))
			assert(volume:setVoxel(3, 3, 3, color) == false, "widening the region copy must not widen the guard")
		end
	`)
	res, err := generator.NewEngine().Exec(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rejected)
	assert.True(t, vol.Voxel(3, 3, 3).IsAir())
}

func TestExec_Help(t *testing.T) {
	req, vol := request(`
		function arguments()
			return { { name = 'height', desc = 'tower height', type = 'int', default = '4' } }
		end
		function main(volume, region, color, height)
			error("main must not run")
		end
	`, "help")

	res, err := generator.NewEngine().Exec(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, generator.Succeeded, res.State)
	assert.Contains(t, res.Help, "height: tower height (default: '4')")
	assert.Equal(t, 0, vol.Count(), "volume must be untouched")
}

func TestExec_ArgumentCoercion(t *testing.T) {
	src := `
		function arguments()
			return {
				{ name = 'n', type = 'int', min = '0', max = '10' },
				{ name = 'f', type = 'float', default = '0.25' },
				{ name = 'b', type = 'bool', default = 'false' },
				{ name = 's', type = 'enum', enum = 'a,b', default = 'b' },
			}
		end
		function main(volume, region, color, n, f, b, s)
			assert(n == 10, "n clamps to max, got " .. tostring(n))
			assert(f == 0.25, "f from args")
			assert(b == true, "b from args")
			assert(s == "b", "s defaults")
		end
	`
	req, _ := request(src, "999", "0.25", "true")
	res, err := generator.NewEngine().Exec(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, res.Params, 4)
}

func TestExec_ExtraArgsIgnored(t *testing.T) {
	req, _ := request(`function main(volume, region, color, extra) assert(extra == nil) end`, "1", "2")
	_, err := generator.NewEngine().Exec(context.Background(), req)
	assert.NoError(t, err)
}

func TestExec_Failures(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		is       error
		contains string
	}{
		{"No main", `x = 1`, generator.ErrNoMain, "no main function found"},
		{"Main is not a function", `main = 5`, generator.ErrNoMain, "no main function found"},
		{"Guest error", `function main() error("kaboom") end`, nil, "kaboom"},
		{"Non-string error", `function main() error({}) end`, nil, "Unknown Error"},
		{"Top level error", `error("at load")`, nil, "at load"},
		{"Bad color", `function main(v) v:setVoxel(0, 0, 0, 999) end`, nil, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := request(tt.src)
			res, err := generator.NewEngine().Exec(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, generator.Failed, res.State)
			assert.Equal(t, err, res.Err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	t.Run("Extraction failure", func(t *testing.T) {
		req, _ := request(`function arguments() return {{name="x"}} end function main() end`)
		res, err := generator.NewEngine().Exec(context.Background(), req)
		var extractErr *schema.ExtractionError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, "x", extractErr.Param)
		assert.Equal(t, generator.Failed, res.State)
	})

	t.Run("No volume", func(t *testing.T) {
		req, _ := request(`function main() end`)
		req.Volume = nil
		_, err := generator.NewEngine().Exec(context.Background(), req)
		assert.ErrorIs(t, err, generator.ErrNoVolume)
	})

	t.Run("Region outside volume", func(t *testing.T) {
		req, _ := request(`function main() end`)
		req.Region = voxel.MustRegion(10, 10, 10, 11, 11, 11)
		_, err := generator.NewEngine().Exec(context.Background(), req)
		assert.ErrorIs(t, err, generator.ErrNoOverlap)
	})
}

func TestExec_Timeout(t *testing.T) {
	req, _ := request(`function main() while true do end end`)
	eng := generator.NewEngine(generator.WithTimeout(100 * time.Millisecond))

	start := time.Now()
	res, err := eng.Exec(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrTimeout)
	assert.Equal(t, generator.Failed, res.State)
	assert.Less(t, time.Since(start), 5*time.Second)

	var execErr *generator.ExecutionError
	assert.True(t, errors.As(err, &execErr))
}

func TestExec_TimeoutDuringExtraction(t *testing.T) {
	req, _ := request(`while true do end`)
	eng := generator.NewEngine(generator.WithTimeout(50 * time.Millisecond))
	_, err := eng.Exec(context.Background(), req)
	assert.ErrorIs(t, err, generator.ErrTimeout)
}

func TestExec_CallerCancel(t *testing.T) {
	req, _ := request(`function main() while true do end end`)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := generator.NewEngine(generator.WithTimeout(0)).Exec(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExec_Hooks(t *testing.T) {
	var (
		mu          sync.Mutex
		transitions []generator.State
		started     bool
		finished    *generator.Result
	)
	hooks := generator.Hooks{
		OnRunStart: func(_ context.Context, e *generator.RunEvent) {
			started = e.RunID != ""
		},
		OnStateChange: func(_ context.Context, e *generator.StateEvent) {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, e.To)
		},
		OnRunFinish: func(_ context.Context, r *generator.Result) {
			finished = r
		},
	}

	eng := generator.NewEngine(generator.WithHooks(generator.Combine(hooks, generator.Hooks{})))
	req, _ := request(`function main() end`)
	res, err := eng.Exec(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, started)
	assert.Same(t, res, finished)
	assert.Equal(t, []generator.State{generator.SchemaExtracted, generator.Running, generator.Succeeded}, transitions)

	transitions = nil
	req, _ = request(`x = 1`)
	_, err = eng.Exec(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, []generator.State{generator.SchemaExtracted, generator.Running, generator.Failed}, transitions)
}

func TestExec_PaletteHeldDuringRun(t *testing.T) {
	store := palette.NewStore(nil)
	reg := registry.NewRegistry()
	entered := make(chan struct{})
	proceed := make(chan struct{})
	require.NoError(t, reg.Register("pause", func(L *lua.LState) int {
		close(entered)
		<-proceed
		return 0
	}))

	eng := generator.NewEngine(generator.WithPaletteStore(store), generator.WithExtensions(reg))
	req, _ := request(`function main() pause() end`)

	done := make(chan error, 1)
	go func() {
		_, err := eng.Exec(context.Background(), req)
		done <- err
	}()
	<-entered

	swapped := make(chan struct{})
	go func() {
		store.Swap(palette.MustNew("other", []color.RGBA{{A: 255}}))
		close(swapped)
	}()

	select {
	case <-swapped:
		t.Fatal("palette swapped while a run held it")
	case <-time.After(50 * time.Millisecond):
	}
	close(proceed)
	require.NoError(t, <-done)
	<-swapped
	assert.Equal(t, "other", store.Current().Name())
}

func TestExec_FinishHookReadsPaletteDuringSwap(t *testing.T) {
	store := palette.NewStore(nil)
	reg := registry.NewRegistry()
	entered := make(chan struct{})
	proceed := make(chan struct{})
	require.NoError(t, reg.Register("pause", func(L *lua.LState) int {
		close(entered)
		<-proceed
		return 0
	}))

	var seen string
	hooks := generator.Hooks{OnRunFinish: func(context.Context, *generator.Result) {
		seen = store.Current().Name()
	}}
	eng := generator.NewEngine(generator.WithPaletteStore(store), generator.WithExtensions(reg), generator.WithHooks(hooks))
	req, _ := request(`function main() pause() end`)

	done := make(chan error, 1)
	go func() {
		_, err := eng.Exec(context.Background(), req)
		done <- err
	}()
	<-entered

	go store.Swap(palette.MustNew("other", []color.RGBA{{A: 255}}))
	time.Sleep(50 * time.Millisecond) // let Swap block on the held palette
	close(proceed)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("finish hook deadlocked on the palette store")
	}
	assert.Equal(t, "other", seen)
}

func TestExec_SanityCheckDisabled(t *testing.T) {
	req, _ := request(`function main(v, r, c) assert(c == 1) end`)
	_, err := generator.NewEngine(generator.WithSanityCheck(false)).Exec(context.Background(), req)
	assert.NoError(t, err)
}

func TestEngine_Describe(t *testing.T) {
	params, err := generator.NewEngine().Describe(context.Background(),
		`function arguments() return {{ name = 'a', type = 'int' }} end`)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "a", params[0].Name)
}
