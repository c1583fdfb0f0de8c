package scripting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/voxgen/pkg/noise"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/voxel"
	lua "github.com/yuin/gopher-lua"
)

// removedGlobals are base library functions that reach outside the sandbox.
var removedGlobals = []string{
	"dofile", "loadfile", "load", "loadstring", "require", "module", "collectgarbage", "_printregs",
}

// Runtime is a sandboxed interpreter for a single run. It is not safe for concurrent use.
type Runtime struct {
	L       *lua.LState
	session *Session
	logger  *slog.Logger
	closed  bool
}

// NewRuntime creates an interpreter with the safe libraries and the voxgen capabilities installed.
func NewRuntime(opts ...Option) (*Runtime, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.palette == nil {
		cfg.palette = palette.Default()
	}
	if cfg.noise == nil {
		cfg.noise = noise.New(0)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: cfg.callStackSize,
		RegistrySize:  cfg.registrySize,
	})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("open %q library: %w", lib.name, err)
		}
	}
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	r := &Runtime{L: L, session: newSession(), logger: cfg.logger}
	L.SetGlobal("print", L.NewFunction(r.print))
	registerVectors(L)
	registerHandleTypes(L)
	registerPalette(L, cfg.palette)
	registerNoise(L, cfg.noise)
	cfg.extensions.Install(L)
	return r, nil
}

// print sends script output to the logger instead of stdout.
func (r *Runtime) print(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.logger.Info("script output", "text", strings.Join(parts, "\t"))
	return 0
}

// Session returns the session that handles created by this runtime belong to.
func (r *Runtime) Session() *Session { return r.session }

// SetContext installs the watchdog. The interpreter aborts when ctx is done.
func (r *Runtime) SetContext(ctx context.Context) { r.L.SetContext(ctx) }

// Close invalidates every handle and releases the interpreter. It is safe to call twice.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.session.Close()
	r.L.Close()
}

// DoString compiles src as a chunk called name and runs it in protected mode.
func (r *Runtime) DoString(name, src string) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	fn, err := r.L.Load(strings.NewReader(src), name)
	if err != nil {
		return wrapLoad(name, err)
	}
	_, err = r.Call(fn)
	return err
}

// Global returns the value of a global variable.
func (r *Runtime) Global(name string) lua.LValue { return r.L.GetGlobal(name) }

// Call invokes fn in protected mode and returns all of its results.
func (r *Runtime) Call(fn lua.LValue, args ...lua.LValue) ([]lua.LValue, error) {
	if r.closed {
		return nil, ErrRuntimeClosed
	}
	base := r.L.GetTop()
	if err := r.L.CallByParam(lua.P{Fn: fn, NRet: lua.MultRet, Protect: true}, args...); err != nil {
		r.L.SetTop(base)
		return nil, err
	}
	top := r.L.GetTop()
	out := make([]lua.LValue, 0, top-base)
	for i := base + 1; i <= top; i++ {
		out = append(out, r.L.Get(i))
	}
	r.L.SetTop(base)
	return out, nil
}

// NewVolume wraps a guard in a volume handle.
func (r *Runtime) NewVolume(g *voxel.Guard) lua.LValue {
	return pushHandle(r.L, r.session, VolumeTag, g, false)
}

// NewRegion wraps a copy of region in a region handle. Read-only handles refuse setMins and setMaxs.
func (r *Runtime) NewRegion(region voxel.Region, readOnly bool) lua.LValue {
	return pushHandle(r.L, r.session, RegionTag, &region, readOnly)
}
