package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/voxgen/pkg/noise"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/registry"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/aretw0/voxgen/pkg/scripting"
	"github.com/aretw0/voxgen/pkg/voxel"
	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
)

// HelpArg as the first argument asks for the parameter documentation instead of a run.
const HelpArg = "help"

// Request describes one generation. It is consumed synchronously and never stored.
type Request struct {
	// Name identifies the script in logs and error messages.
	Name   string
	Script string
	Volume voxel.Volume
	Region voxel.Region
	// Color is the palette index handed to main as its third argument.
	Color uint8
	// Args are matched by position against the declared parameters. Missing ones use the default.
	Args []string
}

// Result reports the outcome of a run. Err is set iff State is Failed.
type Result struct {
	RunID    string             `json:"run_id"`
	Script   string             `json:"script"`
	State    State              `json:"state"`
	Params   []schema.Parameter `json:"params"`
	Help     string             `json:"help,omitempty"`
	Written  int                `json:"written"`
	Rejected int                `json:"rejected"`
	Duration time.Duration      `json:"duration"`
	Err      error              `json:"-"`
}

// Engine executes generator scripts. It holds no per-run state and is safe for concurrent use,
// but runs that share a Volume must be serialized by the caller.
type Engine struct {
	timeout       time.Duration
	sanityCheck   bool
	callStackSize int
	registrySize  int
	palettes      *palette.Store
	noise         *noise.Noise
	extensions    *registry.Registry
	logger        *slog.Logger
	hooks         Hooks
}

// NewEngine creates an engine. Without options it uses the default palette, seed 0 noise,
// DefaultTimeout and the sanity check.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout:     DefaultTimeout,
		sanityCheck: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.palettes == nil {
		e.palettes = palette.NewStore(nil)
	}
	if e.noise == nil {
		e.noise = noise.New(0)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Palettes returns the store runs acquire their palette from.
func (e *Engine) Palettes() *palette.Store { return e.palettes }

// RuntimeOptions returns the options every runtime of this engine is built with.
func (e *Engine) RuntimeOptions(p *palette.Palette) []scripting.Option {
	return []scripting.Option{
		scripting.WithLimits(e.callStackSize, e.registrySize),
		scripting.WithPalette(p),
		scripting.WithNoise(e.noise),
		scripting.WithExtensions(e.extensions),
	}
}

// Describe extracts the parameters of src without running main.
func (e *Engine) Describe(ctx context.Context, src string) ([]schema.Parameter, error) {
	ctx, cancel := e.withWatchdog(ctx)
	defer cancel()
	p, release := e.palettes.Acquire()
	defer release()
	params, err := Extract(ctx, src, e.logger, e.RuntimeOptions(p)...)
	if err != nil {
		return nil, classify(ctx, "arguments", err)
	}
	return params, nil
}

func (e *Engine) withWatchdog(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}

// Exec runs req to completion. The returned error is non-nil iff the result is Failed.
func (e *Engine) Exec(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Script: req.Name, State: Idle}
	log := e.logger.With("run_id", res.RunID, "script", req.Name)
	r := &run{engine: e, res: res, log: log}

	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &RunEvent{Timestamp: start, RunID: res.RunID, Script: req.Name})
	}
	log.Debug("run started", "args", len(req.Args))

	runCtx, cancel := e.withWatchdog(ctx)
	defer cancel()

	// the palette cannot be swapped until the run returns
	pal, release := e.palettes.Acquire()
	defer release()

	err := r.execute(runCtx, req, pal)
	release()
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		r.transition(ctx, Failed)
		log.Error("run failed", "state", res.State, "err", err, "duration", res.Duration)
	} else {
		r.transition(ctx, Succeeded)
		log.Info("run finished", "written", res.Written, "rejected", res.Rejected, "duration", res.Duration)
	}
	if e.hooks.OnRunFinish != nil {
		e.hooks.OnRunFinish(ctx, res)
	}
	return res, res.Err
}

// run carries the mutable bookkeeping of one Exec call.
type run struct {
	engine *Engine
	res    *Result
	log    *slog.Logger
	guard  *voxel.Guard
}

func (r *run) transition(ctx context.Context, to State) {
	from := r.res.State
	if r.guard != nil {
		r.res.Written, r.res.Rejected = r.guard.Written(), r.guard.Rejected()
	}
	r.res.State = to
	if h := r.engine.hooks.OnStateChange; h != nil {
		h(ctx, &StateEvent{Timestamp: time.Now(), RunID: r.res.RunID, Script: r.res.Script, From: from, To: to})
	}
}

func (r *run) execute(ctx context.Context, req Request, pal *palette.Palette) error {
	e := r.engine
	opts := e.RuntimeOptions(pal)

	params, err := Extract(ctx, req.Script, r.log, opts...)
	if err != nil {
		return classify(ctx, req.Name, err)
	}
	r.res.Params = params
	r.transition(ctx, SchemaExtracted)

	if len(req.Args) > 0 && req.Args[0] == HelpArg {
		r.res.Help = schema.Describe(params)
		return nil
	}

	if req.Volume == nil {
		return ErrNoVolume
	}
	guard, ok := voxel.NewGuard(req.Volume, req.Region)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoOverlap, req.Region)
	}
	r.guard = guard

	rt, err := scripting.NewRuntime(append(opts, scripting.WithLogger(r.log))...)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.SetContext(ctx)
	r.transition(ctx, Running)

	if err := rt.DoString(req.Name, req.Script); err != nil {
		return classify(ctx, req.Name, err)
	}
	mainFn, ok := rt.Global("main").(*lua.LFunction)
	if !ok {
		return fmt.Errorf("%w in %s: expected main(volume, region, color)", ErrNoMain, req.Name)
	}

	args := []lua.LValue{
		rt.NewVolume(guard),
		rt.NewRegion(guard.Region(), false),
		lua.LNumber(req.Color),
	}
	if e.sanityCheck {
		if err := checkFrame(mainFn, args); err != nil {
			return err
		}
	}
	for i, p := range params {
		raw := p.Default
		if i < len(req.Args) {
			raw = req.Args[i]
		}
		v, err := schema.Coerce(p, raw)
		if err != nil {
			return fmt.Errorf("argument %d: %w. Try calling with 'help' as parameter", i, err)
		}
		args = append(args, toLua(v))
	}
	if extra := len(req.Args) - len(params); extra > 0 {
		r.log.Debug("ignoring extra arguments", "count", extra)
	}

	if _, err := rt.Call(mainFn, args...); err != nil {
		return classify(ctx, req.Name, err)
	}
	return nil
}

// checkFrame verifies the values main is about to receive.
func checkFrame(fn lua.LValue, args []lua.LValue) error {
	switch {
	case fn.Type() != lua.LTFunction:
		return fmt.Errorf("%w: expected to find the main function", ErrSanityCheck)
	case len(args) < 3:
		return fmt.Errorf("%w: expected volume, region and color", ErrSanityCheck)
	case scripting.HandleTag(args[0]) != scripting.VolumeTag:
		return fmt.Errorf("%w: expected to find volume", ErrSanityCheck)
	case scripting.HandleTag(args[1]) != scripting.RegionTag:
		return fmt.Errorf("%w: expected to find region", ErrSanityCheck)
	case args[2].Type() != lua.LTNumber:
		return fmt.Errorf("%w: expected to find color", ErrSanityCheck)
	}
	return nil
}

func toLua(v schema.Value) lua.LValue {
	switch x := v.Interface().(type) {
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	default:
		return lua.LNil
	}
}

// classify turns interpreter failures into typed errors. Watchdog expiry wins over the script message.
func classify(ctx context.Context, script string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &ExecutionError{Script: script, Message: ErrTimeout.Error(), Err: ErrTimeout}
	case errors.Is(ctx.Err(), context.Canceled):
		return &ExecutionError{Script: script, Message: "canceled", Err: context.Canceled}
	}
	var extractErr *schema.ExtractionError
	if errors.As(err, &extractErr) {
		return extractErr
	}
	return &ExecutionError{Script: script, Message: scripting.ErrorMessage(err), Err: err}
}
