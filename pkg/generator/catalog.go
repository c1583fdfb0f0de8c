package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aretw0/voxgen/pkg/ports"
	"github.com/aretw0/voxgen/pkg/scripting"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"
)

// ScriptsDir is where scripts are looked up when a name has no directory.
const ScriptsDir = "scripts"

// Mode selects how List decides whether a script has a main function.
type Mode string

const (
	// ModeExec runs each script's top level in its own runtime and inspects the globals.
	ModeExec Mode = "exec"
	// ModeStatic parses each script and looks for a global main definition. No script code runs.
	ModeStatic Mode = "static"
)

// ParseMode validates a mode name. The empty string is ModeExec.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeExec:
		return ModeExec, nil
	case ModeStatic:
		return ModeStatic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Script is a catalog entry.
type Script struct {
	Name    string `json:"name"`
	HasMain bool   `json:"has_main"`
}

// Catalog finds and loads scripts from a FileSystem.
type Catalog struct {
	fsys        ports.FileSystem
	mode        Mode
	timeout     time.Duration
	runtimeOpts []scripting.Option
	logger      *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithMode sets the listing mode. Defaults to ModeExec.
func WithMode(m Mode) CatalogOption {
	return func(c *Catalog) { c.mode = m }
}

// WithRuntimeOptions sets the options of the runtimes used by ModeExec.
func WithRuntimeOptions(opts ...scripting.Option) CatalogOption {
	return func(c *Catalog) { c.runtimeOpts = opts }
}

// WithListTimeout bounds the top-level execution of each script in ModeExec.
func WithListTimeout(d time.Duration) CatalogOption {
	return func(c *Catalog) { c.timeout = d }
}

// WithCatalogLogger configures the structured logger.
func WithCatalogLogger(l *slog.Logger) CatalogOption {
	return func(c *Catalog) { c.logger = l }
}

// NewCatalog creates a catalog over fsys.
func NewCatalog(fsys ports.FileSystem, opts ...CatalogOption) *Catalog {
	c := &Catalog{fsys: fsys, mode: ModeExec, timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Mode returns the listing mode.
func (c *Catalog) Mode() Mode { return c.mode }

// ScriptPath normalizes a script name: slashes are unified, ".lua" is appended when missing,
// and names without a directory are looked up in ScriptsDir.
func ScriptPath(name string) string {
	p := strings.ReplaceAll(name, `\`, "/")
	if !strings.HasSuffix(p, ".lua") {
		p += ".lua"
	}
	if !strings.Contains(p, "/") {
		p = ScriptsDir + "/" + p
	}
	return path.Clean(p)
}

// Load returns the source of the named script.
func (c *Catalog) Load(name string) (string, error) {
	p := ScriptPath(name)
	data, err := c.fsys.Load(p)
	if err != nil {
		return "", fmt.Errorf("load script %s: %w", p, err)
	}
	return string(data), nil
}

// List returns every *.lua file in ScriptsDir with whether it defines main.
// A script that fails to load or run is listed without main.
func (c *Catalog) List(ctx context.Context) ([]Script, error) {
	entries, err := c.fsys.List(ScriptsDir, "*.lua")
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	scripts := make([]Script, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := ScriptsDir + "/" + entry.Name
		data, err := c.fsys.Load(p)
		if err != nil {
			c.logger.Warn("cannot read script", "path", p, "err", err)
			scripts = append(scripts, Script{Name: entry.Name})
			continue
		}
		var hasMain bool
		if c.mode == ModeStatic {
			hasMain = c.declaresMain(p, string(data))
		} else {
			hasMain = c.definesMain(ctx, p, string(data))
		}
		if !hasMain {
			c.logger.Debug("no main() function found", "path", p)
		}
		scripts = append(scripts, Script{Name: entry.Name, HasMain: hasMain})
	}
	return scripts, nil
}

// definesMain runs the script top level in a fresh runtime.
func (c *Catalog) definesMain(ctx context.Context, name, src string) bool {
	rt, err := scripting.NewRuntime(append(c.runtimeOpts, scripting.WithLogger(c.logger))...)
	if err != nil {
		c.logger.Warn("cannot create runtime", "err", err)
		return false
	}
	defer rt.Close()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	rt.SetContext(ctx)
	if err := rt.DoString(name, src); err != nil {
		c.logger.Debug("script failed while listing", "path", name, "err", scripting.ErrorMessage(err))
		return false
	}
	_, ok := rt.Global("main").(*lua.LFunction)
	return ok
}

// declaresMain looks for `function main` or `main = function` at the top level.
func (c *Catalog) declaresMain(name, src string) bool {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		c.logger.Debug("script does not parse", "path", name, "err", err)
		return false
	}
	return hasMainDecl(chunk)
}

func hasMainDecl(chunk []ast.Stmt) bool {
	for _, stmt := range chunk {
		switch s := stmt.(type) {
		case *ast.FuncDefStmt:
			if s.Name == nil || s.Name.Receiver != nil {
				continue
			}
			if id, ok := s.Name.Func.(*ast.IdentExpr); ok && id.Value == "main" {
				return true
			}
		case *ast.AssignStmt:
			for i, lhs := range s.Lhs {
				id, ok := lhs.(*ast.IdentExpr)
				if !ok || id.Value != "main" || i >= len(s.Rhs) {
					continue
				}
				if _, ok := s.Rhs[i].(*ast.FunctionExpr); ok {
					return true
				}
			}
		}
	}
	return false
}
