package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// ErrReserved is returned when an extension would shadow a built-in global.
var ErrReserved = errors.New("name is reserved")

// Extension is a host function exposed to generator scripts as a global.
// It follows the gopher-lua calling convention: read arguments from L, push results, return their count.
type Extension func(L *lua.LState) int

// reserved are the globals installed by the runtime itself, including the opened Lua libraries.
var reserved = map[string]bool{
	"palette": true, "noise": true, "vec2": true, "vec3": true, "vec4": true, "ivec3": true,
	"main": true, "arguments": true, "print": true,
	"string": true, "table": true, "math": true, "_G": true, "_VERSION": true,
	"assert": true, "error": true, "pcall": true, "xpcall": true, "select": true, "type": true,
	"next": true, "pairs": true, "ipairs": true, "unpack": true, "tostring": true, "tonumber": true,
	"rawget": true, "rawset": true, "rawequal": true, "getmetatable": true, "setmetatable": true,
}

// Registry manages the extensions installed into every runtime after the built-ins.
type Registry struct {
	mu   sync.RWMutex
	exts map[string]Extension
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exts: make(map[string]Extension),
	}
}

// Register adds an extension.
// If an extension with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Extension) error {
	if name == "" || fn == nil {
		return fmt.Errorf("extension needs a name and a function")
	}
	if reserved[name] {
		return fmt.Errorf("%w: %s", ErrReserved, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exts[name] = fn
	return nil
}

// Lookup returns the extension registered under name.
func (r *Registry) Lookup(name string) (Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.exts[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.exts))
	for name := range r.exts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install sets every extension as a global function of L, in name order.
func (r *Registry) Install(L *lua.LState) {
	if r == nil {
		return
	}
	for _, name := range r.Names() {
		fn, _ := r.Lookup(name)
		L.SetGlobal(name, L.NewFunction(lua.LGFunction(fn)))
	}
}
