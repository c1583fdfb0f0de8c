package scripting

import (
	"sync/atomic"

	"github.com/aretw0/voxgen/pkg/voxel"
	lua "github.com/yuin/gopher-lua"
)

// Handle tags. Each tag has its own metatable.
const (
	VolumeTag = "voxgen.volume"
	RegionTag = "voxgen.region"
)

var sessionIDs atomic.Uint64

// Session scopes the handles of one invocation. Closing it invalidates all of them.
type Session struct {
	id     uint64
	closed atomic.Bool
}

func newSession() *Session {
	return &Session{id: sessionIDs.Add(1)}
}

func (s *Session) ID() uint64 { return s.id }

func (s *Session) Close() { s.closed.Store(true) }

func (s *Session) Closed() bool { return s.closed.Load() }

// handle is the value stored in every voxgen userdata.
type handle struct {
	tag      string
	ref      any
	session  *Session
	readOnly bool
}

func pushHandle(L *lua.LState, s *Session, tag string, ref any, readOnly bool) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = &handle{tag: tag, ref: ref, session: s, readOnly: readOnly}
	L.SetMetatable(ud, L.GetTypeMetatable(tag))
	return ud
}

// HandleTag returns the tag of a voxgen handle, or "" for any other value.
func HandleTag(v lua.LValue) string {
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return ""
	}
	h, ok := ud.Value.(*handle)
	if !ok {
		return ""
	}
	return h.tag
}

// checkHandle validates argument n and raises a Lua error on a wrong tag or a closed session.
func checkHandle(L *lua.LState, n int, tag string) *handle {
	v := L.Get(n)
	got := HandleTag(v)
	if got == "" {
		got = v.Type().String()
	}
	if got != tag {
		L.ArgError(n, tag+" expected, got "+got)
		return nil
	}
	h := v.(*lua.LUserData).Value.(*handle)
	if h.session == nil || h.session.Closed() {
		L.RaiseError("%s handle used after its run finished", tag)
		return nil
	}
	return h
}

// CheckVolume returns the guard behind argument n.
func CheckVolume(L *lua.LState, n int) *voxel.Guard {
	h := checkHandle(L, n, VolumeTag)
	if h == nil {
		return nil
	}
	return h.ref.(*voxel.Guard)
}

// CheckRegion returns the region behind argument n and whether it may be modified.
func CheckRegion(L *lua.LState, n int) (*voxel.Region, bool) {
	h := checkHandle(L, n, RegionTag)
	if h == nil {
		return nil, false
	}
	return h.ref.(*voxel.Region), !h.readOnly
}

func registerHandleTypes(L *lua.LState) {
	vol := L.NewTypeMetatable(VolumeTag)
	L.SetField(vol, "__index", L.SetFuncs(L.NewTable(), volumeMethods))
	L.SetField(vol, "__tostring", L.NewFunction(volumeToString))
	L.SetField(vol, "__metatable", lua.LString(VolumeTag))

	reg := L.NewTypeMetatable(RegionTag)
	L.SetField(reg, "__index", L.SetFuncs(L.NewTable(), regionMethods))
	L.SetField(reg, "__tostring", L.NewFunction(regionToString))
	L.SetField(reg, "__metatable", lua.LString(RegionTag))
}
