package generator

import (
	"context"
	"fmt"
	"time"
)

// State is the lifecycle position of a run.
type State int

const (
	Idle State = iota
	SchemaExtracted
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SchemaExtracted:
		return "schema_extracted"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool { return s == Succeeded || s == Failed }

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for st := Idle; st <= Failed; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown run state %q", text)
}

// RunEvent is emitted when a run starts.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Script    string    `json:"script"`
}

// StateEvent is emitted on every state transition.
type StateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Script    string    `json:"script"`
	From      State     `json:"from"`
	To        State     `json:"to"`
}

// Hooks are optional callbacks for observing runs. They are called synchronously.
// The final state change and OnRunFinish run after the palette is released.
type Hooks struct {
	OnRunStart    func(context.Context, *RunEvent)
	OnStateChange func(context.Context, *StateEvent)
	OnRunFinish   func(context.Context, *Result)
}

// Combine calls each hook set in order.
func Combine(hooks ...Hooks) Hooks {
	return Hooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnStateChange: func(ctx context.Context, e *StateEvent) {
			for _, h := range hooks {
				if h.OnStateChange != nil {
					h.OnStateChange(ctx, e)
				}
			}
		},
		OnRunFinish: func(ctx context.Context, r *Result) {
			for _, h := range hooks {
				if h.OnRunFinish != nil {
					h.OnRunFinish(ctx, r)
				}
			}
		},
	}
}
