package generator_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Text(t *testing.T) {
	for _, st := range []generator.State{generator.Idle, generator.SchemaExtracted, generator.Running, generator.Succeeded, generator.Failed} {
		data, err := json.Marshal(st)
		require.NoError(t, err)

		var back generator.State
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, st, back)
	}

	var st generator.State
	assert.Error(t, st.UnmarshalText([]byte("paused")))
	assert.True(t, generator.Failed.Terminal())
	assert.False(t, generator.Running.Terminal())
}

func TestCombine(t *testing.T) {
	var calls []string
	a := generator.Hooks{OnRunStart: func(context.Context, *generator.RunEvent) { calls = append(calls, "a") }}
	b := generator.Hooks{
		OnRunStart:  func(context.Context, *generator.RunEvent) { calls = append(calls, "b") },
		OnRunFinish: func(context.Context, *generator.Result) { calls = append(calls, "finish") },
	}
	h := generator.Combine(a, b)
	h.OnRunStart(context.Background(), &generator.RunEvent{})
	h.OnStateChange(context.Background(), &generator.StateEvent{})
	h.OnRunFinish(context.Background(), &generator.Result{})
	assert.Equal(t, []string{"a", "b", "finish"}, calls)
}
