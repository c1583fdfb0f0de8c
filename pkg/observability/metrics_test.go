package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/observability"
	"github.com/aretw0/voxgen/pkg/voxel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, hooks generator.Hooks, src string) {
	t.Helper()
	eng := generator.NewEngine(generator.WithHooks(hooks))
	_, _ = eng.Exec(context.Background(), generator.Request{
		Name:   "probe",
		Script: src,
		Volume: voxel.NewRawVolume(voxel.Cube(2)),
		Region: voxel.Cube(1),
	})
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(m))

	run(t, m.Hooks(), `function main(v) v:setVoxel(0, 0, 0, 1); v:setVoxel(1, 1, 1, 1) end`)
	run(t, m.Hooks(), `x = 1`)

	expected := `
# HELP voxgen_runs_total Total number of finished generator runs
# TYPE voxgen_runs_total counter
voxgen_runs_total{script="probe",state="failed"} 1
voxgen_runs_total{script="probe",state="succeeded"} 1
# HELP voxgen_voxel_writes_total Voxel writes by scripts, split by whether the guard accepted them
# TYPE voxgen_voxel_writes_total counter
voxgen_voxel_writes_total{result="rejected"} 1
voxgen_voxel_writes_total{result="written"} 1
# HELP voxgen_runs_in_flight Generator runs currently executing
# TYPE voxgen_runs_in_flight gauge
voxgen_runs_in_flight 0
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"voxgen_runs_total", "voxgen_voxel_writes_total", "voxgen_runs_in_flight")
	assert.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m, "voxgen_run_duration_seconds"))
}

func TestAuditHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	run(t, observability.AuditHooks(logger), `function main() error("nope") end`)

	out := buf.String()
	assert.Contains(t, out, "msg=run_transition")
	assert.Contains(t, out, "to=running")
	assert.Contains(t, out, "msg=run_finish")
	assert.Contains(t, out, "state=failed")
	assert.Contains(t, out, "nope")
}
