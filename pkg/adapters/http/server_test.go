package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/pkg/adapters/memory"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

const columnScript = `
function arguments()
	return { { name = 'h', type = 'int', default = '1', min = '1', max = '4' } }
end
function main(volume, region, color, h)
	for y = 0, h - 1 do volume:setVoxel(region:x(), region:y() + y, region:z(), color) end
end
`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	fsys := memory.NewFileSystem(map[string]string{
		"scripts/column.lua": columnScript,
		"scripts/bad.lua":    `function main() error("broken") end`,
	})
	gen, err := voxgen.New("test", voxgen.WithFileSystem(fsys))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(NewHandler(gen, opts...))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealthAndInfo(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, "GET", srv.URL+"/health", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("health: got %d %s", resp.StatusCode, body)
	}

	_, body = do(t, "GET", srv.URL+"/info", "")
	var info map[string]string
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatal(err)
	}
	if info["palette"] != "default" {
		t.Errorf("expected default palette, got %q", info["palette"])
	}
}

func TestScripts(t *testing.T) {
	srv := newTestServer(t)

	_, body := do(t, "GET", srv.URL+"/scripts", "")
	var scripts []generator.Script
	if err := json.Unmarshal(body, &scripts); err != nil {
		t.Fatal(err)
	}
	if len(scripts) != 2 || scripts[1].Name != "column.lua" || !scripts[1].HasMain {
		t.Errorf("unexpected scripts: %+v", scripts)
	}

	resp, body := do(t, "GET", srv.URL+"/scripts/column", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("describe: got %d %s", resp.StatusCode, body)
	}
	var desc ScriptDescription
	if err := json.Unmarshal(body, &desc); err != nil {
		t.Fatal(err)
	}
	if len(desc.Params) != 1 || desc.Params[0].Name != "h" || !strings.Contains(desc.Help, "h:") {
		t.Errorf("unexpected description: %+v", desc)
	}

	resp, _ = do(t, "GET", srv.URL+"/scripts/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing script, got %d", resp.StatusCode)
	}
}

func TestVolumeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	region := `{"region":{"mins":{"x":0,"y":0,"z":0},"maxs":{"x":3,"y":3,"z":3}}}`

	resp, body := do(t, "PUT", srv.URL+"/volumes/v1", region)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("put volume: got %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, "POST", srv.URL+"/volumes/v1/generate", `{"script":"column","color":9,"args":["3"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate: got %d %s", resp.StatusCode, body)
	}
	var res generator.Result
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if res.Written != 3 || res.RunID == "" {
		t.Errorf("unexpected result: %+v", res)
	}

	_, body = do(t, "GET", srv.URL+"/volumes/v1", "")
	var vol struct {
		Voxels []json.RawMessage `json:"voxels"`
	}
	if err := json.Unmarshal(body, &vol); err != nil {
		t.Fatal(err)
	}
	if len(vol.Voxels) != 3 {
		t.Errorf("expected 3 voxels, got %d", len(vol.Voxels))
	}

	resp, body = do(t, "POST", srv.URL+"/volumes/v1/generate", `{"script":"bad"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(string(body), "broken") {
		t.Errorf("failing script: got %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, "POST", srv.URL+"/volumes/v1/generate", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing script: got %d", resp.StatusCode)
	}

	resp, _ = do(t, "DELETE", srv.URL+"/volumes/v1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: got %d", resp.StatusCode)
	}
	resp, _ = do(t, "GET", srv.URL+"/volumes/v1", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: got %d", resp.StatusCode)
	}
}

func TestPutVolume_InvalidRegion(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, "PUT", srv.URL+"/volumes/v1", `{"region":{"mins":{"x":5,"y":0,"z":0},"maxs":{"x":0,"y":0,"z":0}}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPutVolume_RegionTooLarge(t *testing.T) {
	srv := newTestServer(t)
	bodies := map[string]string{
		"huge":     `{"region":{"mins":{"x":0,"y":0,"z":0},"maxs":{"x":100000,"y":100000,"z":10}}}`,
		"overflow": `{"region":{"mins":{"x":-9223372036854775808,"y":0,"z":0},"maxs":{"x":9223372036854775807,"y":0,"z":0}}}`,
		"wraps":    `{"region":{"mins":{"x":0,"y":0,"z":0},"maxs":{"x":4294967295,"y":4294967295,"z":0}}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			resp, data := do(t, "PUT", srv.URL+"/volumes/big", body)
			if resp.StatusCode != http.StatusRequestEntityTooLarge {
				t.Errorf("expected 413, got %d: %s", resp.StatusCode, data)
			}
		})
	}

	resp, _ := do(t, "GET", srv.URL+"/volumes/big", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("rejected volume was stored: %d", resp.StatusCode)
	}
}

func TestPalette(t *testing.T) {
	srv := newTestServer(t)

	_, body := do(t, "GET", srv.URL+"/palette", "")
	var p PaletteResponse
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatal(err)
	}
	if p.Name != "default" || len(p.Colors) != 256 || p.Colors[0] != "#000000ff" {
		t.Errorf("unexpected palette: %s %d %v", p.Name, len(p.Colors), p.Colors[:1])
	}

	resp, body := do(t, "GET", srv.URL+"/palette/match?r=0&g=0&b=0", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"index":0`) {
		t.Errorf("match: got %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, "GET", srv.URL+"/palette/match?r=300&g=0&b=0", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out of range channel: got %d", resp.StatusCode)
	}
	resp, _ = do(t, "GET", srv.URL+"/palette/match?r=1", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing channel: got %d", resp.StatusCode)
	}

	resp, _ = do(t, "PUT", srv.URL+"/palette/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown palette: got %d", resp.StatusCode)
	}

	_, body = do(t, "GET", srv.URL+"/palette/available", "")
	if !strings.Contains(string(body), `"default"`) {
		t.Errorf("available palettes: %s", body)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(observability.NewMetrics())
	srv := newTestServer(t, WithMetrics(reg))

	resp, body := do(t, "GET", srv.URL+"/metrics", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "voxgen_runs_in_flight") {
		t.Errorf("metrics: got %d %s", resp.StatusCode, body)
	}
}

func TestFileEvents_NotWatchable(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := do(t, "GET", srv.URL+"/events", "")
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("expected 501, got %d", resp.StatusCode)
	}
}

func TestRunEvents(t *testing.T) {
	srv := newTestServer(t)
	do(t, "PUT", srv.URL+"/volumes/v1", `{"region":{"mins":{"x":0,"y":0,"z":0},"maxs":{"x":1,"y":1,"z":1}}}`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/volumes/v1/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	// wait for the ping so the subscription is registered before the run
	for scanner.Scan() {
		if scanner.Text() == "data: connected" {
			break
		}
	}

	do(t, "POST", srv.URL+"/volumes/v1/generate", `{"script":"column","color":2}`)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var e RunEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e); err != nil {
			t.Fatal(err)
		}
		if e.State != generator.Succeeded || e.Written != 1 {
			t.Errorf("unexpected event: %+v", e)
		}
		return
	}
	t.Fatal("no run event received")
}
