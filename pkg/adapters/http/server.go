package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/ports"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/aretw0/voxgen/pkg/voxel"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service defines what the HTTP surface needs from the generator.
type Service interface {
	ListScripts(ctx context.Context) ([]generator.Script, error)
	Describe(ctx context.Context, name string) ([]schema.Parameter, error)
	CreateVolume(ctx context.Context, id string, region voxel.Region) (*voxel.RawVolume, error)
	Volume(ctx context.Context, id string) (*voxel.RawVolume, error)
	DeleteVolume(ctx context.Context, id string) error
	Volumes(ctx context.Context) ([]string, error)
	Generate(ctx context.Context, id string, req voxgen.GenerateRequest) (*generator.Result, error)
	Palette() *palette.Palette
	Palettes() ([]string, error)
	UsePalette(name string) (*palette.Palette, error)
	Match(c color.RGBA) int
	Watch(ctx context.Context) (<-chan string, error)
}

var _ Service = (*voxgen.Generator)(nil)

// Server routes HTTP requests to a Service.
type Server struct {
	Service Service
	Streams *StreamManager
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// WithMetrics serves g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(c *handlerConfig) { c.gatherer = g }
}

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *handlerConfig) { c.logger = l }
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc Service, opts ...Option) http.Handler {
	cfg := handlerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Server{
		Service: svc,
		Streams: NewStreamManager(cfg.logger),
		Logger:  cfg.logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeFileEvents)

	r.Route("/scripts", func(r chi.Router) {
		r.Get("/", s.ListScripts)
		r.Get("/{name}", s.DescribeScript)
	})

	r.Route("/volumes", func(r chi.Router) {
		r.Get("/", s.ListVolumes)
		r.Put("/{id}", s.PutVolume)
		r.Get("/{id}", s.GetVolume)
		r.Delete("/{id}", s.DeleteVolume)
		r.Post("/{id}/generate", s.Generate)
		r.Get("/{id}/events", s.SubscribeRunEvents)
	})

	r.Route("/palette", func(r chi.Router) {
		r.Get("/", s.GetPalette)
		r.Get("/available", s.ListPalettes)
		r.Get("/match", s.MatchColor)
		r.Put("/{name}", s.UsePalette)
	})

	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string            `json:"error"`
	Result *generator.Result `json:"result,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var extractErr *schema.ExtractionError
	switch {
	case errors.Is(err, ports.ErrNotFound),
		errors.Is(err, ports.ErrVolumeNotFound),
		errors.Is(err, palette.ErrPaletteNotFound):
		return http.StatusNotFound
	case errors.As(err, &extractErr),
		errors.Is(err, generator.ErrNoOverlap),
		errors.Is(err, voxel.ErrInvalidRegion):
		return http.StatusBadRequest
	case errors.Is(err, voxel.ErrRegionTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, generator.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "voxgen-http",
		"version": strings.TrimSpace(voxgen.Version),
		"palette": s.Service.Palette().Name(),
	})
}

// ListScripts handles GET /scripts.
func (s *Server) ListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := s.Service.ListScripts(r.Context())
	if err != nil {
		s.Logger.Error("list scripts failed", "err", err)
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, scripts)
}

// ScriptDescription is the body of GET /scripts/{name}.
type ScriptDescription struct {
	Name   string             `json:"name"`
	Params []schema.Parameter `json:"params"`
	Help   string             `json:"help"`
}

// DescribeScript handles GET /scripts/{name}.
func (s *Server) DescribeScript(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	params, err := s.Service.Describe(r.Context(), name)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, ScriptDescription{Name: name, Params: params, Help: schema.Describe(params)})
}

// ListVolumes handles GET /volumes.
func (s *Server) ListVolumes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.Volumes(r.Context())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// PutVolumeRequest is the body of PUT /volumes/{id}.
type PutVolumeRequest struct {
	Region voxel.Region `json:"region"`
}

// PutVolume handles PUT /volumes/{id}: creates or resets the volume.
func (s *Server) PutVolume(w http.ResponseWriter, r *http.Request) {
	var body PutVolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.Logger.Warn("PutVolume: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	vol, err := s.Service.CreateVolume(r.Context(), chi.URLParam(r, "id"), body.Region)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, vol)
}

// GetVolume handles GET /volumes/{id}.
func (s *Server) GetVolume(w http.ResponseWriter, r *http.Request) {
	vol, err := s.Service.Volume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, vol)
}

// DeleteVolume handles DELETE /volumes/{id}.
func (s *Server) DeleteVolume(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.DeleteVolume(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Generate handles POST /volumes/{id}/generate. Runs on the same volume are serialized by the service.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body voxgen.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.Logger.Warn("Generate: invalid request body", "err", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Script == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("script is required"))
		return
	}

	res, err := s.Service.Generate(r.Context(), id, body)
	if res != nil {
		if data, mErr := json.Marshal(runEvent(res)); mErr == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}
	if err != nil {
		status := statusFor(err)
		if res != nil && status == http.StatusInternalServerError {
			// the script itself failed
			status = http.StatusUnprocessableEntity
		}
		s.writeJSON(w, status, errorResponse{Error: err.Error(), Result: res})
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// RunEvent is what /volumes/{id}/events streams after every run.
type RunEvent struct {
	RunID    string          `json:"run_id"`
	Script   string          `json:"script"`
	State    generator.State `json:"state"`
	Written  int             `json:"written"`
	Rejected int             `json:"rejected"`
	Error    string          `json:"error,omitempty"`
}

func runEvent(res *generator.Result) RunEvent {
	e := RunEvent{
		RunID:    res.RunID,
		Script:   res.Script,
		State:    res.State,
		Written:  res.Written,
		Rejected: res.Rejected,
	}
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	return e
}

// PaletteResponse describes a palette with its colors as #rrggbbaa.
type PaletteResponse struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func paletteResponse(p *palette.Palette) PaletteResponse {
	colors := p.Colors()
	resp := PaletteResponse{Name: p.Name(), Colors: make([]string, len(colors))}
	for i, c := range colors {
		resp.Colors[i] = fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return resp
}

// GetPalette handles GET /palette.
func (s *Server) GetPalette(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, paletteResponse(s.Service.Palette()))
}

// ListPalettes handles GET /palette/available.
func (s *Server) ListPalettes(w http.ResponseWriter, r *http.Request) {
	names, err := s.Service.Palettes()
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, append([]string{palette.DefaultName}, names...))
}

// UsePalette handles PUT /palette/{name}: hot-swaps the active palette.
func (s *Server) UsePalette(w http.ResponseWriter, r *http.Request) {
	p, err := s.Service.UsePalette(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, paletteResponse(p))
}

func channel(r *http.Request, name string, def int) (uint8, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if def < 0 {
			return 0, fmt.Errorf("query parameter %q is required", name)
		}
		return uint8(def), nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 255 {
		return 0, fmt.Errorf("query parameter %q must be an integer in 0..255", name)
	}
	return uint8(v), nil
}

// MatchColor handles GET /palette/match?r=&g=&b=[&a=].
func (s *Server) MatchColor(w http.ResponseWriter, r *http.Request) {
	var c color.RGBA
	var err error
	for _, ch := range []struct {
		name string
		dst  *uint8
		def  int
	}{{"r", &c.R, -1}, {"g", &c.G, -1}, {"b", &c.B, -1}, {"a", &c.A, 255}} {
		if *ch.dst, err = channel(r, ch.name, ch.def); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"index": s.Service.Match(c)})
}

// StreamManager handles active SSE connections, keyed by volume id.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(id string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan<- string]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[id]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, id)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of id. Slow subscribers drop messages.
func (sm *StreamManager) Broadcast(id string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[id] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "volume", id)
		}
	}
}

func startStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	return flusher, true
}

func stream(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, events <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// SubscribeFileEvents handles GET /events: changed script and palette files.
func (s *Server) SubscribeFileEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.Service.Watch(r.Context())
	if err != nil {
		s.writeError(w, http.StatusNotImplemented, err)
		return
	}
	flusher, ok := startStream(w)
	if !ok {
		return
	}
	stream(r.Context(), w, flusher, events)
}

// SubscribeRunEvents handles GET /volumes/{id}/events: one message per finished run.
func (s *Server) SubscribeRunEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	flusher, ok := startStream(w)
	if !ok {
		return
	}
	s.Logger.Info("SSE: subscribing to run events", "volume", id)
	stream(r.Context(), w, flusher, ch)
}
