package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/palette"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/aretw0/voxgen/pkg/voxel"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSize is the edge of the cube volume generate creates when no size is given.
const DefaultSize = 16

// MaxSize bounds the volume generate allocates per call.
const MaxSize = 128

// Service defines what the MCP server needs from the generator.
type Service interface {
	ListScripts(ctx context.Context) ([]generator.Script, error)
	Describe(ctx context.Context, name string) ([]schema.Parameter, error)
	Run(ctx context.Context, name string, vol voxel.Volume, region voxel.Region, color uint8, args []string) (*generator.Result, error)
	Palette() *palette.Palette
	Match(c color.RGBA) int
}

var _ Service = (*voxgen.Generator)(nil)

// ListScriptsResponse is the output of list_scripts.
type ListScriptsResponse struct {
	Scripts []generator.Script `json:"scripts" jsonschema_description:"Scripts found under scripts/"`
}

// DescribeArgs are the arguments of describe_script.
type DescribeArgs struct {
	Name string `json:"name"`
}

// DescribeResponse is the output of describe_script.
type DescribeResponse struct {
	Name   string             `json:"name"`
	Params []schema.Parameter `json:"params" jsonschema_description:"Declared parameters in positional order"`
	Help   string             `json:"help"`
}

// GenerateArgs are the arguments of generate.
type GenerateArgs struct {
	Script string   `json:"script"`
	Size   int      `json:"size,omitempty"`
	Color  int      `json:"color,omitempty"`
	Args   []string `json:"args,omitempty"`
}

// GenerateResponse summarizes a run on a fresh volume.
type GenerateResponse struct {
	RunID    string          `json:"run_id"`
	State    generator.State `json:"state"`
	Help     string          `json:"help,omitempty"`
	Region   voxel.Region    `json:"region"`
	Written  int             `json:"written"`
	Rejected int             `json:"rejected"`
	Voxels   []voxel.Cell    `json:"voxels" jsonschema_description:"Every non-air voxel after the run"`
}

// MatchArgs are the arguments of match_color.
type MatchArgs struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// MatchResponse is the output of match_color.
type MatchResponse struct {
	Index   int    `json:"index"`
	Palette string `json:"palette"`
}

// Server exposes a Service as an MCP server.
type Server struct {
	svc       Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(svc Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		svc:       svc,
		mcpServer: server.NewMCPServer("voxgen-mcp", strings.TrimSpace(voxgen.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_scripts",
		mcp.WithDescription("List the generator scripts and whether each defines main()."),
		mcp.WithOutputSchema[ListScriptsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListScripts))

	s.mcpServer.AddTool(mcp.NewTool("describe_script",
		mcp.WithDescription("Describe the parameters a generator script accepts."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Script name, e.g. 'tower' or 'scripts/tower.lua'")),
		mcp.WithOutputSchema[DescribeResponse](),
	), mcp.NewStructuredToolHandler(s.handleDescribe))

	s.mcpServer.AddTool(mcp.NewTool("generate",
		mcp.WithDescription("Run a generator script on a fresh cube volume and return the resulting voxels."),
		mcp.WithString("script", mcp.Required(), mcp.Description("Script name")),
		mcp.WithNumber("size", mcp.Description(fmt.Sprintf("Edge length of the cube volume (default %d, max %d)", DefaultSize, MaxSize))),
		mcp.WithNumber("color", mcp.Description("Palette index passed to main (0..255)")),
		mcp.WithArray("args", mcp.WithStringItems(), mcp.Description("Positional script arguments; 'help' returns the documentation")),
		mcp.WithOutputSchema[GenerateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGenerate))

	s.mcpServer.AddTool(mcp.NewTool("match_color",
		mcp.WithDescription("Find the active palette index closest to an RGB color."),
		mcp.WithNumber("r", mcp.Required()),
		mcp.WithNumber("g", mcp.Required()),
		mcp.WithNumber("b", mcp.Required()),
		mcp.WithOutputSchema[MatchResponse](),
	), mcp.NewStructuredToolHandler(s.handleMatch))
}

func (s *Server) handleListScripts(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (ListScriptsResponse, error) {
	scripts, err := s.svc.ListScripts(ctx)
	if err != nil {
		return ListScriptsResponse{}, fmt.Errorf("list scripts: %w", err)
	}
	return ListScriptsResponse{Scripts: scripts}, nil
}

func (s *Server) handleDescribe(ctx context.Context, _ mcp.CallToolRequest, args DescribeArgs) (DescribeResponse, error) {
	if args.Name == "" {
		return DescribeResponse{}, errors.New("name is required")
	}
	params, err := s.svc.Describe(ctx, args.Name)
	if err != nil {
		return DescribeResponse{}, err
	}
	return DescribeResponse{Name: args.Name, Params: params, Help: schema.Describe(params)}, nil
}

func (s *Server) handleGenerate(ctx context.Context, _ mcp.CallToolRequest, args GenerateArgs) (GenerateResponse, error) {
	if args.Script == "" {
		return GenerateResponse{}, errors.New("script is required")
	}
	size := args.Size
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		return GenerateResponse{}, fmt.Errorf("size %d exceeds %d", size, MaxSize)
	}
	if args.Color < 0 || args.Color > 255 {
		return GenerateResponse{}, fmt.Errorf("color %d out of range 0..255", args.Color)
	}

	vol := voxel.NewRawVolume(voxel.Cube(size))
	res, err := s.svc.Run(ctx, args.Script, vol, vol.Region(), uint8(args.Color), args.Args)
	if err != nil {
		s.logger.Warn("MCP generate failed", "script", args.Script, "err", err)
		return GenerateResponse{}, err
	}
	voxels := vol.Cells()
	if voxels == nil {
		voxels = []voxel.Cell{}
	}
	return GenerateResponse{
		RunID:    res.RunID,
		State:    res.State,
		Help:     res.Help,
		Region:   vol.Region(),
		Written:  res.Written,
		Rejected: res.Rejected,
		Voxels:   voxels,
	}, nil
}

func (s *Server) handleMatch(_ context.Context, _ mcp.CallToolRequest, args MatchArgs) (MatchResponse, error) {
	for _, v := range []int{args.R, args.G, args.B} {
		if v < 0 || v > 255 {
			return MatchResponse{}, fmt.Errorf("channel %d out of range 0..255", v)
		}
	}
	c := color.RGBA{R: uint8(args.R), G: uint8(args.G), B: uint8(args.B), A: 0xff}
	return MatchResponse{Index: s.svc.Match(c), Palette: s.svc.Palette().Name()}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("voxgen://palette", "Active palette",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p := s.svc.Palette()
		jsonBytes, err := json.Marshal(map[string]any{"name": p.Name(), "colors": p.Colors()})
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "voxgen://palette",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
