package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/pkg/adapters/memory"
	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	fsys := memory.NewFileSystem(map[string]string{
		"scripts/dot.lua": `
			function arguments() return {{ name = 'offset', type = 'int', default = '0' }} end
			function main(volume, region, color, offset)
				volume:setVoxel(region:x() + offset, region:y(), region:z(), color)
			end`,
	})
	gen, err := voxgen.New("mcp", voxgen.WithFileSystem(fsys))
	require.NoError(t, err)
	return NewServer(gen, nil)
}

func TestListAndDescribe(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	list, err := s.handleListScripts(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []generator.Script{{Name: "dot.lua", HasMain: true}}, list.Scripts)

	desc, err := s.handleDescribe(ctx, mcp.CallToolRequest{}, DescribeArgs{Name: "dot"})
	require.NoError(t, err)
	require.Len(t, desc.Params, 1)
	assert.Contains(t, desc.Help, "offset")

	_, err = s.handleDescribe(ctx, mcp.CallToolRequest{}, DescribeArgs{})
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	res, err := s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{Script: "dot", Size: 4, Color: 6, Args: []string{"2"}})
	require.NoError(t, err)
	assert.Equal(t, generator.Succeeded, res.State)
	require.Len(t, res.Voxels, 1)
	assert.Equal(t, 2, res.Voxels[0].Pos.X)
	assert.Equal(t, uint8(6), res.Voxels[0].Voxel.Color)

	help, err := s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{Script: "dot", Args: []string{"help"}})
	require.NoError(t, err)
	assert.Empty(t, help.Voxels)
	assert.Contains(t, help.Help, "offset")

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{Script: "dot", Size: MaxSize + 1})
	assert.Error(t, err)
	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{Script: "dot", Color: 256})
	assert.Error(t, err)
	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{Script: "missing"})
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	s := newServer(t)
	res, err := s.handleMatch(context.Background(), mcp.CallToolRequest{}, MatchArgs{R: 255, G: 255, B: 255})
	require.NoError(t, err)
	assert.Equal(t, 15, res.Index)
	assert.Equal(t, "default", res.Palette)

	_, err = s.handleMatch(context.Background(), mcp.CallToolRequest{}, MatchArgs{R: -1})
	assert.Error(t, err)
}
