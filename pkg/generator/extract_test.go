package generator_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoArguments(t *testing.T) {
	params, err := generator.Extract(context.Background(), `function main(volume, region, color) end`, nil)
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestExtract_Parameters(t *testing.T) {
	src := `
		local MAX = 64
		function arguments()
			return {
				{ name = 'height', desc = 'tower height', type = 'int', default = '8', min = '1', max = MAX },
				{ name = 'style', description = 'roof style', type = 'enum', enumValues = 'round,square', default = 'round' },
				{ name = 'solid', type = 'boolean', default = 'true' },
				{ name = 'scale', type = 'float', default = 0.5 },
				{ name = 'label', type = 'string' },
				{ name = 'accent', type = 'colorindex', default = '3' },
			}
		end
	`
	params, err := generator.Extract(context.Background(), src, nil)
	require.NoError(t, err)
	require.Len(t, params, 6)

	assert.Equal(t, schema.Parameter{
		Name: "height", Description: "tower height", Default: "8", Min: 1, Max: 64, Kind: schema.Integer,
	}, params[0])
	assert.Equal(t, schema.Enum, params[1].Kind)
	assert.Equal(t, "roof style", params[1].Description)
	assert.Equal(t, []string{"round", "square"}, params[1].Choices())
	assert.Equal(t, schema.Boolean, params[2].Kind)
	assert.Equal(t, "0.5", params[3].Default)
	assert.Equal(t, schema.String, params[4].Kind)
	assert.Equal(t, 0.0, params[4].Min)
	assert.Equal(t, 100.0, params[4].Max)
	assert.Equal(t, schema.ColorIndex, params[5].Kind)
}

func TestExtract_UsesCapabilities(t *testing.T) {
	src := `
		local base = vec3(1, 2, 3)
		function arguments()
			return { { name = 'idx', type = 'colorindex', default = tostring(palette.match(255, 255, 255)) } }
		end
	`
	params, err := generator.Extract(context.Background(), src, nil)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.NotEmpty(t, params[0].Default)
}

func TestExtract_HugeBoundsSaturate(t *testing.T) {
	src := `function arguments() return {{name="n", type="int", min="-1e20", max="1e20"}} end`
	params, err := generator.Extract(context.Background(), src, nil)
	require.NoError(t, err)
	require.Len(t, params, 1)

	v, err := schema.Coerce(params[0], "12")
	require.NoError(t, err)
	assert.Equal(t, 12, v.Int)

	v, err = schema.Coerce(params[0], "-12")
	require.NoError(t, err)
	assert.Equal(t, -12, v.Int)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantIdx  int
		contains string
	}{
		{"Missing type names the parameter", `function arguments() return {{name="x"}} end`, 0, "x"},
		{"Missing name", `function arguments() return {{type="int"}} end`, 0, "no name"},
		{"Unknown type", `function arguments() return {{name="x", type="vector"}} end`, 0, "invalid type found: vector"},
		{"Enum without values", `function arguments() return {{name="e", type="enum"}} end`, 0, "no enum property"},
		{"Entry is not a table", `function arguments() return {{name="a", type="int"}, 5} end`, 1, "expected a table"},
		{"Value is not a string", `function arguments() return {{name="a", type="int", default={}}} end`, 0, "expected string keys and values"},
		{"Bad min", `function arguments() return {{name="a", type="int", min="low"}} end`, 0, "min \"low\" is not a number"},
		{"Bad max", `function arguments() return {{name="a", type="float", max="high"}} end`, 0, "max \"high\" is not a number"},
		{"Infinite min", `function arguments() return {{name="a", type="int", min="-inf"}} end`, 0, "min \"-inf\" is not a number"},
		{"NaN max", `function arguments() return {{name="a", type="int", max="nan"}} end`, 0, "max \"nan\" is not a number"},
		{"Overflowing max", `function arguments() return {{name="a", type="float", max="1e400"}} end`, 0, "max \"1e400\" is not a number"},
		{"Return is not a table", `function arguments() return 42 end`, -1, "expected to get a table return value"},
		{"arguments raises", `function arguments() error("nope") end`, -1, "nope"},
		{"Top level raises", `error("broken")`, -1, "broken"},
		{"Syntax error", `function arguments(`, -1, "arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := generator.Extract(context.Background(), tt.src, nil)
			require.Error(t, err)
			assert.Nil(t, params, "no partial schema")

			var extractErr *schema.ExtractionError
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, tt.wantIdx, extractErr.Index)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestExtract_UnknownKeysWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	params, err := generator.Extract(context.Background(),
		`function arguments() return {{name="a", type="int", colour="red"}} end`, logger)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Contains(t, buf.String(), "invalid key found")
	assert.Contains(t, buf.String(), "colour")
}

func TestExtract_EmptyReturn(t *testing.T) {
	params, err := generator.Extract(context.Background(), `function arguments() end`, nil)
	require.NoError(t, err)
	assert.Empty(t, params)
}
