package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/voxgen/pkg/schema"
	"github.com/aretw0/voxgen/pkg/scripting"
	"github.com/mitchellh/mapstructure"
	lua "github.com/yuin/gopher-lua"
)

// rawParameter is one arguments() entry after key normalization.
type rawParameter struct {
	Name    string  `mapstructure:"name"`
	Desc    string  `mapstructure:"desc"`
	Enum    string  `mapstructure:"enum"`
	Default string  `mapstructure:"default"`
	Min     *string `mapstructure:"min"`
	Max     *string `mapstructure:"max"`
	Type    string  `mapstructure:"type"`
}

// Extract runs src once in a fresh runtime and returns the parameters its arguments() function declares.
// A script without arguments() has no parameters. Any malformed declaration fails the whole schema.
func Extract(ctx context.Context, src string, logger *slog.Logger, opts ...scripting.Option) ([]schema.Parameter, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rt, err := scripting.NewRuntime(append(opts, scripting.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}
	defer rt.Close()
	rt.SetContext(ctx)

	if err := rt.DoString("arguments", src); err != nil {
		return nil, &schema.ExtractionError{Index: -1, Reason: scripting.ErrorMessage(err), Err: err}
	}

	fn, ok := rt.Global("arguments").(*lua.LFunction)
	if !ok {
		return []schema.Parameter{}, nil
	}
	results, err := rt.Call(fn)
	if err != nil {
		return nil, &schema.ExtractionError{Index: -1, Reason: scripting.ErrorMessage(err), Err: err}
	}
	if len(results) == 0 {
		return []schema.Parameter{}, nil
	}
	list, ok := results[len(results)-1].(*lua.LTable)
	if !ok {
		return nil, &schema.ExtractionError{Index: -1, Reason: "expected to get a table return value"}
	}

	params := make([]schema.Parameter, 0, list.Len())
	for i := 1; i <= list.Len(); i++ {
		p, err := parseEntry(i-1, list.RawGetInt(i), logger)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func parseEntry(index int, v lua.LValue, logger *slog.Logger) (schema.Parameter, error) {
	fail := func(param, format string, args ...any) (schema.Parameter, error) {
		return schema.Parameter{}, &schema.ExtractionError{Index: index, Param: param, Reason: fmt.Sprintf(format, args...)}
	}

	entry, ok := v.(*lua.LTable)
	if !ok {
		return fail("", "expected a table like { name = 'name', desc = 'description', type = 'int' }")
	}

	fields := make(map[string]any)
	var badKey lua.LValue
	entry.ForEach(func(key, value lua.LValue) {
		if badKey != nil {
			return
		}
		if !lua.LVCanConvToString(key) || !lua.LVCanConvToString(value) {
			badKey = key
			return
		}
		fields[normalizeKey(key.String())] = value.String()
	})
	if badKey != nil {
		return fail("", "expected string keys and values, got key %s", badKey.String())
	}

	var raw rawParameter
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &raw, Metadata: &md})
	if err != nil {
		return fail("", "%v", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fail("", "%v", err)
	}
	for _, key := range md.Unused {
		logger.Warn("invalid key found in arguments()", "index", index, "key", key)
	}

	if raw.Name == "" {
		return fail("", "no name = 'myname' key given")
	}
	if raw.Type == "" {
		return fail(raw.Name, "no type = 'int', 'float', 'str', 'bool', 'enum' or 'colorindex' key given for '%s'", raw.Name)
	}
	kind, err := schema.ParseKind(raw.Type)
	if err != nil {
		return schema.Parameter{}, &schema.ExtractionError{Index: index, Param: raw.Name, Reason: "invalid type found: " + raw.Type, Err: err}
	}
	if kind == schema.Enum && raw.Enum == "" {
		return fail(raw.Name, "no enum property given for argument '%s', but type is 'enum'", raw.Name)
	}

	p := schema.NewParameter(raw.Name, kind)
	p.Description = raw.Desc
	p.Default = raw.Default
	p.Enum = raw.Enum
	if raw.Min != nil {
		if p.Min, err = parseBound(*raw.Min); err != nil {
			return fail(raw.Name, "min %q is not a number", *raw.Min)
		}
	}
	if raw.Max != nil {
		if p.Max, err = parseBound(*raw.Max); err != nil {
			return fail(raw.Name, "max %q is not a number", *raw.Max)
		}
	}
	return p, nil
}

// normalizeKey maps description/enumeration style keys onto desc and enum.
func normalizeKey(key string) string {
	switch {
	case strings.HasPrefix(key, "desc"):
		return "desc"
	case strings.HasPrefix(key, "enum"):
		return "enum"
	default:
		return key
	}
}

var errNonFinite = errors.New("bound is not finite")

// parseBound accepts finite numbers only.
func parseBound(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNonFinite
	}
	return f, nil
}
