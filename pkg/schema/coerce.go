package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a coerced argument. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Int   int
	Float float64
	Str   string
	Bool  bool
}

// Interface returns the value as int, float64, string or bool.
func (v Value) Interface() any {
	switch v.Kind {
	case Integer, ColorIndex:
		return v.Int
	case Float:
		return v.Float
	case Boolean:
		return v.Bool
	default:
		return v.Str
	}
}

// Coerce converts a raw argument into the parameter's kind.
// Numbers that do not parse become 0 and every numeric result is clamped to [Min, Max].
func Coerce(p Parameter, arg string) (Value, error) {
	v := Value{Kind: p.Kind}
	switch p.Kind {
	case Enum, String:
		v.Str = arg
	case Boolean:
		v.Bool = arg == "1" || arg == "true"
	case Integer:
		v.Int = clampInt(parseInt(arg), p.Min, p.Max)
	case ColorIndex:
		v.Int = min(max(clampInt(parseInt(arg), p.Min, p.Max), 0), 255)
	case Float:
		v.Float = clampFloat(parseFloat(arg), p.Min, p.Max)
	default:
		return Value{}, fmt.Errorf("%w: parameter %q has kind %d", ErrInvalidKind, p.Name, int(p.Kind))
	}
	return v, nil
}

// clampInt truncates bounds the same way the value was truncated.
func clampInt(v int, lo, hi float64) int {
	return min(max(v, intBound(lo, math.MinInt)), intBound(hi, math.MaxInt))
}

// intBound converts a bound to int, saturating at the int range. NaN is unbounded.
func intBound(f float64, unbounded int) int {
	switch {
	case math.IsNaN(f):
		return unbounded
	case f >= float64(math.MaxInt):
		return math.MaxInt
	case f <= float64(math.MinInt):
		return math.MinInt
	}
	return int(f)
}

// clampFloat ignores NaN bounds.
func clampFloat(v, lo, hi float64) float64 {
	if !math.IsNaN(lo) {
		v = math.Max(v, lo)
	}
	if !math.IsNaN(hi) {
		v = math.Min(v, hi)
	}
	return v
}

// parseInt reads an optional sign and leading digits, ignoring the rest.
// "12px" is 12, "3.9" is 3 and "abc" is 0. Values beyond the int range saturate.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, _ := strconv.ParseInt(s[:end], 10, 0) // saturated on range errors
	return int(n)
}

// parseFloat parses the longest numeric prefix of s, or returns 0.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	for end := len(s); end > 0; end-- {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return 0
			}
			return f
		}
	}
	return 0
}
