package schema

import "strings"

// Default bounds for numeric parameters that do not declare min or max.
const (
	DefaultMin = 0.0
	DefaultMax = 100.0
)

// Parameter is one declared argument of a script's main function.
// Default is kept as a string because it goes through the same coercion as command line input.
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Default     string  `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        string  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	Kind        Kind    `json:"type" yaml:"type"`
}

// NewParameter returns a parameter with the default numeric bounds.
func NewParameter(name string, kind Kind) Parameter {
	return Parameter{Name: name, Kind: kind, Min: DefaultMin, Max: DefaultMax}
}

// Choices splits the enum value on commas. Empty items are dropped.
func (p Parameter) Choices() []string {
	if p.Enum == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(p.Enum, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Numeric reports whether Min and Max apply to the parameter.
func (p Parameter) Numeric() bool {
	return p.Kind == Integer || p.Kind == Float || p.Kind == ColorIndex
}
