// Package validator checks a script directory for problems a run would only reveal later.
package validator

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/aretw0/voxgen/pkg/schema"
)

// Source is what the validator needs from a Generator.
type Source interface {
	ListScripts(ctx context.Context) ([]generator.Script, error)
	Describe(ctx context.Context, name string) ([]schema.Parameter, error)
}

// ValidateScripts lists every script and reports missing main functions, parameter
// declarations that cannot be extracted and declarations that contradict themselves.
// All problems are collected into a single error.
func ValidateScripts(ctx context.Context, src Source) error {
	scripts, err := src.ListScripts(ctx)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		return fmt.Errorf("no scripts found under %s/", generator.ScriptsDir)
	}

	var problems []string
	for _, s := range scripts {
		if !s.HasMain {
			problems = append(problems, fmt.Sprintf("'%s': no global main function", s.Name))
			continue
		}
		params, err := src.Describe(ctx, s.Name)
		if err != nil {
			problems = append(problems, fmt.Sprintf("'%s': %v", s.Name, err))
			continue
		}
		for _, p := range CheckParameters(params) {
			problems = append(problems, fmt.Sprintf("'%s': %s", s.Name, p))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// CheckParameters reports duplicate names, inverted bounds and defaults a run would silently replace.
func CheckParameters(params []schema.Parameter) []string {
	var problems []string
	seen := make(map[string]bool)
	for _, p := range params {
		if seen[p.Name] {
			problems = append(problems, fmt.Sprintf("parameter %q declared twice", p.Name))
		}
		seen[p.Name] = true

		switch {
		case p.Numeric():
			if p.Min > p.Max {
				problems = append(problems, fmt.Sprintf("parameter %q: min %g exceeds max %g", p.Name, p.Min, p.Max))
				continue
			}
			if p.Default == "" {
				continue
			}
			if d, err := strconv.ParseFloat(p.Default, 64); err == nil && (d < p.Min || d > p.Max) {
				problems = append(problems, fmt.Sprintf("parameter %q: default %s outside %g..%g", p.Name, p.Default, p.Min, p.Max))
			}
		case p.Kind == schema.Enum:
			choices := p.Choices()
			if len(choices) == 0 {
				problems = append(problems, fmt.Sprintf("parameter %q: enum without values", p.Name))
			} else if p.Default != "" && !slices.Contains(choices, p.Default) {
				problems = append(problems, fmt.Sprintf("parameter %q: default %q is not one of %s", p.Name, p.Default, p.Enum))
			}
		}
	}
	return problems
}
