package tui

import (
	"os"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var stateColors = map[generator.State]string{
	generator.Idle:            "#9ca3af",
	generator.SchemaExtracted: "#a78bfa",
	generator.Running:         "#60a5fa",
	generator.Succeeded:       "#34d399",
	generator.Failed:          "#f87171",
}

// State renders a run state with its color. Plain text on profiles without color.
func State(s generator.State) string {
	p := termenv.ColorProfile()
	out := termenv.String(s.String())
	if c, ok := stateColors[s]; ok {
		out = out.Foreground(p.Color(c))
	}
	if s == generator.Failed {
		out = out.Bold()
	}
	return out.String()
}

// Swatch renders a palette color as a colored block followed by its hex code.
func Swatch(hex string) string {
	p := termenv.ColorProfile()
	return termenv.String("  ").Background(p.Color(hex)).String() + " " + hex
}
