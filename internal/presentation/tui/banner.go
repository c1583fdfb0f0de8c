package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the voxgen banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  __   _______  ____ _  ___ _ __  ", "#34d399"},
		{"  \\ \\ / / _ \\ \\/ / _` |/ _ \\ '_ \\ ", "#2dd4bf"},
		{"   \\ V / (_) >  < (_| |  __/ | | |", "#22d3ee"},
		{"    \\_/ \\___/_/\\_\\__, |\\___|_| |_|", "#38bdf8"},
		{"                 |___/            ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  version "+version).Faint())
	fmt.Fprintln(w)
}
