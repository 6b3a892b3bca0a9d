package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the anamnesis ASCII banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _ _ __   __ _ _ __ ___  _ __   ___  ___(_)___", "#2dd4bf"},
		{"  / _` | '_ \\ / _` | '_ ` _ \\| '_ \\ / _ \\/ __| / __|", "#22d3ee"},
		{" | (_| | | | | (_| | | | | | | | | |  __/\\__ \\ \\__ \\", "#38bdf8"},
		{"  \\__,_|_| |_|\\__,_|_| |_| |_|_| |_|\\___||___/_|___/", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
