package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the framesync banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	// Warm gallery tones, top to bottom
	lines := []struct{ text, color string }{
		{"   __                                              ", "#fbbf24"},
		{"  / _|_ __ __ _ _ __ ___   ___  ___ _   _ _ __   ___ ", "#f59e0b"},
		{" | |_| '__/ _` | '_ ` _ \\ / _ \\/ __| | | | '_ \\ / __|", "#f97316"},
		{" |  _| | | (_| | | | | | |  __/\\__ \\ |_| | | | | (__ ", "#ea580c"},
		{" |_| |_|  \\__,_|_| |_| |_|\\___||___/\\__, |_| |_|\\___|", "#dc2626"},
		{"                                    |___/            ", "#b91c1c"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  art mode keeper "+version).Faint())
	fmt.Fprintln(w)
}
