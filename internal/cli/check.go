package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aretw0/framesync"
	"github.com/aretw0/framesync/internal/presentation/tui"
)

// CheckOptions controls the one-off device check.
type CheckOptions struct {
	RunOptions
	Timeout time.Duration
	JSON    bool
}

// Check probes both devices once and prints the result.
func Check(opts CheckOptions, stdout, stderr io.Writer) error {
	d, _, err := newDaemon(opts.RunOptions, stderr)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	ctx, cancel := context.WithTimeout(sigCtx, opts.Timeout)
	defer cancel()

	snap, checkErr := d.Check(ctx)

	switch {
	case opts.JSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return err
		}
	case stdout == os.Stdout && isTerminal(os.Stdout):
		out, err := tui.NewRenderer(80)(snapshotMarkdown(snap, checkErr))
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, out)
	default:
		fmt.Fprint(stdout, snapshotText(snap))
	}

	if checkErr != nil {
		return fmt.Errorf("check incomplete: %w", checkErr)
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func snapshotText(s framesync.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "companion:     %s\n", onOff(s.CompanionOn))
	fmt.Fprintf(&b, "display power: %s\n", s.DisplayPower)
	fmt.Fprintf(&b, "art mode:      %s\n", onOff(s.ArtMode))
	return b.String()
}

func snapshotMarkdown(s framesync.Snapshot, err error) string {
	var b strings.Builder
	b.WriteString("# Device check\n\n")
	b.WriteString("| Device | State |\n|---|---|\n")
	fmt.Fprintf(&b, "| Companion | %s |\n", onOff(s.CompanionOn))
	fmt.Fprintf(&b, "| Display power | %s |\n", s.DisplayPower)
	fmt.Fprintf(&b, "| Art mode | %s |\n", onOff(s.ArtMode))
	if err != nil {
		fmt.Fprintf(&b, "\n> **incomplete:** %s\n", err)
	}
	return b.String()
}
