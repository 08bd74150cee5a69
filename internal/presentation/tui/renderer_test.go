package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_RendersTable(t *testing.T) {
	render := NewRenderer(80)
	out, err := render("| Device | State |\n|---|---|\n| display | on |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "display")
}

func TestPrintBanner_IncludesVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "v1.0.0")
	assert.Contains(t, buf.String(), "art mode keeper v1.0.0")
}
