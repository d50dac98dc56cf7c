package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 10, 0, "  0%"},
		{"half", 0.5, 10, 5, " 50%"},
		{"full", 1, 10, 10, "100%"},
		{"over 100% clamps", 1.5, 10, 10, "100%"},
		{"negative clamps", -0.5, 10, 0, "  0%"},
		{"tiny width clamps to 2", 0.5, 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderProgress(tt.pct, tt.width))
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
			assert.True(t, strings.HasPrefix(got, "["))
		})
	}
}

func TestRenderCompactBar(t *testing.T) {
	for _, dim := range []bool{false, true} {
		got := stripANSI(RenderCompactBar(0.5, 4, dim))
		assert.Equal(t, "██░░", got)
		assert.NotContains(t, got, "%")
	}
}

func TestRenderUsage(t *testing.T) {
	assert.Contains(t, stripANSI(RenderUsage(210, 420, 10)), " 50%")
	assert.Contains(t, stripANSI(RenderUsage(0, 0, 10)), "  0%")

	over := stripANSI(RenderUsage(500, 420, 10))
	assert.Contains(t, over, "over by 1h 20m")
	assert.NotContains(t, over, emptyBlock)
}
