package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "0m", FormatMinutes(-5))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "7h 5m", FormatMinutes(425))

	est := 90
	assert.Equal(t, "1h 30m", FormatOptionalMinutes(&est))
	assert.Equal(t, "--", stripANSI(FormatOptionalMinutes(nil)))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "01234567", stripANSI(TruncID("0123456789abcdef")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestTreePrefixes(t *testing.T) {
	//  project
	//  ├─ phase
	//  │  ├─ group
	//  │  │  └─ task
	//  │  └─ leaf
	//  └─ phase2
	got := TreePrefixes([]int{0, 1, 2, 3, 2, 1})
	assert.Equal(t, []string{"", "├─ ", "│  ├─ ", "│  │  └─ ", "│  └─ ", "└─ "}, got)
}

func TestRenderTableAligned(t *testing.T) {
	out := stripANSI(RenderTableAligned(
		[]string{"NAME", "MIN"},
		[][]string{{"a", "5"}, {"longer", "120"}},
		map[int]bool{1: true},
	))
	lines := splitLines(out)
	assert.Equal(t, "NAME    MIN", lines[0])
	assert.Equal(t, "a         5", lines[2])
	assert.Equal(t, "longer  120", lines[3])
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := range len(s) {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
