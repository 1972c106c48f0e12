package ui

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := RenderTable(
		[]string{"NAME", "SIZE"},
		[][]string{
			{"a.png", "12KiB"},
			{"longer-name.png", "1B"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "a.png") {
		t.Errorf("row 1 = %q, want a.png", lines[1])
	}
	// Columns align: SIZE cells start at the same offset.
	if strings.Index(lines[1], "12KiB") != strings.Index(lines[2], "1B") {
		t.Errorf("columns misaligned:\n%s", out)
	}
}

func TestRenderTable_ShortRow(t *testing.T) {
	t.Parallel()

	out := RenderTable([]string{"A", "B"}, [][]string{{"only"}})
	if !strings.Contains(out, "only") {
		t.Errorf("output = %q, want short row rendered", out)
	}
}

func TestHumanBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{2048, "2KiB"},
		{1536, "1.5KiB"},
		{3 * 1024 * 1024, "3MiB"},
	}
	for _, tt := range tests {
		if got := humanBytes(tt.n); got != tt.want {
			t.Errorf("humanBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
