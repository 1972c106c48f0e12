package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar renders a determinate progress bar on stderr. It draws
// directly instead of running a bubbletea program so callers can drive
// it from a plain callback.
type ProgressBar struct {
	bar   progress.Model
	label string
	total int64
	mu    sync.Mutex
	done  bool
}

// NewProgressBar creates a bar for total bytes. A total of -1 means the
// size is unknown and only the byte count is shown.
func NewProgressBar(label string, total int64) *ProgressBar {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	return &ProgressBar{bar: bar, label: label, total: total}
}

// Set redraws the bar at written bytes.
func (p *ProgressBar) Set(written int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	if p.total <= 0 {
		fmt.Fprintf(os.Stderr, "\r\033[K%s %s", p.label, humanBytes(written))
		return
	}
	ratio := float64(written) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	fmt.Fprintf(os.Stderr, "\r\033[K%s %s %s/%s",
		p.label, p.bar.ViewAs(ratio), humanBytes(written), humanBytes(p.total))
}

// Finish clears the bar line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	p.done = true
	fmt.Fprint(os.Stderr, "\r\033[K")
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/float64(div)), ".0") +
		string("KMGTPE"[exp]) + "iB"
}
