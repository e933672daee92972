package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Progress tracks and displays pipeline stage progress on a single terminal line.
type Progress struct {
	startTime time.Time
	output    io.Writer
	stage     string
	total     int
	completed int
	mu        sync.RWMutex
	enabled   bool
}

// NewProgress creates a new progress tracker writing to stderr.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		total:     total,
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// Update records that stage finished as step completed of total.
func (p *Progress) Update(completed, total int, stage string) {
	p.mu.Lock()
	p.completed = completed
	p.total = total
	p.stage = stage
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Print displays the current progress to output.
func (p *Progress) Print() {
	p.mu.RLock()
	completed := p.completed
	total := p.total
	stage := p.stage
	startTime := p.startTime
	p.mu.RUnlock()

	elapsed := time.Since(startTime)

	barWidth := 30
	filledWidth := 0
	if total > 0 {
		filledWidth = int(float64(completed) / float64(total) * float64(barWidth))
	}
	if filledWidth > barWidth {
		filledWidth = barWidth
	}
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

	line := fmt.Sprintf("\r[%s] %d/%d stages", bar, completed, total)
	if stage != "" {
		line += " - " + stage
	}
	if completed == total {
		line += fmt.Sprintf(" - Done in %s", formatDuration(elapsed))
	}

	// Pad to clear previous line content
	line += "          "

	fmt.Fprint(p.output, line)
}

// Done prints the final progress and a newline.
func (p *Progress) Done() {
	if p.enabled {
		p.Print()
		fmt.Fprintln(p.output)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", mins, secs)
}
