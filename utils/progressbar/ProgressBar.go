// Package progressbar implements functionality of printing a live
// progress bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gosuri/uilive"
)

// ProgressBar implements a progress bar which redraws itself in place.
// Increment may be called concurrently from many goroutines.
type ProgressBar struct {
	mu      sync.Mutex
	width   int
	max     int
	current int
	status  string

	writer  *uilive.Writer
	started bool
}

// New returns a new progress bar that is width characters wide, reaches
// 100% after max calls to Increment, and draws itself to out
func New(out io.Writer, width, max int) *ProgressBar {
	writer := uilive.New()
	writer.Out = out

	return &ProgressBar{
		width:  width,
		max:    max,
		writer: writer,
	}
}

// Start starts redrawing the progress bar periodically
func (p *ProgressBar) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		p.started = true
		p.writer.Start()
	}
}

// Stop draws the progress bar a final time and stops redrawing it
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.draw()
	if p.started {
		p.started = false
		p.writer.Stop()
	} else {
		p.writer.Flush()
	}
}

// Increment increments the progress counter by one
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.max {
		p.current++
	}
	p.draw()
}

// SetStatus sets a message which is displayed after the bar
func (p *ProgressBar) SetStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = status
	p.draw()
}

// Progress returns the number of calls to Increment so far, capped at
// the maximum progress
func (p *ProgressBar) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// draw writes the bar to the live writer. The caller must hold p.mu.
func (p *ProgressBar) draw() {
	fmt.Fprintln(p.writer, p.bar())
}

// bar returns the textual bar. The caller must hold p.mu.
func (p *ProgressBar) bar() string {
	share := 1.0
	if p.max > 0 {
		share = float64(p.current) / float64(p.max)
	}
	filled := int(share * float64(p.width))

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", p.width-filled))
	fmt.Fprintf(&b, "] %3.0f%%  %d/%d", share*100, p.current, p.max)
	if p.status != "" {
		b.WriteString("  ")
		b.WriteString(p.status)
	}
	return b.String()
}

func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bar()
}
