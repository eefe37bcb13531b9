// Package progress reports fractional pipeline progress to the host.
package progress

import "github.com/cheggaaa/pb"

// A Bar receives progress from a pipeline stage. The interface
// carries no cancellation signal: stages only call Start and Tick,
// and always run to completion.
type Bar interface {
	Start(name string, total int)
	Tick()
}

// Noop discards progress.
type Noop struct{}

func (Noop) Start(string, int) {}
func (Noop) Tick()             {}

// Terminal draws a terminal progress bar.
type Terminal struct {
	bar *pb.ProgressBar
}

// NewTerminal returns an unstarted terminal bar.
func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Start(name string, total int) {
	if t.bar != nil {
		t.bar.Finish()
	}
	t.bar = pb.New(total)
	t.bar.SetWidth(80)
	t.bar.Prefix(name)
	t.bar.Start()
}

func (t *Terminal) Tick() {
	if t.bar != nil {
		t.bar.Increment()
	}
}

// Finish closes the current bar, if any.
func (t *Terminal) Finish() {
	if t.bar != nil {
		t.bar.Finish()
		t.bar = nil
	}
}

// Progressive is embedded by stages that report progress. A nil bar
// is allowed and discards ticks.
type Progressive struct {
	bar Bar
}

// NewProgressive wraps a bar, which may be nil.
func NewProgressive(bar Bar) Progressive {
	return Progressive{bar: bar}
}

// InitProgress publishes the total for the named stage.
func (p *Progressive) InitProgress(name string, total int) {
	if p.bar != nil {
		p.bar.Start(name, total)
	}
}

// Tick advances the stage by one unit.
func (p *Progressive) Tick() {
	if p.bar != nil {
		p.bar.Tick()
	}
}
