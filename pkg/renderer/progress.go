package renderer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ProgressReporter periodically logs how many pixels have been finished.
// It only reads the shared counter and never blocks the workers, so a
// reported value may lag the true count slightly.
type ProgressReporter struct {
	counter  *atomic.Int64
	total    int64
	interval time.Duration
	logger   core.Logger

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

// NewProgressReporter creates a reporter for total pixels. A non-positive
// interval produces a reporter that never logs.
func NewProgressReporter(counter *atomic.Int64, total int64, interval time.Duration, logger core.Logger) *ProgressReporter {
	return &ProgressReporter{
		counter:  counter,
		total:    total,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the polling goroutine
func (p *ProgressReporter) Start() {
	if p.interval <= 0 {
		close(p.stopped)
		return
	}

	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.logger.Printf("Progress: %.1f%% (%d/%d pixels)\n", p.Percent(), p.counter.Load(), p.total)
			case <-p.done:
				return
			}
		}
	}()
}

// Stop ends the polling goroutine and waits for it to exit. Safe to call more than once.
func (p *ProgressReporter) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
	<-p.stopped
}

// Percent returns the completed share of pixels in [0, 100]
func (p *ProgressReporter) Percent() float64 {
	if p.total <= 0 {
		return 100
	}
	return min(100, 100*float64(p.counter.Load())/float64(p.total))
}
