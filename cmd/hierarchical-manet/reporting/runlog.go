package reporting

import (
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Color definitions for run progress output
var (
	colorRunBanner = color.New(color.FgCyan, color.Bold)
	colorOK        = color.New(color.FgGreen)
	colorFailed    = color.New(color.FgRed, color.Bold)
	colorMetric    = color.New(color.FgHiBlack)
)

// RunOutcome records how one trial in a batch ended.
type RunOutcome struct {
	RunNumber int
	Flows     int
	Err       error
	Elapsed   time.Duration
}

// RunLogger tracks per-run outcomes across a batch and prints colored
// progress lines as each trial starts and finishes.
type RunLogger struct {
	mu         sync.Mutex
	packetSize int
	total      int
	outcomes   []RunOutcome
}

// NewRunLogger creates a logger for a batch of total runs at one packet size.
func NewRunLogger(packetSize, total int) *RunLogger {
	return &RunLogger{packetSize: packetSize, total: total}
}

// RunStarted announces a trial.
func (l *RunLogger) RunStarted(runNumber int) {
	_, _ = colorRunBanner.Printf("Running simulation %d/%d for packet size: %d\n",
		runNumber, l.total, l.packetSize)
}

// RunFinished records and reports a trial's outcome.
func (l *RunLogger) RunFinished(outcome RunOutcome) {
	l.mu.Lock()
	l.outcomes = append(l.outcomes, outcome)
	l.mu.Unlock()

	if outcome.Err != nil {
		_, _ = colorFailed.Printf("Run %d failed: %v\n", outcome.RunNumber, outcome.Err)
		return
	}
	_, _ = colorOK.Printf("Run %d complete", outcome.RunNumber)
	_, _ = colorMetric.Printf("  flows=%d elapsed=%s\n", outcome.Flows, outcome.Elapsed.Round(time.Millisecond))
}

// Summary prints the batch totals and returns the number of failed runs.
func (l *RunLogger) Summary() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	completed, failed, flows := 0, 0, 0
	for _, o := range l.outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		completed++
		flows += o.Flows
	}

	fmt.Println()
	_, _ = colorRunBanner.Printf("Batch finished for packet size %d\n", l.packetSize)
	_, _ = colorOK.Printf("  completed: %d/%d\n", completed, l.total)
	if failed > 0 {
		_, _ = colorFailed.Printf("  failed:    %d\n", failed)
	}
	_, _ = colorMetric.Printf("  flow rows exported: %d\n", flows)
	return failed
}
