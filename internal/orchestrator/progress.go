package orchestrator

import (
	"fmt"
	"sync/atomic"
)

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch      chan ProgressEvent
	dropped atomic.Int64
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event without blocking. If the channel is full, the
// event is dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
		pr.dropped.Add(1)
	}
}

// Dropped reports how many events Emit discarded because the channel was full.
func (pr *ProgressReporter) Dropped() int64 {
	return pr.dropped.Load()
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel. No Emit may follow.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
// Events carrying a request ID are prefixed with it.
func FormatProgress(event ProgressEvent) string {
	step := event.Step
	if event.RequestID != "" {
		step = "[" + event.RequestID + "] " + step
	}
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", step)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", step)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s complete", step)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", step, event.Message)
	case ProgressSkipped:
		return fmt.Sprintf("  - %s skipped", step)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", step)
	}
}

// FormatPlanHeader formats the routing decision for display.
// Returns: "[{requestID}] Plan: {plan}"
func FormatPlanHeader(requestID string, plan Plan) string {
	return fmt.Sprintf("[%s] Plan: %s", requestID, plan)
}
