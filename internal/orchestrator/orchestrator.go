// Package orchestrator runs one briefing request end to end: classify the
// transcript, fetch the selected sources concurrently, then synthesize the
// briefing exactly once.
package orchestrator

import (
	"context"

	"github.com/dusk-indust/briefly/internal/source"
)

// Step names reported in Response.Steps. Fetch steps use the source ID.
const (
	StepCoordinator = "coordinator"
	StepSynthesizer = "synthesizer"
)

// Classification is the coordinator's routing decision.
type Classification struct {
	CodeReview bool `json:"needs_code_review"`
	Issues     bool `json:"needs_issues"`
	Notes      bool `json:"needs_notes"`
}

// Needs reports whether the flag for id is set.
func (c Classification) Needs(id source.ID) bool {
	switch id {
	case source.CodeReview:
		return c.CodeReview
	case source.Issues:
		return c.Issues
	case source.Notes:
		return c.Notes
	default:
		return false
	}
}

// Request is one inbound briefing request.
type Request struct {
	Transcript string
	RequestID  string // generated when empty
}

// Result is the briefing and the routing decision behind it.
type Result struct {
	Summary        string         `json:"summary"`
	Classification Classification `json:"classification"`
}

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepError   StepStatus = "error"
	StepSkipped StepStatus = "skipped"
)

// StepRecord describes one executed (or skipped) step.
type StepRecord struct {
	Name       string     `json:"name"`
	Status     StepStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	DurationMS int64      `json:"durationMs"`
}

// Response is always well formed, whatever failed along the way.
type Response struct {
	RequestID  string       `json:"requestId"`
	Result     Result       `json:"result"`
	Steps      []StepRecord `json:"steps"`
	Errors     []string     `json:"errors,omitempty"`
	DurationMS int64        `json:"durationMs"`
}

// Failed reports whether the request produced no briefing.
func (r Response) Failed() bool {
	return len(r.Errors) > 0
}

// Degraded reports whether any step other than synthesis failed.
func (r Response) Degraded() bool {
	for _, s := range r.Steps {
		if s.Status == StepError && s.Name != StepSynthesizer {
			return true
		}
	}
	return false
}

// ProgressEvent is emitted as steps start and finish.
type ProgressEvent struct {
	RequestID string
	Step      string
	Status    ProgressStatus
	Message   string
}

// ProgressStatus is the state of a step.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
	ProgressSkipped  ProgressStatus = "skipped"
)

// Orchestrator prepares briefings.
type Orchestrator interface {
	Prepare(ctx context.Context, req Request) Response
}
