package orchestrator

import (
	"errors"
	"fmt"

	"github.com/dusk-indust/briefly/internal/source"
)

// ErrEmptyTranscript rejects a request before any collaborator is called.
var ErrEmptyTranscript = errors.New("orchestrator: transcript is empty")

var errNoFetcher = errors.New("no fetcher configured")

// ClassificationParseError means the coordinator's output was not a valid
// classification. It is logged and replaced by the all-false decision.
type ClassificationParseError struct {
	Raw string
	Err error
}

func (e *ClassificationParseError) Error() string {
	return fmt.Sprintf("coordinator: invalid classification %q: %v", e.Raw, e.Err)
}

func (e *ClassificationParseError) Unwrap() error { return e.Err }

// FetchError is a failed fetch for one source. It never fails the request.
type FetchError struct {
	Source source.ID
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SynthesisError is a failed briefing completion.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// GraphExecutionError wraps a panic recovered while running a request.
type GraphExecutionError struct {
	Cause any
}

func (e *GraphExecutionError) Error() string {
	return fmt.Sprintf("orchestration failed: %v", e.Cause)
}

func (e *GraphExecutionError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
