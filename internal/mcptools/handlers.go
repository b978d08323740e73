package mcptools

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/briefly/internal/orchestrator"
)

// Classifier answers the routing question on its own.
type Classifier interface {
	Classify(ctx context.Context, transcript string) orchestrator.Classification
}

var errTranscriptRequired = errors.New("transcript is required")

// BriefingService handles MCP tool calls. It wraps an Orchestrator and the
// Classifier behind it.
type BriefingService struct {
	orch       orchestrator.Orchestrator
	classifier Classifier
}

// NewBriefingService creates a BriefingService.
func NewBriefingService(orch orchestrator.Orchestrator, classifier Classifier) *BriefingService {
	return &BriefingService{orch: orch, classifier: classifier}
}

// PrepBriefing runs one briefing request. A failed briefing is reported in
// the output, not as a tool error.
func (s *BriefingService) PrepBriefing(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PrepBriefingInput,
) (*mcp.CallToolResult, PrepBriefingOutput, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, PrepBriefingOutput{}, errTranscriptRequired
	}

	resp := s.orch.Prepare(ctx, orchestrator.Request{
		Transcript: input.Transcript,
		RequestID:  input.RequestID,
	})

	steps := resp.Steps
	if steps == nil {
		steps = []orchestrator.StepRecord{}
	}

	status := "ok"
	switch {
	case resp.Failed():
		status = "failed"
	case resp.Degraded():
		status = "degraded"
	}

	return nil, PrepBriefingOutput{
		RequestID:      resp.RequestID,
		Status:         status,
		Summary:        resp.Result.Summary,
		Classification: resp.Result.Classification,
		Steps:          steps,
		Errors:         resp.Errors,
		DurationMS:     resp.DurationMS,
	}, nil
}

// ClassifyRequest reports which sources a request would be routed to,
// without fetching or synthesizing anything.
func (s *BriefingService) ClassifyRequest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyRequestInput,
) (*mcp.CallToolResult, ClassifyRequestOutput, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, ClassifyRequestOutput{}, errTranscriptRequired
	}

	cls := s.classifier.Classify(ctx, input.Transcript)
	plan := orchestrator.PlanFor(cls)
	sources := make([]string, 0, len(plan.Sources))
	for _, id := range plan.Sources {
		sources = append(sources, string(id))
	}
	return nil, ClassifyRequestOutput{Classification: cls, Sources: sources}, nil
}
