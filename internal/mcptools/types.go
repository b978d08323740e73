package mcptools

import "github.com/dusk-indust/briefly/internal/orchestrator"

// PrepBriefingInput is the input for the prep_briefing MCP tool.
type PrepBriefingInput struct {
	Transcript string `json:"transcript" jsonschema:"what the user asked for, e.g. 'Prep me for standup'"`
	RequestID  string `json:"requestId,omitempty" jsonschema:"caller-supplied request ID (generated when empty)"`
}

// PrepBriefingOutput is the result of the prep_briefing MCP tool.
type PrepBriefingOutput struct {
	RequestID      string                      `json:"requestId"`
	Status         string                      `json:"status"` // "ok", "degraded" or "failed"
	Summary        string                      `json:"summary"`
	Classification orchestrator.Classification `json:"classification"`
	Steps          []orchestrator.StepRecord   `json:"steps"`
	Errors         []string                    `json:"errors,omitempty"`
	DurationMS     int64                       `json:"durationMs"`
}

// ClassifyRequestInput is the input for the classify_request MCP tool.
type ClassifyRequestInput struct {
	Transcript string `json:"transcript" jsonschema:"the request to route"`
}

// ClassifyRequestOutput is the result of the classify_request MCP tool.
type ClassifyRequestOutput struct {
	Classification orchestrator.Classification `json:"classification"`
	Sources        []string                    `json:"sources"`
}
