package mcptools

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/briefly/internal/orchestrator"
)

// mockOrchestrator is a test double for orchestrator.Orchestrator.
type mockOrchestrator struct {
	resp orchestrator.Response
	last orchestrator.Request
}

func (m *mockOrchestrator) Prepare(_ context.Context, req orchestrator.Request) orchestrator.Response {
	m.last = req
	resp := m.resp
	if resp.RequestID == "" {
		resp.RequestID = req.RequestID
	}
	return resp
}

type classifierFunc func(ctx context.Context, transcript string) orchestrator.Classification

func (f classifierFunc) Classify(ctx context.Context, transcript string) orchestrator.Classification {
	return f(ctx, transcript)
}

func okResponse() orchestrator.Response {
	return orchestrator.Response{
		Result: orchestrator.Result{
			Summary:        "You merged PR 42 and BRF-77 is still blocked.",
			Classification: orchestrator.Classification{CodeReview: true, Issues: true},
		},
		Steps: []orchestrator.StepRecord{
			{Name: "coordinator", Status: orchestrator.StepOK},
			{Name: "code_review", Status: orchestrator.StepOK},
			{Name: "issues", Status: orchestrator.StepOK},
			{Name: "notes", Status: orchestrator.StepSkipped},
			{Name: "synthesizer", Status: orchestrator.StepOK},
		},
		DurationMS: 12,
	}
}

func statusClassifier() Classifier {
	return classifierFunc(func(_ context.Context, transcript string) orchestrator.Classification {
		if transcript == "Status on auth feature?" {
			return orchestrator.Classification{CodeReview: true, Issues: true}
		}
		return orchestrator.Classification{}
	})
}

// setupServerClient wires an MCP server and client together using in-memory
// transports.
func setupServerClient(t *testing.T, orch orchestrator.Orchestrator) *mcp.ClientSession {
	t.Helper()

	server := NewBriefingMCPServer(NewBriefingService(orch, statusClassifier()))
	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
	})
	return session
}

func decodeStructured[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.NotNil(t, result.StructuredContent)
	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestMCPListTools(t *testing.T) {
	session := setupServerClient(t, &mockOrchestrator{resp: okResponse()})

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"classify_request", "prep_briefing"}, names)
}

func TestMCPPrepBriefing(t *testing.T) {
	orch := &mockOrchestrator{resp: okResponse()}
	session := setupServerClient(t, orch)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "prep_briefing",
		Arguments: map[string]any{"transcript": "Status on auth feature?", "requestId": "req-7"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decodeStructured[PrepBriefingOutput](t, result)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "req-7", out.RequestID)
	assert.Equal(t, "You merged PR 42 and BRF-77 is still blocked.", out.Summary)
	assert.True(t, out.Classification.CodeReview)
	assert.Len(t, out.Steps, 5)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "Status on auth feature?", orch.last.Transcript)
}

func TestMCPPrepBriefing_Failed(t *testing.T) {
	resp := orchestrator.Response{
		Steps:  []orchestrator.StepRecord{{Name: "synthesizer", Status: orchestrator.StepError, Error: "synthesis failed: 503"}},
		Errors: []string{"synthesis failed: 503"},
	}
	session := setupServerClient(t, &mockOrchestrator{resp: resp})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "prep_briefing",
		Arguments: map[string]any{"transcript": "prep"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "a failed briefing is reported in the output")

	out := decodeStructured[PrepBriefingOutput](t, result)
	assert.Equal(t, "failed", out.Status)
	assert.Equal(t, []string{"synthesis failed: 503"}, out.Errors)
	assert.Empty(t, out.Summary)
}

func TestMCPPrepBriefing_EmptyTranscript(t *testing.T) {
	session := setupServerClient(t, &mockOrchestrator{resp: okResponse()})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "prep_briefing",
		Arguments: map[string]any{"transcript": ""},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPClassifyRequest(t *testing.T) {
	session := setupServerClient(t, &mockOrchestrator{resp: okResponse()})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "classify_request",
		Arguments: map[string]any{"transcript": "Status on auth feature?"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decodeStructured[ClassifyRequestOutput](t, result)
	assert.Equal(t, orchestrator.Classification{CodeReview: true, Issues: true}, out.Classification)
	assert.Equal(t, []string{"code_review", "issues"}, out.Sources)
}

func TestBriefingService_Degraded(t *testing.T) {
	resp := okResponse()
	resp.Steps[2] = orchestrator.StepRecord{Name: "issues", Status: orchestrator.StepError, Error: "fetch issues: timeout"}
	svc := NewBriefingService(&mockOrchestrator{resp: resp}, statusClassifier())

	_, out, err := svc.PrepBriefing(context.Background(), nil, PrepBriefingInput{Transcript: "prep"})
	require.NoError(t, err)
	assert.Equal(t, "degraded", out.Status)
	assert.NotEmpty(t, out.Summary)
}

func TestBriefingService_ClassifyEmptyPlan(t *testing.T) {
	svc := NewBriefingService(&mockOrchestrator{}, statusClassifier())

	_, out, err := svc.ClassifyRequest(context.Background(), nil, ClassifyRequestInput{Transcript: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, out.Sources)

	_, _, err = svc.ClassifyRequest(context.Background(), nil, ClassifyRequestInput{Transcript: " "})
	require.Error(t, err)
}
