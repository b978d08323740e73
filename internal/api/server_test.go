package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/metrics"
	"github.com/dusk-indust/briefly/internal/orchestrator"
)

// mockOrchestrator implements orchestrator.Orchestrator.
type mockOrchestrator struct {
	prepare func(ctx context.Context, req orchestrator.Request) orchestrator.Response
	calls   int
	last    orchestrator.Request
}

func (m *mockOrchestrator) Prepare(ctx context.Context, req orchestrator.Request) orchestrator.Response {
	m.calls++
	m.last = req
	return m.prepare(ctx, req)
}

type classifierFunc func(ctx context.Context, transcript string) orchestrator.Classification

func (f classifierFunc) Classify(ctx context.Context, transcript string) orchestrator.Classification {
	return f(ctx, transcript)
}

func okOrchestrator() *mockOrchestrator {
	return &mockOrchestrator{prepare: func(_ context.Context, req orchestrator.Request) orchestrator.Response {
		return orchestrator.Response{
			RequestID: req.RequestID,
			Result: orchestrator.Result{
				Summary:        "You have one blocker.",
				Classification: orchestrator.Classification{Issues: true},
			},
			Steps: []orchestrator.StepRecord{
				{Name: "coordinator", Status: orchestrator.StepOK},
				{Name: "synthesizer", Status: orchestrator.StepOK},
			},
		}
	}}
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var doc map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	}
	return w, doc
}

func TestHealth(t *testing.T) {
	s := NewServer(okOrchestrator(), WithLogger(logging.Discard()))
	w, doc := do(t, s.Handler(), http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, doc)
}

func TestPrep_Routes(t *testing.T) {
	for _, path := range []string{"/summarize", "/api/prep"} {
		t.Run(path, func(t *testing.T) {
			orch := okOrchestrator()
			s := NewServer(orch, WithLogger(logging.Discard()))

			w, doc := do(t, s.Handler(), http.MethodPost, path, `{"transcript": "What's blocking us?"}`, nil)
			require.Equal(t, http.StatusOK, w.Code)

			assert.Equal(t, 1, orch.calls)
			assert.Equal(t, "What's blocking us?", orch.last.Transcript)
			assert.NotEmpty(t, orch.last.RequestID)
			assert.Equal(t, orch.last.RequestID, w.Header().Get(RequestIDHeader))

			result := doc["result"].(map[string]any)
			assert.Equal(t, "You have one blocker.", result["summary"])
			assert.NotContains(t, doc, "errors")
			assert.Len(t, doc["steps"], 2)
		})
	}
}

func TestPrep_PropagatesRequestID(t *testing.T) {
	orch := okOrchestrator()
	s := NewServer(orch, WithLogger(logging.Discard()))

	w, doc := do(t, s.Handler(), http.MethodPost, "/api/prep", `{"transcript": "prep"}`,
		map[string]string{RequestIDHeader: "abc-123"})

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", orch.last.RequestID)
	assert.Equal(t, "abc-123", doc["requestId"])
}

func TestPrep_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		errSub string
	}{
		{"malformed json", `{"transcript":`, http.StatusBadRequest, "invalid request body"},
		{"empty transcript", `{"transcript": "  "}`, http.StatusBadRequest, "transcript is empty"},
		{"missing transcript", `{}`, http.StatusBadRequest, "transcript is empty"},
		{"too large", `{"transcript": "` + strings.Repeat("a", maxTranscriptBytes+1) + `"}`, http.StatusRequestEntityTooLarge, "exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := okOrchestrator()
			s := NewServer(orch, WithLogger(logging.Discard()))

			w, doc := do(t, s.Handler(), http.MethodPost, "/summarize", tt.body, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Zero(t, orch.calls)

			errs := doc["errors"].([]any)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.errSub)
			assert.Equal(t, []any{}, doc["steps"])
			assert.Contains(t, doc, "result")
		})
	}
}

func TestPrep_FailedBriefingIsBadGateway(t *testing.T) {
	orch := &mockOrchestrator{prepare: func(_ context.Context, req orchestrator.Request) orchestrator.Response {
		return orchestrator.Response{
			RequestID: req.RequestID,
			Steps:     []orchestrator.StepRecord{{Name: "synthesizer", Status: orchestrator.StepError, Error: "synthesis failed: 503"}},
			Errors:    []string{"synthesis failed: 503"},
		}
	}}
	s := NewServer(orch, WithLogger(logging.Discard()))

	w, doc := do(t, s.Handler(), http.MethodPost, "/api/prep", `{"transcript": "prep"}`, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, []any{"synthesis failed: 503"}, doc["errors"])

	result := doc["result"].(map[string]any)
	assert.Equal(t, "", result["summary"])
}

func TestClassifyRoute(t *testing.T) {
	s := NewServer(okOrchestrator(), WithLogger(logging.Discard()),
		WithClassifier(classifierFunc(func(_ context.Context, transcript string) orchestrator.Classification {
			return orchestrator.Classification{CodeReview: transcript == "What PRs did I ship?"}
		})))

	w, doc := do(t, s.Handler(), http.MethodPost, "/api/classify", `{"transcript": "What PRs did I ship?"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{
		"needs_code_review": true,
		"needs_issues":      false,
		"needs_notes":       false,
	}, doc["classification"])

	w, _ = do(t, s.Handler(), http.MethodPost, "/api/classify", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassifyRoute_NotMountedWithoutClassifier(t *testing.T) {
	s := NewServer(okOrchestrator(), WithLogger(logging.Discard()))
	w, _ := do(t, s.Handler(), http.MethodPost, "/api/classify", `{"transcript": "x"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	s := NewServer(okOrchestrator(), WithLogger(logging.Discard()))

	w, _ := do(t, s.Handler(), http.MethodOptions, "/summarize", "", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = do(t, s.Handler(), http.MethodGet, "/health", "", nil)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveSynthesisFailure()

	s := NewServer(okOrchestrator(), WithLogger(logging.Discard()), WithMetrics(reg))
	w, _ := do(t, s.Handler(), http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "briefly_synthesis_failures_total 1")
}
