package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dusk-indust/briefly/internal/orchestrator"
)

// maxTranscriptBytes bounds the request text handed to the completion service.
const maxTranscriptBytes = 16 << 10

// PrepRequest is the body of POST /summarize and POST /api/prep.
type PrepRequest struct {
	Transcript string `json:"transcript"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePrep always answers with the orchestrator.Response shape. Bad input
// is 400, a failed briefing is 502, everything else is 200 even when some
// sources failed.
func (s *Server) handlePrep(c *gin.Context) {
	id := c.GetString(requestIDKey)

	var req PrepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, rejected(id, "invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		c.JSON(http.StatusBadRequest, rejected(id, orchestrator.ErrEmptyTranscript.Error()))
		return
	}
	if len(req.Transcript) > maxTranscriptBytes {
		c.JSON(http.StatusRequestEntityTooLarge, rejected(id, "transcript exceeds 16KiB"))
		return
	}

	resp := s.orch.Prepare(c.Request.Context(), orchestrator.Request{
		Transcript: req.Transcript,
		RequestID:  id,
	})

	status := http.StatusOK
	if resp.Failed() {
		status = http.StatusBadGateway
	}
	c.JSON(status, resp)
}

func (s *Server) handleClassify(c *gin.Context) {
	var req PrepRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Transcript) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transcript is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"classification": s.classifier.Classify(c.Request.Context(), req.Transcript),
	})
}

func rejected(id, msg string) orchestrator.Response {
	return orchestrator.Response{
		RequestID: id,
		Steps:     []orchestrator.StepRecord{},
		Errors:    []string{msg},
	}
}
