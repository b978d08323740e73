package orchestrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dusk-indust/briefly/internal/llm"
	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/prompts"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// classificationSchema admits exactly the three boolean flags.
const classificationSchema = `{
	"type": "object",
	"properties": {
		"needs_code_review": {"type": "boolean"},
		"needs_issues": {"type": "boolean"},
		"needs_notes": {"type": "boolean"}
	},
	"required": ["needs_code_review", "needs_issues", "needs_notes"],
	"additionalProperties": false
}`

var classificationValidator = jsonschema.MustCompileString("classification.schema.json", classificationSchema)

// Coordinator decides which sources a request needs.
type Coordinator struct {
	llm     llm.Completer
	logger  *slog.Logger
	timeout time.Duration
}

// NewCoordinator creates a Coordinator that asks c for the decision. A zero
// timeout means no deadline beyond ctx.
func NewCoordinator(c llm.Completer, logger *slog.Logger, timeout time.Duration) *Coordinator {
	return &Coordinator{llm: c, logger: logging.OrDefault(logger), timeout: timeout}
}

// Classify never fails. Any completion or parse problem yields the all-false
// classification, which routes the request straight to synthesis.
func (c *Coordinator) Classify(ctx context.Context, transcript string) Classification {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.llm.Complete(ctx, llm.Prompt{
		System: prompts.Classifier(),
		User:   transcript,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "classification call failed, using no sources", "step", StepCoordinator, "error", err)
		return Classification{}
	}

	cls, err := ParseClassification(out)
	if err != nil {
		c.logger.WarnContext(ctx, "classification unparseable, using no sources", "step", StepCoordinator, "error", err)
		return Classification{}
	}
	return cls
}

// ParseClassification decodes and validates the coordinator's raw output.
// One surrounding markdown code fence is tolerated; JSON buried in prose is
// not extracted.
func ParseClassification(raw string) (Classification, error) {
	body := []byte(llm.StripCodeFence(raw))

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Classification{}, &ClassificationParseError{Raw: raw, Err: err}
	}
	if err := classificationValidator.Validate(doc); err != nil {
		return Classification{}, &ClassificationParseError{Raw: raw, Err: err}
	}

	var cls Classification
	if err := json.Unmarshal(body, &cls); err != nil {
		return Classification{}, &ClassificationParseError{Raw: raw, Err: err}
	}
	return cls, nil
}
