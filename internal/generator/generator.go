package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/llm"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/logging"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/prompt"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/report"
)

var (
	// ErrEmptyInput means the student submitted a blank description or link
	ErrEmptyInput = errors.New("project input is empty")
	// ErrTimeout means the model did not answer within the request timeout
	ErrTimeout = errors.New("model call timed out")
)

// Resolver picks the provider serving a model. *llm.Registry implements it.
type Resolver interface {
	Resolve(modelID string) (llm.Provider, llm.Model, error)
}

// Request is a single report generation request
type Request struct {
	Input string      `json:"input"`
	Kind  prompt.Kind `json:"kind"`
	Model string      `json:"model"`
}

// Outcome is a finished generation. A reply that could not be parsed is
// still an Outcome: its Result carries the raw text.
type Outcome struct {
	Model   string
	Kind    prompt.Kind
	Result  report.Result
	Gaps    []string
	Elapsed time.Duration
}

// Generator turns student input into a normalized project report
type Generator struct {
	models  Resolver
	timeout time.Duration
}

// NewGenerator creates a new generator. Every model call is bounded by timeout.
func NewGenerator(models Resolver, timeout time.Duration) *Generator {
	return &Generator{
		models:  models,
		timeout: timeout,
	}
}

// Generate validates req, calls the model and normalizes its reply. Input
// and configuration problems are reported before any outbound call.
func (g *Generator) Generate(ctx context.Context, req Request) (*Outcome, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	kind := req.Kind
	if kind == "" {
		kind = prompt.KindText
	}

	provider, model, err := g.models.Resolve(req.Model)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx).With(
		slog.String("model", model.ID),
		slog.String("provider", provider.Name()),
	)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := provider.Complete(callCtx, model.ID, prompt.Build(input))
	elapsed := time.Since(start)
	if err != nil {
		log.Error("model call failed", slog.Duration("elapsed", elapsed), slog.Any("error", err))
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %w", ErrTimeout, g.timeout, err)
		}
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	out := &Outcome{
		Model:   model.ID,
		Kind:    kind,
		Result:  report.Normalize(text),
		Elapsed: elapsed,
	}

	if rep, err := out.Result.Report(); err == nil {
		out.Gaps = rep.ContractGaps()
	}

	attrs := []any{
		slog.String("stage", string(out.Result.Stage)),
		slog.Duration("elapsed", elapsed),
		slog.Int("gaps", len(out.Gaps)),
	}
	if out.Result.OK() {
		log.Info("report generated", attrs...)
	} else {
		log.Warn("model reply was not valid JSON", append(attrs, slog.Int("reply_bytes", len(text)))...)
	}

	return out, nil
}
