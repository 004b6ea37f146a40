package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/llm"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/prompt"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/report"
)

type fakeProvider struct {
	reply   string
	err     error
	block   bool
	calls   int
	prompts []string
}

func (f *fakeProvider) Name() string { return llm.KindOpenRouter }

func (f *fakeProvider) Complete(ctx context.Context, model, p string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, p)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func newTestGenerator(p *fakeProvider) *Generator {
	reg := llm.NewRegistry(llm.DefaultModels, "")
	reg.Register(p)
	return NewGenerator(reg, time.Second)
}

const fullReport = `{
	"project_name": "LED Blinker",
	"overview": "Blinks an LED with an Arduino.",
	"real_life_applications": ["indicators", "beacons", "toys"],
	"components": [{"name": "Arduino Uno", "specifications": "ATmega328P, 5V"}],
	"procedure": ["one", "two", "three", "four", "five"],
	"pin_diagram": "LED anode to D13 through 220 ohm",
	"future_aspects": ["PWM fading", "multiple LEDs"]
}`

func TestGenerate_ParsedReport(t *testing.T) {
	p := &fakeProvider{reply: fullReport}
	g := newTestGenerator(p)

	out, err := g.Generate(context.Background(), Request{Input: "  blink an LED  ", Model: "deepseek/deepseek-chat"})
	require.NoError(t, err)

	assert.Equal(t, "deepseek/deepseek-chat", out.Model)
	assert.Equal(t, prompt.KindText, out.Kind)
	assert.Equal(t, report.StageWhole, out.Result.Stage)
	assert.Empty(t, out.Gaps)
	require.Len(t, p.prompts, 1)
	assert.Equal(t, prompt.Build("blink an LED"), p.prompts[0])

	rep, err := out.Result.Report()
	require.NoError(t, err)
	assert.Equal(t, "LED Blinker", rep.ProjectName)
}

func TestGenerate_ProseWrappedReplyHasGaps(t *testing.T) {
	p := &fakeProvider{reply: `Sure! Here is your project: {"project_name":"Alarm"} Hope that helps.`}
	g := newTestGenerator(p)

	out, err := g.Generate(context.Background(), Request{Input: "alarm", Kind: prompt.KindLink})
	require.NoError(t, err)

	assert.Equal(t, report.StageSpan, out.Result.Stage)
	assert.Equal(t, prompt.KindLink, out.Kind)
	assert.NotEmpty(t, out.Gaps)
}

func TestGenerate_UnparseableReplyIsNotAnError(t *testing.T) {
	p := &fakeProvider{reply: "I could not generate this."}
	g := newTestGenerator(p)

	out, err := g.Generate(context.Background(), Request{Input: "anything"})
	require.NoError(t, err)

	assert.False(t, out.Result.OK())
	assert.Equal(t, report.ErrorReport{
		Error:     report.InvalidOutputMessage,
		RawOutput: "I could not generate this.",
	}, out.Result.Document())
}

func TestGenerate_EmptyInput(t *testing.T) {
	p := &fakeProvider{}
	g := newTestGenerator(p)

	_, err := g.Generate(context.Background(), Request{Input: " \n\t "})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, p.calls)
}

func TestGenerate_NotConfiguredMakesNoCall(t *testing.T) {
	g := NewGenerator(llm.NewRegistry(llm.DefaultModels, ""), time.Second)

	_, err := g.Generate(context.Background(), Request{Input: "alarm"})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)

	_, err = g.Generate(context.Background(), Request{Input: "alarm", Model: "gemini-1.5-pro"})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
}

func TestGenerate_UnknownModel(t *testing.T) {
	p := &fakeProvider{}
	g := newTestGenerator(p)

	_, err := g.Generate(context.Background(), Request{Input: "alarm", Model: "no-such-model"})
	assert.ErrorIs(t, err, llm.ErrUnknownModel)
	assert.Zero(t, p.calls)
}

func TestGenerate_UpstreamError(t *testing.T) {
	p := &fakeProvider{err: errors.Join(llm.ErrUpstream, errors.New("status 500"))}
	g := newTestGenerator(p)

	_, err := g.Generate(context.Background(), Request{Input: "alarm"})
	assert.ErrorIs(t, err, llm.ErrUpstream)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestGenerate_Timeout(t *testing.T) {
	p := &fakeProvider{block: true}
	reg := llm.NewRegistry(llm.DefaultModels, "")
	reg.Register(p)
	g := NewGenerator(reg, 20*time.Millisecond)

	_, err := g.Generate(context.Background(), Request{Input: "alarm"})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, strings.Contains(err.Error(), "20ms"))
}

func TestGenerate_CallerCancellation(t *testing.T) {
	p := &fakeProvider{block: true}
	g := newTestGenerator(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, Request{Input: "alarm"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}
