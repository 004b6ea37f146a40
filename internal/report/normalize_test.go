package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_WholeObject(t *testing.T) {
	raw := `{"project_name": "LED Blinker", "overview": "x", "real_life_applications": ["a", "b", "c"]}`

	res := Normalize(raw)

	require.True(t, res.OK())
	assert.Equal(t, StageWhole, res.Stage)
	obj, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "LED Blinker", obj["project_name"])
	assert.Equal(t, []any{"a", "b", "c"}, obj["real_life_applications"])
}

func TestNormalize_WholeValueReturnedAsIs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"array", `[1, 2]`, []any{json.Number("1"), json.Number("2")}},
		{"string", `"hello"`, "hello"},
		{"number", `12.50`, json.Number("12.50")},
		{"nested", `{"a": {"b": [true, null]}}`, map[string]any{"a": map[string]any{"b": []any{true, nil}}}},
		{"surrounding whitespace", "\n  {\"k\": \"v\"}  \n", map[string]any{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.raw)
			require.Equal(t, StageWhole, res.Stage)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestNormalize_ExtractsSpanFromProse(t *testing.T) {
	raw := `Sure! Here is your project: {"project_name":"Alarm"} Hope that helps.`

	res := Normalize(raw)

	require.True(t, res.OK())
	assert.Equal(t, StageSpan, res.Stage)
	assert.Equal(t, map[string]any{"project_name": "Alarm"}, res.Value)
	assert.Equal(t, raw, res.Raw)
}

func TestNormalize_ExtractsSpanFromCodeFence(t *testing.T) {
	raw := "```json\n{\"project_name\": \"Line Follower\", \"procedure\": [\"Step 1: wire\"]}\n```"

	res := Normalize(raw)

	require.Equal(t, StageSpan, res.Stage)
	rep, err := res.Report()
	require.NoError(t, err)
	assert.Equal(t, "Line Follower", rep.ProjectName)
	assert.Equal(t, []string{"Step 1: wire"}, rep.Procedure)
}

func TestNormalize_OutermostSpanKeepsNestedObjects(t *testing.T) {
	raw := `Result: {"components": [{"name": "LED", "specifications": "5mm red"}]} done`

	res := Normalize(raw)

	require.Equal(t, StageSpan, res.Stage)
	rep, err := res.Report()
	require.NoError(t, err)
	require.Len(t, rep.Components, 1)
	assert.Equal(t, Component{Name: "LED", Specifications: "5mm red"}, rep.Components[0])
}

func TestNormalize_NoBraces(t *testing.T) {
	for _, raw := range []string{
		"I could not generate this.",
		"",
		"only an opening { here",
		"only a closing } here",
		"} reversed {",
	} {
		t.Run(raw, func(t *testing.T) {
			res := Normalize(raw)

			assert.False(t, res.OK())
			assert.Equal(t, StageFailed, res.Stage)
			assert.Nil(t, res.Value)
			assert.Equal(t, ErrorReport{Error: InvalidOutputMessage, RawOutput: raw}, res.Document())
		})
	}
}

func TestNormalize_BadOutermostSpanDoesNotRetry(t *testing.T) {
	// The inner {"b": 2} would parse on its own, but only the outermost span is tried.
	raw := `{a: 1} garbage {"b": 2}`

	res := Normalize(raw)

	assert.Equal(t, StageFailed, res.Stage)
	doc, ok := res.Document().(ErrorReport)
	require.True(t, ok)
	assert.Equal(t, raw, doc.RawOutput)
	assert.NotEmpty(t, doc.Error)
}

func TestNormalize_MultipleObjectsFail(t *testing.T) {
	raw := `first {"a": 1} then {"b": 2} end`

	res := Normalize(raw)

	assert.Equal(t, StageFailed, res.Stage)
	assert.Equal(t, raw, res.Raw)
}

func TestResult_ReportRejectsNonObjects(t *testing.T) {
	_, err := Normalize(`["not", "an", "object"]`).Report()
	assert.ErrorIs(t, err, ErrNotReport)

	_, err = Normalize("plain text").Report()
	assert.ErrorIs(t, err, ErrNotReport)

	_, err = Normalize(`{"procedure": "should be a list"}`).Report()
	assert.ErrorIs(t, err, ErrNotReport)
}

func TestResult_Pretty(t *testing.T) {
	res := Normalize(`{"project_name":"Alarm","overview":"<buzzer> & LED"}`)

	out, err := res.Pretty()
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"project_name\": \"Alarm\",\n    \"overview\": \"<buzzer> & LED\"\n}", string(out))
}

func TestResult_PrettyKeepsModelKeyOrder(t *testing.T) {
	raw := "Here you go:\n" + `{"project_name":"LED Blinker","overview":"x","real_life_applications":["a"],` +
		`"components":[{"name":"LED","specifications":"5mm"}],"procedure":["1"],"pin_diagram":"D13","future_aspects":["b"]}`
	keys := []string{"project_name", "overview", "real_life_applications", "components", "procedure", "pin_diagram", "future_aspects"}

	res := Normalize(raw)
	require.Equal(t, StageSpan, res.Stage)

	out, err := res.Pretty()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{\n    \"project_name\": \"LED Blinker\","), string(out))
	assert.Equal(t, keys, topLevelKeys(t, out))

	doc, err := json.Marshal(res.Document())
	require.NoError(t, err)
	assert.Equal(t, keys, topLevelKeys(t, doc))

	// Rendering the rendered report again changes nothing
	again := Normalize(string(out))
	require.Equal(t, StageWhole, again.Stage)
	out2, err := again.Pretty()
	require.NoError(t, err)
	assert.Equal(t, string(out), string(out2))
}

func topLevelKeys(t *testing.T, data []byte) []string {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func TestResult_PrettyErrorReport(t *testing.T) {
	out, err := Normalize("nope").Pretty()
	require.NoError(t, err)

	var doc ErrorReport
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "nope", doc.RawOutput)
	assert.Equal(t, InvalidOutputMessage, doc.Error)
}
