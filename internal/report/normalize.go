package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// InvalidOutputMessage is the error text of the fallback ErrorReport.
const InvalidOutputMessage = "model output was not valid structured data"

// Stage tells which normalization step produced a Result
type Stage string

const (
	// StageWhole means the whole reply parsed as JSON
	StageWhole Stage = "whole"
	// StageSpan means the span from the first '{' to the last '}' parsed as JSON
	StageSpan Stage = "span"
	// StageFailed means neither attempt worked and Result carries the raw text
	StageFailed Stage = "failed"
)

// ErrNotReport is returned by Result.Report when the parsed value is not a
// JSON object or the normalizer failed.
var ErrNotReport = errors.New("result is not a project report")

// Result is the tagged outcome of Normalize. When Stage is StageFailed,
// Value is nil and Raw holds the unmodified input.
type Result struct {
	Stage Stage
	Value any
	Raw   string

	// src is the text that parsed, kept so output follows the model's key order
	src string
}

// stage is a single fallible attempt of the normalizer chain
type stage struct {
	name  Stage
	parse func(raw string) (any, string, bool)
}

var chain = []stage{
	{StageWhole, parseJSON},
	{StageSpan, parseOutermostSpan},
}

// Normalize converts the text of a model reply into a parsed JSON value.
// It tries the whole string first, then the outermost {...} span, and
// otherwise returns a failed Result carrying raw. It never fails outward.
func Normalize(raw string) Result {
	for _, s := range chain {
		if v, src, ok := s.parse(raw); ok {
			return Result{Stage: s.name, Value: v, Raw: raw, src: src}
		}
	}
	return Result{Stage: StageFailed, Raw: raw}
}

// OK reports whether the reply was parsed
func (r Result) OK() bool {
	return r.Stage != StageFailed
}

// Document returns the value to show or download: the parsed JSON in its
// original key order, or an ErrorReport when parsing failed.
func (r Result) Document() any {
	if !r.OK() {
		return ErrorReport{Error: InvalidOutputMessage, RawOutput: r.Raw}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(r.src)); err != nil {
		return r.Value
	}
	return json.RawMessage(buf.Bytes())
}

// Report returns a typed view of the parsed value
func (r Result) Report() (*ProjectReport, error) {
	if !r.OK() {
		return nil, ErrNotReport
	}
	rep, err := decodeReport(r.Value)
	if err != nil {
		return nil, errors.Join(ErrNotReport, err)
	}
	return rep, nil
}

// Pretty renders Document as JSON indented with four spaces. Parsed replies
// keep the key order and string escapes the model used.
func (r Result) Pretty() ([]byte, error) {
	var buf bytes.Buffer
	if r.OK() && r.src != "" {
		if err := json.Indent(&buf, []byte(r.src), "", "    "); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r.Document()); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// parseJSON parses s as exactly one JSON value. Numbers are kept as
// json.Number so they survive a round trip unchanged. The returned source
// is s without surrounding whitespace.
func parseJSON(s string) (any, string, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, "", false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, "", false
	}
	return v, strings.TrimSpace(s), true
}

// parseOutermostSpan parses the substring from the first '{' to the last '}'.
func parseOutermostSpan(s string) (any, string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return nil, "", false
	}
	return parseJSON(s[start : end+1])
}
