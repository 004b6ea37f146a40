package report

import (
	"encoding/json"
	"fmt"
)

// Prompt-contract minimums. The model is asked for these but reports that
// miss them are still accepted.
const (
	MinApplications  = 3
	MinProcedure     = 5
	MinFutureAspects = 2
)

// Component is a single part used by the project
type Component struct {
	Name           string `json:"name"`
	Specifications string `json:"specifications"`
}

// ProjectReport is the structured student project report the model is asked to produce
type ProjectReport struct {
	ProjectName          string      `json:"project_name"`
	Overview             string      `json:"overview"`
	RealLifeApplications []string    `json:"real_life_applications"`
	Components           []Component `json:"components"`
	Procedure            []string    `json:"procedure"`
	PinDiagram           string      `json:"pin_diagram"`
	FutureAspects        []string    `json:"future_aspects"`
}

// ErrorReport is the fallback document returned when the model output
// could not be parsed.
type ErrorReport struct {
	Error     string `json:"error"`
	RawOutput string `json:"raw_output"`
}

// ContractGaps lists the prompt-contract minimums the report does not meet.
// An empty slice means the report satisfies the contract.
func (r *ProjectReport) ContractGaps() []string {
	var gaps []string
	if r.ProjectName == "" {
		gaps = append(gaps, "project_name is empty")
	}
	if n := len(r.RealLifeApplications); n < MinApplications {
		gaps = append(gaps, fmt.Sprintf("real_life_applications has %d entries, want at least %d", n, MinApplications))
	}
	if len(r.Components) == 0 {
		gaps = append(gaps, "components is empty")
	}
	if n := len(r.Procedure); n < MinProcedure {
		gaps = append(gaps, fmt.Sprintf("procedure has %d steps, want at least %d", n, MinProcedure))
	}
	if n := len(r.FutureAspects); n < MinFutureAspects {
		gaps = append(gaps, fmt.Sprintf("future_aspects has %d entries, want at least %d", n, MinFutureAspects))
	}
	return gaps
}

// decodeReport re-decodes an already parsed JSON value into a ProjectReport.
// Fields with unexpected types make the whole conversion fail.
func decodeReport(value any) (*ProjectReport, error) {
	if _, ok := value.(map[string]any); !ok {
		return nil, fmt.Errorf("report is %T, not an object", value)
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var r ProjectReport
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
