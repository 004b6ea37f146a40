package prompt

import (
	"fmt"
	"strings"
)

// Kind identifies what the student pasted into the form
type Kind string

const (
	KindLink Kind = "link"
	KindText Kind = "text"
)

// Label returns the form label for the kind
func (k Kind) Label() string {
	switch k {
	case KindLink:
		return "YouTube Link"
	case KindText:
		return "Manual Text"
	default:
		return string(k)
	}
}

// ParseKind maps a form or CLI value to a Kind. Empty means manual text.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindLink:
		return KindLink, nil
	case KindText, "":
		return KindText, nil
	default:
		return "", fmt.Errorf("unknown input kind %q, must be 'link' or 'text'", s)
	}
}

// MasterPrompt steers the model towards the project report JSON shape.
const MasterPrompt = `
You are an expert electronics project assistant for students.
Your job is to analyze a given input (which can be a YouTube link transcript, an image description, or manual project idea)
and generate a detailed, structured output for a student project report.

Follow this exact structure in your response (always return JSON format):

{
  "project_name": "Clear title of the project",
  "overview": "Short explanation of what the project is and why it is useful.",
  "real_life_applications": [
    "List of at least 3 real-world applications where this project is useful."
  ],
  "components": [
    {
      "name": "Component name",
      "specifications": "Important technical details like voltage, current, memory, etc."
    }
  ],
  "procedure": [
    "Step 1: ...",
    "Step 2: ...",
    "Step 3: ...",
    "Provide at least 5 detailed steps to build the project."
  ],
  "pin_diagram": "Describe a clean circuit or pin diagram in detail so it can be drawn later.",
  "future_aspects": [
    "List at least 2-3 possible improvements or future upgrades for this project."
  ]
}

Rules:
1. Always return valid JSON format only.
2. Be concise but informative (like a student project report).
3. Use clear technical terms for components and specs.
4. If the input is unclear, make logical assumptions and still provide a complete output.
`

// Build appends the student input to the master prompt. The input is sent
// verbatim; links are not fetched.
func Build(input string) string {
	return MasterPrompt + "\n\nStudent Input: " + input + "\n\nRespond in JSON only."
}
