package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/generator"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/llm"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/prompt"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const pageName = "index.html"

type pageData struct {
	ConfigError string
	Models      []llm.ModelInfo
	Selected    string
	Kinds       []prompt.Kind
	Kind        string
	Link        string
	Text        string
	Error       string
	Result      *pageResult
}

type pageResult struct {
	Model   string
	Stage   string
	Elapsed string
	Gaps    []string
	JSON    string
}

func (h *Handler) newPageData() pageData {
	data := pageData{
		Models:   h.catalog.Models(),
		Selected: h.catalog.Default(),
		Kinds:    []prompt.Kind{prompt.KindLink, prompt.KindText},
		Kind:     string(prompt.KindText),
	}
	if h.info.ConfigError != nil {
		data.ConfigError = h.info.ConfigError.Error()
	}
	return data
}

// HandlePage renders the empty form
func (h *Handler) HandlePage(c *gin.Context) {
	c.HTML(http.StatusOK, pageName, h.newPageData())
}

// HandlePageSubmit generates a report from the form and renders it inline.
// Every failure is shown on the page.
func (h *Handler) HandlePageSubmit(c *gin.Context) {
	data := h.newPageData()
	data.Link = c.PostForm("link")
	data.Text = c.PostForm("text")
	if model := c.PostForm("model"); model != "" {
		data.Selected = model
	}

	kind, err := prompt.ParseKind(c.PostForm("input_type"))
	if err != nil {
		data.Error = err.Error()
		c.HTML(statusFor(errBadRequest), pageName, data)
		return
	}
	data.Kind = string(kind)

	input := data.Text
	if kind == prompt.KindLink {
		input = data.Link
	}

	out, err := h.generator.Generate(c.Request.Context(), generator.Request{
		Input: input,
		Kind:  kind,
		Model: data.Selected,
	})
	if err != nil {
		data.Error = describe(err)
		c.HTML(statusFor(err), pageName, data)
		return
	}

	pretty, err := out.Result.Pretty()
	if err != nil {
		data.Error = err.Error()
		c.HTML(http.StatusInternalServerError, pageName, data)
		return
	}

	data.Result = &pageResult{
		Model:   out.Model,
		Stage:   string(out.Result.Stage),
		Elapsed: out.Elapsed.Round(10 * time.Millisecond).String(),
		Gaps:    out.Gaps,
		JSON:    string(pretty),
	}
	c.HTML(http.StatusOK, pageName, data)
}

// HandlePageDownload returns the report posted by the page as a file
func (h *Handler) HandlePageDownload(c *gin.Context) {
	raw := c.PostForm("report")
	if !json.Valid([]byte(raw)) {
		ErrorResponse(c, http.StatusBadRequest, "report must be valid JSON")
		return
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(raw)), "", "    "); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	sendDownload(c, buf.Bytes())
}

// describe turns an error into a sentence for the page
func describe(err error) string {
	switch statusFor(err) {
	case http.StatusGatewayTimeout:
		return "The model took too long to answer. Please try again."
	case http.StatusBadRequest:
		if errors.Is(err, generator.ErrEmptyInput) {
			return "Please enter a YouTube link or a project description."
		}
	}
	return err.Error()
}
