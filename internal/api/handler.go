package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/generator"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/llm"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/logging"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/prompt"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/report"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/task"
)

// DownloadFileName is the file name offered for report downloads
const DownloadFileName = "project_report.json"

// Catalog lists selectable models. *llm.Registry implements it.
type Catalog interface {
	generator.Resolver
	Models() []llm.ModelInfo
	Default() string
}

// Handler handles HTTP requests
type Handler struct {
	generator *generator.Generator
	taskMgr   *task.Manager
	catalog   Catalog
	info      ServiceInfo
	heartbeat time.Duration
}

// ServiceInfo describes the running service. ConfigError, when set, is shown
// on the page and reported by /health; the server keeps serving.
type ServiceInfo struct {
	Name        string
	Version     string
	ConfigError error
}

// NewHandler creates a new handler
func NewHandler(gen *generator.Generator, taskMgr *task.Manager, catalog Catalog, info ServiceInfo) *Handler {
	return &Handler{
		generator: gen,
		taskMgr:   taskMgr,
		catalog:   catalog,
		info:      info,
		heartbeat: 30 * time.Second,
	}
}

// GenerateRequest represents a generate request
type GenerateRequest struct {
	Input string `json:"input"`
	Kind  string `json:"kind"`
	Model string `json:"model"`
}

func (r GenerateRequest) toGenerator() (generator.Request, error) {
	kind, err := prompt.ParseKind(r.Kind)
	if err != nil {
		return generator.Request{}, errors.Join(errBadRequest, err)
	}
	return generator.Request{Input: r.Input, Kind: kind, Model: r.Model}, nil
}

// GenerateResponse is the JSON shape of a finished generation
type GenerateResponse struct {
	Model     string       `json:"model"`
	Kind      prompt.Kind  `json:"kind"`
	Stage     report.Stage `json:"stage"`
	Report    any          `json:"report"`
	Gaps      []string     `json:"gaps,omitempty"`
	ElapsedMS int64        `json:"elapsed_ms"`
}

func newGenerateResponse(out *generator.Outcome) GenerateResponse {
	return GenerateResponse{
		Model:     out.Model,
		Kind:      out.Kind,
		Stage:     out.Result.Stage,
		Report:    out.Result.Document(),
		Gaps:      out.Gaps,
		ElapsedMS: out.Elapsed.Milliseconds(),
	}
}

// HandleGenerate runs a generation synchronously
func (h *Handler) HandleGenerate(c *gin.Context) {
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	req, err := body.toGenerator()
	if err != nil {
		writeError(c, err)
		return
	}

	out, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGenerateResponse(out))
}

// HandleCreateTask starts a generation in the background
func (h *Handler) HandleCreateTask(c *gin.Context) {
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	req, err := body.toGenerator()
	if err != nil {
		writeError(c, err)
		return
	}

	// Reject bad input and missing keys up front instead of creating a task that fails at once.
	if err := h.preflight(req); err != nil {
		writeError(c, err)
		return
	}

	logger := logging.FromContext(c.Request.Context())
	t, err := h.taskMgr.Submit(req, func(ctx context.Context, req generator.Request) (*generator.Outcome, error) {
		return h.generator.Generate(logging.WithLogger(ctx, logger), req)
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, t)
}

// HandleGetTask handles the get task request
func (h *Handler) HandleGetTask(c *gin.Context) {
	t, err := h.taskMgr.Get(c.Param("task_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// HandleCancelTask cancels a running task
func (h *Handler) HandleCancelTask(c *gin.Context) {
	id := c.Param("task_id")
	if err := h.taskMgr.Cancel(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task_id": id, "message": "Cancellation requested"})
}

// HandleDownloadTask serves the report of a completed task as a file
func (h *Handler) HandleDownloadTask(c *gin.Context) {
	t, err := h.taskMgr.Get(c.Param("task_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	res, ok := t.Result()
	if !ok {
		ErrorResponse(c, http.StatusConflict, fmt.Sprintf("task is %s, no report to download", t.Status))
		return
	}
	body, err := res.Pretty()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	sendDownload(c, body)
}

// HandleModels lists the model catalog
func (h *Handler) HandleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": h.catalog.Default(),
		"models":  h.catalog.Models(),
	})
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	ConfigError string `json:"config_error,omitempty"`
}

// HandleHealth handles health check
func (h *Handler) HandleHealth(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: h.info.Name,
		Version: h.info.Version,
	}
	if h.info.ConfigError != nil {
		resp.Status = "degraded"
		resp.ConfigError = h.info.ConfigError.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// preflight runs the checks Generate does before calling out
func (h *Handler) preflight(req generator.Request) error {
	if strings.TrimSpace(req.Input) == "" {
		return generator.ErrEmptyInput
	}
	_, _, err := h.catalog.Resolve(req.Model)
	return err
}

// sendDownload writes body as a JSON file attachment
func sendDownload(c *gin.Context, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, DownloadFileName))
	c.Data(http.StatusOK, "application/json", body)
}

// SetupRouter sets up the Gin router
func SetupRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(opts.Logger))
	r.Use(CORS())

	r.SetHTMLTemplate(pageTemplate)

	// Page routes
	r.GET("/", handler.HandlePage)
	r.POST("/", handler.HandlePageSubmit)
	r.POST("/download", handler.HandlePageDownload)

	// API routes
	api := r.Group("/api/v1")
	{
		api.GET("/models", handler.HandleModels)
		api.POST("/generate", handler.HandleGenerate)
		api.POST("/tasks", handler.HandleCreateTask)
		api.GET("/tasks/:task_id", handler.HandleGetTask)
		api.DELETE("/tasks/:task_id", handler.HandleCancelTask)
		api.GET("/tasks/:task_id/download", handler.HandleDownloadTask)
		api.GET("/status/:task_id", handler.HandleStatus)
	}

	// Health check
	r.GET("/health", handler.HandleHealth)

	return r
}

// RouterOptions tunes router behaviour
type RouterOptions struct {
	Logger *slog.Logger
}
