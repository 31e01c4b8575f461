package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/web"
)

// Operations is what the handlers need from the commands layer.
type Operations interface {
	Extract(ctx context.Context, paths []string) (string, error)
	BuildFilteredExport(ctx context.Context, paths []string, categories []uint8, output string) (int, error)
	Categories(ctx context.Context, paths []string) ([]models.Category, error)
}

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    any             `json:"data,omitempty"`
	Error   *apperr.Payload `json:"error,omitempty"`
}

// PathsRequest is the body of extract and categories calls.
type PathsRequest struct {
	Paths []string `json:"paths"`
}

// ExportRequest is the body of an export call. Categories are plain ints on
// the wire; JSON would otherwise expect a base64 string for []uint8.
type ExportRequest struct {
	Paths      []string `json:"paths"`
	Categories []int    `json:"categories"`
	Output     string   `json:"output"`
}

// ExportResult reports what an export wrote.
type ExportResult struct {
	Output string `json:"output"`
	Rows   int    `json:"rows"`
}

// Handler serves the manifest operations over HTTP.
type Handler struct {
	ops       Operations
	templates map[string][]uint8
}

// NewHandler creates a new Handler. templates are offered as presets on the
// index page.
func NewHandler(ops Operations, templates map[string][]uint8) *Handler {
	return &Handler{ops: ops, templates: templates}
}

// Index handles GET /
func (h *Handler) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := web.RenderIndex(c.Writer, web.IndexData{Templates: h.templates}); err != nil {
		_ = c.Error(err)
	}
}

// Liveness handles GET /healthz
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Extract handles POST /api/extract
func (h *Handler) Extract(c *gin.Context) {
	var req PathsRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.ops.Extract(c.Request.Context(), req.Paths)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, json.RawMessage(out))
}

// Export handles POST /api/export
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Output == "" {
		RespondError(c, apperr.New(apperr.KindInvalidInput, "no output path provided"))
		return
	}

	categories := make([]uint8, 0, len(req.Categories))
	for _, v := range req.Categories {
		if v < 0 || v > 255 {
			RespondError(c, apperr.New(apperr.KindInvalidInput, fmt.Sprintf("category %d out of range", v)))
			return
		}
		categories = append(categories, uint8(v))
	}

	rows, err := h.ops.BuildFilteredExport(c.Request.Context(), req.Paths, categories, req.Output)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, ExportResult{Output: req.Output, Rows: rows})
}

// Categories handles POST /api/categories
func (h *Handler) Categories(c *gin.Context) {
	var req PathsRequest
	if !bindJSON(c, &req) {
		return
	}

	cats, err := h.ops.Categories(c.Request.Context(), req.Paths)
	if err != nil {
		RespondError(c, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	RespondOK(c, cats)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindInvalidInput, fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	return true
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends the error as a kind+message payload.
func RespondError(c *gin.Context, err error) {
	p := apperr.ToPayload(err)
	c.JSON(StatusFor(p.Kind), APIResponse{Success: false, Error: &p})
}

// StatusFor maps an error kind to an HTTP status code.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindCSV, apperr.KindUTF8:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
