package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	exportapp "github.com/pulsetronic/backend/internal/application/export"
)

// ExportHandler handles report export endpoints
type ExportHandler struct {
	BaseHandler
	exports *exportapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exports *exportapp.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportQuotes streams a CSV or PDF quote report as a file download
func (h *ExportHandler) ExportQuotes(c *gin.Context) {
	var req exportapp.ExportQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.exports.ExportQuotes(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
