package transport

import (
	"io"
	"net/http"

	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/gin-gonic/gin"
)

const reportFileName = "processed_images_report.pdf"

func (h *Handler) ExportReport(c *gin.Context) {
	var req entity.ReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resp, err := h.service.ExportReport(c.Request.Context(), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) DownloadReport(c *gin.Context) {
	rc, err := h.service.OpenReport(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", "attachment; filename="+reportFileName)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(err)
	}
}
