package transport

import (
	"errors"
	"net/http"

	"github.com/ds124wfegd/filterbench/internal/catalog"
	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/ds124wfegd/filterbench/internal/pkg/storage"
	"github.com/ds124wfegd/filterbench/internal/service"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.WorkspaceService
}

func NewHandler(service service.WorkspaceService) *Handler {
	return &Handler{service: service}
}

// respondError maps domain errors to status codes. An empty report is a
// notice for the user rather than a failure.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, entity.ErrImageNotFound), errors.Is(err, entity.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrUnknownOperation),
		errors.Is(err, entity.ErrInvalidImageType),
		errors.Is(err, storage.ErrInvalidPath):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrNoArtifact):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrEmptyReport):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"notice": "No processed images to export"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func kindParam(c *gin.Context) (entity.Kind, bool) {
	kind, err := catalog.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return kind, true
}

func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Entries())
}

func (h *Handler) GetWorkspace(c *gin.Context) {
	images := h.service.ListImages()
	resp := make([]entity.ImageResponse, 0, len(images))
	for _, img := range images {
		resp = append(resp, entity.NewImageResponse(img))
	}
	c.JSON(http.StatusOK, gin.H{
		"images":   resp,
		"controls": h.service.Controls(),
	})
}
