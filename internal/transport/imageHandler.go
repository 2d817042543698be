package transport

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/ds124wfegd/filterbench/internal/service"
	"github.com/gin-gonic/gin"
)

// UploadImages accepts one or more files under "images" (or a single
// "image") and loads every one that is a supported, decodable image.
func (h *Handler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	files := append(form.File["images"], form.File["image"]...)
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, service.Upload{Name: fh.Filename, Open: opener(fh)})
	}

	ids, errs := h.service.AddImages(c.Request.Context(), uploads)
	rejected := make([]string, 0, len(errs))
	for _, err := range errs {
		rejected = append(rejected, err.Error())
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Invalid image type. Supported: jpg, jpeg, png, gif",
			"rejected": rejected,
		})
		return
	}

	c.JSON(http.StatusAccepted, entity.UploadResponse{
		IDs:      ids,
		Rejected: rejected,
		Status:   string(entity.StatusLoading),
	})
}

func opener(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func (h *Handler) ListImages(c *gin.Context) {
	images := h.service.ListImages()
	resp := make([]entity.ImageResponse, 0, len(images))
	for _, img := range images {
		resp = append(resp, entity.NewImageResponse(img))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetImage(c *gin.Context) {
	img, err := h.service.GetImage(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.NewImageResponse(img))
}

func (h *Handler) DeleteImage(c *gin.Context) {
	if err := h.service.RemoveImage(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (h *Handler) ClearWorkspace(c *gin.Context) {
	removed := h.service.ClearWorkspace()
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handler) ToggleOperation(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req entity.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipeline, err := h.service.ToggleOperation(c.Param("id"), kind, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	if pipeline == nil {
		pipeline = []entity.Operation{}
	}
	c.JSON(http.StatusOK, gin.H{"pipeline": pipeline})
}

func (h *Handler) SetParameter(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req entity.ParameterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.service.SetParameter(id, kind, req.Value); err != nil {
		respondError(c, err)
		return
	}
	img, err := h.service.GetImage(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.NewImageResponse(img))
}

func (h *Handler) ClearFilters(c *gin.Context) {
	if err := h.service.ClearFilters(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pipeline": []entity.Operation{}})
}

func (h *Handler) DownloadProcessed(c *gin.Context) {
	data, contentType, fileName, err := h.service.ExportImage(c.Param("id"), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) DownloadOriginal(c *gin.Context) {
	img, err := h.service.GetImage(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.Name))
	c.Data(http.StatusOK, http.DetectContentType(img.Source), img.Source)
}
