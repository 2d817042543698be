package transport

import (
	"net/http"

	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ToggleGlobal(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req entity.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	touched, err := h.service.ToggleGlobal(kind, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "active": *req.Active, "images": touched})
}

func (h *Handler) SetGlobalParameter(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req entity.ParameterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	touched, err := h.service.SetGlobalParameter(kind, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "images": touched})
}

func (h *Handler) ClearAllFilters(c *gin.Context) {
	touched := h.service.ClearAllFilters()
	c.JSON(http.StatusOK, gin.H{"images": touched})
}
