package entity

import "time"

type ToggleRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type ParameterRequest struct {
	Value any `json:"value"`
}

type ReportRequest struct {
	Title string `json:"title"`
}

type UploadResponse struct {
	IDs      []string `json:"ids"`
	Rejected []string `json:"rejected,omitempty"`
	Status   string   `json:"status"`
}

type ImageResponse struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Status          Status      `json:"status"`
	Error           string      `json:"error,omitempty"`
	Dimensions      *Dimensions `json:"dimensions,omitempty"`
	Pipeline        []Operation `json:"pipeline"`
	AppliedPipeline []Operation `json:"applied_pipeline,omitempty"`
	Processed       *Dimensions `json:"processed,omitempty"`
	AddedAt         time.Time   `json:"added_at"`
}

func NewImageResponse(img *LoadedImage) ImageResponse {
	resp := ImageResponse{
		ID:         img.ID,
		Name:       img.Name,
		Status:     img.Status,
		Error:      img.Error,
		Dimensions: img.Dimensions,
		Pipeline:   img.Pipeline,
		AddedAt:    img.AddedAt,
	}
	if resp.Pipeline == nil {
		resp.Pipeline = []Operation{}
	}
	if a := img.VisibleArtifact(); a != nil {
		d := a.Dimensions
		resp.Processed = &d
		resp.AppliedPipeline = img.AppliedPipeline
	}
	return resp
}

// ControlState is the derived visibility of workspace-wide controls.
type ControlState struct {
	ImageCount            int  `json:"image_count"`
	ReadyCount            int  `json:"ready_count"`
	GlobalControlsVisible bool `json:"global_controls_visible"`
	ExportVisible         bool `json:"export_visible"`
	ClearAllVisible       bool `json:"clear_all_visible"`
}

type ReportResponse struct {
	ID    string `json:"id"`
	Pages int    `json:"pages"`
	URL   string `json:"url"`
}
