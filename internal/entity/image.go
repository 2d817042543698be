package entity

import "time"

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Artifact is the decoded result of a successful evaluation.
type Artifact struct {
	Data       []byte     `json:"-"`
	Dimensions Dimensions `json:"dimensions"`
}

// LoadedImage is one user-supplied image and the state derived from it.
// Seq is the last issued evaluation sequence number, AppliedSeq the last one
// whose result reached this image.
type LoadedImage struct {
	ID              string
	Name            string
	Source          []byte
	Dimensions      *Dimensions
	Pipeline        []Operation
	Artifact        *Artifact
	AppliedPipeline []Operation
	Status          Status
	Error           string
	Seq             uint64
	AppliedSeq      uint64
	AddedAt         time.Time
}

// VisibleArtifact hides a previously computed artifact unless the latest
// evaluation succeeded.
func (i *LoadedImage) VisibleArtifact() *Artifact {
	if i.Status != StatusReady {
		return nil
	}
	return i.Artifact
}

func (i *LoadedImage) Clone() *LoadedImage {
	c := *i
	c.Pipeline = CloneOperations(i.Pipeline)
	c.AppliedPipeline = CloneOperations(i.AppliedPipeline)
	if i.Dimensions != nil {
		d := *i.Dimensions
		c.Dimensions = &d
	}
	if i.Artifact != nil {
		a := *i.Artifact
		c.Artifact = &a
	}
	return &c
}

// EvaluationRequest is everything one round trip to the processing service
// needs, captured at dispatch time.
type EvaluationRequest struct {
	ImageID    string
	Name       string
	Seq        uint64
	Source     []byte
	Operations []Operation
}
