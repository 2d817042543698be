package database

import (
	"sync"

	"github.com/ds124wfegd/filterbench/internal/entity"
)

// PipelineRepository owns every loaded image and its ordered pipeline.
// All mutations are atomic with respect to each other.
type PipelineRepository interface {
	Add(image *entity.LoadedImage) error
	Remove(id string) error
	Clear() []string
	Get(id string) (*entity.LoadedImage, error)
	List() []*entity.LoadedImage
	Len() int
	Dimensions(id string) (entity.Dimensions, error)

	SetActive(id string, kind entity.Kind, active bool) ([]entity.Operation, error)
	SetParameter(id string, kind entity.Kind, raw any) error
	ClearAll(id string) error
	Snapshot(id string) ([]entity.Operation, error)

	BeginEvaluation(id string) (entity.EvaluationRequest, error)
	ApplyResult(id string, seq uint64, artifact *entity.Artifact, ops []entity.Operation) error
	ApplyFailure(id string, seq uint64, message string) error
}

type pipelineStore struct {
	mu     sync.RWMutex
	order  []string
	images map[string]*entity.LoadedImage
}
