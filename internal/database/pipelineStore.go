package database

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/filterbench/internal/catalog"
	"github.com/ds124wfegd/filterbench/internal/entity"
)

func NewPipelineStore() PipelineRepository {
	return &pipelineStore{images: make(map[string]*entity.LoadedImage)}
}

func (s *pipelineStore) Add(image *entity.LoadedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.images[image.ID]; exists {
		return fmt.Errorf("image %s already loaded", image.ID)
	}
	stored := image.Clone()
	if stored.Status == "" {
		stored.Status = entity.StatusIdle
	}
	s.images[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	return nil
}

func (s *pipelineStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[id]; !ok {
		return notFound(id)
	}
	delete(s.images, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

// Clear removes every image and returns the removed ids in workspace order.
func (s *pipelineStore) Clear() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.order
	s.order = nil
	s.images = make(map[string]*entity.LoadedImage)
	return removed
}

func (s *pipelineStore) Get(id string) (*entity.LoadedImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[id]
	if !ok {
		return nil, notFound(id)
	}
	return img.Clone(), nil
}

func (s *pipelineStore) List() []*entity.LoadedImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.LoadedImage, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.images[id].Clone())
	}
	return out
}

func (s *pipelineStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Dimensions decodes the source image the first time it is asked for.
func (s *pipelineStore) Dimensions(id string) (entity.Dimensions, error) {
	s.mu.RLock()
	img, ok := s.images[id]
	if !ok {
		s.mu.RUnlock()
		return entity.Dimensions{}, notFound(id)
	}
	if img.Dimensions != nil {
		d := *img.Dimensions
		s.mu.RUnlock()
		return d, nil
	}
	source := img.Source
	s.mu.RUnlock()

	decoded, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return entity.Dimensions{}, fmt.Errorf("decode %s: %w", id, err)
	}
	b := decoded.Bounds()
	d := entity.Dimensions{Width: b.Dx(), Height: b.Dy()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if img, ok := s.images[id]; ok && img.Dimensions == nil {
		img.Dimensions = &d
	}
	return d, nil
}

// SetActive appends kind with its catalog default when it is not active yet,
// and keeps the previous parameter when the kind is re-activated.
func (s *pipelineStore) SetActive(id string, kind entity.Kind, active bool) ([]entity.Operation, error) {
	if _, ok := catalog.Lookup(kind); !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownOperation, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[id]
	if !ok {
		return nil, notFound(id)
	}

	idx := indexOf(img.Pipeline, kind)
	switch {
	case active && idx < 0:
		img.Pipeline = append(img.Pipeline, entity.Operation{Kind: kind, Value: catalog.DefaultValueOf(kind)})
	case !active && idx >= 0:
		img.Pipeline = slices.Delete(img.Pipeline, idx, idx+1)
	}
	return entity.CloneOperations(img.Pipeline), nil
}

func (s *pipelineStore) SetParameter(id string, kind entity.Kind, raw any) error {
	value, err := catalog.Parse(kind, raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[id]
	if !ok {
		return notFound(id)
	}
	idx := indexOf(img.Pipeline, kind)
	if idx < 0 {
		return fmt.Errorf("%w: %s is not active on image %s", entity.ErrInvalidParameter, kind, id)
	}
	img.Pipeline[idx].Value = value
	return nil
}

func (s *pipelineStore) ClearAll(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[id]
	if !ok {
		return notFound(id)
	}
	img.Pipeline = nil
	return nil
}

// Snapshot is the exact operation list sent to the processing service.
func (s *pipelineStore) Snapshot(id string) ([]entity.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[id]
	if !ok {
		return nil, notFound(id)
	}
	return snapshotOf(img), nil
}

func (s *pipelineStore) BeginEvaluation(id string) (entity.EvaluationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[id]
	if !ok {
		return entity.EvaluationRequest{}, notFound(id)
	}
	img.Seq++
	img.Status = entity.StatusLoading
	img.Error = ""

	return entity.EvaluationRequest{
		ImageID:    img.ID,
		Name:       img.Name,
		Seq:        img.Seq,
		Source:     img.Source,
		Operations: snapshotOf(img),
	}, nil
}

func (s *pipelineStore) ApplyResult(id string, seq uint64, artifact *entity.Artifact, ops []entity.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.settle(id, seq)
	if err != nil {
		return err
	}
	a := *artifact
	img.Artifact = &a
	img.AppliedPipeline = entity.CloneOperations(ops)
	img.Error = ""
	if seq == img.Seq {
		img.Status = entity.StatusReady
	}
	return nil
}

func (s *pipelineStore) ApplyFailure(id string, seq uint64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.settle(id, seq)
	if err != nil {
		return err
	}
	img.Error = message
	if seq == img.Seq {
		img.Status = entity.StatusFailed
	}
	return nil
}

// settle enforces the sequence guard: results older than the last applied
// one are dropped. Callers hold the write lock.
func (s *pipelineStore) settle(id string, seq uint64) (*entity.LoadedImage, error) {
	img, ok := s.images[id]
	if !ok {
		return nil, notFound(id)
	}
	if seq < img.AppliedSeq || seq > img.Seq {
		return nil, fmt.Errorf("%w: image %s seq %d (applied %d)", entity.ErrStaleResult, id, seq, img.AppliedSeq)
	}
	img.AppliedSeq = seq
	return img, nil
}

func snapshotOf(img *entity.LoadedImage) []entity.Operation {
	if len(img.Pipeline) == 0 {
		return []entity.Operation{{Kind: entity.KindOriginal}}
	}
	return entity.CloneOperations(img.Pipeline)
}

func indexOf(ops []entity.Operation, kind entity.Kind) int {
	return slices.IndexFunc(ops, func(op entity.Operation) bool { return op.Kind == kind })
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", entity.ErrImageNotFound, id)
}
