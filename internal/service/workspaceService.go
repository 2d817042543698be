package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/ds124wfegd/filterbench/internal/pkg/processor"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AddImage loads one image and schedules its first evaluation, which shows
// the image as the processing service returns it for [original].
func (s *workspaceService) AddImage(name string, data []byte) (string, error) {
	if !isValidImageType(filepath.Ext(name)) {
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidImageType, name)
	}
	return s.add(name, data, nil)
}

// AddImages reads and decodes a batch in parallel, then loads the images
// that decoded in the order they were given. Rejected files do not stop
// the rest of the batch.
func (s *workspaceService) AddImages(ctx context.Context, uploads []Upload) ([]string, []error) {
	type intake struct {
		data []byte
		dims *entity.Dimensions
		err  error
	}
	results := make([]intake, len(uploads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.intakeWorkers)
	for i, u := range uploads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			data, dims, err := readUpload(u)
			results[i] = intake{data: data, dims: dims, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var ids []string
	var errs []error
	for i, r := range results {
		if r.err != nil {
			logrus.WithError(r.err).WithField("name", uploads[i].Name).Warn("image rejected")
			errs = append(errs, r.err)
			continue
		}
		id, err := s.add(uploads[i].Name, r.data, r.dims)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids, errs
}

func readUpload(u Upload) ([]byte, *entity.Dimensions, error) {
	if !isValidImageType(filepath.Ext(u.Name)) {
		return nil, nil, fmt.Errorf("%w: %s", entity.ErrInvalidImageType, u.Name)
	}
	rc, err := u.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", u.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", u.Name, err)
	}
	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", entity.ErrInvalidImageType, u.Name, err)
	}
	b := decoded.Bounds()
	return data, &entity.Dimensions{Width: b.Dx(), Height: b.Dy()}, nil
}

func (s *workspaceService) add(name string, data []byte, dims *entity.Dimensions) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", entity.ErrInvalidImageType, name)
	}
	img := &entity.LoadedImage{
		ID:         uuid.New().String(),
		Name:       name,
		Source:     data,
		Dimensions: dims,
		Status:     entity.StatusIdle,
		AddedAt:    time.Now(),
	}
	if err := s.store.Add(img); err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"image_id": img.ID, "name": name}).Info("image loaded")
	s.schedule(img.ID)
	return img.ID, nil
}

// RemoveImage also drops an evaluation that is still waiting to be sent.
func (s *workspaceService) RemoveImage(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.scheduler.Cancel(id)
	logrus.WithField("image_id", id).Info("image removed")
	return nil
}

func (s *workspaceService) ClearWorkspace() int {
	removed := s.store.Clear()
	for _, id := range removed {
		s.scheduler.Cancel(id)
	}
	logrus.WithField("count", len(removed)).Info("workspace cleared")
	return len(removed)
}

func (s *workspaceService) GetImage(id string) (*entity.LoadedImage, error) {
	return s.store.Get(id)
}

func (s *workspaceService) ListImages() []*entity.LoadedImage {
	return s.store.List()
}

// Controls derives which workspace-wide controls apply: all of them need at
// least one loaded image.
func (s *workspaceService) Controls() entity.ControlState {
	images := s.store.List()
	state := entity.ControlState{ImageCount: len(images)}
	for _, img := range images {
		if img.VisibleArtifact() != nil {
			state.ReadyCount++
		}
	}
	loaded := state.ImageCount > 0
	state.GlobalControlsVisible = loaded
	state.ExportVisible = loaded
	state.ClearAllVisible = loaded
	return state
}

// ExportImage encodes the visible processed result of one image.
func (s *workspaceService) ExportImage(id, format string) ([]byte, string, string, error) {
	img, err := s.store.Get(id)
	if err != nil {
		return nil, "", "", err
	}
	artifact := img.VisibleArtifact()
	if artifact == nil {
		return nil, "", "", fmt.Errorf("%w: %s is %s", entity.ErrNoArtifact, id, img.Status)
	}
	return processor.Export(artifact, img.Name, format)
}

// schedule coalesces edits to one image into a single evaluation fired
// after the quiet window.
func (s *workspaceService) schedule(id string) {
	s.scheduler.Trigger(id, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.evalTimeout)
		defer cancel()

		// failures are stored on the image and logged by the evaluator
		_, err := s.evaluator.Evaluate(ctx, id)
		if errors.Is(err, entity.ErrStaleResult) || errors.Is(err, entity.ErrImageNotFound) {
			logrus.WithField("image_id", id).Debug("evaluation result dropped")
		}
	})
}

func isValidImageType(ext string) bool {
	validTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	return validTypes[strings.ToLower(ext)]
}
