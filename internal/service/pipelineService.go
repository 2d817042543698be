package service

import (
	"errors"
	"fmt"

	"github.com/ds124wfegd/filterbench/internal/catalog"
	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/sirupsen/logrus"
)

// ToggleOperation activates kind on one image (appending it with its default
// parameter) or removes it, and returns the resulting pipeline.
func (s *workspaceService) ToggleOperation(id string, kind entity.Kind, active bool) ([]entity.Operation, error) {
	pipeline, err := s.store.SetActive(id, kind, active)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"image_id": id, "kind": kind, "active": active}).Debug("operation toggled")
	s.schedule(id)
	return pipeline, nil
}

func (s *workspaceService) SetParameter(id string, kind entity.Kind, raw any) error {
	if err := s.store.SetParameter(id, kind, raw); err != nil {
		return err
	}
	s.schedule(id)
	return nil
}

// ClearFilters empties the pipeline of one image, which is then evaluated
// as [original].
func (s *workspaceService) ClearFilters(id string) error {
	if err := s.store.ClearAll(id); err != nil {
		return err
	}
	s.schedule(id)
	return nil
}

// ToggleGlobal applies a per-image toggle to every loaded image. Other
// operations in each pipeline are left alone. Returns the number of images
// touched.
func (s *workspaceService) ToggleGlobal(kind entity.Kind, active bool) (int, error) {
	if _, ok := catalog.Lookup(kind); !ok {
		return 0, unknownKind(kind)
	}

	touched := 0
	for _, img := range s.store.List() {
		if _, err := s.store.SetActive(img.ID, kind, active); err != nil {
			if errors.Is(err, entity.ErrImageNotFound) {
				continue
			}
			return touched, err
		}
		s.schedule(img.ID)
		touched++
	}
	logrus.WithFields(logrus.Fields{"kind": kind, "active": active, "images": touched}).Info("global toggle applied")
	return touched, nil
}

// SetGlobalParameter validates raw once, then activates kind on every image
// that lacks it and sets the parameter everywhere. An invalid value changes
// nothing.
func (s *workspaceService) SetGlobalParameter(kind entity.Kind, raw any) (int, error) {
	value, err := catalog.Parse(kind, raw)
	if err != nil {
		return 0, err
	}

	touched := 0
	for _, img := range s.store.List() {
		if _, err := s.store.SetActive(img.ID, kind, true); err != nil {
			if errors.Is(err, entity.ErrImageNotFound) {
				continue
			}
			return touched, err
		}
		if err := s.store.SetParameter(img.ID, kind, value); err != nil {
			if errors.Is(err, entity.ErrImageNotFound) {
				continue
			}
			return touched, err
		}
		s.schedule(img.ID)
		touched++
	}
	logrus.WithFields(logrus.Fields{"kind": kind, "value": value, "images": touched}).Info("global parameter applied")
	return touched, nil
}

// ClearAllFilters resets every pipeline in the workspace.
func (s *workspaceService) ClearAllFilters() int {
	touched := 0
	for _, img := range s.store.List() {
		if err := s.store.ClearAll(img.ID); err != nil {
			continue
		}
		s.schedule(img.ID)
		touched++
	}
	logrus.WithField("images", touched).Info("all filters cleared")
	return touched
}

func unknownKind(kind entity.Kind) error {
	return fmt.Errorf("%w: %q", entity.ErrUnknownOperation, kind)
}
