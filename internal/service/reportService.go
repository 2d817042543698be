package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/ds124wfegd/filterbench/internal/pkg/report"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const reportDir = "reports"

// BuildReport lays out every image that currently shows a processed result.
func (s *workspaceService) BuildReport(title string) (*report.Document, error) {
	if title == "" {
		title = s.defaultTitle
	}

	images := s.store.List()
	for _, img := range images {
		if img.VisibleArtifact() == nil || img.Dimensions != nil {
			continue
		}
		d, err := s.store.Dimensions(img.ID)
		if err != nil {
			logrus.WithError(err).WithField("image_id", img.ID).Warn("original dimensions unavailable")
			continue
		}
		img.Dimensions = &d
	}
	return report.Build(images, title, s.layout)
}

// ExportReport renders the report, stores it and returns where to fetch it.
// Only the latest export is kept on disk.
func (s *workspaceService) ExportReport(ctx context.Context, title string) (*entity.ReportResponse, error) {
	doc, err := s.BuildReport(title)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(ctx, doc, &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	id := uuid.New().String()
	if err := s.storage.Save(reportPath(id), &buf); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.mu.Lock()
	previous := s.lastReportID
	s.lastReportID = id
	s.mu.Unlock()

	log := logrus.WithFields(logrus.Fields{"report_id": id, "pages": len(doc.Pages), "images": len(doc.ImageIDs)})
	log.Info("report exported")
	s.pruneReport(previous)
	if s.events != nil {
		event := entity.ReportEvent{ReportID: id, Pages: len(doc.Pages), ImageIDs: doc.ImageIDs}
		if err := s.events.Publish(ctx, entity.EventReportExported, id, event); err != nil {
			log.WithError(err).Warn("failed to publish report event")
		}
	}

	return &entity.ReportResponse{
		ID:    id,
		Pages: len(doc.Pages),
		URL:   "/api/v1/report/" + id,
	}, nil
}

// OpenReport accepts "latest" for the most recent export.
func (s *workspaceService) OpenReport(id string) (io.ReadCloser, error) {
	if id == "latest" {
		s.mu.Lock()
		id = s.lastReportID
		s.mu.Unlock()
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", entity.ErrReportNotFound, id)
	}

	rc, err := s.storage.Open(reportPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrReportNotFound, id)
		}
		return nil, err
	}
	return rc, nil
}

func (s *workspaceService) pruneReport(id string) {
	if id == "" || !s.storage.Exists(reportPath(id)) {
		return
	}
	if err := s.storage.Delete(reportPath(id)); err != nil {
		logrus.WithError(err).WithField("report_id", id).Warn("failed to remove previous report")
	}
}

func reportPath(id string) string {
	return reportDir + "/" + id + ".pdf"
}
