package processor

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/filterbench/internal/database"
	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/sirupsen/logrus"
)

// ImageEvaluator runs one evaluation of an image's current pipeline and
// stores the outcome on the image.
type ImageEvaluator interface {
	Evaluate(ctx context.Context, imageID string) (*entity.Artifact, error)
}

// ArtifactCache returns nil data without error on a miss.
type ArtifactCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, subject string, data any) error
}

type evaluator struct {
	store  database.PipelineRepository
	client Client
	cache  ArtifactCache
	events EventPublisher
}

// NewEvaluator accepts nil cache and events.
func NewEvaluator(store database.PipelineRepository, client Client, cache ArtifactCache, events EventPublisher) ImageEvaluator {
	return &evaluator{store: store, client: client, cache: cache, events: events}
}

// Evaluate returns entity.ErrStaleResult when a newer evaluation of the same
// image settled first; the stale artifact is then not stored.
func (e *evaluator) Evaluate(ctx context.Context, imageID string) (*entity.Artifact, error) {
	req, err := e.store.BeginEvaluation(imageID)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{"image_id": imageID, "seq": req.Seq})
	log.WithField("operations", entity.Labels(req.Operations)).Debug("evaluation started")

	data, cached, err := e.fetch(ctx, req)
	var artifact *entity.Artifact
	if err == nil {
		artifact, err = decodeArtifact(data)
		if err != nil {
			err = &entity.EvaluationError{ImageID: imageID, Message: "processed image could not be decoded", Err: err}
		}
	}

	if err != nil {
		message := err.Error()
		var evalErr *entity.EvaluationError
		if errors.As(err, &evalErr) {
			message = evalErr.Message
		} else {
			err = &entity.EvaluationError{ImageID: imageID, Message: genericFailure, Err: err}
			message = genericFailure
		}
		if applyErr := e.store.ApplyFailure(imageID, req.Seq, message); applyErr != nil {
			log.WithError(applyErr).Debug("evaluation failure discarded")
			return nil, applyErr
		}
		log.WithError(err).Warn("evaluation failed")
		e.publish(ctx, entity.EventEvaluationFailed, req, entity.StatusFailed, message, false)
		return nil, err
	}

	if !cached {
		e.remember(ctx, req, data)
	}
	if err := e.store.ApplyResult(imageID, req.Seq, artifact, req.Operations); err != nil {
		log.WithError(err).Debug("evaluation result discarded")
		return artifact, err
	}
	log.WithField("cached", cached).Info("evaluation applied")
	e.publish(ctx, entity.EventEvaluationSucceeded, req, entity.StatusReady, "", cached)
	return artifact, nil
}

func (e *evaluator) fetch(ctx context.Context, req entity.EvaluationRequest) ([]byte, bool, error) {
	if e.cache != nil {
		key, err := CacheKey(req)
		if err == nil {
			data, err := e.cache.Get(ctx, key)
			if err != nil {
				logrus.WithError(err).WithField("image_id", req.ImageID).Warn("artifact cache lookup failed")
			} else if data != nil {
				return data, true, nil
			}
		}
	}
	data, err := e.client.Process(ctx, req)
	return data, false, err
}

func (e *evaluator) remember(ctx context.Context, req entity.EvaluationRequest, data []byte) {
	if e.cache == nil {
		return
	}
	key, err := CacheKey(req)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data); err != nil {
		logrus.WithError(err).WithField("image_id", req.ImageID).Warn("artifact cache store failed")
	}
}

func (e *evaluator) publish(ctx context.Context, eventType string, req entity.EvaluationRequest, status entity.Status, message string, cached bool) {
	if e.events == nil {
		return
	}
	event := entity.EvaluationEvent{
		ImageID:    req.ImageID,
		Name:       req.Name,
		Seq:        req.Seq,
		Status:     status,
		Error:      message,
		Cached:     cached,
		Operations: entity.ToWire(req.Operations),
	}
	if err := e.events.Publish(ctx, eventType, req.ImageID, event); err != nil {
		logrus.WithError(err).WithField("image_id", req.ImageID).Warn("failed to publish evaluation event")
	}
}

// CacheKey identifies a result by the source bytes and the operation list.
func CacheKey(req entity.EvaluationRequest) (string, error) {
	ops, err := json.Marshal(entity.ToWire(req.Operations))
	if err != nil {
		return "", err
	}
	source := sha256.Sum256(req.Source)
	pipeline := sha256.Sum256(ops)
	return fmt.Sprintf("artifact:%s:%s", hex.EncodeToString(source[:]), hex.EncodeToString(pipeline[:])), nil
}

func decodeArtifact(data []byte) (*entity.Artifact, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &entity.Artifact{
		Data:       data,
		Dimensions: entity.Dimensions{Width: b.Dx(), Height: b.Dy()},
	}, nil
}
