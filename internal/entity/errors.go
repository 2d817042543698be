package entity

import (
	"errors"
	"fmt"
)

var (
	// Pipeline errors
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrImageNotFound    = errors.New("image not found")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrNoArtifact       = errors.New("image has no processed result to show")

	// Evaluation errors
	ErrStaleResult = errors.New("evaluation result superseded by a newer one")

	// Report errors
	ErrEmptyReport    = errors.New("no processed images to include in the report")
	ErrReportNotFound = errors.New("report not found")
)

// EvaluationError is an image-scoped failure of one evaluation round trip.
type EvaluationError struct {
	ImageID string
	Message string
	Err     error
}

func (e *EvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("evaluation of image %s failed: %s: %v", e.ImageID, e.Message, e.Err)
	}
	return fmt.Sprintf("evaluation of image %s failed: %s", e.ImageID, e.Message)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
