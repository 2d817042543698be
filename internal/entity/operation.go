package entity

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindRotate        Kind = "rotate"
	KindLighten       Kind = "lighten"
	KindDarken        Kind = "darken"
	KindBlur          Kind = "blur"
	KindThreshold     Kind = "threshold"
	KindHueShift      Kind = "hueshift"
	KindFlip          Kind = "flip"
	KindResize        Kind = "resize"
	KindEdgeDetection Kind = "edge_detection"
	KindGrayscale     Kind = "grayscale"
	KindOriginal      Kind = "original"
)

type FlipDirection string

const (
	FlipHorizontal FlipDirection = "horizontal"
	FlipVertical   FlipDirection = "vertical"
)

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Operation is one active filter step. Value holds int, FlipDirection, Size
// or nil depending on Kind.
type Operation struct {
	Kind  Kind `json:"kind"`
	Value any  `json:"value,omitempty"`
}

// Label renders the operation as "<kind>: <parameter>", or just the kind when
// it carries no parameter.
func (o Operation) Label() string {
	if o.Value == nil {
		return string(o.Kind)
	}
	return fmt.Sprintf("%s: %v", o.Kind, o.Value)
}

func (o Operation) Wire() WireOperation {
	return WireOperation{Name: string(o.Kind), Value: o.Value}
}

func CloneOperations(ops []Operation) []Operation {
	if ops == nil {
		return nil
	}
	out := make([]Operation, len(ops))
	copy(out, ops)
	return out
}

func Labels(ops []Operation) string {
	labels := make([]string, 0, len(ops))
	for _, op := range ops {
		labels = append(labels, op.Label())
	}
	return strings.Join(labels, ", ")
}

// WireOperation is the element shape the processing service expects.
type WireOperation struct {
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

func ToWire(ops []Operation) []WireOperation {
	out := make([]WireOperation, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Wire())
	}
	return out
}

type ProcessResponse struct {
	OriginalImage  string `json:"original_image,omitempty"`
	ProcessedImage string `json:"processed_image"`
}
