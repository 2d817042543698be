// Package catalog is the static registry of operation kinds, the shape of
// their parameters and their default values.
package catalog

import (
	"fmt"
	"strings"

	"github.com/ds124wfegd/filterbench/internal/entity"
)

type Shape int

const (
	ShapeNone Shape = iota
	ShapeInteger
	ShapeOddInteger
	ShapeEnum
	ShapeSize
)

var shapeNames = map[Shape]string{
	ShapeNone:       "none",
	ShapeInteger:    "integer",
	ShapeOddInteger: "odd_integer",
	ShapeEnum:       "enum",
	ShapeSize:       "size",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Entry struct {
	Kind    entity.Kind `json:"kind"`
	Shape   Shape       `json:"shape"`
	Min     int         `json:"min,omitempty"`
	Max     int         `json:"max,omitempty"`
	Options []string    `json:"options,omitempty"`
	Default any         `json:"default,omitempty"`
}

var entries = []Entry{
	{Kind: entity.KindRotate, Shape: ShapeInteger, Min: 0, Max: 360, Default: 90},
	{Kind: entity.KindLighten, Shape: ShapeInteger, Min: 0, Max: 100, Default: 50},
	{Kind: entity.KindDarken, Shape: ShapeInteger, Min: 0, Max: 100, Default: 50},
	{Kind: entity.KindBlur, Shape: ShapeOddInteger, Min: 1, Max: 99, Default: 15},
	{Kind: entity.KindThreshold, Shape: ShapeInteger, Min: 0, Max: 255, Default: 127},
	{Kind: entity.KindHueShift, Shape: ShapeInteger, Min: 0, Max: 360, Default: 180},
	{
		Kind:    entity.KindFlip,
		Shape:   ShapeEnum,
		Options: []string{string(entity.FlipHorizontal), string(entity.FlipVertical)},
		Default: entity.FlipHorizontal,
	},
	{Kind: entity.KindResize, Shape: ShapeSize, Default: entity.Size{Width: 100, Height: 100}},
	{Kind: entity.KindEdgeDetection, Shape: ShapeNone},
	{Kind: entity.KindGrayscale, Shape: ShapeNone},
	{Kind: entity.KindOriginal, Shape: ShapeNone},
}

var byKind = func() map[entity.Kind]Entry {
	m := make(map[entity.Kind]Entry, len(entries))
	for _, e := range entries {
		m[e.Kind] = e
	}
	return m
}()

// Entries returns every catalog entry in presentation order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func Kinds() []entity.Kind {
	kinds := make([]entity.Kind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func Lookup(kind entity.Kind) (Entry, bool) {
	e, ok := byKind[kind]
	return e, ok
}

func ParseKind(name string) (entity.Kind, error) {
	kind := entity.Kind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := byKind[kind]; !ok {
		return "", fmt.Errorf("%w: %q", entity.ErrUnknownOperation, name)
	}
	return kind, nil
}

// ParameterShapeOf reports ShapeNone for unknown kinds.
func ParameterShapeOf(kind entity.Kind) Shape {
	return byKind[kind].Shape
}

func DefaultValueOf(kind entity.Kind) any {
	return byKind[kind].Default
}
