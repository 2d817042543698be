package catalog

import (
	"testing"

	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	tests := []struct {
		kind  entity.Kind
		shape Shape
		def   any
	}{
		{entity.KindRotate, ShapeInteger, 90},
		{entity.KindLighten, ShapeInteger, 50},
		{entity.KindDarken, ShapeInteger, 50},
		{entity.KindBlur, ShapeOddInteger, 15},
		{entity.KindThreshold, ShapeInteger, 127},
		{entity.KindHueShift, ShapeInteger, 180},
		{entity.KindFlip, ShapeEnum, entity.FlipHorizontal},
		{entity.KindResize, ShapeSize, entity.Size{Width: 100, Height: 100}},
		{entity.KindEdgeDetection, ShapeNone, nil},
		{entity.KindGrayscale, ShapeNone, nil},
		{entity.KindOriginal, ShapeNone, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.shape, ParameterShapeOf(tt.kind))
			assert.Equal(t, tt.def, DefaultValueOf(tt.kind))
		})
	}
	assert.Len(t, Kinds(), len(tests))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Edge_Detection ")
	require.NoError(t, err)
	assert.Equal(t, entity.KindEdgeDetection, kind)

	_, err = ParseKind("sharpen")
	assert.ErrorIs(t, err, entity.ErrUnknownOperation)
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name    string
		kind    entity.Kind
		raw     any
		want    any
		wantErr bool
	}{
		{name: "int", kind: entity.KindRotate, raw: 45, want: 45},
		{name: "json number", kind: entity.KindLighten, raw: float64(30), want: 30},
		{name: "numeric string", kind: entity.KindThreshold, raw: "200", want: 200},
		{name: "leading zero is decimal", kind: entity.KindRotate, raw: "010", want: 10},
		{name: "padded string", kind: entity.KindThreshold, raw: " 080 ", want: 80},
		{name: "hex string", kind: entity.KindRotate, raw: "0x10", wantErr: true},
		{name: "upper bound", kind: entity.KindHueShift, raw: 360, want: 360},
		{name: "odd blur", kind: entity.KindBlur, raw: 21, want: 21},
		{name: "even blur", kind: entity.KindBlur, raw: 20, wantErr: true},
		{name: "out of range", kind: entity.KindDarken, raw: 101, wantErr: true},
		{name: "negative", kind: entity.KindRotate, raw: -1, wantErr: true},
		{name: "fraction", kind: entity.KindRotate, raw: 12.5, wantErr: true},
		{name: "non numeric", kind: entity.KindLighten, raw: "bright", wantErr: true},
		{name: "bool", kind: entity.KindLighten, raw: true, wantErr: true},
		{name: "missing", kind: entity.KindLighten, raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.kind, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlip(t *testing.T) {
	got, err := Parse(entity.KindFlip, "vertical")
	require.NoError(t, err)
	assert.Equal(t, entity.FlipVertical, got)

	_, err = Parse(entity.KindFlip, "diagonal")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestParseResizeCoercesFields(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want entity.Size
	}{
		{name: "numbers", raw: map[string]any{"width": float64(640), "height": float64(480)}, want: entity.Size{Width: 640, Height: 480}},
		{name: "strings", raw: map[string]any{"width": "320", "height": "200"}, want: entity.Size{Width: 320, Height: 200}},
		{name: "leading zeros", raw: map[string]any{"width": "0100", "height": "080"}, want: entity.Size{Width: 100, Height: 80}},
		{name: "hex width", raw: map[string]any{"width": "0x10", "height": "9"}, want: entity.Size{Width: 0, Height: 9}},
		{name: "non numeric width", raw: map[string]any{"width": "wide", "height": 50}, want: entity.Size{Width: 0, Height: 50}},
		{name: "negative height", raw: map[string]any{"width": 10, "height": -4}, want: entity.Size{Width: 10, Height: 0}},
		{name: "missing fields", raw: map[string]any{}, want: entity.Size{}},
		{name: "typed", raw: entity.Size{Width: 7, Height: 9}, want: entity.Size{Width: 7, Height: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(entity.KindResize, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse(entity.KindResize, 12)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestParseNoneShape(t *testing.T) {
	got, err := Parse(entity.KindGrayscale, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Parse(entity.KindGrayscale, 3)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = Parse(entity.Kind("sepia"), 3)
	assert.ErrorIs(t, err, entity.ErrUnknownOperation)
}

func TestParseAcceptsCanonicalValues(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			def := DefaultValueOf(kind)
			got, err := Parse(kind, def)
			require.NoError(t, err)
			assert.Equal(t, def, got)
		})
	}
}
