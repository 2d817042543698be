package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ds124wfegd/filterbench/internal/entity"
	"github.com/spf13/cast"
)

// Parse turns raw control input into the canonical parameter value for kind.
// Numeric kinds accept numbers and numeric strings inside the catalog bounds.
// Resize is tolerant per field: anything that is not a non-negative integer
// becomes 0.
func Parse(kind entity.Kind, raw any) (any, error) {
	entry, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnknownOperation, kind)
	}

	switch entry.Shape {
	case ShapeNone:
		if raw != nil {
			return nil, invalid(kind, "takes no parameter, got %v", raw)
		}
		return nil, nil
	case ShapeInteger, ShapeOddInteger:
		return parseInteger(entry, raw)
	case ShapeEnum:
		return parseFlip(entry, raw)
	case ShapeSize:
		return parseSize(kind, raw)
	}
	return nil, invalid(kind, "unsupported shape %s", entry.Shape)
}

func parseInteger(entry Entry, raw any) (any, error) {
	if raw == nil {
		return nil, invalid(entry.Kind, "value is required")
	}
	if _, isBool := raw.(bool); isBool {
		return nil, invalid(entry.Kind, "expected a number, got %v", raw)
	}
	if f, isFloat := raw.(float64); isFloat && f != float64(int(f)) {
		return nil, invalid(entry.Kind, "expected an integer, got %v", raw)
	}

	v, err := toInt(raw)
	if err != nil {
		return nil, invalid(entry.Kind, "expected a number, got %v", raw)
	}
	if v < entry.Min || v > entry.Max {
		return nil, invalid(entry.Kind, "%d is outside %d-%d", v, entry.Min, entry.Max)
	}
	if entry.Shape == ShapeOddInteger && v%2 == 0 {
		return nil, invalid(entry.Kind, "%d is not odd", v)
	}
	return v, nil
}

func parseFlip(entry Entry, raw any) (any, error) {
	if raw == nil {
		return nil, invalid(entry.Kind, "value is required")
	}
	if dir, ok := raw.(entity.FlipDirection); ok {
		raw = string(dir)
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return nil, invalid(entry.Kind, "expected one of %v, got %v", entry.Options, raw)
	}
	for _, opt := range entry.Options {
		if s == opt {
			return entity.FlipDirection(s), nil
		}
	}
	return nil, invalid(entry.Kind, "expected one of %v, got %q", entry.Options, s)
}

func parseSize(kind entity.Kind, raw any) (any, error) {
	switch v := raw.(type) {
	case entity.Size:
		return entity.Size{Width: max(v.Width, 0), Height: max(v.Height, 0)}, nil
	case *entity.Size:
		if v == nil {
			return nil, invalid(kind, "value is required")
		}
		return entity.Size{Width: max(v.Width, 0), Height: max(v.Height, 0)}, nil
	case nil:
		return nil, invalid(kind, "value is required")
	}

	fields, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, invalid(kind, "expected {width, height}, got %v", raw)
	}
	return entity.Size{
		Width:  coerceDimension(fields["width"]),
		Height: coerceDimension(fields["height"]),
	}, nil
}

func coerceDimension(raw any) int {
	if raw == nil {
		return 0
	}
	if _, isBool := raw.(bool); isBool {
		return 0
	}
	v, err := toInt(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// toInt reads strings as plain decimal, so "010" is 10 and "0x10" is not a
// number.
func toInt(raw any) (int, error) {
	if s, ok := raw.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	return cast.ToIntE(raw)
}

func invalid(kind entity.Kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", entity.ErrInvalidParameter, kind, fmt.Sprintf(format, args...))
}
