package layout

import (
	"fmt"

	"github.com/bridgegad/bridgegad/pkg/errors"
)

// GeometryError reports parameters that cannot be drawn: a non-positive or
// non-finite physical dimension, or a primitive that degenerated. No
// partial document accompanies it.
type GeometryError struct {
	Element   string  // e.g. "pier P2", "deck"
	Dimension string  // e.g. "thickness"; empty when no single value is at fault
	Value     float64 // The offending value of Dimension
	Reason    string
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	if e.Dimension == "" {
		return fmt.Sprintf("geometry: %s: %s", e.Element, e.Reason)
	}
	return fmt.Sprintf("geometry: %s %s = %g: %s", e.Element, e.Dimension, e.Value, e.Reason)
}

// Code returns the error code for this error type.
func (e *GeometryError) Code() errors.Code {
	return errors.ErrCodeInvalidGeometry
}

func geometryErrorf(element, format string, args ...any) *GeometryError {
	return &GeometryError{Element: element, Reason: fmt.Sprintf(format, args...)}
}

func dimensionError(element, dimension string, value float64, format string, args ...any) *GeometryError {
	return &GeometryError{
		Element:   element,
		Dimension: dimension,
		Value:     value,
		Reason:    fmt.Sprintf(format, args...),
	}
}
