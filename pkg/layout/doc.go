// Package layout turns a validated parameter set into a bridge general
// arrangement drawing.
//
// # Views
//
// [Generate] draws two views in one model space:
//
//   - Elevation: deck panels per span, one outline per pier (cap and
//     battered shaft), pier footings, abutment stems and footings, approach
//     slabs. Chainage maps to x and level to y, both multiplied by the
//     model scale SCALE1/SCALE2, with the datum level at y = 0.
//   - Plan: the deck outline and support footprints as parallelograms
//     following the skew angle, plus the centre line. The plan is placed
//     below the elevation.
//
// Dimensions, annotations, a level grid and the title block are optional
// and controlled by [Options].
//
// # Clearances
//
// Elements centred on a support never extend further than
// [ClearanceRatio] times the span from it, and abutment footing toes reach
// no further into the first span. On the shortest permitted span this keeps
// neighbouring supports apart; every clamp applied is listed in the
// document notes.
//
// # Failures
//
// Parameters that cannot be drawn (non-finite values, non-positive
// dimensions, degenerate outlines) yield a [*GeometryError] and no
// document.
package layout
