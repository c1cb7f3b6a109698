// Package sink serializes a [drawing.Document] into output formats.
//
// # Overview
//
// A "sink" consumes a finished document and never changes it. This package
// provides:
//
//   - DXF: CAD exchange file with one DXF layer per drawing layer
//   - SVG: standalone vector image, one <g> per layer
//   - PDF: A3 landscape sheet scaled to fit, optional parameter schedule
//   - JSON: dump of the drawing model for external tools
//
// # DXF Output
//
// [RenderDXF] writes an AC1015 (AutoCAD 2000) file in memory. Every entity
// it uses reads the same in later releases, R2010 included. Each layer of
// the document is declared with its colour before any entity, so a CAD
// user can toggle layers. Dimensions are written as plain lines and text:
//
//	data, err := sink.RenderDXF(doc)
//
// [ValidateDXF] is a cheap structural check used after writing and by
// callers that receive DXF bytes from a cache.
//
// # SVG and PDF Output
//
// Both flip the y axis so that levels grow upwards on screen and paper.
// Colours follow the AutoCAD colour index of each layer.
//
//	pdf, err := sink.RenderPDF(doc, sink.WithPDFParameters(set))
//
// # JSON Output
//
// [RenderJSON] writes the document ID, metadata, per-layer counts and the
// primitive list in document order.
package sink
