package pipeline

import (
	"fmt"

	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/params"
	"github.com/bridgegad/bridgegad/pkg/render/sink"
)

// Render serializes doc into every format in opts.Formats. set supplies the
// parameter values for the PDF schedule page and the JSON dump; it may be
// nil, in which case both are left out.
func Render(doc *drawing.Document, set *params.Set, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDXF:
			data, err = sink.RenderDXF(doc)
		case FormatSVG:
			data = sink.RenderSVG(doc)
		case FormatPDF:
			var pdfOpts []sink.PDFOption
			if opts.Schedule && set != nil {
				pdfOpts = append(pdfOpts, sink.WithPDFParameters(set))
			}
			data, err = sink.RenderPDF(doc, pdfOpts...)
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONBounds()}
			if set != nil {
				jsonOpts = append(jsonOpts, sink.WithJSONParameters(set))
			}
			data, err = sink.RenderJSON(doc, jsonOpts...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
