// Package pkg provides the libraries behind BridgeGAD, a generator for
// bridge general arrangement drawings (GADs).
//
// # Overview
//
// A GAD is the first drawing of a bridge: elevation, plan, levels and the
// main dimensions of deck, piers, abutments and foundations. BridgeGAD draws
// one from a small set of numeric parameters, so a designer can iterate on
// spans and levels without touching CAD.
//
// # Architecture
//
// Data flows through the packages in one direction:
//
//	Parameter file (.xlsx, .toml, .yaml, .json)
//	         ↓
//	    [io] package (read into a raw mapping)
//	         ↓
//	    [params] package (validate, default, warn)
//	         ↓
//	    [layout] package (parameters → drawing document)
//	         ↓
//	    [render/sink] package (DXF, SVG, PDF, JSON)
//
// [pipeline] strings the stages together with caching ([cache]) and a
// record of each run ([archive]). The CLI and [server] both go through it.
//
// # Quick Start
//
//	set, err := params.Validate(params.Raw{"NSPAN": 2, "SPAN1": 25, "LBRIDGE": 50}, params.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := layout.Generate(set, layout.Options{Project: "Ring Road"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dxf, err := sink.RenderDXF(doc)
//
// # Main Packages
//
// [params] - The parameter schema: names, kinds, ranges, defaults and the
// cross-field rules between levels.
//
// [drawing] - The format-neutral document: layers, primitives (lines,
// polylines, rectangles, text, dimensions) and bounds.
//
// [layout] - Computes the elevation, plan, annotations and title block.
//
// [render/sink] - Serializers. DXF is the CAD deliverable; SVG and PDF are
// for review; JSON is for other tools.
//
// [io] - Reads and writes parameter files, including the Excel template.
//
// [pipeline] - validate → layout → render with caching and archiving.
//
// [cache] - File, Redis and null caches keyed by content hashes.
//
// [archive] - Drawing records in SQLite (CLI), MongoDB (server) or memory.
//
// [server] - The HTTP API.
//
// [config] - The TOML config file, .env and environment overrides.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by every entry point.
//
// [io]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/io
// [params]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/params
// [layout]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/layout
// [render/sink]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/render/sink
// [drawing]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/drawing
// [pipeline]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/cache
// [archive]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/archive
// [server]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/server
// [config]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/config
// [observability]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/observability
// [errors]: https://pkg.go.dev/github.com/bridgegad/bridgegad/pkg/errors
package pkg
