// Package io reads and writes bridge parameter files.
//
// # Overview
//
// Parameters travel between engineers as spreadsheets and as plain text
// files checked into project folders. This package converts both into the
// unvalidated [params.Raw] mapping and writes validated [params.Set] values
// back out:
//
//   - XLSX: one row per parameter on the "Bridge_Parameters" sheet
//   - TOML, YAML, JSON: a flat mapping of parameter key to value, optionally
//     nested under a top-level "parameters" key
//
// # Spreadsheet Layout
//
// The first row is a header. The name and value columns are found by header
// text:
//
//	Parameter | Value | Description | Type | Min | Max | Units | Category
//	NSPAN     | 3     | Number of spans | int | 1 | 51 |   | geometry
//	SPAN1     | 30    | Span length     | float | 3 | 100 | m | geometry
//
// Accepted name headers are parameter, param, variable and name; accepted
// value headers are value, val and amount. Without recognizable headers the
// first two columns are used. Rows with an empty name are skipped and an
// empty value falls back to the parameter default.
//
// # Import
//
// [Import] picks the decoder from the file extension; [Load] additionally
// validates:
//
//	set, err := io.Load("bridge.xlsx", params.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [Export] writes any format by extension and [Template] writes the default
// workbook. Every export re-imports to an equal set: values are written in
// their shortest exact decimal form and integers without a fractional part.
package io
