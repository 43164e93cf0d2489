// Package logging builds slog loggers for the narration pipeline.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for log aggregation. Loggers carry a
// component attribute so pipeline stages can be told apart in shared
// output.
package logging
