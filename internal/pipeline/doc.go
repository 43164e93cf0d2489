// Package pipeline runs a document end to end: load panels, analyze
// them in story order against the evolving context, compose narration,
// assign voices, synthesize audio, and persist the results.
//
// Failures are contained at panel granularity. A panel whose analysis
// or synthesis cannot be completed degrades to placeholder narration or
// silence; only invalid input or cancellation aborts the run.
package pipeline
