// Package speech wraps the text-to-speech API. One call synthesizes one
// narration unit with a single voice and engine; walking the engine and
// voice fallback chain is the synthesis orchestrator's job.
package speech
