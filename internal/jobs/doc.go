// Package jobs persists document processing runs and their per-panel
// outcomes in SQLite, so progress survives restarts and the CLI can
// report on past runs.
package jobs
