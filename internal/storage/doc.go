// Package storage persists synthesized audio and narration transcripts.
package storage
