// Package analyzer folds per-panel visual analyses into the story
// context. It decides which observed characters and locations are
// returning identities and which are genuinely new, so narration can
// introduce each one exactly once.
package analyzer
