// Package voices assigns a stable synthesis voice to every character.
// Assignment is deterministic: the same characters discovered in the
// same order always receive the same voices, and a character keeps its
// voice for the rest of the document.
package voices
