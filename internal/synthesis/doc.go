// Package synthesis turns panel narratives into audio. Narration units
// are dispatched concurrently, each walking a fallback chain when the
// preferred voice and engine fail, and results reassemble in strict
// story order. A unit that exhausts every option becomes silence of the
// estimated duration rather than a hole in the track.
package synthesis
