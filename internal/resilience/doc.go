// Package resilience runs operations against unreliable external
// services with exponential backoff, jittered delays, and a switch to a
// fallback backend after repeated transient failures.
package resilience
