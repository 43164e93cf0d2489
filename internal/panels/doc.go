// Package panels loads ordered story panels from a document manifest and
// validates the sequence before any analysis begins.
package panels
