// Package textutil provides tokenization and similarity primitives used
// to match character and scene descriptions across panels.
package textutil
