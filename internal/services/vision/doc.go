// Package vision wraps the panel analysis API. Each request carries the
// accumulated story context so the model resolves characters and
// locations against identities established in earlier panels.
package vision
