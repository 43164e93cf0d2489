package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			// Interrupted mid-run; the exit code says so without noise.
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "inkcast: %v\n", err)
		os.Exit(1)
	}
}
