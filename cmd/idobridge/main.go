// Copyright (c) 2025 tsido
// Licensed under the PolyForm Noncommercial License 1.0.0
// This software is restricted to non-commercial use only.

// Command idobridge drives identity journeys through the orchestration facade,
// either over HTTP (serve) or from the terminal (run).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
