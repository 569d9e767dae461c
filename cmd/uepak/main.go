// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

// Command uepak inspects, lists, and extracts Unreal Engine .pak archives.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "uepak: %v\n", err)
		os.Exit(1)
	}
}
