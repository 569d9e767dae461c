// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pak "github.com/go-uepak/pak"
)

func newUnpackCmd(flags *rootFlags) *cobra.Command {
	var path, out string

	cmd := &cobra.Command{
		Use:   "unpack",
		Short: "Extract every file in the archive to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openArchive(path, flags)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = a.Close() }()

			destDir := out
			if destDir == "" {
				destDir = strings.TrimSuffix(path, ".pak")
			}

			var count int
			err = a.ParallelExtract(context.Background(), destDir, pak.ExtractOptions{
				OnEntryDone: func(path string, written int64, outputPath string) {
					count++
				},
			})
			if err != nil {
				return fmt.Errorf("unpack: %w", err)
			}

			fmt.Printf("unpacked %d files to %s\n", count, destDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "path to the .pak file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output folder path (default: pak file name without extension)")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
