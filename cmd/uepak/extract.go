// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pak "github.com/go-uepak/pak"
)

func newExtractCmd(flags *rootFlags) *cobra.Command {
	var path, file, out string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a single file from the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openArchive(path, flags)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = a.Close() }()

			data, err := a.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			destDir := out
			if destDir == "" {
				destDir = strings.TrimSuffix(path, ".pak")
			}

			outPath, err := pak.SafeExtractPath(destDir, file)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}

			fmt.Printf("extracted %s to %s\n", file, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "path to the .pak file")
	cmd.Flags().StringVarP(&file, "file", "f", "", "archive-relative path of the file to extract")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output folder path (default: pak file name without extension)")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
