// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pak "github.com/go-uepak/pak"
)

func newPackCmd() *cobra.Command {
	var path, out, ver, mountPoint string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a directory into a .pak archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := pak.ParseVersion(ver)
			if err != nil {
				return err
			}

			outPath := out
			if outPath == "" {
				clean := strings.TrimRight(filepath.Clean(path), string(filepath.Separator))
				outPath = clean + ".pak"
			}

			inputs, err := pak.WalkDir(path)
			if err != nil {
				return err
			}

			a := pak.New(mountPoint, version)
			for _, in := range inputs {
				if err := a.AddFile(in); err != nil {
					return fmt.Errorf("add %s: %w", in.Path, err)
				}
			}

			if err := a.WriteFile(context.Background(), outPath); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}

			fmt.Printf("packed %d files into %s\n", len(inputs), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "input folder to pack")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output .pak path (default: input folder name + .pak)")
	cmd.Flags().StringVarP(&ver, "ver", "v", "V11", "archive format version (e.g. V11)")
	cmd.Flags().StringVarP(&mountPoint, "mount_point", "m", "../../../", "mount point recorded in the archive")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
