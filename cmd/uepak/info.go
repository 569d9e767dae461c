// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	pak "github.com/go-uepak/pak"
)

func newInfoCmd(flags *rootFlags) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display information about a .pak file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openArchive(path, flags)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer func() { _ = a.Close() }()

			entries, err := a.List(pak.ListOptions{})
			if err != nil {
				return err
			}

			var totalSize int64
			for _, e := range entries {
				totalSize += e.Size
			}

			fmt.Printf("mount point:    %s\n", a.MountPoint())
			fmt.Printf("version:        %s\n", a.Version())
			fmt.Printf("entries:        %d\n", len(entries))
			fmt.Printf("uncompressed:   %s\n", humanize.Bytes(uint64(totalSize))) //nolint:gosec

			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "path to the .pak file")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
