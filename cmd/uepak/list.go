// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pak "github.com/go-uepak/pak"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every path in the archive",
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
			for _, e := range entries {
				fmt.Println(e.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "path to the .pak file")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
