// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newReadCmd(flags *rootFlags) *cobra.Command {
	var path, file string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Write a single file's raw bytes to stdout",
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

			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "path to the .pak file")
	cmd.Flags().StringVarP(&file, "file", "f", "", "archive-relative path of the file to read")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
