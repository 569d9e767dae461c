// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package main

import (
	"github.com/spf13/cobra"

	pak "github.com/go-uepak/pak"
)

// rootFlags holds global flags shared by every subcommand.
type rootFlags struct {
	aes string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "uepak",
		Short:         "Inspect, list, and extract Unreal Engine .pak archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.aes, "aes", "", "AES-256 key (hex, optionally 0x-prefixed, or base64)")

	root.AddCommand(
		newInfoCmd(flags),
		newListCmd(flags),
		newUnpackCmd(flags),
		newExtractCmd(flags),
		newReadCmd(flags),
		newPackCmd(),
	)

	return root
}

// openArchive opens path, parsing flags.aes into a decryption key if set.
func openArchive(path string, flags *rootFlags) (*pak.Archive, error) {
	opts := pak.ReaderOptions{}
	if flags.aes != "" {
		key, err := pak.ParseKey(flags.aes)
		if err != nil {
			return nil, err
		}
		opts.Key = key
	}

	return pak.OpenWithOptions(path, opts)
}
