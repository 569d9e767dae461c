// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

package pak

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WalkDir walks the filesystem tree rooted at dir and returns one Input
// per regular file found, with Path set to the file's slash-separated
// path relative to dir, ready to pass to Archive.AddFile.
func WalkDir(dir string) ([]Input, error) {
	var inputs []Input

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		path := p
		inputs = append(inputs, Input{
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Open: func() (ReadAtCloser, error) {
				return os.Open(path)
			},
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	return inputs, nil
}
