// SPDX-License-Identifier: MIT
// Copyright (c) 2026 go-uepak

/*
Package pak provides read, extract, and write access to Unreal Engine .pak
archives. Random access to the archive uses io.ReaderAt so the same
Archive can serve concurrent readers. Each entry's payload is read into
memory whole when it is read or extracted; there is no block-by-block
streaming into a caller-supplied writer.

# Reading

Open an archive and list or read entries:

	a, err := pak.Open("Game.pak")
	if err != nil {
	    return err
	}
	defer a.Close()
	entries, err := a.List(pak.ListOptions{})
	if err != nil {
	    return err
	}
	for _, e := range entries {
	    data, err := a.ReadFile(e.Path)
	    if err != nil {
	        return err
	    }
	    _ = data
	}

Encrypted archives need a key before reading index or payload:

	key, err := pak.ParseKey("0x1234...")
	if err != nil {
	    return err
	}
	a, err := pak.OpenWithOptions("Game.pak", pak.ReaderOptions{Key: key})

# Writing

AddFile/RemoveFile stage changes; WriteFile streams a new archive to a
temporary file and renames it into place atomically:

	a.AddFile(pak.Input{Path: "NewAsset.uasset", Size: size, Open: openFunc})
	if err := a.WriteFile(context.Background(), "Game.pak"); err != nil {
	    return err
	}

Writing compressed or encrypted payload is not supported; entries added
through AddFile are always stored uncompressed.
*/
package pak
