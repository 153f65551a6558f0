// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tomlx reads and writes values as TOML.
// Reading is strict: keys that do not match a field are errors.
package tomlx

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Open reads the given value from the given TOML file.
func Open(v any, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Read(v, bufio.NewReader(f)); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// OpenFiles reads the given value from the given TOML files in order,
// so that later files override earlier ones.
func OpenFiles(v any, filenames ...string) error {
	for _, fn := range filenames {
		if err := Open(v, fn); err != nil {
			return err
		}
	}
	return nil
}

// Read reads the given value from the given TOML reader.
func Read(v any, r io.Reader) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	err := dec.Decode(v)
	if sme, ok := err.(*toml.StrictMissingError); ok {
		return fmt.Errorf("%w\n%s", err, sme.String())
	}
	if de, ok := err.(*toml.DecodeError); ok {
		row, col := de.Position()
		return fmt.Errorf("line %d column %d: %w", row, col, err)
	}
	return err
}

// ReadBytes reads the given value from the given TOML bytes.
func ReadBytes(v any, data []byte) error {
	return Read(v, bytes.NewReader(data))
}

// Save writes the given value to the given TOML file.
func Save(v any, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	err = Write(v, bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Write writes the given value to the given writer as TOML.
func Write(v any, w io.Writer) error {
	return toml.NewEncoder(w).SetIndentTables(true).Encode(v)
}
