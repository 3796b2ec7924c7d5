// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package flasher

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	// ErrPathNotFound is returned when a required path does not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrNotAFile is returned when a file was expected.
	ErrNotAFile = errors.New("path is not a file")
	// ErrNotADirectory is returned when a directory was expected.
	ErrNotADirectory = errors.New("path is not a directory")
	// ErrNotWritable is returned when a directory rejects writes.
	ErrNotWritable = errors.New("directory is not writable")
)

// ValidateInputFile checks that path exists and is a regular file.
func ValidateInputFile(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	return nil
}

// ValidateOutputDir checks that path is an existing, writable directory.
func ValidateOutputDir(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	probe := filepath.Join(path, ".penumbra-write-test-"+uuid.NewString())

	f, err := fs.Create(probe)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotWritable, path)
	}

	f.Close()        //nolint:errcheck
	fs.Remove(probe) //nolint:errcheck

	return nil
}

// ValidateOutputParent checks that the parent directory of path is an
// existing, writable directory, for outputs that do not exist yet.
func ValidateOutputParent(fs afero.Fs, path string) error {
	return ValidateOutputDir(fs, filepath.Dir(path))
}

// ValidateAgentPaths checks the download agent file and, when given, the
// preloader file. Every flashing verb requires these.
func ValidateAgentPaths(fs afero.Fs, daPath, preloaderPath string) error {
	if daPath == "" {
		return fmt.Errorf("%w: download agent path is required", ErrPathNotFound)
	}

	if err := ValidateInputFile(fs, daPath); err != nil {
		return fmt.Errorf("download agent: %w", err)
	}

	if preloaderPath != "" {
		if err := ValidateInputFile(fs, preloaderPath); err != nil {
			return fmt.Errorf("preloader: %w", err)
		}
	}

	return nil
}
