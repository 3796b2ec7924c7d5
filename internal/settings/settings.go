// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package settings persists user configuration as JSON in the user config
// directory. A missing file yields defaults; unknown fields are ignored so
// older builds tolerate newer files.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var (
	// ErrConfigDir is returned when the user config directory cannot be
	// determined.
	ErrConfigDir = errors.New("could not determine config directory")
	// ErrLoad is returned when an existing settings file cannot be read.
	ErrLoad = errors.New("failed to load settings")
	// ErrSave is returned when the settings file cannot be written.
	ErrSave = errors.New("failed to save settings")
)

// Settings is the persisted user configuration.
type Settings struct {
	// DAPath is the download agent file used by every flashing verb.
	DAPath string `json:"da_path,omitempty"`
	// PreloaderPath is the optional preloader file.
	PreloaderPath string `json:"preloader_path,omitempty"`
	// DefaultOutputPath is where partition dumps land by default.
	DefaultOutputPath string `json:"default_output_path,omitempty"`
	// AutoCheckUpdates enables the flasher update check on startup.
	AutoCheckUpdates bool `json:"auto_check_updates"`
	// FlasherVersion is the last detected flasher binary version.
	FlasherVersion string `json:"flasher_version,omitempty"`
	// FlasherPath overrides flasher binary resolution entirely.
	FlasherPath string `json:"flasher_path,omitempty"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		AutoCheckUpdates: true,
	}
}

// Path returns the settings file location under the user config dir.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfigDir, err)
	}

	return filepath.Join(configDir, "penumbra", "config.json"), nil
}

// Load reads the settings file, returning defaults when it does not exist.
func Load(fs afero.Fs) (Settings, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}

	return LoadFrom(fs, path)
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(fs afero.Fs, path string) (Settings, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return Default(), fmt.Errorf("%w: %w", ErrLoad, err)
	}

	s := Default()
	if err := json.Unmarshal(raw, &s); err != nil {
		return Default(), fmt.Errorf("%w: %w", ErrLoad, err)
	}

	return s, nil
}

// Save writes the settings file, creating the config directory as needed.
func Save(fs afero.Fs, s Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}

	return SaveTo(fs, path, s)
}

// SaveTo writes settings to an explicit path.
func SaveTo(fs afero.Fs, path string, s Settings) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	if err := afero.WriteFile(fs, path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}

	return nil
}

// SyncFlasherVersion records the detected flasher version when it differs
// from the stored one, reporting whether a save happened.
func SyncFlasherVersion(fs afero.Fs, s *Settings, detected string) (bool, error) {
	if detected == "" || s.FlasherVersion == detected {
		return false, nil
	}

	s.FlasherVersion = detected

	if err := Save(fs, *s); err != nil {
		return false, err
	}

	return true, nil
}
