// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrReadScatter is returned when the scatter file cannot be read.
	ErrReadScatter = errors.New("failed to read scatter file")
	// ErrParseScatter is returned when the scatter file cannot be parsed.
	ErrParseScatter = errors.New("failed to parse scatter file")
	// ErrEmptyScatter is returned when the scatter file holds no documents.
	ErrEmptyScatter = errors.New("scatter file is empty")
)

const (
	storageUFS  = "UFS"
	storageEMMC = "EMMC"
	// noFile marks a partition without a backing image in scatter files.
	noFile = "NONE"
)

// Partition is one partition entry of a scatter file.
type Partition struct {
	Index             string `json:"index"`
	Name              string `json:"partition_name"`
	FileName          string `json:"file_name,omitempty"` // Empty when the scatter lists NONE
	IsDownload        bool   `json:"is_download"`
	Type              string `json:"type"`
	LinearStartAddr   string `json:"linear_start_addr"`
	PhysicalStartAddr string `json:"physical_start_addr"`
	Size              string `json:"partition_size"`
	Region            string `json:"region"`
	Storage           string `json:"storage"`
	OperationType     string `json:"operation_type"`
}

// File is a parsed scatter file.
type File struct {
	Platform    string      `json:"platform"`
	Project     string      `json:"project"`
	StorageType string      `json:"storage_type"`
	Partitions  []Partition `json:"partitions"`
	Path        string      `json:"file_path"`
}

// Parse reads and parses a scatter file, auto-detecting the XML and
// YAML-text forms.
func Parse(fs afero.Fs, path string) (*File, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadScatter, err)
	}

	content := string(raw)

	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return parseXML(content, path)
	}

	return parseText(content, path)
}

// targetStorage picks the storage section to read: UFS when present,
// EMMC otherwise.
func targetStorage(hasUFS bool) string {
	if hasUFS {
		return storageUFS
	}

	return storageEMMC
}
