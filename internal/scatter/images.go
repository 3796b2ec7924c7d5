// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scatter

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DetectImages matches downloadable partitions to image files next to the
// scatter file. Candidates come from the scatter directory itself and its
// images/ subdirectory; matching is case-insensitive with the scatter
// file_name taking priority over <name>.img, then <name>.bin.
//
// The result maps partition names to absolute image paths. Partitions
// without a match are simply absent.
func DetectImages(fs afero.Fs, scatterPath string, partitions []Partition) map[string]string {
	dir := filepath.Dir(scatterPath)
	files := listCandidateFiles(fs, dir)

	images := make(map[string]string)

	for _, p := range partitions {
		if !p.IsDownload {
			continue
		}

		if match := findImage(files, p); match != "" {
			images[p.Name] = filepath.Join(dir, match)
		}
	}

	return images
}

// listCandidateFiles returns file names relative to dir: root entries as-is
// and images/ entries with their subdirectory prefix.
func listCandidateFiles(fs afero.Fs, dir string) []string {
	var files []string

	if entries, err := afero.ReadDir(fs, dir); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, e.Name())
			}
		}
	}

	if entries, err := afero.ReadDir(fs, filepath.Join(dir, "images")); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, "images/"+e.Name())
			}
		}
	}

	return files
}

func findImage(files []string, p Partition) string {
	name := strings.ToLower(p.Name)

	candidates := []string{}
	if p.FileName != "" {
		candidates = append(candidates, strings.ToLower(p.FileName))
	}

	candidates = append(candidates, name+".img", name+".bin")

	for _, want := range candidates {
		for _, f := range files {
			lower := strings.ToLower(f)
			if lower == want || strings.HasSuffix(lower, "/"+want) {
				return f
			}
		}
	}

	return ""
}
