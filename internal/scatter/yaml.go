// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scatter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// parseText handles the YAML-text scatter form. Newer files are a single
// YAML array of sections; older files are a multi-document stream.
func parseText(content, path string) (*File, error) {
	docs, err := yamlDocs(content)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, ErrEmptyScatter
	}

	hasUFS := false

	for _, doc := range docs {
		if st, ok := doc["storage_type"].(string); ok && st == storageUFS {
			hasUFS = true
			break
		}
	}

	target := targetStorage(hasUFS)
	out := &File{Path: path}
	inTargetSection := false

	for _, doc := range docs {
		readPlatformInfo(doc, out)

		st, ok := doc["storage_type"].(string)
		if !ok {
			continue
		}

		if st != target {
			if inTargetSection {
				break
			}

			continue
		}

		out.StorageType = st
		inTargetSection = true

		desc, ok := doc["description"].([]any)
		if !ok {
			continue
		}

		for _, item := range desc {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}

			index, ok := m["partition_index"].(string)
			if !ok {
				continue
			}

			out.Partitions = append(out.Partitions, Partition{
				Index:             index,
				Name:              yamlString(m, "partition_name"),
				FileName:          yamlFileName(m),
				IsDownload:        yamlBool(m, "is_download"),
				Type:              yamlString(m, "type"),
				LinearStartAddr:   yamlString(m, "linear_start_addr"),
				PhysicalStartAddr: yamlString(m, "physical_start_addr"),
				Size:              yamlString(m, "partition_size"),
				Region:            yamlString(m, "region"),
				Storage:           yamlString(m, "storage"),
				OperationType:     yamlString(m, "operation_type"),
			})
		}
	}

	return out, nil
}

// readPlatformInfo pulls platform and project out of the MTK_PLATFORM_CFG
// general section, when the document is one.
func readPlatformInfo(doc map[string]any, out *File) {
	if general, _ := doc["general"].(string); general != "MTK_PLATFORM_CFG" {
		return
	}

	info, ok := doc["info"].([]any)
	if !ok {
		return
	}

	for _, item := range info {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}

		if cfgVer, _ := m["config_version"].(string); cfgVer == "" {
			continue
		}

		out.Platform = yamlString(m, "platform")
		out.Project = yamlString(m, "project")
	}
}

// yamlDocs decodes the content into section maps, accepting both the
// single-array and multi-document layouts.
func yamlDocs(content string) ([]map[string]any, error) {
	var root any
	if err := yaml.Unmarshal([]byte(content), &root); err == nil {
		if seq, ok := root.([]any); ok {
			docs := make([]map[string]any, 0, len(seq))

			for _, item := range seq {
				if m, ok := item.(map[string]any); ok {
					docs = append(docs, m)
				}
			}

			return docs, nil
		}
	}

	var docs []map[string]any

	dec := yaml.NewDecoder(strings.NewReader(content))

	for {
		var doc map[string]any

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			if len(docs) > 0 {
				break
			}

			return nil, fmt.Errorf("%w: %w", ErrParseScatter, err)
		}

		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

// yamlString reads a string field, rendering numeric values as hex the way
// scatter addresses are written.
func yamlString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case int:
		return fmt.Sprintf("%#x", v)
	case int64:
		return fmt.Sprintf("%#x", v)
	case uint64:
		return fmt.Sprintf("%#x", v)
	case float64:
		return fmt.Sprintf("%#x", int64(v))
	default:
		return ""
	}
}

func yamlFileName(m map[string]any) string {
	name := yamlString(m, "file_name")
	if name == noFile {
		return ""
	}

	return name
}

func yamlBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
