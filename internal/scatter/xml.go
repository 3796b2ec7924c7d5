// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package scatter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// parseXML walks the scatter XML token by token. The format is flat enough
// that a small state machine beats a schema: a general section with
// platform metadata, then either storage_type sections wrapping
// partition_index elements (new format) or bare partition_index elements
// (old format).
func parseXML(content, path string) (*File, error) {
	target := targetStorage(strings.Contains(content, `<storage_type name="UFS">`))

	out := &File{Path: path}

	var (
		current            *Partition
		currentTag         string
		currentStorage     string
		inGeneral          bool
		inTargetSection    bool
		hasStorageSections bool
	)

	dec := xml.NewDecoder(strings.NewReader(content))

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseScatter, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			currentTag = t.Name.Local

			switch currentTag {
			case "general":
				inGeneral = true
			case "storage_type":
				hasStorageSections = true
				currentStorage = xmlAttr(t, "name")

				if currentStorage == target {
					out.StorageType = currentStorage
					inTargetSection = true
				}
			case "partition_index":
				if inTargetSection || !hasStorageSections {
					current = &Partition{Index: xmlAttr(t, "name")}
				}
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}

			switch {
			case inGeneral:
				switch currentTag {
				case "platform":
					out.Platform = text
				case "project":
					out.Project = text
				case "storage":
					// Old format carries the storage directly in general.
					out.StorageType = text
				}
			case current != nil:
				setPartitionField(current, currentTag, text)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "general":
				inGeneral = false
			case "storage_type":
				if currentStorage == target {
					inTargetSection = false
				}

				currentStorage = ""
			case "partition_index":
				if current != nil {
					out.Partitions = append(out.Partitions, *current)
					current = nil
				}
			}
		}
	}

	return out, nil
}

func setPartitionField(p *Partition, tag, text string) {
	switch tag {
	case "partition_name":
		p.Name = text
	case "file_name":
		if text != noFile {
			p.FileName = text
		}
	case "is_download":
		p.IsDownload = strings.EqualFold(strings.TrimSpace(text), "true")
	case "type":
		p.Type = text
	case "linear_start_addr":
		p.LinearStartAddr = text
	case "physical_start_addr":
		p.PhysicalStartAddr = text
	case "partition_size":
		p.Size = text
	case "region":
		p.Region = text
	case "storage":
		p.Storage = text
	case "operation_type":
		p.OperationType = text
	}
}

func xmlAttr(e xml.StartElement, name string) string {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}
