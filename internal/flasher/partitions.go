// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package flasher

import (
	"errors"
	"strings"
)

// ErrNoPartitions is returned when the partition table output contains no
// parseable rows.
var ErrNoPartitions = errors.New("no partitions found in output")

// Partition is one row of the device partition table.
type Partition struct {
	Name        string `json:"name"`
	Start       string `json:"start"`        // Hex start address
	Size        string `json:"size"`         // Hex size, kept for comparisons
	DisplaySize string `json:"display_size"` // Human-readable size, may be empty
}

// ParsePartitionTable extracts partitions from pgpt output. Rows look like
//
//	Antumbra ✦  Name: boot_a    Addr: 0x25100000   Size: 0x02000000 (32 MiB)
//
// and any line without a Name: field is chatter to skip.
func ParsePartitionTable(output string) ([]Partition, error) {
	var partitions []Partition

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "Name:") {
			continue
		}

		fields := strings.Fields(line)

		nameIdx := indexOf(fields, "Name:")
		addrIdx := indexOf(fields, "Addr:")
		sizeIdx := indexOf(fields, "Size:")

		if nameIdx < 0 || addrIdx < 0 || sizeIdx < 0 {
			continue
		}

		p := Partition{
			Name:        fieldAfter(fields, nameIdx),
			Start:       fieldAfter(fields, addrIdx),
			Size:        fieldAfter(fields, sizeIdx),
			DisplaySize: parenthesized(fields[sizeIdx+1:]),
		}

		if p.Name == "" || p.Start == "" {
			continue
		}

		partitions = append(partitions, p)
	}

	if len(partitions) == 0 {
		return nil, ErrNoPartitions
	}

	return partitions, nil
}

func indexOf(fields []string, key string) int {
	for i, f := range fields {
		if f == key {
			return i
		}
	}

	return -1
}

func fieldAfter(fields []string, i int) string {
	if i+1 >= len(fields) {
		return ""
	}

	return fields[i+1]
}

// parenthesized joins the tokens of the first "(...)" group in fields,
// parentheses stripped, e.g. ["0x02000000", "(32", "MiB)"] yields "32 MiB".
func parenthesized(fields []string) string {
	var parts []string
	inParens := false

	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "("):
			inParens = true

			f = strings.TrimPrefix(f, "(")
			if strings.HasSuffix(f, ")") {
				return strings.TrimSuffix(f, ")")
			}

			parts = append(parts, f)
		case strings.HasSuffix(f, ")"):
			if inParens {
				parts = append(parts, strings.TrimSuffix(f, ")"))
				return strings.Join(parts, " ")
			}
		case inParens:
			parts = append(parts, f)
		}
	}

	return strings.Join(parts, " ")
}
