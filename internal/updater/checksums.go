// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package updater

import (
	"strings"
)

// ParseChecksum finds the sha256 for assetName in a checksums.txt. Both
// the standard "HASH  FILENAME" layout and the BSD "SHA256(filename)= hash"
// layout are accepted; comment and malformed lines are skipped.
func ParseChecksum(contents, assetName string) (string, bool) {
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		hash, name, ok := parseBSDLine(line)
		if !ok {
			hash, name, ok = parseStandardLine(line)
		}

		if !ok || !validSHA256(hash) {
			continue
		}

		if name == assetName {
			return strings.ToLower(hash), true
		}
	}

	return "", false
}

// parseStandardLine handles "HASH  FILENAME".
func parseStandardLine(line string) (string, string, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", "", false
	}

	return fields[0], fields[1], true
}

// parseBSDLine handles "SHA256(filename)= hash".
func parseBSDLine(line string) (string, string, bool) {
	open := strings.Index(line, "(")
	closing := strings.Index(line, ")")
	eq := strings.LastIndex(line, "=")

	if open < 0 || closing < open || eq < closing {
		return "", "", false
	}

	name := line[open+1 : closing]
	hash := strings.TrimSpace(line[eq+1:])

	return hash, name, true
}

func validSHA256(hash string) bool {
	if len(hash) != 64 {
		return false
	}

	for _, c := range hash {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}

// NormalizeVersion extracts the comparable version token: the first
// whitespace-separated token containing a digit, with any leading v
// stripped. An empty string means no version could be found.
func NormalizeVersion(version string) string {
	for _, token := range strings.Fields(version) {
		if strings.ContainsAny(token, "0123456789") {
			return strings.TrimPrefix(token, "v")
		}
	}

	return ""
}
