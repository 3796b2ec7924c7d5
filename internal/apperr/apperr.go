// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package apperr

import (
	"fmt"
	"strings"
)

// Category groups errors by the kind of remedy they call for.
type Category int

const (
	// CategoryUnknown is the fallback when no other category applies.
	CategoryUnknown Category = iota
	// CategoryNetwork covers connectivity, DNS and download failures.
	CategoryNetwork
	// CategoryPermission covers access-denied and elevation failures.
	CategoryPermission
	// CategoryFilesystem covers missing paths and disk-space failures.
	CategoryFilesystem
	// CategoryValidation covers rejected user input.
	CategoryValidation
	// CategoryCommand covers failures of the external flashing tool.
	CategoryCommand
	// CategoryUpdate covers self-update and checksum failures.
	CategoryUpdate
)

// String implements the Stringer interface for Category.
func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryPermission:
		return "permission"
	case CategoryFilesystem:
		return "filesystem"
	case CategoryValidation:
		return "validation"
	case CategoryCommand:
		return "command"
	case CategoryUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// ParseCategory maps a category name to a Category, case-insensitively.
// Unrecognized names map to CategoryUnknown.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "network":
		return CategoryNetwork
	case "permission":
		return CategoryPermission
	case "filesystem":
		return CategoryFilesystem
	case "validation":
		return CategoryValidation
	case "command":
		return CategoryCommand
	case "update":
		return CategoryUpdate
	default:
		return CategoryUnknown
	}
}

// StructuredError is the normalized form every failure is reduced to before
// it reaches a user surface.
type StructuredError struct {
	// Kind is a machine-readable discriminator, e.g. "device_not_connected".
	// Classification of unstructured input uses "other".
	Kind string
	// Message is the human-readable description.
	Message string
	// Category groups the error for suggestion lookup.
	Category Category
	// Suggestion is an actionable next step, empty when none applies.
	Suggestion string
	// NativeCode is the platform error code, when one was reported.
	NativeCode string
	// RawOutput is the tool output the error was derived from, when any.
	RawOutput string
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Kind != "" && e.Kind != "other" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return e.Message
}

// suggestions maps each category to its default actionable next step.
var suggestions = map[Category]string{
	CategoryNetwork:    "Check your internet connection and try again.",
	CategoryPermission: "Try running with elevated privileges, or check that no other program is using the device.",
	CategoryFilesystem: "Check that the path exists and there is enough free disk space.",
	CategoryValidation: "Check the highlighted input and try again.",
	CategoryCommand:    "Check that the device is connected and in the correct download mode.",
	CategoryUpdate:     "Retry the update. If the problem persists, download the release manually.",
}

// SuggestionFor returns the default suggestion for a category. Unknown
// categories have no suggestion.
func SuggestionFor(c Category) string {
	return suggestions[c]
}
