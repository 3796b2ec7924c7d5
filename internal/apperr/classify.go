// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package apperr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// keywordRule maps message substrings to a category. Rules are checked in
// order and the first match wins.
type keywordRule struct {
	category Category
	keywords []string
}

var keywordRules = []keywordRule{
	{CategoryNetwork, []string{"network", "connection", "timeout", "dns", "download", "fetch"}},
	{CategoryPermission, []string{"permission", "access denied", "lock", "administrator"}},
	{CategoryFilesystem, []string{"file", "directory", "path", "not found", "disk full", "no space"}},
	{CategoryCommand, []string{"command", "execution"}},
	{CategoryUpdate, []string{"update", "checksum", "hash", "verification"}},
}

// categorizeMessage infers a category from message keywords.
func categorizeMessage(msg string) Category {
	lower := strings.ToLower(msg)

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}

	return CategoryUnknown
}

// Classify reduces an arbitrary failure value to a StructuredError. It never
// fails: inputs it cannot make sense of become unknown-category errors with
// a best-effort message.
//
// Structured inputs (a *StructuredError, or a decoded JSON object carrying a
// "type" field) pass through with their fields intact; everything else is
// coerced to a message and categorized by keyword.
func Classify(v any) *StructuredError {
	e := classify(v)

	if e.Suggestion == "" {
		e.Suggestion = SuggestionFor(e.Category)
	}

	return e
}

func classify(v any) *StructuredError {
	switch val := v.(type) {
	case nil:
		return &StructuredError{
			Kind:     "unknown",
			Message:  "An unknown error occurred",
			Category: CategoryUnknown,
		}
	case *StructuredError:
		if val == nil {
			return classify(nil)
		}

		out := *val

		return &out
	case StructuredError:
		out := val

		return &out
	case error:
		return &StructuredError{
			Kind:     "other",
			Message:  val.Error(),
			Category: categorizeMessage(val.Error()),
		}
	case string:
		return &StructuredError{
			Kind:     "other",
			Message:  val,
			Category: categorizeMessage(val),
		}
	case map[string]any:
		return classifyMap(val)
	default:
		return classifyOpaque(val)
	}
}

// classifyMap handles decoded JSON objects. An object carrying a "type"
// field is treated as an already-structured error and its fields pass
// through; an object carrying only a "message" is categorized by keyword.
func classifyMap(m map[string]any) *StructuredError {
	msg, _ := m["message"].(string)

	if kind, ok := m["type"].(string); ok && kind != "" {
		e := &StructuredError{
			Kind:     kind,
			Message:  msg,
			Category: CategoryUnknown,
		}

		if cat, ok := m["category"].(string); ok {
			e.Category = ParseCategory(cat)
		}

		if s, ok := m["suggestion"].(string); ok {
			e.Suggestion = s
		}

		if c, ok := m["native_code"].(string); ok {
			e.NativeCode = c
		}

		if raw, ok := m["raw_output"].(string); ok {
			e.RawOutput = raw
		}

		if e.Message == "" {
			e.Message = "An unknown error occurred"
		}

		return e
	}

	if msg != "" {
		return &StructuredError{
			Kind:     "other",
			Message:  msg,
			Category: categorizeMessage(msg),
		}
	}

	return classifyOpaque(m)
}

// classifyOpaque stringifies a value neither structured nor string-like.
func classifyOpaque(v any) *StructuredError {
	msg := "An error occurred (details unavailable)"

	if b, err := json.Marshal(v); err == nil && len(b) > 0 && string(b) != "null" {
		msg = string(b)
	} else if s := fmt.Sprint(v); s != "" && s != "<nil>" {
		msg = s
	}

	return &StructuredError{
		Kind:     "other",
		Message:  msg,
		Category: categorizeMessage(msg),
	}
}
