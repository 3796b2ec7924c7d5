// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"network", CategoryNetwork},
		{"Network", CategoryNetwork},
		{"PERMISSION", CategoryPermission},
		{"filesystem", CategoryFilesystem},
		{"validation", CategoryValidation},
		{"command", CategoryCommand},
		{"update", CategoryUpdate},
		{"unknown", CategoryUnknown},
		{"bogus", CategoryUnknown},
		{"", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCategory(tt.input))
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	e := Classify(nil)

	require.NotNil(t, e)
	assert.Equal(t, "unknown", e.Kind)
	assert.Equal(t, CategoryUnknown, e.Category)
	assert.NotEmpty(t, e.Message)
}

func TestClassify_StructuredPassthrough(t *testing.T) {
	in := &StructuredError{
		Kind:       "device_not_connected",
		Message:    "no device",
		Category:   CategoryCommand,
		Suggestion: "plug it in",
		NativeCode: "10",
	}

	e := Classify(in)

	assert.Equal(t, "device_not_connected", e.Kind)
	assert.Equal(t, "no device", e.Message)
	assert.Equal(t, CategoryCommand, e.Category)
	assert.Equal(t, "plug it in", e.Suggestion, "existing suggestion untouched")
	assert.Equal(t, "10", e.NativeCode)
	assert.NotSame(t, in, e, "passthrough copies, callers must not share state")
}

func TestClassify_StringKeywords(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected Category
	}{
		{"network timeout", "Network timeout while connecting", CategoryNetwork},
		{"connection", "the connection was reset", CategoryNetwork},
		{"dns", "DNS lookup failed", CategoryNetwork},
		{"permission", "Permission denied opening port", CategoryPermission},
		{"access denied", "Access denied by the operating system", CategoryPermission},
		{"missing file", "file does not exist", CategoryFilesystem},
		{"not found", "partition image not found", CategoryFilesystem},
		{"disk full", "write failed: disk full", CategoryFilesystem},
		{"command", "command exited with status 1", CategoryCommand},
		{"checksum", "checksum mismatch for asset", CategoryUpdate},
		{"no keyword", "something odd happened", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Classify(tt.message)

			assert.Equal(t, tt.expected, e.Category)
			assert.Equal(t, "other", e.Kind)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestClassify_KeywordPriority(t *testing.T) {
	// "download" (network) appears alongside "file" (filesystem); network
	// rules are checked first.
	e := Classify("download of file interrupted")

	assert.Equal(t, CategoryNetwork, e.Category)
}

func TestClassify_Error(t *testing.T) {
	e := Classify(errors.New("connection refused"))

	assert.Equal(t, "other", e.Kind)
	assert.Equal(t, "connection refused", e.Message)
	assert.Equal(t, CategoryNetwork, e.Category)
}

func TestClassify_MapWithType(t *testing.T) {
	e := Classify(map[string]any{
		"type":    "device_not_connected",
		"message": "no device",
	})

	assert.Equal(t, "device_not_connected", e.Kind)
	assert.Equal(t, "no device", e.Message)
	assert.Equal(t, CategoryUnknown, e.Category, "typed objects are not keyword-sniffed")
}

func TestClassify_MapWithTypeAndCategory(t *testing.T) {
	e := Classify(map[string]any{
		"type":        "da_mismatch",
		"message":     "wrong agent",
		"category":    "Command",
		"native_code": "0xC0020003",
		"raw_output":  "ERROR: DA hash mismatch",
	})

	assert.Equal(t, CategoryCommand, e.Category)
	assert.Equal(t, "0xC0020003", e.NativeCode)
	assert.Equal(t, "ERROR: DA hash mismatch", e.RawOutput)
}

func TestClassify_MapMessageOnly(t *testing.T) {
	e := Classify(map[string]any{"message": "permission denied"})

	assert.Equal(t, "other", e.Kind)
	assert.Equal(t, CategoryPermission, e.Category)
}

func TestClassify_OpaqueValue(t *testing.T) {
	e := Classify(struct {
		Status int `json:"status"`
	}{Status: 7})

	assert.Equal(t, "other", e.Kind)
	assert.Equal(t, `{"status":7}`, e.Message)
}

func TestClassify_FillsSuggestion(t *testing.T) {
	e := Classify("Network timeout while connecting")

	assert.Equal(t, SuggestionFor(CategoryNetwork), e.Suggestion)

	e = Classify("something odd")
	assert.Empty(t, e.Suggestion, "unknown category has no suggestion")
}

func TestStructuredError_Error(t *testing.T) {
	assert.Equal(t, "device_not_connected: no device", (&StructuredError{
		Kind:    "device_not_connected",
		Message: "no device",
	}).Error())

	assert.Equal(t, "plain message", (&StructuredError{
		Kind:    "other",
		Message: "plain message",
	}).Error())
}
