// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package oplog

import (
	"time"
)

// Kind identifies the type of work an operation performs against the device.
type Kind int

const (
	// KindRead dumps a partition from the device to a local file.
	KindRead Kind = iota
	// KindWrite flashes a local image to a device partition.
	KindWrite
	// KindFormat formats a device partition.
	KindFormat
	// KindErase erases a device partition.
	KindErase
	// KindComposite is a multi-step batch such as a full backup.
	KindComposite
)

// String implements the Stringer interface for Kind.
func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindFormat:
		return "format"
	case KindErase:
		return "erase"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// Level is the severity of a log entry.
type Level int

const (
	// LevelInfo is ordinary output.
	LevelInfo Level = iota
	// LevelSuccess indicates a completed step.
	LevelSuccess
	// LevelWarning indicates a recoverable problem.
	LevelWarning
	// LevelError indicates a failure.
	LevelError
)

// String implements the Stringer interface for Level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is one line in the operation log.
type Entry struct {
	ID        string    // Unique entry id, generated on append when absent
	Timestamp time.Time // When the line was produced, not when it was received
	Level     Level     // Severity of the line
	Message   string    // The line itself
	Subject   string    // Partition name the line relates to, if known
}

// Progress is a point-in-time progress snapshot for the current operation.
// Snapshots replace each other wholesale; there is no merging.
type Progress struct {
	Current    int64   // Units completed so far
	Total      int64   // Total units, zero when unknown
	Percentage float64 // 0..100
	Subject    string  // Partition name being processed
	Kind       Kind    // Operation kind the snapshot belongs to
}

// Operation describes the single tracked unit of work.
type Operation struct {
	Kind        Kind      // What the operation does
	Subject     string    // Partition name or batch description
	SubjectSize string    // Size hint for the subject, e.g. "0x00400000"
	ID          string    // Opaque token correlating streamed events with this operation
	Running     bool      // True from Start until Finish
	Streaming   bool      // True while further output events are expected
	StartedAt   time.Time // When the operation started
	Err         string    // Terminal error message, empty on success or while running
}
