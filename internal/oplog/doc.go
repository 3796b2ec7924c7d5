// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package oplog owns the state of the single tracked flashing operation:
// the operation descriptor itself, its ordered log of output lines, and the
// most recent progress snapshot. The registry is the sole writer of this
// state; the event listener and the operation launcher are its only
// intended callers.
//
// The log is bounded (oldest entries are evicted first) and suppresses a
// line that repeats the immediately preceding one within a short window,
// which keeps in-place progress-bar redraws from flooding the buffer.
package oplog
