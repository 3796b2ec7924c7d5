// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui renders a live view of the current operation: a scrolling
// log panel and a progress bar, both fed from the operation registry. The
// TUI is a passive consumer; it never mutates operation state.
package tui
