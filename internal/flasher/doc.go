// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package flasher drives the external antumbra binary. The executor spawns
// the tool with piped output, splits the streams into lines (carriage
// returns included, so in-place progress bars surface as lines), publishes
// every new line as an output event and a single completion event when the
// process ends.
//
// A process that produces no output for the inactivity window is killed and
// reported as a failed completion.
package flasher
