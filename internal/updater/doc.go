// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package updater keeps the flasher binary current from GitHub releases.
// Checking compares the installed binary's sha256 against the published
// checksum before falling back to version strings; installing downloads
// through go-getter with checksum verification and replaces the binary
// atomically.
package updater
