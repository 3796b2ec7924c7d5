// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package events carries the push-style event stream between the flasher
// executor and its consumers. The broker fans output-line and completion
// events out to cancellable, buffered subscriptions; publishing never
// blocks, a full subscriber simply misses the event.
//
// The listener is the engine-side consumer: it feeds every output line and
// the terminal completion into the operation registry.
package events
