// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package apperr turns arbitrary failure values into structured errors with
// a category and an actionable suggestion, and routes them to the three user
// surfaces: notifications, the console log and the operation log.
//
// Classification never fails. Whatever shape the input has (a structured
// error, a plain error, a string, a decoded JSON object) Classify returns a
// usable StructuredError, falling back to the unknown category.
package apperr
