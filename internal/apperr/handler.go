// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package apperr

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
	"github.com/matt-FFFFFF/penumbra/internal/notify"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
)

// troubleshooting lists concrete recovery steps per category. Only the
// categories with device- or environment-specific remedies carry steps.
var troubleshooting = map[Category][]string{
	CategoryPermission: {
		"Run the application with elevated privileges",
		"Check that no other flashing tool is holding the device",
		"Verify the USB driver installation",
	},
	CategoryFilesystem: {
		"Verify that the path exists",
		"Check the available disk space",
		"Close other programs that may be using the file",
	},
	CategoryNetwork: {
		"Check your internet connection",
		"Verify proxy and firewall settings",
		"Retry in a few minutes",
	},
}

// handleConfig controls which surfaces a handled event reaches.
type handleConfig struct {
	notification bool
	console      bool
	operationLog bool
	message      string
}

// HandleOption tweaks surface visibility for a single Handle call.
type HandleOption func(*handleConfig)

// WithoutNotification suppresses the ephemeral notification.
func WithoutNotification() HandleOption {
	return func(c *handleConfig) { c.notification = false }
}

// WithoutConsole suppresses the console log line.
func WithoutConsole() HandleOption {
	return func(c *handleConfig) { c.console = false }
}

// WithoutOperationLog suppresses the operation-log entry.
func WithoutOperationLog() HandleOption {
	return func(c *handleConfig) { c.operationLog = false }
}

// WithMessage replaces the derived message on every surface.
func WithMessage(msg string) HandleOption {
	return func(c *handleConfig) { c.message = msg }
}

// Handler routes classified errors and status messages to the user
// surfaces. A nil notifier or registry disables the corresponding surface.
type Handler struct {
	registry *oplog.Registry
	notifier notify.Notifier
}

// NewHandler creates a Handler writing to the given registry and notifier.
func NewHandler(registry *oplog.Registry, notifier notify.Notifier) *Handler {
	return &Handler{
		registry: registry,
		notifier: notifier,
	}
}

// Handle classifies v and reports it as an error on all three surfaces.
// The label prefixes the derived message so the user knows which action
// failed. It returns the classified error for callers that propagate it.
func (h *Handler) Handle(ctx context.Context, v any, label string, opts ...HandleOption) *StructuredError {
	cfg := handleConfig{notification: true, console: true, operationLog: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := Classify(v)

	msg := cfg.message
	if msg == "" {
		msg = e.Message
		if label != "" {
			msg = fmt.Sprintf("%s: %s", label, e.Message)
		}
	}

	if cfg.console {
		ctxlog.Error(ctx, msg,
			"category", e.Category.String(),
			"kind", e.Kind,
		)

		if e.Suggestion != "" {
			ctxlog.Info(ctx, "suggestion", "suggestion", e.Suggestion)
		}
	}

	if cfg.notification && h.notifier != nil {
		text := msg
		if e.Suggestion != "" {
			text = fmt.Sprintf("%s\n%s", msg, e.Suggestion)
		}

		h.notifier.Notify(notify.Notification{
			Severity: notify.SeverityError,
			Message:  text,
			Duration: notify.DefaultDuration,
		})
	}

	if cfg.operationLog && h.registry != nil {
		h.registry.AddLog(oplog.Entry{
			Level:   oplog.LevelError,
			Message: msg,
		})

		for _, step := range troubleshooting[e.Category] {
			h.registry.AddLog(oplog.Entry{
				Level:   oplog.LevelInfo,
				Message: "  - " + step,
			})
		}
	}

	return e
}

// Success reports a completed action. By default it notifies, logs to the
// console and appends a success entry to the operation log.
func (h *Handler) Success(ctx context.Context, msg string, opts ...HandleOption) {
	h.report(ctx, notify.SeveritySuccess, oplog.LevelSuccess, msg,
		handleConfig{notification: true, console: true, operationLog: true}, opts)
}

// Info reports a neutral status line. By default it skips the notification
// surface; informational chatter is console and operation-log only.
func (h *Handler) Info(ctx context.Context, msg string, opts ...HandleOption) {
	h.report(ctx, notify.SeverityInfo, oplog.LevelInfo, msg,
		handleConfig{notification: false, console: true, operationLog: true}, opts)
}

// Warning reports a recoverable problem on all three surfaces.
func (h *Handler) Warning(ctx context.Context, msg string, opts ...HandleOption) {
	h.report(ctx, notify.SeverityWarning, oplog.LevelWarning, msg,
		handleConfig{notification: true, console: true, operationLog: true}, opts)
}

func (h *Handler) report(ctx context.Context, sev notify.Severity, level oplog.Level, msg string, cfg handleConfig, opts []HandleOption) {
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.message != "" {
		msg = cfg.message
	}

	if cfg.console {
		switch level {
		case oplog.LevelWarning:
			ctxlog.Warn(ctx, msg)
		default:
			ctxlog.Info(ctx, msg)
		}
	}

	if cfg.notification && h.notifier != nil {
		h.notifier.Notify(notify.Notification{
			Severity: sev,
			Message:  msg,
			Duration: notify.DefaultDuration,
		})
	}

	if cfg.operationLog && h.registry != nil {
		h.registry.AddLog(oplog.Entry{
			Level:   level,
			Message: msg,
		})
	}
}
