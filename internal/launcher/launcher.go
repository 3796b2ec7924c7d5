// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package launcher runs one tracked operation from start to finish. It owns
// the registry lifecycle around the work function and guarantees the caller
// a result: Execute never panics and never returns an error, failures are
// classified, surfaced and folded into the Outcome.
package launcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/penumbra/internal/apperr"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
)

// Spec describes one operation to execute.
type Spec struct {
	// Label names the operation in user-facing messages, e.g. "Read nvram".
	Label string
	// Kind is the operation kind recorded in the registry.
	Kind oplog.Kind
	// Subject is the partition name or batch description.
	Subject string
	// SubjectSize is an optional size hint for the subject.
	SubjectSize string
	// OperationID correlates streamed events with this operation. When
	// empty a fresh id is generated.
	OperationID string
	// ClearLogsFirst wipes the accumulated operation log before starting.
	ClearLogsFirst bool
	// ShowLog surfaces a starting line on the console and operation log.
	ShowLog bool
	// QuietSuccess suppresses the success notification, for batch callers
	// that report once at the end.
	QuietSuccess bool
	// OnStart runs after the id is fixed but before the registry starts
	// tracking. Optional.
	OnStart func(operationID string)
	// Run does the work. It receives the same operation id the registry
	// tracks. Required.
	Run func(ctx context.Context, operationID string) error
}

// Outcome is the result of an execution. Success is the only failure
// signal; Execute returns no error.
type Outcome struct {
	OperationID string
	Success     bool
}

// Launcher executes operation specs against a registry and error handler.
type Launcher struct {
	registry *oplog.Registry
	handler  *apperr.Handler
}

// New creates a Launcher.
func New(registry *oplog.Registry, handler *apperr.Handler) *Launcher {
	return &Launcher{
		registry: registry,
		handler:  handler,
	}
}

// Execute runs the spec. The returned operation id always equals the id the
// Run function received. A nil Run fails the operation without starting it.
func (l *Launcher) Execute(ctx context.Context, spec Spec) Outcome {
	id := spec.OperationID
	if id == "" {
		id = uuid.NewString()
	}

	outcome := Outcome{OperationID: id}

	if spec.Run == nil {
		l.handler.Handle(ctx, "operation has no work function", spec.Label)

		return outcome
	}

	if spec.ClearLogsFirst {
		l.registry.ClearLogs()
	}

	if spec.OnStart != nil {
		spec.OnStart(id)
	}

	l.registry.Start(spec.Kind, spec.Subject, spec.SubjectSize, id)

	if spec.ShowLog {
		l.handler.Info(ctx, fmt.Sprintf("Starting %s", spec.Label))
	}

	err := runRecovered(ctx, spec.Run, id)
	if err != nil {
		e := l.handler.Handle(ctx, err, spec.Label)
		l.registry.Finish(false, e.Message)

		return outcome
	}

	if !spec.QuietSuccess {
		l.handler.Success(ctx, fmt.Sprintf("%s completed", spec.Label))
	}

	l.registry.Finish(true, "")
	outcome.Success = true

	return outcome
}

// runRecovered converts a panic in the work function into an error so a
// misbehaving executor cannot unwind through Execute.
func runRecovered(ctx context.Context, run func(context.Context, string) error, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()

	return run(ctx, id)
}
