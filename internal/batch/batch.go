// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch runs a series of per-partition operations, such as a full
// device backup. Units run serially through the launcher with success
// notifications suppressed; a failing unit is recorded and the batch moves
// on to the next one. Cancelling the context stops the batch between
// units.
package batch

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
)

// Unit is one partition-sized piece of a batch.
type Unit struct {
	// Subject is the partition name.
	Subject string
	// Run does the work for this unit. Receives the unit's operation id.
	Run func(ctx context.Context, operationID string) error
}

// Summary is the result of a batch run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	// Err aggregates per-unit failures, nil when every unit succeeded.
	Err error
}

// Runner executes batches through a launcher.
type Runner struct {
	launcher *launcher.Launcher
}

// NewRunner creates a Runner.
func NewRunner(l *launcher.Launcher) *Runner {
	return &Runner{launcher: l}
}

// Run executes the units serially. Units whose subject is in skip are not
// run; a failed unit does not stop the ones after it. label prefixes each
// unit's operation label, e.g. "Backup" yields "Backup boot_a".
func (r *Runner) Run(ctx context.Context, label string, kind oplog.Kind, units []Unit, skip []string) Summary {
	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[s] = struct{}{}
	}

	summary := Summary{Total: len(units)}

	var errs *multierror.Error

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("batch aborted: %w", err))
			break
		}

		if _, ok := skipSet[unit.Subject]; ok {
			summary.Skipped++
			continue
		}

		outcome := r.launcher.Execute(ctx, launcher.Spec{
			Label:        fmt.Sprintf("%s %s", label, unit.Subject),
			Kind:         kind,
			Subject:      unit.Subject,
			QuietSuccess: true,
			Run:          unit.Run,
		})

		if !outcome.Success {
			summary.Failed++
			errs = multierror.Append(errs, fmt.Errorf("%s %s failed", label, unit.Subject))

			continue
		}

		summary.Succeeded++
	}

	summary.Err = errs.ErrorOrNil()

	return summary
}
