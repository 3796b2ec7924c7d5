// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
)

// Watch monitors the signal channel. The first signal of a type calls stop,
// which should ask the flasher to terminate the running command. The second
// signal of the same type cancels the context.
func Watch(ctx context.Context, sigCh chan os.Signal, stop func(), cancel context.CancelFunc) {
	sigMap := make(map[os.Signal]struct{})
	for sig := range sigCh {
		if _, ok := sigMap[sig]; ok {
			ctxlog.Logger(ctx).Info("watchdog", "detail", "received second signal of type, forcefully terminating", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Logger(ctx).Info("watchdog", "detail", "received first signal of type, stopping flasher", "signal", sig.String())

		if stop != nil {
			stop()
		}

		sigMap[sig] = struct{}{}
	}
}
