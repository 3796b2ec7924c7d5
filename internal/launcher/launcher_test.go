// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launcher

import (
	"context"
	"errors"
	"testing"

	"github.com/matt-FFFFFF/penumbra/internal/apperr"
	"github.com/matt-FFFFFF/penumbra/internal/notify"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	notifications []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.notifications = append(r.notifications, n)
}

func newTestLauncher() (*Launcher, *oplog.Registry, *recordingNotifier) {
	registry := oplog.NewRegistry(oplog.WithDedupWindow(0))
	notifier := &recordingNotifier{}

	return New(registry, apperr.NewHandler(registry, notifier)), registry, notifier
}

func TestExecute_Success(t *testing.T) {
	l, registry, notifier := newTestLauncher()

	var gotID string
	outcome := l.Execute(context.Background(), Spec{
		Label:   "Read nvram",
		Kind:    oplog.KindRead,
		Subject: "nvram",
		Run: func(_ context.Context, id string) error {
			gotID = id
			return nil
		},
	})

	assert.True(t, outcome.Success)
	assert.NotEmpty(t, outcome.OperationID)
	assert.Equal(t, outcome.OperationID, gotID, "Run receives the outcome's id")

	op, ok := registry.Operation()
	require.True(t, ok)
	assert.False(t, op.Running)
	assert.Empty(t, op.Err)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, notify.SeveritySuccess, notifier.notifications[0].Severity)
	assert.Contains(t, notifier.notifications[0].Message, "Read nvram completed")
}

func TestExecute_CallerSuppliedID(t *testing.T) {
	l, registry, _ := newTestLauncher()

	outcome := l.Execute(context.Background(), Spec{
		Label:       "Write boot_a",
		Kind:        oplog.KindWrite,
		Subject:     "boot_a",
		OperationID: "op-fixed",
		Run:         func(context.Context, string) error { return nil },
	})

	assert.Equal(t, "op-fixed", outcome.OperationID)

	op, _ := registry.Operation()
	assert.Equal(t, "op-fixed", op.ID)
}

func TestExecute_Failure(t *testing.T) {
	l, registry, notifier := newTestLauncher()

	outcome := l.Execute(context.Background(), Spec{
		Label:   "Erase cache",
		Kind:    oplog.KindErase,
		Subject: "cache",
		Run: func(context.Context, string) error {
			return errors.New("device lost")
		},
	})

	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.OperationID, "failures still carry the id")

	op, _ := registry.Operation()
	assert.False(t, op.Running)
	assert.Equal(t, "device lost", op.Err)

	require.NotEmpty(t, notifier.notifications)
	assert.Equal(t, notify.SeverityError, notifier.notifications[0].Severity)
}

func TestExecute_PanicBecomesFailure(t *testing.T) {
	l, registry, _ := newTestLauncher()

	outcome := l.Execute(context.Background(), Spec{
		Label: "Format userdata",
		Kind:  oplog.KindFormat,
		Run: func(context.Context, string) error {
			panic("pipe broke")
		},
	})

	assert.False(t, outcome.Success)

	op, _ := registry.Operation()
	assert.Contains(t, op.Err, "pipe broke")
}

func TestExecute_NilRun(t *testing.T) {
	l, registry, _ := newTestLauncher()

	outcome := l.Execute(context.Background(), Spec{Label: "broken"})

	assert.False(t, outcome.Success)

	_, ok := registry.Operation()
	assert.False(t, ok, "a spec without work never starts an operation")
}

func TestExecute_ClearLogsFirst(t *testing.T) {
	l, registry, _ := newTestLauncher()
	registry.AddLog(oplog.Entry{Message: "stale line"})

	l.Execute(context.Background(), Spec{
		Label:          "Read nvram",
		Kind:           oplog.KindRead,
		ClearLogsFirst: true,
		Run:            func(context.Context, string) error { return nil },
	})

	for _, e := range registry.Entries() {
		assert.NotEqual(t, "stale line", e.Message)
	}
}

func TestExecute_OnStartOrder(t *testing.T) {
	l, registry, _ := newTestLauncher()

	var sawOperation bool
	l.Execute(context.Background(), Spec{
		Label: "Read nvram",
		Kind:  oplog.KindRead,
		OnStart: func(id string) {
			assert.NotEmpty(t, id)
			_, sawOperation = registry.Operation()
		},
		Run: func(context.Context, string) error { return nil },
	})

	assert.False(t, sawOperation, "OnStart runs before the registry starts tracking")
}

func TestExecute_QuietSuccess(t *testing.T) {
	l, _, notifier := newTestLauncher()

	outcome := l.Execute(context.Background(), Spec{
		Label:        "Read nvram",
		Kind:         oplog.KindRead,
		QuietSuccess: true,
		Run:          func(context.Context, string) error { return nil },
	})

	assert.True(t, outcome.Success)
	assert.Empty(t, notifier.notifications, "QuietSuccess suppresses the notification")
}

func TestExecute_ShowLog(t *testing.T) {
	l, registry, _ := newTestLauncher()

	l.Execute(context.Background(), Spec{
		Label:   "Read nvram",
		Kind:    oplog.KindRead,
		ShowLog: true,
		Run:     func(context.Context, string) error { return nil },
	})

	entries := registry.Entries()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[0].Message, "Starting Read nvram")
}
