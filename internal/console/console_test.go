// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package console

import (
	"bytes"
	"context"
	"testing"

	"github.com/matt-FFFFFF/penumbra/internal/app"
	"github.com/matt-FFFFFF/penumbra/internal/events"
	"github.com/matt-FFFFFF/penumbra/internal/launcher"
	"github.com/matt-FFFFFF/penumbra/internal/notify"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/matt-FFFFFF/penumbra/internal/settings"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()

	a, err := app.New(context.Background(),
		app.WithFs(afero.NewMemMapFs()),
		app.WithNotifier(notify.Null{}),
		app.WithSettings(settings.Default()),
	)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return a
}

func TestRunPlain_StreamsOutputToWriters(t *testing.T) {
	a := newTestApp(t)

	var stdout, stderr bytes.Buffer

	outcome := runPlain(context.Background(), a, launcher.Spec{
		Label:   "Read boot_a",
		Kind:    oplog.KindRead,
		Subject: "boot_a",
		Run: func(ctx context.Context, id string) error {
			a.Broker.PublishOutput(events.OutputEvent{OperationID: id, Line: "reading boot_a"})
			a.Broker.PublishOutput(events.OutputEvent{OperationID: id, Line: "short read", IsStderr: true})

			return nil
		},
	}, &stdout, &stderr)

	assert.True(t, outcome.Success)
	assert.Contains(t, stdout.String(), "reading boot_a")
	assert.Contains(t, stderr.String(), "short read")
	assert.NotContains(t, stdout.String(), "short read", "stderr lines keep their channel")
}

func TestRunPlain_FailureOutcome(t *testing.T) {
	a := newTestApp(t)

	var stdout, stderr bytes.Buffer

	outcome := runPlain(context.Background(), a, launcher.Spec{
		Label:   "Erase nvram",
		Kind:    oplog.KindErase,
		Subject: "nvram",
		Run: func(context.Context, string) error {
			return assert.AnError
		},
	}, &stdout, &stderr)

	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.OperationID)
}
