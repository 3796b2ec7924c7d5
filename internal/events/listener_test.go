// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package events

import (
	"context"
	"testing"
	"time"

	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		isStderr bool
		expected oplog.Level
	}{
		{"plain stdout", "Reading partition table", false, oplog.LevelInfo},
		{"plain stderr", "progress tick", true, oplog.LevelError},
		{"error keyword", "ERROR: handshake rejected", false, oplog.LevelError},
		{"failed keyword", "download failed", false, oplog.LevelError},
		{"warning keyword", "Warning: slow transfer", false, oplog.LevelWarning},
		{"success keyword", "upload success", false, oplog.LevelSuccess},
		{"complete keyword", "format complete", false, oplog.LevelSuccess},
		{"found keyword", "found 42 partitions", false, oplog.LevelSuccess},
		{"error beats stderr default", "error on stderr", true, oplog.LevelError},
		{"success on stderr wins over stderr default", "handshake complete", true, oplog.LevelSuccess},
		{"error beats success", "error: completion failed", false, oplog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyLine(tt.line, tt.isStderr))
		})
	}
}

func TestListener_FeedsRegistry(t *testing.T) {
	broker := NewBroker()
	registry := oplog.NewRegistry(oplog.WithDedupWindow(0))
	l := NewListener(broker, registry)

	l.Attach(context.Background())
	defer l.Close()

	registry.Start(oplog.KindRead, "nvram", "", "op-1")

	broker.PublishOutput(OutputEvent{OperationID: "op-1", Line: "Reading nvram", Timestamp: time.Now()})
	broker.PublishOutput(OutputEvent{OperationID: "op-1", Line: "ERROR: short read", Timestamp: time.Now(), IsStderr: true})

	require.Eventually(t, func() bool {
		return len(registry.Entries()) == 2
	}, time.Second, 5*time.Millisecond)

	entries := registry.Entries()
	assert.Equal(t, oplog.LevelInfo, entries[0].Level)
	assert.Equal(t, oplog.LevelError, entries[1].Level)
}

func TestListener_ProgressFromOutput(t *testing.T) {
	broker := NewBroker()
	registry := oplog.NewRegistry()
	l := NewListener(broker, registry)

	l.Attach(context.Background())
	defer l.Close()

	registry.Start(oplog.KindWrite, "boot_a", "", "op-1")

	broker.PublishOutput(OutputEvent{OperationID: "op-1", Line: "[====>    ] 42% 4300/10240 KiB"})

	require.Eventually(t, func() bool {
		_, ok := registry.Progress()
		return ok
	}, time.Second, 5*time.Millisecond)

	p, _ := registry.Progress()
	assert.Equal(t, float64(42), p.Percentage)
	assert.Equal(t, int64(4300), p.Current)
	assert.Equal(t, int64(10240), p.Total)
	assert.Equal(t, "boot_a", p.Subject)
	assert.Equal(t, oplog.KindWrite, p.Kind)
}

func TestListener_CompletionWithoutIDCheck(t *testing.T) {
	// A completion finishes whatever operation is current even when its
	// operation id differs. This mirrors the long-standing behavior the
	// rest of the engine is built around.
	broker := NewBroker()
	registry := oplog.NewRegistry()
	l := NewListener(broker, registry)

	l.Attach(context.Background())
	defer l.Close()

	registry.Start(oplog.KindErase, "cache", "", "op-current")

	broker.PublishComplete(CompleteEvent{OperationID: "op-stale", Success: false, Error: "device lost"})

	require.Eventually(t, func() bool {
		op, ok := registry.Operation()
		return ok && !op.Running
	}, time.Second, 5*time.Millisecond)

	op, _ := registry.Operation()
	assert.False(t, op.Streaming)
	assert.Equal(t, "device lost", op.Err)
	assert.Equal(t, "op-current", op.ID)
}

func TestListener_AttachIdempotent(t *testing.T) {
	broker := NewBroker()
	registry := oplog.NewRegistry()
	l := NewListener(broker, registry)

	l.Attach(context.Background())
	l.Attach(context.Background())

	assert.Equal(t, StateSubscribed, l.State())

	l.Close()

	assert.Equal(t, StateUnsubscribed, l.State())
}

func TestListener_CloseWithoutAttach(t *testing.T) {
	l := NewListener(NewBroker(), oplog.NewRegistry())
	l.Close()
}

func TestParseProgress(t *testing.T) {
	l := NewListener(NewBroker(), oplog.NewRegistry())

	tests := []struct {
		name    string
		line    string
		ok      bool
		percent float64
	}{
		{"bare percent", "50%", true, 50},
		{"decimal percent", "12.5% done", true, 12},
		{"no percent", "Reading partition", false, 0},
		{"over 100 rejected", "42949%", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := l.parseProgress(tt.line)

			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.percent, p.Percentage)
			}
		})
	}
}
