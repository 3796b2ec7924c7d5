// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (*Model, *oplog.Registry) {
	t.Helper()

	registry := oplog.NewRegistry(oplog.WithDedupWindow(0))
	m := NewModel(registry)

	// Simulate the initial window size so the viewport exists.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	model, ok := updated.(*Model)
	require.True(t, ok)

	return model, registry
}

func TestModel_LevelStyle(t *testing.T) {
	m := NewModel(oplog.NewRegistry())

	assert.Equal(t, m.styles.Info, m.levelStyle(oplog.LevelInfo))
	assert.Equal(t, m.styles.Success, m.levelStyle(oplog.LevelSuccess))
	assert.Equal(t, m.styles.Warning, m.levelStyle(oplog.LevelWarning))
	assert.Equal(t, m.styles.Error, m.levelStyle(oplog.LevelError))
}

func TestModel_RenderLogIncludesEntries(t *testing.T) {
	m, registry := newTestModel(t)

	registry.Start(oplog.KindRead, "boot_a", "", "op-1")
	registry.AddLog(oplog.Entry{
		Timestamp: time.Date(2025, 6, 1, 10, 30, 45, 0, time.UTC),
		Level:     oplog.LevelInfo,
		Message:   "Reading partition boot_a",
	})

	log := m.renderLog()

	assert.Contains(t, log, "10:30:45")
	assert.Contains(t, log, "Reading partition boot_a")
}

func TestModel_RenderHeader(t *testing.T) {
	m, registry := newTestModel(t)

	assert.Contains(t, m.renderHeader(), "waiting for operation")

	registry.Start(oplog.KindRead, "boot_a", "0x04000000", "op-1")

	header := m.renderHeader()
	assert.Contains(t, header, "read")
	assert.Contains(t, header, "boot_a")
	assert.Contains(t, header, "0x04000000")
	assert.Contains(t, header, "running")

	registry.Finish(false, "device disconnected")

	header = m.renderHeader()
	assert.Contains(t, header, "failed")
	assert.Contains(t, header, "device disconnected")
}

func TestModel_RenderProgress(t *testing.T) {
	m, registry := newTestModel(t)

	assert.Empty(t, m.renderProgress(), "no snapshot yet")

	registry.Start(oplog.KindRead, "boot_a", "", "op-1")
	registry.UpdateProgress(oplog.Progress{
		Current:    4300,
		Total:      10240,
		Percentage: 42,
		Subject:    "boot_a",
		Kind:       oplog.KindRead,
	})

	bar := m.renderProgress()
	require.NotEmpty(t, bar)
	assert.Contains(t, bar, "4300/10240")
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c", "esc"} {
		t.Run(key, func(t *testing.T) {
			m, _ := newTestModel(t)

			var msg tea.KeyMsg
			switch key {
			case "ctrl+c":
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			case "esc":
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			default:
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			}

			updated, cmd := m.Update(msg)

			model, ok := updated.(*Model)
			require.True(t, ok)
			assert.True(t, model.quitting)
			require.NotNil(t, cmd)
		})
	}
}

func TestModel_CompleteMsg(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(CompleteMsg{Success: false, Error: "flash failed"})

	model, ok := updated.(*Model)
	require.True(t, ok)
	assert.True(t, model.completed)
	assert.True(t, model.failed)
	assert.Equal(t, "flash failed", model.errText)
	assert.Contains(t, model.View(), "Operation failed")
}

func TestModel_ViewportSizeClamped(t *testing.T) {
	m := NewModel(oplog.NewRegistry())
	m.width = 5
	m.height = 4

	w, h := m.viewportSize()

	assert.Equal(t, minViewportWidth, w)
	assert.Equal(t, minViewportHeight, h)
}
