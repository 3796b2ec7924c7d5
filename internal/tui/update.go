// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		w, h := m.viewportSize()
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width = w
			m.viewport.Height = h
		}

		m.progress.Width = w

		m.syncLog()

		return m, nil

	case OutputMsg:
		m.syncLog()
		return m, nil

	case CompleteMsg:
		m.completed = true
		m.failed = !msg.Success
		m.errText = msg.Error
		m.syncLog()

		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

// syncLog refreshes the viewport from the registry and keeps it pinned to
// the newest output.
func (m *Model) syncLog() {
	if !m.ready {
		return
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderLog())

	if atBottom {
		m.viewport.GotoBottom()
	}
}

// handleKeyPress processes keyboard input. Scrolling keys fall through to
// the viewport.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "initializing..."
	}

	var view strings.Builder

	view.WriteString(m.styles.Title.Render("Penumbra"))
	view.WriteString("\n")
	view.WriteString(m.renderHeader())
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))
	view.WriteString("\n")

	if bar := m.renderProgress(); bar != "" {
		view.WriteString(bar)
		view.WriteString("\n")
	}

	if m.completed {
		if m.failed {
			view.WriteString(m.styles.Error.Render("Operation failed"))
		} else {
			view.WriteString(m.styles.Success.Render("Operation completed"))
		}

		view.WriteString("\n")
	}

	helpText := "↑/↓ to scroll, q to quit"
	if m.completed {
		helpText = "q to return to the terminal"
	}

	view.WriteString(m.styles.Help.Render(helpText))

	return view.String()
}
