// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
)

const (
	minViewportWidth  = 20
	minViewportHeight = 3
	// chromeLines is the space the title, operation line, progress bar and
	// help text take around the log viewport.
	chromeLines = 8
)

// OutputMsg tells the model new log output landed in the registry.
type OutputMsg struct{}

// CompleteMsg tells the model the operation finished.
type CompleteMsg struct {
	Success bool
	Error   string
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Subject lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Subject: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13")),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

// Model is the bubbletea model for the operation view.
type Model struct {
	registry *oplog.Registry
	viewport viewport.Model
	progress progress.Model
	styles   *Styles

	width     int
	height    int
	ready     bool
	quitting  bool
	completed bool
	failed    bool
	errText   string
}

// NewModel creates a model reading from the given registry.
func NewModel(registry *oplog.Registry) *Model {
	return &Model{
		registry: registry,
		progress: progress.New(progress.WithDefaultGradient()),
		styles:   NewStyles(),
	}
}

// levelStyle maps a log level to its display style.
func (m *Model) levelStyle(level oplog.Level) lipgloss.Style {
	switch level {
	case oplog.LevelSuccess:
		return m.styles.Success
	case oplog.LevelWarning:
		return m.styles.Warning
	case oplog.LevelError:
		return m.styles.Error
	default:
		return m.styles.Info
	}
}

// renderLog builds the viewport content from the registry's entries.
func (m *Model) renderLog() string {
	var b strings.Builder

	for _, e := range m.registry.Entries() {
		style := m.levelStyle(e.Level)
		b.WriteString(e.Timestamp.Format("15:04:05"))
		b.WriteString(" ")
		b.WriteString(style.Render(e.Message))
		b.WriteString("\n")
	}

	return b.String()
}

// renderHeader builds the operation summary line.
func (m *Model) renderHeader() string {
	op, ok := m.registry.Operation()
	if !ok {
		return m.styles.Info.Render("waiting for operation")
	}

	var state string

	switch {
	case op.Running:
		state = m.styles.Warning.Render("running")
	case op.Err != "":
		state = m.styles.Error.Render("failed: " + op.Err)
	default:
		state = m.styles.Success.Render("done")
	}

	subject := op.Subject
	if op.SubjectSize != "" {
		subject = fmt.Sprintf("%s (%s)", op.Subject, op.SubjectSize)
	}

	return fmt.Sprintf("%s %s %s", op.Kind.String(), m.styles.Subject.Render(subject), state)
}

// renderProgress builds the progress bar line, empty when no snapshot has
// been recorded.
func (m *Model) renderProgress() string {
	p, ok := m.registry.Progress()
	if !ok {
		return ""
	}

	bar := m.progress.ViewAs(p.Percentage / 100)

	if p.Total > 0 {
		return fmt.Sprintf("%s %d/%d", bar, p.Current, p.Total)
	}

	return bar
}

func (m *Model) viewportSize() (int, int) {
	w := m.width - 2
	if w < minViewportWidth {
		w = minViewportWidth
	}

	h := m.height - chromeLines
	if h < minViewportHeight {
		h = minViewportHeight
	}

	return w, h
}
