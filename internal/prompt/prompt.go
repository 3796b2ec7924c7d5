// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt asks the user for interactive confirmation before
// destructive flashing operations. Ctrl-C during the prompt counts as a
// refusal, not an error.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peterh/liner"
)

// ErrPrompt is returned when the confirmation prompt cannot be read.
var ErrPrompt = errors.New("failed to read confirmation")

// Confirm asks a yes/no question on the terminal, defaulting to no.
func Confirm(question string) (bool, error) {
	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck

	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(question + " [y/N]: ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return false, nil
		}

		return false, fmt.Errorf("%w: %w", ErrPrompt, err)
	}

	return Affirmative(answer), nil
}

// Affirmative reports whether an answer means yes.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
