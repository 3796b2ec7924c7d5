// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package flasher

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
	"github.com/matt-FFFFFF/penumbra/internal/events"
)

// ExecuteStreaming runs the flasher with the given args, publishing each
// output line and a terminal completion event tagged with operationID. It
// returns the collected stdout lines joined with newlines.
func (e *Executor) ExecuteStreaming(ctx context.Context, operationID string, args []string) (string, error) {
	e.storeLastCommand(args)

	ctxlog.Info(ctx, "executing flasher",
		"binary", e.binaryPath,
		"args", strings.Join(args, " "),
		"working_dir", e.workingDir,
	)

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	cmd.Dir = e.workingDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	e.setCurrent(cmd.Process)
	defer e.setCurrent(nil)

	var lastOutput atomic.Int64
	lastOutput.Store(time.Now().UnixMilli())

	// One dedup set shared across stdout and stderr for the whole run:
	// the tool interleaves identical status lines on both streams.
	seen := &seenLines{lines: make(map[string]struct{})}

	var (
		stdoutLines, stderrLines []string
		linesMu                  sync.Mutex
		wg                       sync.WaitGroup
	)

	collect := func(r io.Reader, isStderr bool, sink *[]string) {
		defer wg.Done()

		e.streamLines(r, operationID, isStderr, seen, &lastOutput, func(line string) {
			linesMu.Lock()
			defer linesMu.Unlock()

			*sink = append(*sink, line)
		})
	}

	wg.Add(2)

	go collect(stdout, false, &stdoutLines)
	go collect(stderr, true, &stderrLines)

	timedOut := e.watchInactivity(ctx, cmd, operationID, &lastOutput, &wg)

	wg.Wait()
	waitErr := cmd.Wait()

	if timedOut.Load() {
		// The watchdog already published the failed completion.
		return "", fmt.Errorf("%w: no output for %s", ErrInactivityTimeout, e.inactivity)
	}

	linesMu.Lock()
	stdoutText := strings.Join(stdoutLines, "\n")
	stderrText := strings.Join(stderrLines, "\n")
	linesMu.Unlock()

	if waitErr != nil {
		errText := stderrText
		if errText == "" {
			errText = waitErr.Error()
		}

		e.broker.PublishComplete(events.CompleteEvent{
			OperationID: operationID,
			Success:     false,
			Error:       errText,
		})

		return "", fmt.Errorf("%w: %s", ErrCommandFailed, errText)
	}

	e.broker.PublishComplete(events.CompleteEvent{
		OperationID: operationID,
		Success:     true,
	})

	return stdoutText, nil
}

// watchInactivity kills the process when no output arrives within the
// inactivity window. The returned flag is set when the watchdog fired.
// The watchdog stops on its own once both stream readers finish.
func (e *Executor) watchInactivity(ctx context.Context, cmd *exec.Cmd, operationID string, lastOutput *atomic.Int64, readers *sync.WaitGroup) *atomic.Bool {
	fired := &atomic.Bool{}

	if e.inactivity <= 0 {
		return fired
	}

	done := make(chan struct{})

	go func() {
		readers.Wait()
		close(done)
	}()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				silence := time.Duration(time.Now().UnixMilli()-lastOutput.Load()) * time.Millisecond
				if silence <= e.inactivity {
					continue
				}

				fired.Store(true)

				ctxlog.Warn(ctx, "killing flasher after inactivity",
					"silence", silence.String(),
				)

				cmd.Process.Kill() //nolint:errcheck

				e.broker.PublishComplete(events.CompleteEvent{
					OperationID: operationID,
					Success:     false,
					Error:       fmt.Sprintf("flasher produced no output for %s", e.inactivity),
				})

				return
			}
		}
	}()

	return fired
}

// streamLines reads r to EOF, splitting on both newlines and carriage
// returns, and hands every new non-empty line to emit after publishing it.
func (e *Executor) streamLines(r io.Reader, operationID string, isStderr bool, seen *seenLines, lastOutput *atomic.Int64, emit func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanCRLFLines)

	for scanner.Scan() {
		lastOutput.Store(time.Now().UnixMilli())

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !seen.add(line) {
			continue
		}

		emit(line)

		e.broker.PublishOutput(events.OutputEvent{
			OperationID: operationID,
			Line:        line,
			Timestamp:   time.Now(),
			IsStderr:    isStderr,
		})
	}
}

// scanCRLFLines is a bufio.SplitFunc that treats both '\n' and '\r' as
// line terminators, so in-place progress bar updates become lines.
func scanCRLFLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// seenLines is the per-run exact-duplicate suppressor.
type seenLines struct {
	mu    sync.Mutex
	lines map[string]struct{}
}

// add records the line, reporting whether it was new.
func (s *seenLines) add(line string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[line]; ok {
		return false
	}

	s.lines[line] = struct{}{}

	return true
}
