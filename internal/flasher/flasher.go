// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package flasher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/matt-FFFFFF/penumbra/internal/events"
)

const (
	// DefaultInactivityTimeout is how long the process may stay silent
	// before it is killed.
	DefaultInactivityTimeout = 30 * time.Second
	// DefaultBinaryName is the flasher binary looked up when no explicit
	// path is configured.
	DefaultBinaryName = "antumbra"
)

var (
	// ErrBinaryNotFound is returned when the flasher binary cannot be
	// resolved.
	ErrBinaryNotFound = errors.New("flasher binary not found")
	// ErrSpawn is returned when the process cannot be started.
	ErrSpawn = errors.New("failed to spawn flasher process")
	// ErrInactivityTimeout is returned when the process was killed for
	// producing no output.
	ErrInactivityTimeout = errors.New("flasher process timed out without output")
	// ErrCommandFailed is returned when the process exits non-zero.
	ErrCommandFailed = errors.New("flasher process failed")
	// ErrNoProcess is returned by Cancel when nothing is running.
	ErrNoProcess = errors.New("no flasher process is running")
)

// CommandInfo records the most recent invocation, for diagnostics.
type CommandInfo struct {
	Command    string
	Args       []string
	WorkingDir string
	StartedAt  time.Time
}

// Executor runs the flasher binary and publishes its output to the broker.
type Executor struct {
	mu         sync.Mutex
	binaryPath string
	workingDir string
	broker     *events.Broker
	inactivity time.Duration
	current    *os.Process
	lastCmd    *CommandInfo
}

// Option implements a functional options pattern for Executor.
type Option func(*Executor)

// WithBinaryPath fixes the flasher binary path, bypassing resolution.
func WithBinaryPath(path string) Option {
	return func(e *Executor) { e.binaryPath = path }
}

// WithWorkingDir overrides the process working directory.
func WithWorkingDir(dir string) Option {
	return func(e *Executor) { e.workingDir = dir }
}

// WithInactivityTimeout overrides the silence window after which the
// process is killed. Zero disables the watchdog.
func WithInactivityTimeout(d time.Duration) Option {
	return func(e *Executor) { e.inactivity = d }
}

// New resolves the flasher binary and returns an Executor publishing to
// the given broker.
func New(broker *events.Broker, opts ...Option) (*Executor, error) {
	e := &Executor{
		broker:     broker,
		inactivity: DefaultInactivityTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.binaryPath == "" {
		path, err := resolveBinary()
		if err != nil {
			return nil, err
		}

		e.binaryPath = path
	}

	if e.workingDir == "" {
		e.workingDir = workingDirFor(e.binaryPath)
	}

	ensureExecutable(e.binaryPath)

	return e, nil
}

// BinaryPath returns the resolved flasher binary path.
func (e *Executor) BinaryPath() string {
	return e.binaryPath
}

// LastCommand returns the most recent invocation, if any.
func (e *Executor) LastCommand() (CommandInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lastCmd == nil {
		return CommandInfo{}, false
	}

	return *e.lastCmd, true
}

// Cancel kills the running flasher process, if any.
func (e *Executor) Cancel() error {
	e.mu.Lock()
	proc := e.current
	e.mu.Unlock()

	if proc == nil {
		return ErrNoProcess
	}

	if err := proc.Kill(); err != nil {
		return fmt.Errorf("failed to kill flasher process: %w", err)
	}

	return nil
}

// Version runs the binary with --version and returns the trimmed output.
func (e *Executor) Version(ctx context.Context) (string, error) {
	e.storeLastCommand([]string{"--version"})

	cmd := exec.CommandContext(ctx, e.binaryPath, "--version")
	cmd.Dir = e.workingDir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get flasher version: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

func (e *Executor) storeLastCommand(args []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastCmd = &CommandInfo{
		Command:    e.binaryPath,
		Args:       append([]string(nil), args...),
		WorkingDir: e.workingDir,
		StartedAt:  time.Now(),
	}
}

func (e *Executor) setCurrent(p *os.Process) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = p
}

// InstallPath is where updated flasher binaries are placed, under the
// user config dir. The directory is created on demand.
func InstallPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	binDir := filepath.Join(configDir, "penumbra", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create flasher bin directory: %w", err)
	}

	return filepath.Join(binDir, binaryName()), nil
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return DefaultBinaryName + ".exe"
	}

	return DefaultBinaryName
}

// resolveBinary finds the flasher: the managed install location first,
// then PATH.
func resolveBinary() (string, error) {
	if installed, err := InstallPath(); err == nil {
		if _, statErr := os.Stat(installed); statErr == nil {
			return installed, nil
		}
	}

	if path, err := exec.LookPath(DefaultBinaryName); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%w: %s is not installed and not on PATH", ErrBinaryNotFound, DefaultBinaryName)
}

// workingDirFor prefers the binary's own directory when writable, since
// the tool drops auxiliary files next to itself.
func workingDirFor(binaryPath string) string {
	dir := filepath.Dir(binaryPath)
	if dirWritable(dir) {
		return dir
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		workDir := filepath.Join(configDir, "penumbra")
		if os.MkdirAll(workDir, 0o755) == nil {
			return workDir
		}
	}

	return os.TempDir()
}

func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".penumbra-write-test-*")
	if err != nil {
		return false
	}

	name := f.Name()
	f.Close()         //nolint:errcheck
	os.Remove(name)   //nolint:errcheck

	return true
}

func ensureExecutable(path string) {
	if runtime.GOOS == "windows" {
		return
	}

	os.Chmod(path, 0o755) //nolint:errcheck
}
