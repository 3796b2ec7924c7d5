// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package oplog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxEntries is the default bound on the operation log.
	DefaultMaxEntries = 10000
	// DefaultDedupWindow is the window within which a repeat of the previous
	// message is dropped.
	DefaultDedupWindow = 500 * time.Millisecond
)

// Registry owns the current operation, its log and its progress snapshot.
// All methods are safe for concurrent use, but the registry does not police
// concurrent operations: at most one operation should be running at a time,
// and starting a new one while another is running silently replaces it.
type Registry struct {
	mu          sync.Mutex
	op          *Operation
	entries     []Entry
	progress    *Progress
	maxEntries  int
	dedupWindow time.Duration
	now         func() time.Time
}

// RegistryOption implements a functional options pattern for Registry.
type RegistryOption func(*Registry)

// WithMaxEntries overrides the log bound.
func WithMaxEntries(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxEntries = n
		}
	}
}

// WithDedupWindow overrides the duplicate-suppression window.
func WithDedupWindow(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d >= 0 {
			r.dedupWindow = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a new, empty operation registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		maxEntries:  DefaultMaxEntries,
		dedupWindow: DefaultDedupWindow,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start begins a new operation. Accumulated log entries are preserved (only
// ClearLogs wipes them); progress and the terminal error are reset. The
// operation is streaming when an operation id is supplied.
func (r *Registry) Start(kind Kind, subject, sizeHint, operationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.op = &Operation{
		Kind:        kind,
		Subject:     subject,
		SubjectSize: sizeHint,
		ID:          operationID,
		Running:     true,
		Streaming:   operationID != "",
		StartedAt:   r.now(),
	}
	r.progress = nil
}

// SetOperationID attaches a late-bound correlation id and marks the
// operation as streaming.
func (r *Registry) SetOperationID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.op == nil {
		return
	}

	r.op.ID = id
	r.op.Streaming = true
}

// SetStreaming toggles the streaming flag independently of the id.
func (r *Registry) SetStreaming(streaming bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.op == nil {
		return
	}

	r.op.Streaming = streaming
}

// UpdateProgress replaces the current progress snapshot wholesale.
func (r *Registry) UpdateProgress(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = &p
}

// AddLog appends an entry to the operation log. An entry whose message
// repeats the immediately preceding entry's within the dedup window is
// dropped entirely. The entry id and timestamp are generated when absent,
// and the oldest entries are evicted once the bound is exceeded.
func (r *Registry) AddLog(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = r.now()
	}

	if n := len(r.entries); n > 0 {
		last := r.entries[n-1]
		if last.Message == e.Message && e.Timestamp.Sub(last.Timestamp) < r.dedupWindow {
			return
		}
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	r.entries = append(r.entries, e)

	if over := len(r.entries) - r.maxEntries; over > 0 {
		r.entries = append(r.entries[:0:0], r.entries[over:]...)
	}
}

// ClearLogs empties the operation log. Operation and progress state are
// untouched.
func (r *Registry) ClearLogs() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
}

// Finish marks the operation as no longer running or streaming. On failure
// the message becomes the operation's terminal error. Logs and the subject
// are untouched.
func (r *Registry) Finish(success bool, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.op == nil {
		return
	}

	r.op.Running = false
	r.op.Streaming = false

	if success {
		r.op.Err = ""
		return
	}

	r.op.Err = errMsg
}

// Reset clears the operation, logs and progress entirely.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.op = nil
	r.entries = nil
	r.progress = nil
}

// Operation returns a copy of the current operation. The second return
// value is false when no operation has been started since the last Reset.
func (r *Registry) Operation() (Operation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.op == nil {
		return Operation{}, false
	}

	return *r.op, true
}

// Entries returns a copy of the operation log in insertion order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}

// Progress returns a copy of the latest progress snapshot. The second
// return value is false when no snapshot has been recorded.
func (r *Registry) Progress() (Progress, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return Progress{}, false
	}

	return *r.progress, true
}
