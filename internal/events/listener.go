// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package events

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/matt-FFFFFF/penumbra/internal/ctxlog"
	"github.com/matt-FFFFFF/penumbra/internal/oplog"
)

// ListenerState tracks the listener's subscription lifecycle.
type ListenerState int

const (
	// StateUnsubscribed means the listener holds no subscriptions.
	StateUnsubscribed ListenerState = iota
	// StateSubscribing means Attach is in progress.
	StateSubscribing
	// StateSubscribed means both subscriptions are live.
	StateSubscribed
)

var (
	percentRe = regexp.MustCompile(`(\d{1,3})(?:\.\d+)?%`)
	ratioRe   = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
)

// Listener subscribes to the broker and feeds the operation registry:
// output lines become classified log entries and progress snapshots,
// completion events finish the current operation. One listener per
// registry; Attach is idempotent.
type Listener struct {
	mu       sync.Mutex
	state    ListenerState
	broker   *Broker
	registry *oplog.Registry
	output   *Subscription[OutputEvent]
	complete *Subscription[CompleteEvent]
	wg       sync.WaitGroup
}

// NewListener creates a Listener for the given broker and registry.
func NewListener(broker *Broker, registry *oplog.Registry) *Listener {
	return &Listener{
		broker:   broker,
		registry: registry,
	}
}

// State returns the current lifecycle state.
func (l *Listener) State() ListenerState {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state
}

// Attach subscribes to both event streams and starts consuming. Calling
// Attach while already subscribed is a no-op.
func (l *Listener) Attach(ctx context.Context) {
	l.mu.Lock()

	if l.state != StateUnsubscribed {
		l.mu.Unlock()

		ctxlog.Debug(ctx, "listener already attached")

		return
	}

	l.state = StateSubscribing
	l.output = l.broker.SubscribeOutput()
	l.complete = l.broker.SubscribeComplete()
	l.state = StateSubscribed
	l.mu.Unlock()

	ctxlog.Debug(ctx, "listener attached")

	l.wg.Add(2)

	go l.consumeOutput(ctx)
	go l.consumeComplete(ctx)
}

// Close cancels both subscriptions and waits for the consumers to drain.
func (l *Listener) Close() {
	l.mu.Lock()

	if l.state == StateUnsubscribed {
		l.mu.Unlock()
		return
	}

	output, complete := l.output, l.complete
	l.state = StateUnsubscribed
	l.mu.Unlock()

	output.Cancel()
	complete.Cancel()
	l.wg.Wait()
}

func (l *Listener) consumeOutput(ctx context.Context) {
	defer l.wg.Done()

	for e := range l.output.Events() {
		l.registry.AddLog(oplog.Entry{
			Timestamp: e.Timestamp,
			Level:     classifyLine(e.Line, e.IsStderr),
			Message:   e.Line,
		})

		if p, ok := l.parseProgress(e.Line); ok {
			l.registry.UpdateProgress(p)
		}
	}

	ctxlog.Debug(ctx, "output subscription closed")
}

func (l *Listener) consumeComplete(ctx context.Context) {
	defer l.wg.Done()

	for e := range l.complete.Events() {
		// The completion applies to whatever operation is current. The
		// operation id is not verified against the event's; a stale
		// completion from a replaced operation lands on the replacement.
		l.registry.Finish(e.Success, e.Error)

		ctxlog.Debug(ctx, "operation completed",
			"operation_id", e.OperationID,
			"success", e.Success,
		)
	}
}

// classifyLine derives a log level from the line text. Keyword checks run
// first; an unmatched stderr line defaults to error.
func classifyLine(line string, isStderr bool) oplog.Level {
	lower := strings.ToLower(line)

	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "failed"):
		return oplog.LevelError
	case strings.Contains(lower, "warning") || strings.Contains(lower, "warn"):
		return oplog.LevelWarning
	case strings.Contains(lower, "success") || strings.Contains(lower, "complete") || strings.Contains(lower, "found"):
		return oplog.LevelSuccess
	case isStderr:
		return oplog.LevelError
	default:
		return oplog.LevelInfo
	}
}

// parseProgress extracts a progress snapshot from an in-place progress
// bar line. A percentage is required; a current/total ratio is optional.
func (l *Listener) parseProgress(line string) (oplog.Progress, bool) {
	m := percentRe.FindStringSubmatch(line)
	if m == nil {
		return oplog.Progress{}, false
	}

	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil || pct > 100 {
		return oplog.Progress{}, false
	}

	p := oplog.Progress{Percentage: pct}

	if rm := ratioRe.FindStringSubmatch(line); rm != nil {
		p.Current, _ = strconv.ParseInt(rm[1], 10, 64)
		p.Total, _ = strconv.ParseInt(rm[2], 10, 64)
	}

	if op, ok := l.registry.Operation(); ok {
		p.Subject = op.Subject
		p.Kind = op.Kind
	}

	return p, true
}
