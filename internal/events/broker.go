// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package events

import (
	"sync"
	"time"
)

// DefaultBuffer is the per-subscription channel buffer.
const DefaultBuffer = 128

// OutputEvent is one line of flasher output.
type OutputEvent struct {
	OperationID string    // Correlation token of the operation that produced the line
	Line        string    // The line, trimmed, never empty
	Timestamp   time.Time // When the line was read from the pipe
	IsStderr    bool      // True when the line came from stderr
}

// CompleteEvent signals that the flasher process finished.
type CompleteEvent struct {
	OperationID string // Correlation token of the finished operation
	Success     bool   // True on a zero exit status
	Error       string // Failure description, empty on success
}

// Subscription is a cancellable, buffered receiver for one event type.
// After Cancel returns, no further events are delivered, including any
// still queued in the buffer.
type Subscription[T any] struct {
	mu        sync.Mutex
	ch        chan T
	cancelled bool
	remove    func()
}

// Events returns the receive channel. It is closed by Cancel.
func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Cancel detaches the subscription. Queued, undelivered events are
// discarded before the channel is closed, so a consumer draining the
// channel after Cancel observes nothing further.
func (s *Subscription[T]) Cancel() {
	s.mu.Lock()

	if s.cancelled {
		s.mu.Unlock()
		return
	}

	s.cancelled = true

	for {
		select {
		case <-s.ch:
		default:
			close(s.ch)
			s.mu.Unlock()
			s.remove()

			return
		}
	}
}

// deliver enqueues an event unless the subscription is cancelled or full.
func (s *Subscription[T]) deliver(e T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return
	}

	select {
	case s.ch <- e:
	default:
	}
}

// Broker fans events out to subscribers. The zero value is not usable;
// use NewBroker.
type Broker struct {
	mu       sync.Mutex
	buffer   int
	output   map[*Subscription[OutputEvent]]struct{}
	complete map[*Subscription[CompleteEvent]]struct{}
}

// BrokerOption implements a functional options pattern for Broker.
type BrokerOption func(*Broker)

// WithBuffer overrides the per-subscription channel buffer.
func WithBuffer(n int) BrokerOption {
	return func(b *Broker) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// NewBroker creates an empty broker.
func NewBroker(opts ...BrokerOption) *Broker {
	b := &Broker{
		buffer:   DefaultBuffer,
		output:   make(map[*Subscription[OutputEvent]]struct{}),
		complete: make(map[*Subscription[CompleteEvent]]struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// SubscribeOutput registers a new output-line subscription.
func (b *Broker) SubscribeOutput() *Subscription[OutputEvent] {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Subscription[OutputEvent]{ch: make(chan OutputEvent, b.buffer)}
	s.remove = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.output, s)
	}
	b.output[s] = struct{}{}

	return s
}

// SubscribeComplete registers a new completion subscription.
func (b *Broker) SubscribeComplete() *Subscription[CompleteEvent] {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Subscription[CompleteEvent]{ch: make(chan CompleteEvent, b.buffer)}
	s.remove = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.complete, s)
	}
	b.complete[s] = struct{}{}

	return s
}

// PublishOutput delivers an output event to every output subscriber.
func (b *Broker) PublishOutput(e OutputEvent) {
	for _, s := range b.outputSnapshot() {
		s.deliver(e)
	}
}

// PublishComplete delivers a completion event to every completion
// subscriber.
func (b *Broker) PublishComplete(e CompleteEvent) {
	for _, s := range b.completeSnapshot() {
		s.deliver(e)
	}
}

func (b *Broker) outputSnapshot() []*Subscription[OutputEvent] {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Subscription[OutputEvent], 0, len(b.output))
	for s := range b.output {
		out = append(out, s)
	}

	return out
}

func (b *Broker) completeSnapshot() []*Subscription[CompleteEvent] {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Subscription[CompleteEvent], 0, len(b.complete))
	for s := range b.complete {
		out = append(out, s)
	}

	return out
}
