// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroker_PublishOutput(t *testing.T) {
	b := NewBroker()
	sub := b.SubscribeOutput()
	defer sub.Cancel()

	b.PublishOutput(OutputEvent{OperationID: "op-1", Line: "hello"})

	e := <-sub.Events()
	assert.Equal(t, "op-1", e.OperationID)
	assert.Equal(t, "hello", e.Line)
}

func TestBroker_PublishComplete(t *testing.T) {
	b := NewBroker()
	sub := b.SubscribeComplete()
	defer sub.Cancel()

	b.PublishComplete(CompleteEvent{OperationID: "op-1", Success: false, Error: "boom"})

	e := <-sub.Events()
	assert.False(t, e.Success)
	assert.Equal(t, "boom", e.Error)
}

func TestBroker_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	b := NewBroker()

	b.PublishOutput(OutputEvent{Line: "nobody listening"})
	b.PublishComplete(CompleteEvent{Success: true})
}

func TestBroker_FullSubscriberDropsEvents(t *testing.T) {
	b := NewBroker(WithBuffer(1))
	sub := b.SubscribeOutput()
	defer sub.Cancel()

	b.PublishOutput(OutputEvent{Line: "first"})
	b.PublishOutput(OutputEvent{Line: "second"})

	e := <-sub.Events()
	assert.Equal(t, "first", e.Line)

	select {
	case e := <-sub.Events():
		t.Fatalf("expected second event to be dropped, got %q", e.Line)
	default:
	}
}

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker()
	sub1 := b.SubscribeOutput()
	sub2 := b.SubscribeOutput()
	defer sub1.Cancel()
	defer sub2.Cancel()

	b.PublishOutput(OutputEvent{Line: "both"})

	assert.Equal(t, "both", (<-sub1.Events()).Line)
	assert.Equal(t, "both", (<-sub2.Events()).Line)
}

func TestSubscription_CancelSuppressesQueued(t *testing.T) {
	b := NewBroker()
	sub := b.SubscribeOutput()

	b.PublishOutput(OutputEvent{Line: "queued 1"})
	b.PublishOutput(OutputEvent{Line: "queued 2"})

	sub.Cancel()

	_, open := <-sub.Events()
	assert.False(t, open, "queued events must not be delivered after Cancel")
}

func TestSubscription_CancelIdempotent(t *testing.T) {
	b := NewBroker()
	sub := b.SubscribeComplete()

	sub.Cancel()
	sub.Cancel()
}

func TestSubscription_PublishAfterCancel(t *testing.T) {
	b := NewBroker()
	sub := b.SubscribeOutput()
	sub.Cancel()

	b.PublishOutput(OutputEvent{Line: "late"})

	_, open := <-sub.Events()
	require.False(t, open)
}
