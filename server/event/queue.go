// Copyright 2025 The TaskStream Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"sync"

	"github.com/taskstream/taskstream"
)

// DefaultQueueSize is the default queue capacity.
const DefaultQueueSize = 1024

// Queue is an ordered FIFO of task events shared by one producer and one
// bridge. FIFO order is the only ordering guarantee: no priority, no
// coalescing. The queue is bounded; overflow is reported explicitly with
// ErrQueueFull rather than blocking the producer indefinitely.
type Queue struct {
	events chan taskstream.Event
	size   int

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewQueue creates a queue with the given capacity.
// A capacity of 0 selects DefaultQueueSize.
func NewQueue(size int) (*Queue, error) {
	if size < 0 {
		return nil, ErrInvalidQueueSize
	}
	if size == 0 {
		size = DefaultQueueSize
	}

	return &Queue{
		events: make(chan taskstream.Event, size),
		size:   size,
		done:   make(chan struct{}),
	}, nil
}

// Enqueue appends an event to the tail of the queue. It never blocks beyond
// scheduling: a full queue yields ErrQueueFull and a closed queue yields
// ErrQueueClosed.
func (q *Queue) Enqueue(ctx context.Context, ev taskstream.Event) error {
	if ev == nil {
		return ErrNilEvent
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue removes and returns the head of the queue in enqueue order.
// With noWait set it returns immediately, yielding ErrQueueEmpty when there
// is nothing buffered. Otherwise it blocks until an event is available, the
// context is cancelled, or the queue is closed and drained.
func (q *Queue) Dequeue(ctx context.Context, noWait bool) (taskstream.Event, error) {
	if noWait {
		select {
		case ev := <-q.events:
			return ev, nil
		default:
			if q.IsClosed() {
				return nil, ErrQueueClosed
			}
			return nil, ErrQueueEmpty
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev := <-q.events:
		return ev, nil
	case <-q.done:
		// Closed; drain any residue before reporting closure.
		select {
		case ev := <-q.events:
			return ev, nil
		default:
			return nil, ErrQueueClosed
		}
	}
}

// Close marks the queue closed. Pending events remain dequeueable; further
// enqueues fail with ErrQueueClosed. Close is idempotent.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		defer q.mu.Unlock()

		q.closed = true
		close(q.done)
	})
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// IsEmpty reports whether the queue currently buffers no events. It is a
// liveness hint only: under concurrent access the answer may be stale by the
// time the caller acts on it.
func (q *Queue) IsEmpty() bool {
	return len(q.events) == 0
}

// Len returns the number of currently buffered events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return q.size
}
