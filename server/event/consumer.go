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
	"errors"
	"sync"
	"time"

	"github.com/taskstream/taskstream"
)

// DefaultWaitTimeout bounds a single dequeue wait inside the drain loop.
const DefaultWaitTimeout = 2 * time.Second

// Consumer drains a queue on behalf of the transport bridge. Each dequeue
// wait is bounded by a timeout; on every timeout the consumer re-checks
// whether the producer has finished, so a producer that exits without
// enqueueing the end-of-stream sentinel cannot leave the bridge hanging.
type Consumer struct {
	queue   *Queue
	timeout time.Duration

	mu           sync.RWMutex
	producerDone <-chan struct{}
	producerErr  error
}

// NewConsumer creates a consumer for the given queue.
func NewConsumer(queue *Queue) *Consumer {
	return &Consumer{
		queue:   queue,
		timeout: DefaultWaitTimeout,
	}
}

// SetWaitTimeout overrides the bounded-wait timeout.
func (c *Consumer) SetWaitTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timeout > 0 {
		c.timeout = timeout
	}
}

// WatchProducer registers the producer's done signal. Once the signal fires
// and the queue is empty, the drain loop stops waiting for further events.
func (c *Consumer) WatchProducer(done <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.producerDone = done
}

// SetProducerError records an error raised by the producer's execution.
func (c *Consumer) SetProducerError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.producerErr = err
}

// ProducerError returns the error recorded from the producer, if any.
func (c *Consumer) ProducerError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.producerErr
}

// ConsumeOne attempts a single non-blocking dequeue.
func (c *Consumer) ConsumeOne(ctx context.Context) (taskstream.Event, error) {
	return c.queue.Dequeue(ctx, true)
}

// ConsumeAll returns a channel yielding events in enqueue order. The channel
// closes after the end-of-stream sentinel has been delivered, when the queue
// is closed and drained, when the producer is done and no events remain, or
// when ctx is cancelled. The caller distinguishes a clean end from an
// abandoned stream by whether the sentinel was observed before closure.
func (c *Consumer) ConsumeAll(ctx context.Context) <-chan taskstream.Event {
	events := make(chan taskstream.Event)

	go func() {
		defer close(events)

		for {
			waitCtx, cancel := context.WithTimeout(ctx, c.waitTimeout())
			ev, err := c.queue.Dequeue(waitCtx, false)
			cancel()

			if err != nil {
				switch {
				case errors.Is(err, context.DeadlineExceeded):
					if c.producerFinished() && c.queue.IsEmpty() {
						return
					}
					continue
				case errors.Is(err, ErrQueueClosed):
					return
				default:
					// Parent context cancelled or another dequeue failure.
					return
				}
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}

			if taskstream.IsFinalEvent(ev) {
				_ = c.queue.Close()
				return
			}
		}
	}()

	return events
}

func (c *Consumer) waitTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

func (c *Consumer) producerFinished() bool {
	c.mu.RLock()
	done := c.producerDone
	c.mu.RUnlock()

	if done == nil {
		return false
	}
	select {
	case <-done:
		return true
	default:
		return false
	}
}
