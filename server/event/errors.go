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

import "errors"

var (
	// ErrQueueClosed is returned when enqueueing to a closed queue, or when
	// dequeueing from a closed queue that has been fully drained.
	ErrQueueClosed = errors.New("event queue is closed")

	// ErrQueueEmpty is returned by a non-blocking dequeue on an empty queue.
	ErrQueueEmpty = errors.New("event queue is empty")

	// ErrQueueFull is returned when enqueueing to a queue at capacity.
	ErrQueueFull = errors.New("event queue is full")

	// ErrInvalidQueueSize is returned when creating a queue with a negative
	// capacity.
	ErrInvalidQueueSize = errors.New("queue size must not be negative")

	// ErrNilEvent is returned when enqueueing a nil event. The end of a
	// stream is signalled by the explicit sentinel, never by nil.
	ErrNilEvent = errors.New("event cannot be nil")
)
