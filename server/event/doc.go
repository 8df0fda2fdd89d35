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

// Package event provides the shared ordered event channel between a task's
// producer and the transport bridge draining it.
//
// A [Queue] is a FIFO of [taskstream.Event] values with blocking and
// non-blocking dequeue. Exactly one producer and one bridge share a queue.
// Once the end-of-stream sentinel has been enqueued the owner closes the
// queue; later enqueues fail with [ErrQueueClosed] instead of silently
// succeeding, and dequeues drain the residue before reporting closure.
//
// A [Consumer] wraps a queue with the bridge-side drain loop: every dequeue
// wait is bounded so the bridge can periodically re-check whether the
// producer has finished, which guarantees the bridge never hangs on a
// producer that exits without terminating its task.
//
// A [Manager] tracks the live queue for each task so the producer and the
// bridge, which are wired independently, can meet on the same channel.
package event
