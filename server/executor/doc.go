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

// Package executor defines the producer side of a task stream.
//
// An [Executor] performs the actual work for a request. It writes content
// events into the shared queue directly, publishes artifacts through the
// lifecycle updater, and terminates the task by calling exactly one of the
// updater's Complete or Fail operations.
//
// [Run] is the outermost execution boundary. It recovers panics, routes any
// failure into the updater's Fail path so the stream always reaches its
// end-of-stream sentinel, and then reports the original error back to the
// caller.
package executor
