// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package taskstream defines the event model for streaming the output of an
// asynchronous task to a remote observer. A task's progress is expressed as an
// ordered sequence of heterogeneous events: lifecycle status transitions,
// incremental content fragments, artifact deliveries, and a final
// end-of-stream sentinel.
//
// The package deliberately separates state-only lifecycle events from
// content-bearing events: a [StatusEvent] carries a [TaskState] and never
// content parts, while a [ContentEvent] always carries a non-empty ordered
// list of parts and never a state. Consumers can therefore distinguish
// machine-actionable lifecycle signals from human-facing content without
// inspecting payload shape.
package taskstream

import "fmt"

// TaskState represents the lifecycle state of a task.
type TaskState string

const (
	// TaskStatePending is the initial state of every task.
	TaskStatePending TaskState = "pending"
	// TaskStateWorking indicates the task is actively being processed.
	TaskStateWorking TaskState = "working"
	// TaskStateCompleted indicates the task finished successfully. Terminal.
	TaskStateCompleted TaskState = "completed"
	// TaskStateFailed indicates the task finished with an error. Terminal.
	TaskStateFailed TaskState = "failed"
	// TaskStateCancelled indicates the task was cancelled. Terminal.
	TaskStateCancelled TaskState = "cancelled"
)

// IsTerminal reports whether the state is a terminal lifecycle state.
// No transition is defined out of a terminal state.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateCompleted || s == TaskStateFailed || s == TaskStateCancelled
}

// Validate ensures the state is a known lifecycle value.
func (s TaskState) Validate() error {
	switch s {
	case TaskStatePending, TaskStateWorking, TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
		return nil
	default:
		return fmt.Errorf("unknown task state %q", string(s))
	}
}

// Role identifies the author of a content event.
type Role string

const (
	// RoleUser marks content originating from the requesting user.
	RoleUser Role = "user"
	// RoleAssistant marks content produced by the agent.
	RoleAssistant Role = "assistant"
	// RoleSystem marks content synthesized by the system itself.
	RoleSystem Role = "system"
)

// Validate ensures the role is a known value.
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return nil
	default:
		return fmt.Errorf("unknown role %q", string(r))
	}
}
