// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

// Package task owns the lifecycle of a streamed task: the updater that is the
// only component allowed to emit lifecycle and terminal events, and the store
// that persists finished task records.
package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/taskstream/taskstream"
	"github.com/taskstream/taskstream/server/event"
)

// Updater is the single writer of lifecycle events for one task. It owns the
// authoritative current state, rejects illegal transitions, and terminates
// the task's event stream exactly once.
type Updater interface {
	// UpdateStatus moves the task to a new lifecycle state and publishes a
	// status event. The message is optional human-readable context.
	UpdateStatus(ctx context.Context, state taskstream.TaskState, message string) error

	// StartWork marks the task as working.
	StartWork(ctx context.Context, message string) error

	// AddArtifact publishes a named, addressable artifact. Artifacts may be
	// added any number of times before the task terminates.
	AddArtifact(ctx context.Context, artifactID, content string, metadata map[string]any) error

	// Complete terminates the task successfully: a completed status event
	// followed by the end-of-stream sentinel. At most once per task.
	Complete(ctx context.Context, message string) error

	// Fail terminates the task with a failure: a failed status event, an
	// optional system-role error message, then the sentinel. At most once
	// per task and never together with Complete.
	Fail(ctx context.Context, errMessage string) error

	// Cancel terminates the task as cancelled, for externally-aborted work.
	Cancel(ctx context.Context, message string) error

	// CurrentState returns the task's current lifecycle state.
	CurrentState() taskstream.TaskState

	// IsTerminal reports whether the task has reached a terminal state.
	IsTerminal() bool

	// ArtifactCount returns the number of artifacts published so far.
	ArtifactCount() int

	// GetTaskID returns the task ID this updater owns.
	GetTaskID() string

	// GetContextID returns the context ID this updater owns.
	GetContextID() string
}

// UpdaterConfig holds the identity and channel for a new updater.
type UpdaterConfig struct {
	TaskID    string
	ContextID string
	Queue     *event.Queue
}

// LifecycleUpdater is the default Updater implementation. Mutating calls are
// serialized internally, so a producer may invoke it from helper goroutines
// without external locking.
type LifecycleUpdater struct {
	taskID    string
	contextID string
	queue     *event.Queue

	mu        sync.Mutex
	state     taskstream.TaskState
	artifacts int
}

var _ Updater = (*LifecycleUpdater)(nil)

// NewUpdater creates a lifecycle updater in the pending state.
func NewUpdater(config UpdaterConfig) (*LifecycleUpdater, error) {
	if config.TaskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}
	if config.ContextID == "" {
		return nil, fmt.Errorf("context ID cannot be empty")
	}
	if config.Queue == nil {
		return nil, fmt.Errorf("event queue cannot be nil")
	}

	return &LifecycleUpdater{
		taskID:    config.TaskID,
		contextID: config.ContextID,
		queue:     config.Queue,
		state:     taskstream.TaskStatePending,
	}, nil
}

// canTransition reports whether the lifecycle permits moving from one state
// to another. The permitted shape is pending* working* followed by exactly
// one terminal state; nothing leaves a terminal state, and a started task
// cannot return to pending.
func canTransition(from, to taskstream.TaskState) bool {
	if from.IsTerminal() {
		return false
	}
	if to == taskstream.TaskStatePending {
		return from == taskstream.TaskStatePending
	}
	return true
}

// UpdateStatus moves the task to a new lifecycle state and publishes a
// status event. Illegal transitions are rejected with an
// InvalidTransitionError; the state is only committed once the event has
// been enqueued.
func (u *LifecycleUpdater) UpdateStatus(ctx context.Context, state taskstream.TaskState, message string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.updateStatusLocked(ctx, state, message)
}

func (u *LifecycleUpdater) updateStatusLocked(ctx context.Context, state taskstream.TaskState, message string) error {
	if err := state.Validate(); err != nil {
		return NewUpdaterError("update_status", u.taskID, err)
	}
	if !canTransition(u.state, state) {
		return NewInvalidTransitionError(u.taskID, u.state, state)
	}

	ev := taskstream.NewStatusEvent(u.taskID, u.contextID, state, message)
	if err := u.queue.Enqueue(ctx, ev); err != nil {
		return NewUpdaterError("update_status", u.taskID, err)
	}

	u.state = state
	return nil
}

// StartWork marks the task as working.
func (u *LifecycleUpdater) StartWork(ctx context.Context, message string) error {
	return u.UpdateStatus(ctx, taskstream.TaskStateWorking, message)
}

// AddArtifact publishes a named, addressable artifact.
func (u *LifecycleUpdater) AddArtifact(ctx context.Context, artifactID, content string, metadata map[string]any) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state.IsTerminal() {
		return NewInvalidTransitionError(u.taskID, u.state, u.state)
	}

	ev := taskstream.NewArtifactEvent(u.taskID, u.contextID, artifactID, content, metadata)
	if err := ev.Validate(); err != nil {
		return NewUpdaterError("add_artifact", u.taskID, err)
	}
	if err := u.queue.Enqueue(ctx, ev); err != nil {
		return NewUpdaterError("add_artifact", u.taskID, err)
	}

	u.artifacts++
	return nil
}

// Complete terminates the task successfully.
func (u *LifecycleUpdater) Complete(ctx context.Context, message string) error {
	return u.terminate(ctx, taskstream.TaskStateCompleted, message)
}

// Fail terminates the task with a failure. A non-empty errMessage is also
// surfaced to observers as a system-role content event, so human-facing
// clients see the error without parsing lifecycle payloads.
func (u *LifecycleUpdater) Fail(ctx context.Context, errMessage string) error {
	var escort []taskstream.Event
	if errMessage != "" {
		escort = append(escort, taskstream.NewContentEvent(
			u.taskID, u.contextID, taskstream.RoleSystem,
			taskstream.Parts{taskstream.NewTextPart("Error: " + errMessage)},
		))
	}
	return u.terminate(ctx, taskstream.TaskStateFailed, errMessage, escort...)
}

// Cancel terminates the task as cancelled.
func (u *LifecycleUpdater) Cancel(ctx context.Context, message string) error {
	return u.terminate(ctx, taskstream.TaskStateCancelled, message)
}

// terminate publishes the terminal status event, any escorting events, and
// the end-of-stream sentinel, then closes the queue so later enqueues fail
// explicitly rather than silently extending a finished stream.
func (u *LifecycleUpdater) terminate(ctx context.Context, state taskstream.TaskState, message string, escort ...taskstream.Event) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.updateStatusLocked(ctx, state, message); err != nil {
		return err
	}

	for _, ev := range escort {
		if err := u.queue.Enqueue(ctx, ev); err != nil {
			return NewUpdaterError("terminate", u.taskID, err)
		}
	}

	sentinel := taskstream.NewEndOfStreamEvent(u.taskID, u.contextID)
	if err := u.queue.Enqueue(ctx, sentinel); err != nil {
		return NewUpdaterError("terminate", u.taskID, err)
	}

	return u.queue.Close()
}

// CurrentState returns the task's current lifecycle state.
func (u *LifecycleUpdater) CurrentState() taskstream.TaskState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// IsTerminal reports whether the task has reached a terminal state.
func (u *LifecycleUpdater) IsTerminal() bool {
	return u.CurrentState().IsTerminal()
}

// ArtifactCount returns the number of artifacts published so far.
func (u *LifecycleUpdater) ArtifactCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.artifacts
}

// GetTaskID returns the task ID this updater owns.
func (u *LifecycleUpdater) GetTaskID() string {
	return u.taskID
}

// GetContextID returns the context ID this updater owns.
func (u *LifecycleUpdater) GetContextID() string {
	return u.contextID
}
