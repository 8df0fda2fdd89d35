// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"errors"
	"fmt"

	"github.com/taskstream/taskstream"
)

// ErrInvalidTransition is the sentinel wrapped by every
// InvalidTransitionError, so callers can test with errors.Is.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// InvalidTransitionError reports an attempt to move a task's lifecycle to a
// state the current state does not permit, such as any update after a
// terminal state.
type InvalidTransitionError struct {
	TaskID string
	From   taskstream.TaskState
	To     taskstream.TaskState
}

// Error returns the error message.
func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("task %s: invalid lifecycle transition %s -> %s", e.TaskID, e.From, e.To)
}

// Unwrap returns ErrInvalidTransition.
func (e InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewInvalidTransitionError creates a new InvalidTransitionError.
func NewInvalidTransitionError(taskID string, from, to taskstream.TaskState) InvalidTransitionError {
	return InvalidTransitionError{TaskID: taskID, From: from, To: to}
}

// UpdaterError represents a failure inside a lifecycle updater operation.
type UpdaterError struct {
	Operation string
	TaskID    string
	Err       error
}

// Error returns the error message.
func (e UpdaterError) Error() string {
	return fmt.Sprintf("updater %s failed for task %s: %v", e.Operation, e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e UpdaterError) Unwrap() error {
	return e.Err
}

// NewUpdaterError creates a new UpdaterError.
func NewUpdaterError(operation, taskID string, err error) UpdaterError {
	return UpdaterError{Operation: operation, TaskID: taskID, Err: err}
}

// RecordNotFoundError reports that a task record does not exist in the store.
type RecordNotFoundError struct {
	TaskID string
}

// Error returns the error message.
func (e RecordNotFoundError) Error() string {
	return fmt.Sprintf("task record %s not found", e.TaskID)
}

// NewRecordNotFoundError creates a new RecordNotFoundError.
func NewRecordNotFoundError(taskID string) RecordNotFoundError {
	return RecordNotFoundError{TaskID: taskID}
}

// StoreError represents a failure from the task record store.
type StoreError struct {
	Operation string
	TaskID    string
	Err       error
}

// Error returns the error message.
func (e StoreError) Error() string {
	return fmt.Sprintf("store %s failed for task %s: %v", e.Operation, e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, taskID string, err error) StoreError {
	return StoreError{Operation: operation, TaskID: taskID, Err: err}
}
