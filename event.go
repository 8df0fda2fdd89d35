// Copyright 2025 The TaskStream Authors
// SPDX-License-Identifier: Apache-2.0

package taskstream

import (
	"fmt"
	"time"
)

// EventKind identifies the kind of a stream event. The values double as the
// wire event names emitted by the transport bridge.
type EventKind string

const (
	// EventKindStatus is a lifecycle status transition.
	EventKindStatus EventKind = "statusUpdate"
	// EventKindContent is a content-bearing message with parts.
	EventKindContent EventKind = "agent_parts"
	// EventKindArtifact is a named, addressable deliverable.
	EventKindArtifact EventKind = "artifactUpdate"
	// EventKindEndOfStream marks the logical end of a task's event sequence.
	EventKindEndOfStream EventKind = "end"
)

// Event is one unit of streamed information about a task's progress.
// Exactly four kinds exist: status, content, artifact, and end-of-stream.
// The union is closed; the transport bridge matches on it exhaustively.
type Event interface {
	// GetEventKind returns the event kind for type discrimination.
	GetEventKind() EventKind
	// GetTaskID returns the task ID associated with this event.
	GetTaskID() string
	// GetContextID returns the context ID associated with this event.
	GetContextID() string
}

// Ensure the concrete event types implement Event.
var (
	_ Event = (*StatusEvent)(nil)
	_ Event = (*ContentEvent)(nil)
	_ Event = (*ArtifactEvent)(nil)
	_ Event = (*EndOfStreamEvent)(nil)
)

// StatusEvent carries a task lifecycle state transition. It is state-only:
// the type has no parts field, so a status update can never smuggle content.
type StatusEvent struct {
	TaskID    string    `json:"task_id"`
	ContextID string    `json:"context_id"`
	State     TaskState `json:"state"`
	Message   string    `json:"message,omitzero"`
	Timestamp string    `json:"timestamp"`
}

// NewStatusEvent creates a status event for the given task and state.
// The message is optional human-readable context and may be empty.
func NewStatusEvent(taskID, contextID string, state TaskState, message string) *StatusEvent {
	return &StatusEvent{
		TaskID:    taskID,
		ContextID: contextID,
		State:     state,
		Message:   message,
		Timestamp: now(),
	}
}

// GetEventKind returns the event kind.
func (e *StatusEvent) GetEventKind() EventKind { return EventKindStatus }

// GetTaskID returns the task ID.
func (e *StatusEvent) GetTaskID() string { return e.TaskID }

// GetContextID returns the context ID.
func (e *StatusEvent) GetContextID() string { return e.ContextID }

// Validate ensures the StatusEvent is valid.
func (e *StatusEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("status event task ID cannot be empty")
	}
	if err := e.State.Validate(); err != nil {
		return err
	}
	return nil
}

// ContentEvent carries streamed content fragments. Parts is always non-empty;
// the type has no state field, so content can never masquerade as a
// lifecycle signal.
type ContentEvent struct {
	TaskID    string `json:"task_id"`
	ContextID string `json:"context_id"`
	Role      Role   `json:"role"`
	Parts     Parts  `json:"parts"`
	Timestamp string `json:"timestamp"`
}

// NewContentEvent creates a content event with the given role and parts.
func NewContentEvent(taskID, contextID string, role Role, parts Parts) *ContentEvent {
	return &ContentEvent{
		TaskID:    taskID,
		ContextID: contextID,
		Role:      role,
		Parts:     parts,
		Timestamp: now(),
	}
}

// NewAgentTextEvent creates an assistant content event with a single text part.
func NewAgentTextEvent(taskID, contextID, text string) *ContentEvent {
	return NewContentEvent(taskID, contextID, RoleAssistant, Parts{NewTextPart(text)})
}

// GetEventKind returns the event kind.
func (e *ContentEvent) GetEventKind() EventKind { return EventKindContent }

// GetTaskID returns the task ID.
func (e *ContentEvent) GetTaskID() string { return e.TaskID }

// GetContextID returns the context ID.
func (e *ContentEvent) GetContextID() string { return e.ContextID }

// Validate ensures the ContentEvent is valid.
func (e *ContentEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("content event task ID cannot be empty")
	}
	if err := e.Role.Validate(); err != nil {
		return err
	}
	return e.Parts.Validate()
}

// ArtifactEvent delivers a named, addressable artifact produced by the task,
// distinct from transient streamed content.
type ArtifactEvent struct {
	TaskID     string         `json:"task_id"`
	ContextID  string         `json:"context_id"`
	ArtifactID string         `json:"artifact_id"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
	Timestamp  string         `json:"timestamp"`
}

// NewArtifactEvent creates an artifact event. A nil metadata map is
// normalized to an empty map so the wire payload always carries the field.
func NewArtifactEvent(taskID, contextID, artifactID, content string, metadata map[string]any) *ArtifactEvent {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &ArtifactEvent{
		TaskID:     taskID,
		ContextID:  contextID,
		ArtifactID: artifactID,
		Content:    content,
		Metadata:   metadata,
		Timestamp:  now(),
	}
}

// GetEventKind returns the event kind.
func (e *ArtifactEvent) GetEventKind() EventKind { return EventKindArtifact }

// GetTaskID returns the task ID.
func (e *ArtifactEvent) GetTaskID() string { return e.TaskID }

// GetContextID returns the context ID.
func (e *ArtifactEvent) GetContextID() string { return e.ContextID }

// Validate ensures the ArtifactEvent is valid.
func (e *ArtifactEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("artifact event task ID cannot be empty")
	}
	if e.ArtifactID == "" {
		return fmt.Errorf("artifact event artifact ID cannot be empty")
	}
	return nil
}

// EndOfStreamEvent is the sentinel marking that no further events will arrive
// for a task. Its wire payload is empty; the IDs exist only for in-process
// routing and are excluded from serialization.
type EndOfStreamEvent struct {
	TaskID    string `json:"-"`
	ContextID string `json:"-"`
}

// NewEndOfStreamEvent creates the end-of-stream sentinel for a task.
func NewEndOfStreamEvent(taskID, contextID string) *EndOfStreamEvent {
	return &EndOfStreamEvent{TaskID: taskID, ContextID: contextID}
}

// GetEventKind returns the event kind.
func (e *EndOfStreamEvent) GetEventKind() EventKind { return EventKindEndOfStream }

// GetTaskID returns the task ID.
func (e *EndOfStreamEvent) GetTaskID() string { return e.TaskID }

// GetContextID returns the context ID.
func (e *EndOfStreamEvent) GetContextID() string { return e.ContextID }

// IsFinalEvent reports whether the event terminates a task's stream.
// Only the end-of-stream sentinel is final; a terminal StatusEvent is always
// followed by the sentinel, which is the single authoritative end marker.
func IsFinalEvent(event Event) bool {
	_, ok := event.(*EndOfStreamEvent)
	return ok
}

// now returns the event timestamp in RFC 3339 UTC form.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
